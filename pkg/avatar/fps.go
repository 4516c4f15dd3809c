package avatar

import "time"

// fpsCounter measures the live frame rate over windows of at least a second.
type fpsCounter struct {
	now    func() time.Time
	start  time.Time
	frames int
	rate   float64
}

func newFPSCounter(now func() time.Time) *fpsCounter {
	return &fpsCounter{now: now, start: now()}
}

func (c *fpsCounter) tick() {
	c.frames++
	c.roll()
}

func (c *fpsCounter) roll() {
	t := c.now()
	elapsed := t.Sub(c.start)
	if elapsed < time.Second {
		return
	}
	c.rate = float64(c.frames) / elapsed.Seconds()
	c.frames = 0
	c.start = t
}

func (c *fpsCounter) value() float64 {
	c.roll()
	return c.rate
}

func (c *fpsCounter) reset() {
	c.frames = 0
	c.rate = 0
	c.start = c.now()
}
