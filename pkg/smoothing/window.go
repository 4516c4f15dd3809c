// Package smoothing implements trailing moving-average smoothing of landmark
// frames. Averaging (Average) is a pure function over the samples a Window
// currently holds; the sliding policy lives in Window and Smoother.
package smoothing

import "github.com/teslashibe/go-avatar/pkg/landmark"

// Window is a fixed-capacity FIFO ring buffer of landmark frames.
type Window struct {
	buf  []landmark.Frame
	head int // index of the oldest sample
	n    int
}

// NewWindow creates an empty window holding at most size samples.
// A size below 1 is treated as 1.
func NewWindow(size int) *Window {
	if size < 1 {
		size = 1
	}
	return &Window{buf: make([]landmark.Frame, size)}
}

// Cap returns the window capacity.
func (w *Window) Cap() int { return len(w.buf) }

// Len returns the number of samples held.
func (w *Window) Len() int { return w.n }

// Full reports whether the window holds Cap samples.
func (w *Window) Full() bool { return w.n == len(w.buf) }

// Push appends a sample. When the window is already full the oldest sample
// is overwritten.
func (w *Window) Push(f landmark.Frame) {
	idx := (w.head + w.n) % len(w.buf)
	w.buf[idx] = f
	if w.n < len(w.buf) {
		w.n++
		return
	}
	w.head = (w.head + 1) % len(w.buf)
}

// Evict drops the oldest sample. It is a no-op on an empty window.
func (w *Window) Evict() {
	if w.n == 0 {
		return
	}
	w.buf[w.head] = nil
	w.head = (w.head + 1) % len(w.buf)
	w.n--
}

// Samples returns the held samples, oldest first.
func (w *Window) Samples() []landmark.Frame {
	out := make([]landmark.Frame, 0, w.n)
	for i := 0; i < w.n; i++ {
		out = append(out, w.buf[(w.head+i)%len(w.buf)])
	}
	return out
}

// Clear empties the window.
func (w *Window) Clear() {
	for i := range w.buf {
		w.buf[i] = nil
	}
	w.head = 0
	w.n = 0
}
