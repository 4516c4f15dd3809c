package smoothing

import "github.com/teslashibe/go-avatar/pkg/landmark"

// Channel identifies one independently smoothed landmark stream.
type Channel int

const (
	Body Channel = iota
	LeftHand
	RightHand
)

// String returns a human-readable channel name.
func (c Channel) String() string {
	switch c {
	case Body:
		return "body"
	case LeftHand:
		return "left_hand"
	case RightHand:
		return "right_hand"
	default:
		return "unknown"
	}
}

// Smoother keeps one Window per channel. Face data is never smoothed.
type Smoother struct {
	windows map[Channel]*Window
}

// New creates a smoother with bodySize samples for the body channel and
// handSize samples for each hand channel.
func New(bodySize, handSize int) *Smoother {
	return &Smoother{
		windows: map[Channel]*Window{
			Body:      NewWindow(bodySize),
			LeftHand:  NewWindow(handSize),
			RightHand: NewWindow(handSize),
		},
	}
}

// Ingest pushes a sample into the channel's window. Once the window is full
// it returns the mean of the held samples and evicts the oldest one, so every
// later ingest emits the trailing average of the most recent N samples.
func (s *Smoother) Ingest(ch Channel, f landmark.Frame) (landmark.Frame, bool) {
	w, ok := s.windows[ch]
	if !ok {
		return nil, false
	}
	w.Push(f.Clone())
	if !w.Full() {
		return nil, false
	}
	avg := Average(w.Samples())
	w.Evict()
	return avg, true
}

// Clear empties the channel's window.
func (s *Smoother) Clear(ch Channel) {
	if w, ok := s.windows[ch]; ok {
		w.Clear()
	}
}

// Len returns the number of samples pending in the channel's window.
func (s *Smoother) Len(ch Channel) int {
	if w, ok := s.windows[ch]; ok {
		return w.Len()
	}
	return 0
}

// Size returns the channel's window capacity.
func (s *Smoother) Size(ch Channel) int {
	if w, ok := s.windows[ch]; ok {
		return w.Cap()
	}
	return 0
}

// Resize replaces the channel's window with an empty one of the given size.
// Nothing happens when the size is unchanged.
func (s *Smoother) Resize(ch Channel, size int) {
	if w, ok := s.windows[ch]; ok && w.Cap() == size {
		return
	}
	s.windows[ch] = NewWindow(size)
}
