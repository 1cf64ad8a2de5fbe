package frame

import "sync"

// Event is an input event consumed at the start of a frame.
type Event interface {
	event()
}

// Quit stops the loop before the next frame.
type Quit struct{}

// Pan shifts the view by DX, DY logical units.
type Pan struct {
	DX, DY float64
}

// ResetPan returns the view to the origin.
type ResetPan struct{}

// Resize changes the device viewport.
type Resize struct {
	Width, Height int
}

func (Quit) event()     {}
func (Pan) event()      {}
func (ResetPan) event() {}
func (Resize) event()   {}

// EventSource yields pending events. Poll must not block.
type EventSource interface {
	Poll() []Event
}

// Queue is an EventSource fed from other goroutines.
type Queue struct {
	mu      sync.Mutex
	pending []Event
}

// Push appends events.
func (q *Queue) Push(evs ...Event) {
	q.mu.Lock()
	q.pending = append(q.pending, evs...)
	q.mu.Unlock()
}

// Poll returns and clears pending events.
func (q *Queue) Poll() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	evs := q.pending
	q.pending = nil
	return evs
}

// Multi merges several sources in order.
type Multi []EventSource

// Poll polls every source.
func (m Multi) Poll() []Event {
	var out []Event
	for _, s := range m {
		if s != nil {
			out = append(out, s.Poll()...)
		}
	}
	return out
}

// Exhaustible is a text source that can report end of input.
type Exhaustible interface {
	Exhausted() bool
}

type quitOnExhausted struct{ src Exhaustible }

// QuitOnExhausted emits Quit once src reports exhausted input.
func QuitOnExhausted(src Exhaustible) EventSource {
	return quitOnExhausted{src}
}

func (q quitOnExhausted) Poll() []Event {
	if q.src.Exhausted() {
		return []Event{Quit{}}
	}
	return nil
}

var (
	_ EventSource = (*Queue)(nil)
	_ EventSource = Multi(nil)
)
