package analytics

import "context"

// Nop discards events.
type Nop struct{}

// Track implements Sink.
func (Nop) Track(context.Context, Event) {}

// Multi fans events out to several sinks.
type Multi []Sink

// Track implements Sink.
func (m Multi) Track(ctx context.Context, e Event) {
	for _, s := range m {
		s.Track(ctx, e)
	}
}

// Recorder keeps tracked events in memory. It is used by tests.
type Recorder struct {
	events chan Event
}

// NewRecorder creates a recorder buffering up to n events.
func NewRecorder(n int) *Recorder {
	return &Recorder{events: make(chan Event, n)}
}

// Track implements Sink. Events beyond the buffer are dropped.
func (r *Recorder) Track(_ context.Context, e Event) {
	select {
	case r.events <- e:
	default:
	}
}

// Events returns the channel events are delivered on.
func (r *Recorder) Events() <-chan Event {
	return r.events
}
