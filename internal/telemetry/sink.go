// Package telemetry delivers run events to the grading backend.
package telemetry

import (
	"context"
	"errors"
	"sync"

	"github.com/programme-lv/activecode/api"
)

type Sink interface {
	Log(ctx context.Context, ev api.Event) error
}

// MultiSink logs every event to all of its sinks.
type MultiSink []Sink

func (m MultiSink) Log(ctx context.Context, ev api.Event) error {
	var errs []error
	for _, s := range m {
		if err := s.Log(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder keeps events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []api.Event
}

func (r *Recorder) Log(_ context.Context, ev api.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *Recorder) Events() []api.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]api.Event(nil), r.events...)
}

func (r *Recorder) Last() (api.Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return api.Event{}, false
	}
	return r.events[len(r.events)-1], true
}
