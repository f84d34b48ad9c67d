// Package filter reduces an event set by a conjunctive list of descriptors.
//
// Each descriptor is dispatched to a matcher chosen by its normalized name;
// names without a dedicated matcher fall back to a generic key lookup on the
// event and its extra_data. Matching never mutates events and never fails:
// anything that cannot be resolved simply does not match.
package filter

import (
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/classify"
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/model"
)

// Engine evaluates descriptor lists against events. The "our teams" set is
// fixed at construction so evaluation is a per-event predicate.
type Engine struct {
	ourTeams map[string]struct{}
	names    []string
}

// Option configures an Engine.
type Option func(*Engine)

// WithOurTeams sets the team names TEAM=OUR_TEAM refers to.
func WithOurTeams(names ...string) Option {
	return func(e *Engine) {
		for _, n := range names {
			key := model.Normalize(n)
			if key == "" {
				continue
			}
			if _, dup := e.ourTeams[key]; !dup {
				e.ourTeams[key] = struct{}{}
				e.names = append(e.names, n)
			}
		}
	}
}

// NewEngine creates an Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{ourTeams: make(map[string]struct{})}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OurTeams returns the configured team names in insertion order.
func (e *Engine) OurTeams() []string {
	return append([]string(nil), e.names...)
}

// Match reports whether ev satisfies every descriptor.
func (e *Engine) Match(ev model.Event, descs []model.Descriptor) bool {
	for _, d := range descs {
		if !e.matchOne(ev, d) {
			return false
		}
	}
	return true
}

// Apply returns the events matching every descriptor, in input order. An
// empty descriptor list returns events itself.
func (e *Engine) Apply(events []model.Event, descs []model.Descriptor) []model.Event {
	if len(descs) == 0 {
		return events
	}
	out := make([]model.Event, 0, len(events))
	for _, ev := range events {
		if e.Match(ev, descs) {
			out = append(out, ev)
		}
	}
	return out
}

// Indices is Apply reporting positions in events instead of the events.
func (e *Engine) Indices(events []model.Event, descs []model.Descriptor) []int {
	out := make([]int, 0, len(events))
	for i, ev := range events {
		if len(descs) == 0 || e.Match(ev, descs) {
			out = append(out, i)
		}
	}
	return out
}

// Apply filters events with an Engine whose our-teams set is detected from
// events themselves.
func Apply(events []model.Event, descs []model.Descriptor) []model.Event {
	if len(descs) == 0 {
		return events
	}
	return NewEngine(WithOurTeams(classify.DetectOurTeams(events)...)).Apply(events, descs)
}
