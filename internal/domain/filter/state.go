package filter

import (
	"strings"

	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/model"
)

// State is the current descriptor list of one analysis. It is a value: every
// transition returns a new State and leaves the receiver untouched.
type State struct {
	Filters []model.Descriptor `json:"filters"`
}

// NewState builds a State from ds, canonicalizing names.
func NewState(ds ...model.Descriptor) State {
	return State{}.Replace(ds)
}

// Toggle applies a descriptor group with toggle semantics.
func (s State) Toggle(group ...model.Descriptor) State {
	return State{Filters: Toggle(s.Filters, group...)}
}

// Replace swaps the whole list.
func (s State) Replace(ds []model.Descriptor) State {
	out := make([]model.Descriptor, 0, len(ds))
	for _, d := range ds {
		out = append(out, Canonicalize(d))
	}
	return State{Filters: out}
}

// Clear drops every descriptor.
func (s State) Clear() State {
	return State{Filters: []model.Descriptor{}}
}

// Len returns the number of descriptors.
func (s State) Len() int { return len(s.Filters) }

// Descriptors returns a copy of the list.
func (s State) Descriptors() []model.Descriptor {
	return append([]model.Descriptor{}, s.Filters...)
}

// Key identifies the list content; equal keys filter identically.
func (s State) Key() string {
	parts := make([]string, len(s.Filters))
	for i, d := range s.Filters {
		parts[i] = Canonicalize(d).Key()
	}
	return strings.Join(parts, "\x01")
}
