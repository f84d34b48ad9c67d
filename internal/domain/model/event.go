// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"sort"
	"strings"
)

// Well-known top-level keys.
const (
	KeyID        = "id"
	KeyExtraData = "extra_data"
)

// Event is one tagged match occurrence as delivered by the data source.
// Keys and their casing vary between sources, so it is kept as an open
// record. The engine never mutates an Event.
type Event map[string]any

// ID returns the event identifier, or "" when absent.
func (e Event) ID() string {
	v, ok := e.Get(KeyID)
	if !ok || IsEmpty(v) {
		return ""
	}
	return Stringify(v)
}

// Get looks a top-level key up, exact match first and then case-insensitively.
// When several keys differ only by case the lexicographically smallest wins.
func (e Event) Get(key string) (any, bool) {
	return lookupKey(e, key)
}

// Extra returns the extra_data side channel, which may arrive as a nested
// object or as serialized JSON text.
func (e Event) Extra() (map[string]any, bool) {
	v, ok := e.Get(KeyExtraData)
	if !ok {
		return nil, false
	}
	return AsMap(v)
}

// Lookup walks path through nested maps. Every step tolerates missing or
// mistyped values.
func (e Event) Lookup(path ...string) (any, bool) {
	if e == nil || len(path) == 0 {
		return nil, false
	}
	var cur map[string]any = e
	for i, key := range path {
		v, ok := lookupKey(cur, key)
		if !ok {
			return nil, false
		}
		if i == len(path)-1 {
			return v, true
		}
		next, ok := AsMap(v)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return nil, false
}

// HasCategory reports whether the event carries a category or event_type,
// top-level or inside extra_data.
func (e Event) HasCategory() bool {
	for _, path := range [][]string{
		{"category"}, {"event_type"},
		{KeyExtraData, "category"}, {KeyExtraData, "event_type"},
	} {
		if v, ok := e.Lookup(path...); ok && !IsEmpty(v) {
			return true
		}
	}
	return false
}

func lookupKey(m map[string]any, key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	if v, ok := m[key]; ok {
		return v, true
	}
	var best string
	found := false
	for k := range m {
		if strings.EqualFold(k, key) && (!found || k < best) {
			best, found = k, true
		}
	}
	if !found {
		return nil, false
	}
	return m[best], true
}

// AsMap coerces v into a string-keyed map.
func AsMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, t != nil
	case Event:
		return t, t != nil
	case map[string]string:
		out := make(map[string]any, len(t))
		for k, s := range t {
			out[k] = s
		}
		return out, true
	case string:
		s := strings.TrimSpace(t)
		if !strings.HasPrefix(s, "{") {
			return nil, false
		}
		var out map[string]any
		if err := json.Unmarshal([]byte(s), &out); err != nil {
			return nil, false
		}
		return out, true
	case json.RawMessage:
		var out map[string]any
		if err := json.Unmarshal(t, &out); err != nil {
			return nil, false
		}
		return out, true
	default:
		return nil, false
	}
}

// Keys returns the event's top-level keys in sorted order.
func (e Event) Keys() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
