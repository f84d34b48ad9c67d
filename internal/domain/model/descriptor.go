package model

// Descriptor is one (descriptor, value) filter pair. A list of descriptors is
// a conjunctive filter.
type Descriptor struct {
	Name  string `json:"descriptor"`
	Value any    `json:"value"`
}

// D is shorthand for building a Descriptor.
func D(name string, value any) Descriptor {
	return Descriptor{Name: name, Value: value}
}

// Key identifies a descriptor for equality checks. Values compare by their
// rendered form so 10 and "10" collide.
func (d Descriptor) Key() string {
	return d.Name + "\x00" + valueKey(d.Value)
}

// Equal reports whether two descriptors have the same name and value.
func (d Descriptor) Equal(o Descriptor) bool {
	return d.Key() == o.Key()
}

func valueKey(v any) string {
	items, ok := AsSlice(v)
	if !ok {
		return Stringify(v)
	}
	out := "["
	for i, it := range items {
		if i > 0 {
			out += ","
		}
		out += Stringify(it)
	}
	return out + "]"
}
