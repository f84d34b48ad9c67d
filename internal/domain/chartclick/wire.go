package chartclick

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrUnknownKind is returned for envelopes without a recognised kind.
	ErrUnknownKind = errors.New("unknown click payload kind")
	// ErrMalformedPayload is returned when the envelope is not valid JSON.
	ErrMalformedPayload = errors.New("malformed click payload")
)

type envelope struct {
	Kind Kind `json:"kind"`
}

// Decode reads a payload from its JSON envelope. The "kind" member selects
// the variant; the remaining members are the variant's fields.
func Decode(raw []byte) (Payload, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	var (
		p   Payload
		err error
	)
	switch env.Kind {
	case KindSimple:
		var v SimpleFilter
		err = json.Unmarshal(raw, &v)
		p = v
	case KindNative:
		var v NativeHit
		err = json.Unmarshal(raw, &v)
		p = v
	case KindExtended:
		var v ExtendedHit
		err = json.Unmarshal(raw, &v)
		p = v
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, env.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	return p, nil
}
