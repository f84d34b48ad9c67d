// Package chartclick turns chart interactions into filter descriptor changes.
//
// Charts report clicks as one of three payload variants. The translator
// derives a descriptor group from the payload and toggles it into the
// current filter state. Payloads it cannot interpret leave the state as is.
package chartclick

import (
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/model"
)

// Kind tags a payload variant.
type Kind string

// Payload kinds.
const (
	KindSimple   Kind = "simple"
	KindNative   Kind = "native"
	KindExtended Kind = "extended"
)

// Payload is one of SimpleFilter, NativeHit or ExtendedHit.
type Payload interface {
	Kind() Kind
}

// SimpleFilter is a chart asking for one explicit descriptor.
type SimpleFilter struct {
	ChartType  string `json:"chart_type"`
	Value      any    `json:"value"`
	Descriptor string `json:"descriptor"`
}

// HitElement is one element under the pointer as reported by the chart
// library. Its shape varies by library version, so indices are probed under
// several keys.
type HitElement map[string]any

// Dataset describes one series of a rendered chart.
type Dataset struct {
	Label string `json:"label"`
}

// ChartHandle is the rendered chart the click landed on.
type ChartHandle struct {
	Type     string    `json:"type"`
	Labels   []any     `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// NativeHit is a raw click on a rendered chart.
type NativeHit struct {
	Elements []HitElement `json:"elements"`
	Chart    *ChartHandle `json:"chart"`
}

// ExtendedHit is a raw click whose chart also supplies the descriptors it
// means; those take precedence over index inference.
type ExtendedHit struct {
	Elements     []HitElement       `json:"elements"`
	Chart        *ChartHandle       `json:"chart"`
	ChartType    string             `json:"chart_type"`
	TabID        string             `json:"tab_id"`
	ExtraFilters []model.Descriptor `json:"extra_filters"`
}

func (SimpleFilter) Kind() Kind { return KindSimple }
func (NativeHit) Kind() Kind    { return KindNative }
func (ExtendedHit) Kind() Kind  { return KindExtended }
