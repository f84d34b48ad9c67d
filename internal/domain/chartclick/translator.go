package chartclick

import (
	"context"
	"math"

	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/classify"
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/filter"
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/model"
	"github.com/agustinnadalich/conexus-play-sub000/pkg/logger"
)

// Outcome reports what a click did to the filter state.
type Outcome string

// Click outcomes.
const (
	OutcomeAdded   Outcome = "added"
	OutcomeRemoved Outcome = "removed"
	OutcomeIgnored Outcome = "ignored"
)

// Side values emitted for native hits.
const (
	SideOurTeam  = "OUR_TEAM"
	SideOpponent = "OPPONENT"
)

// Result describes a handled click.
type Result struct {
	Applied     bool               `json:"applied"`
	Outcome     Outcome            `json:"outcome"`
	Descriptors []model.Descriptor `json:"descriptors,omitempty"`
	Reason      string             `json:"reason,omitempty"`
}

// Translator applies click payloads to filter states.
type Translator struct {
	log      logger.Logger
	ourTeams map[string]struct{}
}

// Option configures a Translator.
type Option func(*Translator)

// WithLogger sets the logger used for rejected payloads.
func WithLogger(l logger.Logger) Option {
	return func(t *Translator) {
		if l != nil {
			t.log = l
		}
	}
}

// WithOurTeams lets dataset labels carrying our team names resolve to our side.
func WithOurTeams(names ...string) Option {
	return func(t *Translator) {
		for _, n := range names {
			if k := model.Normalize(n); k != "" {
				t.ourTeams[k] = struct{}{}
			}
		}
	}
}

// NewTranslator creates a Translator.
func NewTranslator(opts ...Option) *Translator {
	t := &Translator{log: logger.Nop(), ourTeams: make(map[string]struct{})}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Handle derives the descriptor group of p and toggles it into s. When p
// cannot be interpreted it logs a warning and returns s unchanged.
func (t *Translator) Handle(ctx context.Context, s filter.State, p Payload) (filter.State, Result) {
	group, reason := t.Descriptors(p)
	if len(group) == 0 {
		t.log.Warn(ctx, "ignoring chart click", logger.String("kind", string(KindOf(p))), logger.String("reason", reason))
		return s, Result{Outcome: OutcomeIgnored, Reason: reason}
	}

	next := s.Toggle(group...)
	outcome := OutcomeAdded
	if next.Len() < s.Len() {
		outcome = OutcomeRemoved
	}
	t.log.Debug(ctx, "chart click applied",
		logger.String("kind", string(KindOf(p))),
		logger.String("outcome", string(outcome)),
		logger.Int("filters", next.Len()))
	return next, Result{Applied: true, Outcome: outcome, Descriptors: group}
}

// KindOf returns the kind of p without dereferencing it, or "" when p is not
// a known variant.
func KindOf(p Payload) Kind {
	switch p.(type) {
	case SimpleFilter, *SimpleFilter:
		return KindSimple
	case NativeHit, *NativeHit:
		return KindNative
	case ExtendedHit, *ExtendedHit:
		return KindExtended
	}
	return ""
}

// Descriptors derives the descriptor group a payload stands for. An empty
// group comes with the reason it could not be derived.
func (t *Translator) Descriptors(p Payload) ([]model.Descriptor, string) {
	switch v := p.(type) {
	case SimpleFilter:
		return simple(v)
	case *SimpleFilter:
		if v == nil {
			return nil, "nil payload"
		}
		return simple(*v)
	case NativeHit:
		return t.native(v.Elements, v.Chart)
	case *NativeHit:
		if v == nil {
			return nil, "nil payload"
		}
		return t.native(v.Elements, v.Chart)
	case ExtendedHit:
		return t.extended(v)
	case *ExtendedHit:
		if v == nil {
			return nil, "nil payload"
		}
		return t.extended(*v)
	default:
		return nil, "unsupported payload"
	}
}

func simple(p SimpleFilter) ([]model.Descriptor, string) {
	if p.Descriptor == "" {
		return nil, "missing descriptor"
	}
	if model.IsEmpty(p.Value) {
		return nil, "missing value"
	}
	return []model.Descriptor{model.D(p.Descriptor, p.Value)}, ""
}

func (t *Translator) extended(p ExtendedHit) ([]model.Descriptor, string) {
	var group []model.Descriptor
	for _, d := range p.ExtraFilters {
		if d.Name == "" || model.IsEmpty(d.Value) {
			continue
		}
		group = append(group, d)
	}
	if len(group) > 0 {
		return group, ""
	}
	return t.native(p.Elements, p.Chart)
}

func (t *Translator) native(elements []HitElement, chart *ChartHandle) ([]model.Descriptor, string) {
	if len(elements) == 0 {
		return nil, "no hit elements"
	}
	if chart == nil {
		return nil, "missing chart"
	}
	dataIdx, ok := elements[0].dataIndex()
	if !ok {
		return nil, "no data index"
	}
	if dataIdx >= len(chart.Labels) {
		return nil, "data index out of range"
	}
	category := model.Stringify(chart.Labels[dataIdx])
	if category == "" {
		return nil, "empty category label"
	}
	group := []model.Descriptor{model.D(filter.NameCategory, category)}

	datasetIdx, hasDataset := elements[0].datasetIndex()
	if !hasDataset {
		return group, ""
	}
	side, ok := t.side(chart.Datasets, datasetIdx)
	if !ok {
		if len(chart.Datasets) > 1 {
			return nil, "ambiguous team side"
		}
		return group, ""
	}
	return append(group, model.D(filter.NameTeamSide, side)), ""
}

// side reads the team side from the dataset label, falling back to dataset
// position on two-series charts: ours first, opponent second.
func (t *Translator) side(datasets []Dataset, idx int) (string, bool) {
	if idx < len(datasets) {
		label := datasets[idx].Label
		switch {
		case classify.IsOpponentName(label):
			return SideOpponent, true
		case classify.IsOurSideName(label):
			return SideOurTeam, true
		}
		if _, ok := t.ourTeams[model.Normalize(label)]; ok {
			return SideOurTeam, true
		}
	}
	if len(datasets) < 2 {
		return "", false
	}
	switch idx {
	case 0:
		return SideOurTeam, true
	case 1:
		return SideOpponent, true
	}
	return "", false
}

var (
	datasetPaths = [][]string{{"datasetIndex"}, {"_datasetIndex"}, {"element", "$context", "datasetIndex"}}
	dataPaths    = [][]string{{"index"}, {"_index"}, {"dataIndex"}, {"element", "$context", "dataIndex"}}
)

func (h HitElement) datasetIndex() (int, bool) { return h.probe(datasetPaths) }
func (h HitElement) dataIndex() (int, bool)    { return h.probe(dataPaths) }

func (h HitElement) probe(paths [][]string) (int, bool) {
	for _, p := range paths {
		v, ok := model.Event(h).Lookup(p...)
		if !ok {
			continue
		}
		f, ok := model.AsFloat(v)
		if !ok || f < 0 || f != math.Trunc(f) {
			continue
		}
		return int(f), true
	}
	return 0, false
}
