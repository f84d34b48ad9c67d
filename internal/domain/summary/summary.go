// Package summary aggregates events into team-vs-opponent counts.
package summary

import (
	"sort"

	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/classify"
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/model"
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/timegroup"
)

// Unknown labels events without any category-bearing field.
const Unknown = "UNKNOWN"

// Option applies a configuration option to the Summarizer.
type Option func(*Summarizer)

// WithAliases sets the category alias table used to group labels. Entries
// replace the defaults per canonical category.
func WithAliases(aliases classify.Aliases) Option {
	return func(s *Summarizer) {
		if len(aliases) > 0 {
			s.index = classify.NewIndex(classify.DefaultAliases().Merge(aliases))
		}
	}
}

// Counts splits a tally between the two sides.
type Counts struct {
	Ours     int `json:"ours"`
	Opponent int `json:"opponent"`
	Total    int `json:"total"`
}

func (c *Counts) add(opponent bool) {
	if opponent {
		c.Opponent++
	} else {
		c.Ours++
	}
	c.Total++
}

// CategoryRow is the tally of one canonical category.
type CategoryRow struct {
	Category string `json:"category"`
	Counts
}

// QuarterRow is the tally of one time bucket.
type QuarterRow struct {
	Group timegroup.Group `json:"group"`
	Counts
}

// Report is the aggregate view of an event set.
type Report struct {
	Total      int           `json:"total"`
	Sides      Counts        `json:"sides"`
	Categories []CategoryRow `json:"categories"`
	Quarters   []QuarterRow  `json:"quarters"`
	// Unbucketed counts events with no resolvable time.
	Unbucketed int `json:"unbucketed"`
}

// Summarizer builds Reports.
type Summarizer struct {
	index *classify.Index
}

// NewSummarizer creates a Summarizer using the default alias table unless
// overridden.
func NewSummarizer(opts ...Option) *Summarizer {
	s := &Summarizer{index: classify.NewIndex(classify.DefaultAliases())}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize tallies events per canonical category and per quarter, split by
// side. Categories are sorted by name and quarters follow match order.
func (s *Summarizer) Summarize(events []model.Event) Report {
	byCategory := make(map[string]*Counts)
	quarters := make([]QuarterRow, len(timegroup.All))
	for i, g := range timegroup.All {
		quarters[i].Group = g
	}

	r := Report{Total: len(events)}
	for _, e := range events {
		opp := classify.IsOpponentEvent(e)
		r.Sides.add(opp)

		cat := s.index.Canonical(e)
		if cat == "" {
			cat = Unknown
		}
		c, ok := byCategory[cat]
		if !ok {
			c = &Counts{}
			byCategory[cat] = c
		}
		c.add(opp)

		if g, ok := timegroup.ForEvent(e); ok {
			quarters[g.Index()].add(opp)
		} else {
			r.Unbucketed++
		}
	}

	r.Categories = make([]CategoryRow, 0, len(byCategory))
	for name, c := range byCategory {
		r.Categories = append(r.Categories, CategoryRow{Category: name, Counts: *c})
	}
	sort.Slice(r.Categories, func(i, j int) bool {
		return r.Categories[i].Category < r.Categories[j].Category
	})
	r.Quarters = quarters
	return r
}
