package classify

import (
	"sort"

	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/model"
)

// Aliases maps a canonical category to the labels source data uses for it.
type Aliases map[string][]string

// DefaultAliases covers the bilingual vocabulary seen in tagged matches.
func DefaultAliases() Aliases {
	return Aliases{
		"PENALTY":       {"PENAL", "PENALES", "PENAL RIVAL", "INFRACCION"},
		"GOAL-KICK":     {"PALOS", "PALOS RIVAL", "GOAL KICK", "CONVERSION"},
		"TACKLE":        {"TACKLES", "PLACAJE", "PLACAJES", "TACKLE RIVAL"},
		"MISSED-TACKLE": {"MISSED TACKLE", "PLACAJE ERRADO", "PLACAJE FALLADO", "TACKLE ERRADO"},
		"SCRUM":         {"MELE", "MELEE", "SCRUM RIVAL"},
		"LINEOUT":       {"LINE", "LINE OUT", "LINE-OUT", "LATERAL", "LINE RIVAL"},
		"TURNOVER":      {"TURNOVER+", "TURNOVER-", "RECUPERACION", "PERDIDA"},
		"TRY":           {"TRY RIVAL", "ENSAYO", "ENSAYOS"},
		"CARD":          {"TARJETA", "TARJETAS", "YELLOW-CARD", "RED-CARD"},
		"KICK":          {"PIE", "PATADA", "KICKS", "PIE RIVAL"},
		"RUCK":          {"RUCKS", "RUCK RIVAL"},
		"BREAK":         {"QUIEBRE", "LINE BREAK", "LINEBREAK"},
	}
}

// Merge returns a copy of a with b's entries added; b wins per canonical key.
func (a Aliases) Merge(b Aliases) Aliases {
	out := make(Aliases, len(a)+len(b))
	for k, v := range a {
		out[k] = append([]string(nil), v...)
	}
	for k, v := range b {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Index is an alias table compiled for reverse lookup.
type Index struct {
	aliases Aliases
	reverse map[string]string
}

// NewIndex compiles a. When two canonical categories claim the same label the
// alphabetically first one keeps it.
func NewIndex(a Aliases) *Index {
	idx := &Index{aliases: a, reverse: make(map[string]string)}
	canon := make([]string, 0, len(a))
	for c := range a {
		canon = append(canon, c)
	}
	sort.Strings(canon)
	for _, c := range canon {
		for _, label := range append([]string{c}, a[c]...) {
			n := model.Normalize(label)
			if _, taken := idx.reverse[n]; n != "" && !taken {
				idx.reverse[n] = model.Normalize(c)
			}
		}
	}
	return idx
}

// Matches is MatchesCategory with the aliases registered for canonical.
func (idx *Index) Matches(e model.Event, canonical string) bool {
	for c, labels := range idx.aliases {
		if model.Normalize(c) == model.Normalize(canonical) {
			return MatchesCategory(e, c, labels...)
		}
	}
	return MatchesCategory(e, canonical)
}

// Canonical returns the canonical category of e: the first category-bearing
// label with a registered alias, else the first normalized label, else "".
func (idx *Index) Canonical(e model.Event) string {
	labels := categoryLabels(e)
	for _, l := range labels {
		if c, ok := idx.reverse[l]; ok {
			return c
		}
	}
	if len(labels) > 0 {
		return labels[0]
	}
	return ""
}
