package filter

import (
	"strings"

	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/model"
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/timegroup"
)

// Canonical descriptor names emitted by Canonicalize.
const (
	NameTimeGroup = "Time_Group"
	NameTeam      = "TEAM"
	NamePlayer    = "JUGADOR"
	NameAdvance   = "ADVANCE"
	NameCategory  = "CATEGORY"
	NameTeamSide  = "TEAM_SIDE"
)

var nameAliases = map[string]string{
	"TIME_GROUP":    NameTimeGroup,
	"QUARTER_GROUP": NameTimeGroup,
	"QUARTER":       NameTimeGroup,
	"CUARTO":        NameTimeGroup,
	"GRUPO_TIEMPO":  NameTimeGroup,
	"EQUIPO":        NameTeam,
	"TEAM":          NameTeam,
	"PLAYER":        NamePlayer,
	"PLAYERS":       NamePlayer,
	"JUGADORES":     NamePlayer,
	"JUGADOR":       NamePlayer,
	"AVANCE":        NameAdvance,
	"ADVANCE":       NameAdvance,
	"CATEGORIA":     NameCategory,
	"CATEGORY":      NameCategory,
	"TEAM_SIDE":     NameTeamSide,
}

// Canonicalize rewrites descriptor names that different charts spell
// differently for the same filter, so they collide when toggled. Quarter
// values are rewritten to their bucket label.
func Canonicalize(d model.Descriptor) model.Descriptor {
	name, ok := nameAliases[normName(d.Name)]
	if !ok {
		return model.Descriptor{Name: strings.TrimSpace(d.Name), Value: d.Value}
	}
	out := model.Descriptor{Name: name, Value: d.Value}
	if name == NameTimeGroup {
		if g, ok := timegroup.Canonical(model.Stringify(d.Value)); ok {
			out.Value = string(g)
		}
	}
	return out
}

// Toggle applies a descriptor group to current and returns the new list.
// When every descriptor of the group is already present the group is
// removed; otherwise the missing ones are appended. current is not modified.
func Toggle(current []model.Descriptor, group ...model.Descriptor) []model.Descriptor {
	out := make([]model.Descriptor, 0, len(current)+len(group))
	out = append(out, current...)
	if len(group) == 0 {
		return out
	}

	present := make(map[string]struct{}, len(current))
	for _, d := range current {
		present[Canonicalize(d).Key()] = struct{}{}
	}

	wanted := make(map[string]struct{}, len(group))
	var missing []model.Descriptor
	for _, d := range group {
		c := Canonicalize(d)
		k := c.Key()
		if _, dup := wanted[k]; dup {
			continue
		}
		wanted[k] = struct{}{}
		if _, ok := present[k]; !ok {
			missing = append(missing, c)
		}
	}

	if len(missing) > 0 {
		return append(out, missing...)
	}

	kept := out[:0]
	for _, d := range out {
		if _, drop := wanted[Canonicalize(d).Key()]; !drop {
			kept = append(kept, d)
		}
	}
	return kept
}
