package filter

import (
	"math"
	"strings"

	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/classify"
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/fields"
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/model"
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/timegroup"
)

type matcher func(e *Engine, ev model.Event, value any) bool

var matchers = map[string]matcher{}

func register(m matcher, names ...string) {
	for _, n := range names {
		matchers[n] = m
	}
}

func init() { //nolint:gochecknoinits // matcher table
	register(matchTimeGroup, "TIME_GROUP", "QUARTER_GROUP", "QUARTER", "CUARTO", "GRUPO_TIEMPO")
	register(matchCategory, "CATEGORY", "CATEGORIA", "EVENT_TYPE")
	register(matchTeam, "TEAM", "EQUIPO")
	register(matchTeamSide, "TEAM_SIDE", "SIDE", "LADO")
	register(matchAdvance, "ADVANCE", "AVANCE")
	register(matchFieldZone, "FIELD_ZONE", "ZONA", "ZONA_CAMPO")
	register(matchTryOrigin, "TRY_ORIGIN", "ORIGEN", "ORIGEN_TRY")
	register(matchTryPhases, "TRY_PHASES", "PHASES", "FASES")
	register(derived(CardType, canonicalCard), "CARD_TYPE", "TARJETA")
	register(derived(RuckSpeedTag, canonicalRuckTag), "RUCK_SPEED_TAG")
	register(derived(KickType, canonicalKick), "KICK_TYPE", "TIPO_PIE")
	register(derived(TurnoverType, canonicalTurnover), "TURNOVER_TYPE")
	register(derived(GoalKickResult, canonicalGoalKick), "RESULTADO_PALOS", "GOAL_KICK_RESULT")
	register(matchPlayer, "JUGADOR", "JUGADORES", "PLAYER", "PLAYERS")
}

// normName folds a descriptor name for dispatch: upper case, no diacritics,
// spaces and hyphens as underscores.
func normName(name string) string {
	return strings.NewReplacer(" ", "_", "-", "_").Replace(model.Normalize(name))
}

func (e *Engine) matchOne(ev model.Event, d model.Descriptor) bool {
	if ev == nil {
		return false
	}
	if m, ok := matchers[normName(d.Name)]; ok {
		return m(e, ev, d.Value)
	}
	return matchGeneric(ev, d.Name, d.Value)
}

func matchTimeGroup(_ *Engine, ev model.Event, value any) bool {
	return timegroup.Matches(ev, model.Stringify(value))
}

func matchCategory(_ *Engine, ev model.Event, value any) bool {
	want := model.NormalizeValue(value)
	if want == "" {
		return false
	}
	got, ok := fields.Resolve(ev, fields.Category)
	return ok && model.NormalizeValue(got) == want
}

var (
	ourTeamTokens = tokenSet("OUR TEAM", "OUR TEAMS", "NUESTRO EQUIPO", "NUESTROS EQUIPOS",
		"NUESTRO", "NUESTROS", "EQUIPO PROPIO", "PROPIO")
	opponentTokens = tokenSet("OPPONENT", "OPPONENTS", "RIVAL", "RIVALES", "OPONENTE",
		"OPONENTES", "EQUIPO RIVAL", "CONTRARIO", "CONTRARIOS")
)

func tokenSet(tokens ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		out[t] = struct{}{}
	}
	return out
}

func tokenText(v any) string {
	return strings.NewReplacer("_", " ", "-", " ").Replace(model.NormalizeValue(v))
}

func (e *Engine) isOurTeam(ev model.Event) bool {
	team, ok := fields.ResolveString(ev, fields.Team)
	if !ok {
		return false
	}
	if _, mine := e.ourTeams[model.Normalize(team)]; mine {
		return true
	}
	return classify.IsOurSideName(team)
}

// matchTeam handles the OUR_TEAM and OPPONENTS keywords; OPPONENTS is the
// complement of OUR_TEAM, so events without a team count as opponents there.
func matchTeam(e *Engine, ev model.Event, value any) bool {
	tok := tokenText(value)
	if tok == "" {
		return false
	}
	if _, ok := ourTeamTokens[tok]; ok {
		return e.isOurTeam(ev)
	}
	if _, ok := opponentTokens[tok]; ok {
		return !e.isOurTeam(ev)
	}
	team, ok := fields.ResolveString(ev, fields.Team)
	return ok && model.Normalize(team) == model.NormalizeValue(value)
}

func matchTeamSide(_ *Engine, ev model.Event, value any) bool {
	raw := model.Stringify(value)
	if strings.TrimSpace(raw) == "" {
		return false
	}
	wantOpponent := strings.Contains(strings.ToUpper(raw), "OPP") || classify.IsOpponentName(raw)
	return classify.IsOpponentEvent(ev) == wantOpponent
}

func matchAdvance(_ *Engine, ev model.Event, value any) bool {
	return containsFolded(fields.ResolveList(ev, fields.Advance), value)
}

func matchPlayer(_ *Engine, ev model.Event, value any) bool {
	return containsFolded(fields.ResolveList(ev, fields.Players), value)
}

func containsFolded(items []any, value any) bool {
	want := model.NormalizeValue(value)
	if want == "" {
		return false
	}
	for _, it := range items {
		if model.NormalizeValue(it) == want {
			return true
		}
	}
	return false
}

func matchFieldZone(_ *Engine, ev model.Event, value any) bool {
	zone, ok := FieldZone(ev)
	return ok && zone == model.NormalizeValue(value)
}

func matchTryOrigin(_ *Engine, ev model.Event, value any) bool {
	want := model.NormalizeValue(value)
	got, _ := fields.ResolveString(ev, fields.TryOrigin)
	got = model.Normalize(got)
	if got == "" {
		return want == NoTryOrigin
	}
	return got == want
}

func matchTryPhases(_ *Engine, ev model.Event, value any) bool {
	want, ok := model.AsFloat(value)
	if !ok {
		return false
	}
	got, ok := fields.ResolveFloat(ev, fields.TryPhases)
	return ok && math.Round(got) == math.Round(want)
}

// derived compares a label computed from the event against the filter value
// mapped through the same vocabulary.
func derived(label func(model.Event) (string, bool), canon func(string) string) matcher {
	return func(_ *Engine, ev model.Event, value any) bool {
		want := canon(model.NormalizeValue(value))
		if want == "" {
			return false
		}
		got, ok := label(ev)
		return ok && got == want
	}
}

// matchGeneric looks the descriptor up under several spellings, top-level
// first and then in extra_data. Sequences match by membership, scalars by
// exact string equality.
func matchGeneric(ev model.Event, name string, value any) bool {
	v, ok := lookupAny(ev, nameVariants(name))
	if !ok {
		return false
	}
	want := model.Stringify(value)
	if items, isSeq := model.AsSlice(v); isSeq {
		for _, it := range items {
			if model.Stringify(it) == want {
				return true
			}
		}
		return false
	}
	return model.Stringify(v) == want
}

func nameVariants(name string) []string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil
	}
	candidates := []string{
		trimmed,
		strings.ToUpper(trimmed),
		strings.ToLower(trimmed),
		strings.ReplaceAll(trimmed, "_", " "),
		strings.ReplaceAll(trimmed, " ", "_"),
		strings.ReplaceAll(trimmed, "-", "_"),
		strings.ReplaceAll(trimmed, "_", "-"),
	}
	seen := make(map[string]struct{}, len(candidates))
	out := candidates[:0]
	for _, c := range candidates {
		if _, dup := seen[c]; !dup {
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

func lookupAny(ev model.Event, keys []string) (any, bool) {
	for _, scope := range [][]string{nil, {model.KeyExtraData}} {
		for _, k := range keys {
			v, ok := ev.Lookup(append(append([]string(nil), scope...), k)...)
			if ok && !model.IsEmpty(v) {
				return v, true
			}
		}
	}
	return nil, false
}
