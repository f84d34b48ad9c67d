// Package classify decides category membership and team ownership of events.
package classify

import (
	"regexp"
	"strings"

	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/fields"
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/model"
)

var (
	opponentVocabulary = regexp.MustCompile(`\b(OPPONENTS?|OPONENTES?|RIVAL(ES)?|VISITA(NTES?)?|AWAY|CONTRARIOS?|ADVERSARIOS?)\b`)
	ourSideVocabulary  = regexp.MustCompile(`\b(NUESTROS?|NUESTRO EQUIPO|OURS?|OUR TEAMS?|LOCAL|HOME|PROPIOS?)\b`)
)

// vocabText folds s for vocabulary matching: diacritics stripped, upper case,
// underscores and hyphens as spaces.
func vocabText(s string) string {
	return strings.NewReplacer("_", " ", "-", " ").Replace(model.Normalize(s))
}

// IsOpponentName reports whether a free-text team value names the opponent
// generically ("OPPONENT", "Rival", "visitante", ...).
func IsOpponentName(name string) bool {
	return opponentVocabulary.MatchString(vocabText(name))
}

// IsOurSideName reports whether a free-text team value is an "our side"
// placeholder ("OUR_TEAM", "Nuestro", "home", ...).
func IsOurSideName(name string) bool {
	return ourSideVocabulary.MatchString(vocabText(name))
}

// MatchesCategory reports whether any category-bearing field of e equals the
// canonical category or one of its aliases after normalization.
func MatchesCategory(e model.Event, canonical string, aliases ...string) bool {
	want := make(map[string]struct{}, len(aliases)+1)
	for _, a := range append([]string{canonical}, aliases...) {
		if n := model.Normalize(a); n != "" {
			want[n] = struct{}{}
		}
	}
	if len(want) == 0 {
		return false
	}
	for _, label := range categoryLabels(e) {
		if _, ok := want[label]; ok {
			return true
		}
	}
	return false
}

// categoryLabels returns the normalized category, event_type and code/tag
// values of e in resolution order.
func categoryLabels(e model.Event) []string {
	raw := append(fields.ResolveAll(e, fields.Category), fields.ResolveAll(e, fields.Code)...)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if n := model.NormalizeValue(v); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// IsOpponentEvent classifies e as belonging to the opponent. Signals are
// checked in order: an explicit opponent flag, the team text against the
// opponent and our-side vocabularies, then RIVAL/OPPONENT inside the code or
// category. With no signal the event counts as ours, so unlabeled events are
// attributed to our side and never to the opponent.
func IsOpponentEvent(e model.Event) bool {
	if e == nil {
		return false
	}
	if v, ok := fields.Resolve(e, fields.OpponentFlag); ok && model.IsTruthy(v) {
		return true
	}
	if team, ok := fields.ResolveString(e, fields.Team); ok {
		if IsOpponentName(team) {
			return true
		}
		if IsOurSideName(team) {
			return false
		}
	}
	for _, label := range categoryLabels(e) {
		if strings.Contains(label, "RIVAL") || strings.Contains(label, "OPPONENT") {
			return true
		}
	}
	return false
}

// DetectOurTeams returns the most frequent team name that is not opponent
// vocabulary, or an empty slice when no event names one. When several names
// tie the winner depends on map iteration order and is not stable between
// calls.
func DetectOurTeams(events []model.Event) []string {
	counts := make(map[string]int)
	for _, e := range events {
		team, ok := fields.ResolveString(e, fields.Team)
		if !ok || IsOpponentName(team) {
			continue
		}
		counts[team]++
	}
	best, bestN := "", 0
	for name, n := range counts {
		if n > bestN {
			best, bestN = name, n
		}
	}
	if bestN == 0 {
		return []string{}
	}
	return []string{best}
}
