package filter

import (
	"regexp"
	"strings"

	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/fields"
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/model"
)

// NoTryOrigin is the TRY_ORIGIN value that selects tries without an origin.
const NoTryOrigin = "SIN ORIGEN"

// Field zones along the pitch, measured from our try line in metres.
const (
	ZoneOwn22     = "22 PROPIO"    // [0, 22)
	ZoneOwnHalf   = "CAMPO PROPIO" // [22, 50)
	ZoneRivalHalf = "CAMPO RIVAL"  // [50, 78)
	ZoneRival22   = "22 RIVAL"     // [78, 100]

	pitchLength     = 100.0
	ruckFastBelow   = 3.0
	ruckSlowAtLeast = 6.0
)

var zones = []struct {
	label  string
	lo, hi float64
}{
	{ZoneOwn22, 0, 22},
	{ZoneOwnHalf, 22, 50},
	{ZoneRivalHalf, 50, 78},
	{ZoneRival22, 78, pitchLength},
}

// FieldZone places e on the pitch. The Y coordinate is stored with the axis
// pointing away from the attacking direction, so it is negated; X is used
// when no Y is present.
func FieldZone(e model.Event) (string, bool) {
	pos, ok := fields.ResolveFloat(e, fields.CoordY)
	if ok {
		pos = -pos
	} else if pos, ok = fields.ResolveFloat(e, fields.CoordX); !ok {
		return "", false
	}
	for i, z := range zones {
		last := i == len(zones)-1
		if pos >= z.lo && (pos < z.hi || (last && pos <= z.hi)) {
			return z.label, true
		}
	}
	return "", false
}

func words(s string) string {
	return strings.TrimSpace(strings.NewReplacer("_", " ", "-", " ").Replace(model.Normalize(s)))
}

var (
	yellowWords = regexp.MustCompile(`\b(YELLOW|AMARILLAS?)\b`)
	redWords    = regexp.MustCompile(`\b(RED|ROJAS?)\b`)
)

func canonicalCard(s string) string {
	w := words(s)
	switch {
	case yellowWords.MatchString(w):
		return "YELLOW"
	case redWords.MatchString(w):
		return "RED"
	}
	return w
}

// CardType returns YELLOW or RED from the card field, falling back to the
// category and code labels.
func CardType(e model.Event) (string, bool) {
	candidates := []any{}
	if v, ok := fields.Resolve(e, fields.Card); ok {
		candidates = append(candidates, v)
	}
	candidates = append(candidates, fields.ResolveAll(e, fields.Category)...)
	candidates = append(candidates, fields.ResolveAll(e, fields.Code)...)
	for _, c := range candidates {
		switch l := canonicalCard(model.Stringify(c)); l {
		case "YELLOW", "RED":
			return l, true
		}
	}
	return "", false
}

func canonicalRuckTag(s string) string {
	switch w := words(s); w {
	case "FAST", "RAPIDO", "RAPIDA", "RAPIDOS", "LIGHTNING":
		return "FAST"
	case "MEDIUM", "MEDIO", "MEDIA", "NORMAL":
		return "MEDIUM"
	case "SLOW", "LENTO", "LENTA", "LENTOS":
		return "SLOW"
	default:
		return w
	}
}

// RuckSpeedTag returns FAST, MEDIUM or SLOW from an explicit tag, or from the
// ruck duration in seconds: under 3 is fast, 6 or more is slow.
func RuckSpeedTag(e model.Event) (string, bool) {
	if tag, ok := fields.ResolveString(e, fields.RuckSpeedTag); ok {
		switch l := canonicalRuckTag(tag); l {
		case "FAST", "MEDIUM", "SLOW":
			return l, true
		}
	}
	sec, ok := fields.ResolveFloat(e, fields.RuckSpeed)
	if !ok || sec < 0 {
		return "", false
	}
	switch {
	case sec < ruckFastBelow:
		return "FAST", true
	case sec < ruckSlowAtLeast:
		return "MEDIUM", true
	default:
		return "SLOW", true
	}
}

var kickKinds = []struct {
	label string
	re    *regexp.Regexp
}{
	{"GRUBBER", regexp.MustCompile(`\b(GRUBBER|RASTRON|RASTRERO)\b`)},
	{"CHIP", regexp.MustCompile(`\b(CHIP|CHIPITA)\b`)},
	{"BOX", regexp.MustCompile(`\bBOX\b`)},
	{"HIGH", regexp.MustCompile(`\b(HIGH|ALTO|ALTA|BOMBA|UP AND UNDER|GARRYOWEN)\b`)},
	{"TOUCH", regexp.MustCompile(`\b(TOUCH|LATERAL|A LA LINEA|DESPEJE)\b`)},
	{"DROP", regexp.MustCompile(`\b(DROP|DROPGOAL)\b`)},
	{"GOAL", regexp.MustCompile(`\b(GOAL|PALOS|CONVERSION|PENAL)\b`)},
}

func canonicalKick(s string) string {
	w := words(s)
	for _, k := range kickKinds {
		if k.re.MatchString(w) {
			return k.label
		}
	}
	return w
}

// KickType returns the kick kind, mapping Spanish and English names onto
// HIGH, GRUBBER, CHIP, BOX, TOUCH, DROP and GOAL. Unknown kinds are returned
// normalized.
func KickType(e model.Event) (string, bool) {
	raw, ok := fields.ResolveString(e, fields.KickType)
	if !ok {
		return "", false
	}
	return canonicalKick(raw), true
}

var (
	wonWords  = regexp.MustCompile(`\b(WON|WIN|GANADAS?|GANADOS?|RECUPERADAS?|RECUPERACION)\b`)
	lostWords = regexp.MustCompile(`\b(LOST|LOSS|PERDIDAS?|PERDIDOS?)\b`)
)

func canonicalTurnover(s string) string {
	raw := model.Normalize(s)
	w := words(s)
	switch {
	case wonWords.MatchString(w) || strings.HasSuffix(raw, "+"):
		return "WON"
	case lostWords.MatchString(w) || strings.HasSuffix(raw, "-"):
		return "LOST"
	}
	return w
}

// TurnoverType returns WON or LOST from the turnover field, falling back to a
// TURNOVER+/TURNOVER- category.
func TurnoverType(e model.Event) (string, bool) {
	if v, ok := fields.ResolveString(e, fields.TurnoverType); ok {
		switch l := canonicalTurnover(v); l {
		case "WON", "LOST":
			return l, true
		}
	}
	for _, c := range fields.ResolveAll(e, fields.Category) {
		n := model.NormalizeValue(c)
		if !strings.HasPrefix(n, "TURNOVER") {
			continue
		}
		switch {
		case strings.HasSuffix(n, "+"):
			return "WON", true
		case strings.HasSuffix(n, "-"):
			return "LOST", true
		}
	}
	return "", false
}

func canonicalGoalKick(s string) string {
	switch w := words(s); w {
	case "SUCCESS", "SUCCESSFUL", "MADE", "GOAL", "OK", "CONVERTIDO", "CONVERTIDA",
		"ANOTADO", "ANOTADA", "ACIERTO", "SI", "YES", "TRUE", "1":
		return "SUCCESS"
	case "MISS", "MISSED", "FAIL", "FAILED", "FALLADO", "FALLADA", "ERRADO", "ERRADA",
		"NO", "FALSE", "0":
		return "MISS"
	default:
		return w
	}
}

// GoalKickResult returns SUCCESS or MISS for a kick at goal.
func GoalKickResult(e model.Event) (string, bool) {
	v, ok := fields.Resolve(e, fields.GoalKickResult)
	if !ok {
		return "", false
	}
	switch l := canonicalGoalKick(model.Stringify(v)); l {
	case "SUCCESS", "MISS":
		return l, true
	}
	return "", false
}
