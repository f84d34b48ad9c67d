// Package timegroup maps events to the four 20-minute match segments.
package timegroup

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/fields"
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/model"
)

// Group is a canonical quarter bucket label.
type Group string

// Buckets, each a half-open interval of match-clock seconds.
const (
	Q1 Group = "0'-20'"  // [0, 1200)
	Q2 Group = "20'-40'" // [1200, 2400)
	Q3 Group = "40'-60'" // [2400, 3600)
	Q4 Group = "60'-80'" // [3600, inf)

	quarterSeconds = 1200
)

// All lists the buckets in match order.
var All = []Group{Q1, Q2, Q3, Q4}

func (g Group) String() string { return string(g) }

// Index returns the zero-based position of g in All, or -1.
func (g Group) Index() int {
	for i, q := range All {
		if q == g {
			return i
		}
	}
	return -1
}

// ForSeconds buckets a match-clock offset. Negative and non-finite values have
// no bucket.
func ForSeconds(sec float64) (Group, bool) {
	if math.IsNaN(sec) || math.IsInf(sec, 0) || sec < 0 {
		return "", false
	}
	i := int(sec / quarterSeconds)
	if i >= len(All) {
		i = len(All) - 1
	}
	return All[i], true
}

// ParseClock parses "MM:SS" or "H:MM:SS" into seconds. Minutes may exceed 59
// in the two-part form since match clocks run to 80 minutes and beyond.
func ParseClock(s string) (float64, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	total := 0.0
	for _, p := range parts {
		n, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || n < 0 {
			return 0, false
		}
		total = total*60 + n
	}
	return total, true
}

// EventSeconds resolves the match-clock second of e. The game clock string is
// preferred, then legacy numeric fields, then the video timestamp. The video
// timestamp includes stoppages and the half-time break, so events resolved
// through it can land in a later bucket than the game clock would give.
func EventSeconds(e model.Event) (float64, bool) {
	for _, f := range []fields.Field{fields.GameClock, fields.LegacyTime, fields.VideoTime} {
		for _, p := range fields.Candidates(f) {
			v, ok := e.Lookup(p...)
			if !ok || model.IsEmpty(v) {
				continue
			}
			if sec, ok := secondsOf(v); ok {
				return sec, true
			}
		}
	}
	return 0, false
}

func secondsOf(v any) (float64, bool) {
	if s, ok := v.(string); ok && strings.Contains(s, ":") {
		return ParseClock(s)
	}
	return model.AsFloat(v)
}

// ForEvent returns the bucket of e, or false when no time field resolves.
func ForEvent(e model.Event) (Group, bool) {
	sec, ok := EventSeconds(e)
	if !ok {
		return "", false
	}
	return ForSeconds(sec)
}

var (
	bucketLabel = regexp.MustCompile(`^(\d+)'?-(\d+)'?$`)
	apostrophes = strings.NewReplacer("’", "'", "‘", "'", "′", "'", "´", "'", "`", "'", "–", "-", "—", "-")

	ordinals = []struct {
		group Group
		re    *regexp.Regexp
	}{
		{Q4, regexp.MustCompile(`\b(Q4|4(TH|TO|O)?|CUARTO CUARTO|ULTIMO|LAST|FOURTH)\b`)},
		{Q1, regexp.MustCompile(`\b(Q1|1(ST|ER|RO|O)?|PRIMERO?|FIRST)\b`)},
		{Q2, regexp.MustCompile(`\b(Q2|2(ND|DO|O)?|SEGUNDO|SECOND)\b`)},
		{Q3, regexp.MustCompile(`\b(Q3|3(RD|ER|RO|O)?|TERCERO?|THIRD)\b`)},
	}
)

// Canonical maps a free-text quarter label to its bucket. It accepts the
// bucket labels themselves in any spacing ("0' - 20'", "20-40") and ordinal
// names in Spanish and English ("primer cuarto", "Q2", "3rd", "último").
// A bare "cuarto" is ambiguous between "quarter" and "fourth" and does not
// resolve.
func Canonical(label string) (Group, bool) {
	s := apostrophes.Replace(model.Normalize(label))
	compact := strings.Join(strings.Fields(s), "")
	if m := bucketLabel.FindStringSubmatch(compact); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		for _, g := range All {
			gm := bucketLabel.FindStringSubmatch(string(g))
			if strconv.Itoa(lo) == gm[1] && strconv.Itoa(hi) == gm[2] {
				return g, true
			}
		}
		return "", false
	}
	for _, o := range ordinals {
		if o.re.MatchString(s) {
			return o.group, true
		}
	}
	return "", false
}

// Matches reports whether e falls in the bucket named by label.
func Matches(e model.Event, label string) bool {
	want, ok := Canonical(label)
	if !ok {
		return false
	}
	got, ok := ForEvent(e)
	return ok && got == want
}
