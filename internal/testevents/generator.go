// Package testevents generates synthetic tagged matches. Output is fully
// determined by the seed, so tests and the CLI -sample flag are reproducible.
package testevents

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/model"
)

// Generator produces matches whose events use the inconsistent key spellings,
// languages and shapes seen in real tagged data.
type Generator struct {
	rng      *rand.Rand
	ourTeam  string
	opponent string
}

// Option configures a Generator.
type Option func(*Generator)

// WithTeams sets the real team names used for both sides.
func WithTeams(ours, opponent string) Option {
	return func(g *Generator) {
		if ours != "" {
			g.ourTeam = ours
		}
		if opponent != "" {
			g.opponent = opponent
		}
	}
}

// New creates a Generator seeded with seed.
func New(seed int64, opts ...Option) *Generator {
	g := &Generator{
		rng:      rand.New(rand.NewSource(seed)), //nolint:gosec // reproducible fixtures
		ourTeam:  defaultOurTeam,
		opponent: defaultOpponent,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// OurTeam returns the name used for the home side.
func (g *Generator) OurTeam() string { return g.ourTeam }

// Match returns n events in match-clock order.
func (g *Generator) Match(n int) []model.Event {
	if n <= 0 {
		return []model.Event{}
	}
	events := make([]model.Event, 0, n)
	step := float64(matchSeconds) / float64(n)
	for i := 0; i < n; i++ {
		sec := float64(i)*step + g.rng.Float64()*step
		events = append(events, g.event(sec))
	}
	return events
}

func (g *Generator) pick(items []string) string {
	return items[g.rng.Intn(len(items))]
}

func (g *Generator) id() string {
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		return fmt.Sprintf("ev-%d", g.rng.Int63())
	}
	return id.String()
}

func (g *Generator) event(sec float64) model.Event {
	ev := model.Event{}
	extra := map[string]any{}

	if g.rng.Intn(10) > 0 {
		ev[model.KeyID] = g.id()
	}

	category := g.pick(categories)
	switch g.rng.Intn(4) {
	case 0:
		ev["category"] = category
	case 1:
		ev["CATEGORY"] = category
	case 2:
		ev["event_type"] = category
	default:
		ev["category"] = category
		extra["category"] = category
	}
	if g.rng.Intn(5) == 0 {
		ev["code"] = g.pick(codes)
	}

	switch side := g.rng.Intn(10); {
	case side < 5:
		g.put(ev, extra, g.pick(teamKeys), g.ourTeam)
	case side < 7:
		g.put(ev, extra, g.pick(teamKeys), g.pick(opponentPlaceholders))
	case side < 8:
		g.put(ev, extra, g.pick(teamKeys), g.opponent)
	case side < 9:
		ev["is_opponent"] = g.pick(truthy)
	}

	switch g.rng.Intn(4) {
	case 0:
		ev["players"] = g.players(1 + g.rng.Intn(3))
	case 1:
		ev["JUGADOR"] = g.pick(playerNumbers)
	case 2:
		extra["JUGADOR"] = g.players(1)
	}

	switch g.rng.Intn(3) {
	case 0:
		extra["Game_Time"] = clock(sec)
	case 1:
		ev["timestamp_sec"] = sec
	default:
		extra["Game_Time"] = clock(sec)
		ev["timestamp_sec"] = sec + halfTimeBreak*float64(g.rng.Intn(2))
	}

	if g.rng.Intn(2) == 0 {
		extra[g.pick(advanceKeys)] = []any{g.pick(advances)}
	}
	if g.rng.Intn(3) == 0 {
		extra["y"] = -float64(g.rng.Intn(pitchMetres + 1))
	}
	if g.rng.Intn(4) == 0 {
		extra["RUCK_SPEED"] = float64(g.rng.Intn(90)) / 10
	}
	if g.rng.Intn(6) == 0 {
		extra["TARJETA"] = g.pick(cards)
	}
	if g.rng.Intn(6) == 0 {
		extra["TIPO_PIE"] = g.pick(kicks)
	}
	if g.rng.Intn(8) == 0 {
		extra["PHASES"] = float64(g.rng.Intn(12))
		extra["ORIGEN"] = g.pick(tryOrigins)
	}

	if len(extra) > 0 {
		ev[model.KeyExtraData] = extra
	}
	return ev
}

func (g *Generator) put(ev model.Event, extra map[string]any, key, value string) {
	if key == "EQUIPO" {
		extra[key] = value
		return
	}
	ev[key] = value
}

func (g *Generator) players(n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = g.pick(playerNumbers)
	}
	return out
}

func clock(sec float64) string {
	s := int(sec)
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}

// Descriptors returns k descriptors drawn from the filter vocabulary charts
// produce, covering every special matcher and the generic fallback.
func (g *Generator) Descriptors(k int) []model.Descriptor {
	pool := g.DescriptorPool()
	out := make([]model.Descriptor, 0, k)
	for i := 0; i < k; i++ {
		out = append(out, pool[g.rng.Intn(len(pool))])
	}
	return out
}

// DescriptorPool lists one descriptor per filter kind.
func (g *Generator) DescriptorPool() []model.Descriptor {
	return []model.Descriptor{
		model.D("CATEGORY", "TACKLE"),
		model.D("CATEGORY", "PENAL"),
		model.D("TEAM", "OUR_TEAM"),
		model.D("TEAM", "OPPONENTS"),
		model.D("EQUIPO", g.ourTeam),
		model.D("TEAM_SIDE", "OPPONENT"),
		model.D("TEAM_SIDE", "OUR_TEAM"),
		model.D("Time_Group", "20'-40'"),
		model.D("Quarter_Group", "primer cuarto"),
		model.D("ADVANCE", "POSITIVO"),
		model.D("FIELD_ZONE", "Campo Rival"),
		model.D("TRY_ORIGIN", "SCRUM"),
		model.D("TRY_PHASES", 3),
		model.D("CARD_TYPE", "YELLOW"),
		model.D("RUCK_SPEED_TAG", "FAST"),
		model.D("KICK_TYPE", "BOX"),
		model.D("TURNOVER_TYPE", "WON"),
		model.D("RESULTADO_PALOS", "SUCCESS"),
		model.D("JUGADOR", "10"),
		model.D("category", "SCRUM"),
		model.D("RUCK_SPEED", 2.5),
	}
}
