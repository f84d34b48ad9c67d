// Package fields resolves logical event fields from records that store them
// under inconsistent keys.
//
// Each logical field maps to an ordered list of candidate paths: the current
// top-level key, legacy keys, extra_data equivalents and the Spanish/English
// spellings seen in tagged data. Key matching is case-insensitive, so the
// table lists distinct spellings only. The first candidate holding a
// non-empty value wins.
package fields

import (
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/model"
)

// Field names a logical event attribute.
type Field string

// Logical fields.
const (
	Category       Field = "category"
	Code           Field = "code"
	Team           Field = "team"
	Player         Field = "player"
	Players        Field = "players"
	OpponentFlag   Field = "opponent_flag"
	GameClock      Field = "game_clock"
	LegacyTime     Field = "legacy_time"
	VideoTime      Field = "video_time"
	Advance        Field = "advance"
	TryOrigin      Field = "try_origin"
	TryPhases      Field = "try_phases"
	CoordY         Field = "coord_y"
	CoordX         Field = "coord_x"
	Card           Field = "card"
	Infraction     Field = "infraction"
	KickType       Field = "kick_type"
	TurnoverType   Field = "turnover_type"
	RuckSpeed      Field = "ruck_speed"
	RuckSpeedTag   Field = "ruck_speed_tag"
	GoalKickResult Field = "goal_kick_result"
)

// Path is a key sequence walked through nested maps.
type Path []string

func top(key string) Path   { return Path{key} }
func extra(key string) Path { return Path{model.KeyExtraData, key} }

// Spec describes how a logical field is resolved.
type Spec struct {
	Candidates []Path
	// Singular fields collapse a sequence to its first non-empty element.
	Singular bool
}

var table = map[Field]Spec{
	Category: {Singular: true, Candidates: []Path{
		top("category"), top("event_type"), top("categoria"), top("tipo"),
		extra("category"), extra("event_type"), extra("categoria"),
	}},
	Code: {Singular: true, Candidates: []Path{
		top("code"), top("tag"), top("codigo"), extra("code"), extra("tag"),
	}},
	Team: {Singular: true, Candidates: []Path{
		top("team"), top("equipo"), top("team_name"),
		extra("EQUIPO"), extra("team"), extra("team_name"),
	}},
	Player: {Singular: true, Candidates: []Path{
		top("players"), top("jugadores"), top("player"), top("jugador"), top("player_name"),
		extra("JUGADOR"), extra("player"), extra("players"),
	}},
	Players: {Candidates: []Path{
		top("players"), top("jugadores"), top("player"), top("jugador"), top("player_name"),
		extra("JUGADOR"), extra("player"), extra("players"), extra("JUGADORES"),
	}},
	OpponentFlag: {Singular: true, Candidates: []Path{
		top("is_opponent"), top("isOpponent"), top("es_rival"), top("opponent"),
		extra("is_opponent"), extra("IS_OPPONENT"), extra("ES_RIVAL"), extra("opponent"),
	}},
	GameClock: {Singular: true, Candidates: []Path{
		extra("Game_Time"), top("game_time"), extra("TIEMPO_JUEGO"), top("tiempo_juego"),
	}},
	LegacyTime: {Singular: true, Candidates: []Path{
		extra("game_time_sec"), top("game_time_sec"), top("second"), top("segundo"),
		extra("SECOND"), top("time"),
	}},
	VideoTime: {Singular: true, Candidates: []Path{
		top("timestamp_sec"), top("timestamp"), top("clip_start"), extra("timestamp_sec"),
	}},
	Advance: {Candidates: []Path{
		extra("AVANCE"), extra("ADVANCE"), top("avance"), top("advance"),
	}},
	TryOrigin: {Singular: true, Candidates: []Path{
		extra("TRY_ORIGIN"), extra("ORIGEN"), extra("ORIGEN_TRY"), top("try_origin"), top("origen"),
	}},
	TryPhases: {Singular: true, Candidates: []Path{
		extra("PHASES"), extra("FASES"), extra("TRY_PHASES"), top("phases"), top("fases"), top("try_phases"),
	}},
	CoordY: {Singular: true, Candidates: []Path{
		extra("y"), top("y"), top("pos_y"), extra("pos_y"), extra("coord_y"),
	}},
	CoordX: {Singular: true, Candidates: []Path{
		extra("x"), top("x"), top("pos_x"), extra("pos_x"), extra("coord_x"),
	}},
	Card: {Singular: true, Candidates: []Path{
		extra("CARD_TYPE"), extra("TARJETA"), extra("CARD"), top("card_type"), top("tarjeta"), top("card"),
	}},
	Infraction: {Singular: true, Candidates: []Path{
		extra("INFRACCION"), extra("INFRACTION"), extra("CAUSA"), top("infraction"), top("infraccion"),
	}},
	KickType: {Singular: true, Candidates: []Path{
		extra("KICK_TYPE"), extra("TIPO_PIE"), extra("PIE"), extra("TIPO_PATADA"), top("kick_type"), top("tipo_pie"),
	}},
	TurnoverType: {Singular: true, Candidates: []Path{
		extra("TURNOVER_TYPE"), extra("TIPO_TURNOVER"), extra("RECUPERACION"), extra("TIPO"),
		top("turnover_type"), top("tipo_turnover"),
	}},
	RuckSpeed: {Singular: true, Candidates: []Path{
		extra("RUCK_SPEED"), extra("RUCK_TIME"), extra("VELOCIDAD_RUCK"), top("ruck_speed"), top("ruck_speed_sec"),
	}},
	RuckSpeedTag: {Singular: true, Candidates: []Path{
		extra("RUCK_SPEED_TAG"), extra("VELOCIDAD"), top("ruck_speed_tag"),
	}},
	GoalKickResult: {Singular: true, Candidates: []Path{
		extra("RESULTADO_PALOS"), extra("RESULTADO"), extra("RESULT"), extra("SUCCESS"),
		top("resultado_palos"), top("result"),
	}},
}

// Lookup returns the resolution spec for f.
func Lookup(f Field) (Spec, bool) {
	s, ok := table[f]
	return s, ok
}

// Candidates returns a copy of the ordered candidate paths for f.
func Candidates(f Field) []Path {
	s, ok := table[f]
	if !ok {
		return nil
	}
	out := make([]Path, len(s.Candidates))
	copy(out, s.Candidates)
	return out
}

// Resolve returns the first non-empty candidate value for f. Singular fields
// collapse sequences to their first non-empty element.
func Resolve(e model.Event, f Field) (any, bool) {
	s, ok := table[f]
	if !ok || e == nil {
		return nil, false
	}
	for _, p := range s.Candidates {
		v, ok := e.Lookup(p...)
		if !ok || model.IsEmpty(v) {
			continue
		}
		if s.Singular {
			if items, isSeq := model.AsSlice(v); isSeq {
				flat := model.Flatten(items)
				if len(flat) == 0 {
					continue
				}
				return flat[0], true
			}
		}
		return v, true
	}
	return nil, false
}

// ResolveString is Resolve rendered as a trimmed string.
func ResolveString(e model.Event, f Field) (string, bool) {
	v, ok := Resolve(e, f)
	if !ok {
		return "", false
	}
	s := model.Stringify(v)
	return s, s != ""
}

// ResolveFloat is Resolve coerced to a number.
func ResolveFloat(e model.Event, f Field) (float64, bool) {
	v, ok := Resolve(e, f)
	if !ok {
		return 0, false
	}
	return model.AsFloat(v)
}

// ResolveList resolves f as a sequence; scalars become one-element lists.
func ResolveList(e model.Event, f Field) []any {
	s, ok := table[f]
	if !ok || e == nil {
		return nil
	}
	for _, p := range s.Candidates {
		v, ok := e.Lookup(p...)
		if !ok {
			continue
		}
		if items := model.Flatten(v); len(items) > 0 {
			return items
		}
	}
	return nil
}

// ResolveAll returns every non-empty value any candidate holds, in table order,
// with sequences flattened.
func ResolveAll(e model.Event, f Field) []any {
	s, ok := table[f]
	if !ok || e == nil {
		return nil
	}
	var out []any
	for _, p := range s.Candidates {
		if v, ok := e.Lookup(p...); ok {
			out = append(out, model.Flatten(v)...)
		}
	}
	return out
}
