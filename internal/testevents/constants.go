package testevents

const (
	defaultOurTeam  = "Pescara"
	defaultOpponent = "Atlético Rugby"

	matchSeconds  = 80 * 60
	halfTimeBreak = 15 * 60
	pitchMetres   = 100
)

var (
	categories = []string{
		"TACKLE", "Placaje", "PENAL", "PENALTY", "SCRUM", "Melé", "LINEOUT", "LINE",
		"TURNOVER+", "TURNOVER-", "RUCK", "KICK", "PALOS", "TRY", "Ensayo", "CARD", "MISSED-TACKLE",
	}
	codes                = []string{"PENAL RIVAL", "PALOS RIVAL", "TACKLE", "SCRUM RIVAL"}
	teamKeys             = []string{"team", "TEAM", "equipo", "EQUIPO"}
	opponentPlaceholders = []string{"OPPONENT", "RIVAL", "Rival", "visitante"}
	truthy               = []string{"true", "1", "si", "yes"}
	playerNumbers        = []string{"1", "2", "7", "9", "10", "12", "15"}
	advanceKeys          = []string{"AVANCE", "ADVANCE"}
	advances             = []string{"POSITIVO", "NEUTRO", "NEGATIVO", "Positivo"}
	cards                = []string{"AMARILLA", "ROJA", "yellow"}
	kicks                = []string{"BOX", "Rastrón", "ALTO", "A LA LINEA", "PALOS", "chip"}
	tryOrigins           = []string{"SCRUM", "LINE", "TURNOVER", ""}
)
