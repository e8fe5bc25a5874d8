package league

import (
	"time"
)

// ResolveTournamentStatus computes the status of the tournament which is shown to the users. The
// persisted status wins if it is terminal, otherwise the status is derived from the dates. The
// first matching rule applies.
func ResolveTournamentStatus(persisted TournamentStatus, start time.Time, end *time.Time, now time.Time) TournamentStatus {
	switch {
	case persisted.IsTerminal():
		return persisted
	case end != nil && end.Before(now):
		return TournamentCompleted
	case !start.After(now):
		return TournamentOngoing
	default:
		return TournamentUpcoming
	}
}

func EffectiveStatus(t *Tournament, now time.Time) TournamentStatus {
	return ResolveTournamentStatus(t.Status, t.StartDate, t.EndDate, now)
}
