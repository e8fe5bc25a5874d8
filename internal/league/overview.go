package league

import (
	"context"
)

type Overview struct {
	Teams       int64
	Players     int64
	Matches     map[MatchStatus]int64
	Tournaments map[TournamentStatus]int
}

func (o *Overview) TotalMatches() int64 {
	var total int64
	for _, c := range o.Matches {
		total += c
	}
	return total
}

// Overview returns the entity counts for the dashboard. Tournaments are counted by their
// effective status.
func (m *Manager) Overview(ctx context.Context) (Overview, error) {
	var (
		o   Overview
		err error
	)
	if o.Teams, err = m.db.CountTeams(ctx); err != nil {
		return Overview{}, storeErr("count teams", err)
	}
	if o.Players, err = m.db.CountPlayers(ctx); err != nil {
		return Overview{}, storeErr("count players", err)
	}
	if o.Matches, err = m.db.CountMatchesByStatus(ctx); err != nil {
		return Overview{}, storeErr("count matches", err)
	}
	ts, err := m.ListTournaments(ctx, TournamentFilter{})
	if err != nil {
		return Overview{}, err
	}
	o.Tournaments = make(map[TournamentStatus]int)
	for _, t := range ts {
		o.Tournaments[t.Effective]++
	}
	return o, nil
}
