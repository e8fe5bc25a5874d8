package webui

import (
	"time"

	"github.com/alex65536/league/internal/league"
)

type matchPartData struct {
	ID         string
	Date       time.Time
	When       *humanTimePartData
	Home       *teamPartData
	Away       *teamPartData
	HomeScore  *int
	AwayScore  *int
	Status     league.MatchStatus
	Reason     string
	Tournament *league.TournamentRef
}

func (d *matchPartData) IsPlayed() bool    { return d.Status == league.MatchPlayed }
func (d *matchPartData) IsCancelled() bool { return d.Status == league.MatchCancelled }
func (d *matchPartData) IsUpcoming() bool  { return d.Status == league.MatchUpcoming }

func buildMatchPartData(now time.Time, m *league.Match) *matchPartData {
	res := &matchPartData{
		ID:     m.ID,
		Date:   m.Date,
		When:   buildHumanTimePartData(now, m.Date),
		Home:   buildTeamPartData(m.HomeTeam),
		Away:   buildTeamPartData(m.AwayTeam),
		Status: m.Status,
	}
	if m.HasScores() {
		res.HomeScore = m.HomeScore
		res.AwayScore = m.AwayScore
	}
	if m.CancellationReason != nil {
		res.Reason = *m.CancellationReason
	}
	if m.TournamentID != nil {
		res.Tournament = &league.TournamentRef{ID: *m.TournamentID}
		if m.Tournament != nil {
			res.Tournament.Name = m.Tournament.Name
		}
	}
	return res
}

func buildMatchPartsData(now time.Time, ms []league.Match) []*matchPartData {
	res := make([]*matchPartData, len(ms))
	for i := range ms {
		res[i] = buildMatchPartData(now, &ms[i])
	}
	return res
}
