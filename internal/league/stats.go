package league

import (
	"github.com/alex65536/go-chess/util/maybe"
)

type TournamentRef struct {
	ID   string
	Name string
}

// Record is a win/loss summary of a team over a set of matches.
type Record struct {
	Wins   int
	Losses int
	Draws  int
	Played int

	// Tournaments the team participated in, in order of first appearance. Matches of any status
	// are considered here, not only played ones.
	Tournaments []TournamentRef
}

// WinRate returns the fraction of played matches that were won, or None if nothing was played.
func (r Record) WinRate() maybe.Maybe[float64] {
	if r.Played == 0 {
		return maybe.None[float64]()
	}
	return maybe.Some(float64(r.Wins) / float64(r.Played))
}

func sideScores(m *Match, teamID string) (our, their int) {
	if m.HomeTeamID == teamID {
		return *m.HomeScore, *m.AwayScore
	}
	return *m.AwayScore, *m.HomeScore
}

// Summarize computes the record of the team over the given matches. Only played matches with
// both scores count towards the tallies.
func Summarize(teamID string, matches []Match) Record {
	var r Record
	seen := make(map[string]struct{})
	for i := range matches {
		m := &matches[i]
		if m.HomeTeamID != teamID && m.AwayTeamID != teamID {
			continue
		}
		if m.TournamentID != nil {
			if _, ok := seen[*m.TournamentID]; !ok {
				seen[*m.TournamentID] = struct{}{}
				ref := TournamentRef{ID: *m.TournamentID}
				if m.Tournament != nil {
					ref.Name = m.Tournament.Name
				}
				r.Tournaments = append(r.Tournaments, ref)
			}
		}
		if m.Status != MatchPlayed || !m.HasScores() {
			continue
		}
		r.Played++
		our, their := sideScores(m, teamID)
		switch {
		case our > their:
			r.Wins++
		case our < their:
			r.Losses++
		default:
			r.Draws++
		}
	}
	return r
}
