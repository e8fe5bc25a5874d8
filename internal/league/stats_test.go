package league

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func played(home, away string, hs, as int, tournamentID *string) Match {
	return Match{
		HomeTeamID:   home,
		AwayTeamID:   away,
		HomeScore:    &hs,
		AwayScore:    &as,
		Status:       MatchPlayed,
		TournamentID: tournamentID,
	}
}

func TestSummarize(t *testing.T) {
	spring := "spring"
	cup := "cup"
	cancelled := Match{
		HomeTeamID:   "a",
		AwayTeamID:   "b",
		Status:       MatchCancelled,
		TournamentID: &cup,
		Tournament:   &Tournament{ID: cup, Name: "Cup"},
	}
	matches := []Match{
		played("a", "b", 6, 3, &spring),
		played("c", "a", 2, 6, &spring),
		played("a", "c", 4, 4, nil),
		{HomeTeamID: "a", AwayTeamID: "b", Status: MatchUpcoming},
		cancelled,
		played("b", "c", 6, 0, nil),
		// Played without both scores does not count.
		{HomeTeamID: "a", AwayTeamID: "c", Status: MatchPlayed},
	}
	matches[0].Tournament = &Tournament{ID: spring, Name: "Spring"}

	r := Summarize("a", matches)
	assert.Equal(t, 2, r.Wins)
	assert.Equal(t, 0, r.Losses)
	assert.Equal(t, 1, r.Draws)
	assert.Equal(t, 3, r.Played)
	assert.Equal(t, []TournamentRef{
		{ID: "spring", Name: "Spring"},
		{ID: "cup", Name: "Cup"},
	}, r.Tournaments)

	rate, ok := r.WinRate().TryGet()
	require.True(t, ok)
	assert.InDelta(t, 2.0/3.0, rate, 1e-9)

	r = Summarize("b", matches)
	assert.Equal(t, 1, r.Wins)
	assert.Equal(t, 1, r.Losses)
	assert.Equal(t, 2, r.Played)
}

func TestSummarizeEmpty(t *testing.T) {
	r := Summarize("a", []Match{
		{HomeTeamID: "a", AwayTeamID: "b", Status: MatchUpcoming},
		played("b", "c", 1, 0, nil),
	})
	assert.Zero(t, r.Played)
	assert.Empty(t, r.Tournaments)
	assert.True(t, r.WinRate().IsNone())
}

func TestSplitMatches(t *testing.T) {
	up, pl, ca := SplitMatches([]Match{
		{ID: "1", Status: MatchPlayed},
		{ID: "2", Status: MatchUpcoming},
		{ID: "3", Status: MatchCancelled},
		{ID: "4", Status: MatchPlayed},
	})
	assert.Len(t, up, 1)
	assert.Len(t, ca, 1)
	require.Len(t, pl, 2)
	assert.Equal(t, "1", pl[0].ID)
	assert.Equal(t, "4", pl[1].ID)
}
