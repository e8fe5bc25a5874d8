package league

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveTournamentStatus(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour
	at := func(d time.Duration) time.Time { return now.Add(d) }
	ptr := func(t time.Time) *time.Time { return &t }

	for _, tc := range []struct {
		name      string
		persisted TournamentStatus
		start     time.Time
		end       *time.Time
		want      TournamentStatus
	}{
		{"FutureStart", TournamentUpcoming, at(day), nil, TournamentUpcoming},
		{"StartedNoEnd", TournamentUpcoming, at(-day), nil, TournamentOngoing},
		{"StartsNow", TournamentUpcoming, now, nil, TournamentOngoing},
		{"Running", TournamentUpcoming, at(-day), ptr(at(day)), TournamentOngoing},
		{"EndsNow", TournamentOngoing, at(-day), ptr(now), TournamentOngoing},
		{"Ended", TournamentOngoing, at(-2 * day), ptr(at(-day)), TournamentCompleted},
		{"StaleOngoing", TournamentOngoing, at(day), nil, TournamentUpcoming},
		{"CancelledWins", TournamentCancelled, at(-2 * day), ptr(at(-day)), TournamentCancelled},
		{"CancelledFuture", TournamentCancelled, at(day), nil, TournamentCancelled},
		{"CompletedEarly", TournamentCompleted, at(-day), ptr(at(day)), TournamentCompleted},
		{"CompletedFuture", TournamentCompleted, at(day), nil, TournamentCompleted},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveTournamentStatus(tc.persisted, tc.start, tc.end, now))
		})
	}
}

func TestEffectiveStatusKeepsTournament(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	tour := Tournament{
		StartDate: now.Add(-time.Hour),
		Status:    TournamentUpcoming,
	}
	assert.Equal(t, TournamentOngoing, EffectiveStatus(&tour, now))
	assert.Equal(t, TournamentUpcoming, tour.Status)
}

func TestStatusHelpers(t *testing.T) {
	assert.True(t, MatchPlayed.IsValid())
	assert.False(t, MatchStatus("postponed").IsValid())
	assert.True(t, TournamentCancelled.IsTerminal())
	assert.True(t, TournamentCompleted.IsTerminal())
	assert.False(t, TournamentOngoing.IsTerminal())
	assert.False(t, TournamentStatus("").IsValid())
	assert.Equal(t, "Ongoing", TournamentOngoing.PrettyString())
}
