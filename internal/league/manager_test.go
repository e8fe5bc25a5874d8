package league_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alex65536/league/internal/league"
	"github.com/alex65536/league/internal/testutil"
	"github.com/alex65536/league/internal/util/slogx"
	"github.com/itbasis/go-clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type changeRecorder struct {
	changes []league.Change
}

func (r *changeRecorder) OnChange(c league.Change) {
	r.changes = append(r.changes, c)
}

type env struct {
	db      league.DB
	clock   *clock.Mock
	changes *changeRecorder
	m       *league.Manager
}

func newEnv(t *testing.T) *env {
	return newEnvWithDB(t, testutil.NewTestDB(t))
}

func newEnvWithDB(t *testing.T, db league.DB) *env {
	e := &env{
		db:      db,
		clock:   testutil.NewClock(),
		changes: &changeRecorder{},
	}
	e.m = league.NewManager(slogx.DiscardLogger(), league.Config{
		DB:       db,
		Clock:    e.clock,
		Listener: e.changes,
	}, league.Options{})
	return e
}

func (e *env) team(t *testing.T, name string) league.Team {
	team, err := e.m.CreateTeam(context.Background(), league.TeamSettings{Name: name})
	require.NoError(t, err)
	return team
}

func (e *env) match(t *testing.T, home, away string, at time.Time, tournamentID *string) league.Match {
	match, err := e.m.CreateMatch(context.Background(), league.MatchSettings{
		Date:         at,
		HomeTeamID:   home,
		AwayTeamID:   away,
		TournamentID: tournamentID,
	})
	require.NoError(t, err)
	return match
}

func TestTeamLifecycle(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.m.CreateTeam(ctx, league.TeamSettings{Name: "  "})
	require.True(t, league.IsValidation(err))

	team := e.team(t, "Net Ninjas")
	assert.False(t, team.Archived)

	team, err = e.m.EditTeam(ctx, team.ID, league.TeamSettings{
		Name: "Net Ninjas II",
		Logo: "https://example.com/ninja.png",
	})
	require.NoError(t, err)

	got, err := e.m.GetTeam(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, "Net Ninjas II", got.Name)
	require.NotNil(t, got.Logo)
	assert.Equal(t, "https://example.com/ninja.png", *got.Logo)

	require.NoError(t, e.m.SetTeamArchived(ctx, team.ID, true))
	teams, err := e.m.ListTeams(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, teams)
	teams, err = e.m.ListTeams(ctx, true)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.True(t, teams[0].Archived)

	_, err = e.m.GetTeam(ctx, "missing")
	assert.ErrorIs(t, err, league.ErrNotFound)

	assert.Contains(t, e.changes.changes, league.Change{Kind: league.KindTeam, ID: team.ID})
}

func TestDeleteTeam(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	a := e.team(t, "A")
	b := e.team(t, "B")
	c := e.team(t, "C")

	p, err := e.m.CreatePlayer(ctx, league.PlayerSettings{Name: "Ann", TeamID: &c.ID})
	require.NoError(t, err)

	e.match(t, a.ID, b.ID, e.clock.Now().Add(time.Hour), nil)
	err = e.m.DeleteTeam(ctx, a.ID)
	require.True(t, league.IsState(err), "got %v", err)
	_, err = e.m.GetTeam(ctx, a.ID)
	require.NoError(t, err)

	require.NoError(t, e.m.DeleteTeam(ctx, c.ID))
	_, err = e.m.GetTeam(ctx, c.ID)
	assert.ErrorIs(t, err, league.ErrNotFound)

	p, err = e.m.GetPlayer(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, p.IsFreeAgent())

	assert.ErrorIs(t, e.m.DeleteTeam(ctx, c.ID), league.ErrNotFound)
}

func TestPlayers(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	team := e.team(t, "Smashers")
	archived := e.team(t, "Old")
	require.NoError(t, e.m.SetTeamArchived(ctx, archived.ID, true))

	ann, err := e.m.CreatePlayer(ctx, league.PlayerSettings{Name: "Ann", TeamID: &team.ID})
	require.NoError(t, err)
	bob, err := e.m.CreatePlayer(ctx, league.PlayerSettings{Name: "Bob"})
	require.NoError(t, err)
	assert.True(t, bob.IsFreeAgent())

	missing := "missing"
	_, err = e.m.CreatePlayer(ctx, league.PlayerSettings{Name: "Eve", TeamID: &missing})
	assert.ErrorIs(t, err, league.ErrNotFound)
	_, err = e.m.CreatePlayer(ctx, league.PlayerSettings{Name: "Eve", TeamID: &archived.ID})
	assert.True(t, league.IsState(err))

	agents, err := e.m.ListFreeAgents(ctx)
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, bob.ID, agents[0].ID)

	require.NoError(t, e.m.AssignPlayerToTeam(ctx, bob.ID, team.ID))
	got, err := e.m.GetTeam(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, got.Players, 2)
	assert.Equal(t, "Ann", got.Players[0].Name)
	assert.Equal(t, "Bob", got.Players[1].Name)

	require.NoError(t, e.m.RemovePlayerFromTeam(ctx, ann.ID))
	ann, err = e.m.GetPlayer(ctx, ann.ID)
	require.NoError(t, err)
	assert.True(t, ann.IsFreeAgent())

	ann, err = e.m.EditPlayer(ctx, ann.ID, league.PlayerSettings{Name: "Anna", TeamID: &team.ID})
	require.NoError(t, err)
	assert.Equal(t, "Anna", ann.Name)
	require.NotNil(t, ann.TeamID)

	_, err = e.m.DeletePlayers(ctx, nil)
	assert.True(t, league.IsValidation(err))
	e.changes.changes = nil
	cnt, err := e.m.DeletePlayers(ctx, []string{ann.ID, bob.ID, "unknown"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), cnt)
	assert.ElementsMatch(t, []league.Change{
		{Kind: league.KindPlayer, ID: ann.ID},
		{Kind: league.KindPlayer, ID: bob.ID},
	}, e.changes.changes)
	all, err := e.m.ListPlayers(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateMatchValidation(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	a := e.team(t, "A")
	b := e.team(t, "B")
	now := e.clock.Now()

	_, err := e.m.CreateMatch(ctx, league.MatchSettings{Date: now, HomeTeamID: a.ID, AwayTeamID: a.ID})
	require.True(t, league.IsValidation(err))
	var vErr *league.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "teams", vErr.Field)

	_, err = e.m.CreateMatch(ctx, league.MatchSettings{HomeTeamID: a.ID, AwayTeamID: b.ID})
	assert.True(t, league.IsValidation(err))

	_, err = e.m.CreateMatch(ctx, league.MatchSettings{Date: now, HomeTeamID: a.ID, AwayTeamID: "missing"})
	assert.ErrorIs(t, err, league.ErrNotFound)

	require.NoError(t, e.m.SetTeamArchived(ctx, b.ID, true))
	_, err = e.m.CreateMatch(ctx, league.MatchSettings{Date: now, HomeTeamID: a.ID, AwayTeamID: b.ID})
	assert.True(t, league.IsState(err))

	matches, err := e.m.ListMatches(ctx, league.MatchFilter{})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestRecordResult(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	a := e.team(t, "A")
	b := e.team(t, "B")

	future := e.match(t, a.ID, b.ID, e.clock.Now().Add(48*time.Hour), nil)
	_, err := e.m.RecordResult(ctx, future.ID, 6, 4)
	require.True(t, league.IsState(err), "got %v", err)

	e.clock.Add(72 * time.Hour)
	match, err := e.m.RecordResult(ctx, future.ID, 6, 4)
	require.NoError(t, err)
	assert.Equal(t, league.MatchPlayed, match.Status)

	_, err = e.m.RecordResult(ctx, future.ID, -1, 4)
	assert.True(t, league.IsValidation(err))

	// Correcting the result overwrites the previous one.
	match, err = e.m.RecordResult(ctx, future.ID, 3, 6)
	require.NoError(t, err)
	got, err := e.m.GetMatch(ctx, match.ID)
	require.NoError(t, err)
	require.True(t, got.HasScores())
	assert.Equal(t, 3, *got.HomeScore)
	assert.Equal(t, 6, *got.AwayScore)
	require.NotNil(t, got.HomeTeam)
	assert.Equal(t, "A", got.HomeTeam.Name)

	stats, err := e.m.TeamRecord(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Record.Wins)
	assert.Equal(t, 1, stats.Record.Played)

	_, err = e.m.CancelMatch(ctx, match.ID, "wrong teams")
	require.NoError(t, err)
	_, err = e.m.RecordResult(ctx, match.ID, 1, 0)
	assert.True(t, league.IsState(err))

	stats, err = e.m.TeamRecord(ctx, b.ID)
	require.NoError(t, err)
	assert.Zero(t, stats.Record.Played)
	assert.True(t, stats.Record.WinRate().IsNone())
}

func TestCancelMatch(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	a := e.team(t, "A")
	b := e.team(t, "B")
	match := e.match(t, a.ID, b.ID, e.clock.Now().Add(time.Hour), nil)

	_, err := e.m.CancelMatch(ctx, match.ID, "")
	require.True(t, league.IsValidation(err))

	match, err = e.m.CancelMatch(ctx, match.ID, "rain")
	require.NoError(t, err)
	assert.Equal(t, league.MatchCancelled, match.Status)
	require.NotNil(t, match.CancellationReason)
	assert.Equal(t, "rain", *match.CancellationReason)

	match, err = e.m.CancelMatch(ctx, match.ID, "court closed")
	require.NoError(t, err)
	assert.Equal(t, "court closed", *match.CancellationReason)

	_, err = e.m.CancelMatch(ctx, "missing", "rain")
	assert.ErrorIs(t, err, league.ErrNotFound)
}

func TestForbidCancelPlayed(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	c := testutil.NewClock()
	m := league.NewManager(slogx.DiscardLogger(), league.Config{DB: db, Clock: c}, league.Options{
		ForbidCancelPlayed: true,
	})
	a, err := m.CreateTeam(ctx, league.TeamSettings{Name: "A"})
	require.NoError(t, err)
	b, err := m.CreateTeam(ctx, league.TeamSettings{Name: "B"})
	require.NoError(t, err)
	match, err := m.CreateMatch(ctx, league.MatchSettings{
		Date:       c.Now().Add(-time.Hour),
		HomeTeamID: a.ID,
		AwayTeamID: b.ID,
	})
	require.NoError(t, err)
	_, err = m.RecordResult(ctx, match.ID, 2, 1)
	require.NoError(t, err)
	_, err = m.CancelMatch(ctx, match.ID, "rain")
	assert.True(t, league.IsState(err))
}

func TestForbidEditPlayedTeams(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	c := testutil.NewClock()
	m := league.NewManager(slogx.DiscardLogger(), league.Config{DB: db, Clock: c}, league.Options{
		ForbidEditPlayedTeams: true,
	})
	var teams []league.Team
	for _, name := range []string{"A", "B", "C"} {
		team, err := m.CreateTeam(ctx, league.TeamSettings{Name: name})
		require.NoError(t, err)
		teams = append(teams, team)
	}
	date := c.Now().Add(-time.Hour)
	match, err := m.CreateMatch(ctx, league.MatchSettings{
		Date:       date,
		HomeTeamID: teams[0].ID,
		AwayTeamID: teams[1].ID,
	})
	require.NoError(t, err)
	_, err = m.RecordResult(ctx, match.ID, 1, 0)
	require.NoError(t, err)

	_, err = m.EditMatch(ctx, match.ID, league.MatchSettings{
		Date:       date,
		HomeTeamID: teams[0].ID,
		AwayTeamID: teams[2].ID,
	})
	require.True(t, league.IsState(err))
	got, err := m.GetMatch(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, teams[1].ID, got.AwayTeamID)
	assert.Equal(t, league.MatchPlayed, got.Status)
	assert.True(t, got.Date.Equal(date))

	newDate := c.Now().Add(-3 * time.Hour)
	_, err = m.EditMatch(ctx, match.ID, league.MatchSettings{
		Date:       newDate,
		HomeTeamID: teams[0].ID,
		AwayTeamID: teams[1].ID,
	})
	require.NoError(t, err)
	got, err = m.GetMatch(ctx, match.ID)
	require.NoError(t, err)
	assert.True(t, got.Date.Equal(newDate))
	require.NotNil(t, got.HomeScore)
	require.NotNil(t, got.AwayScore)
	assert.Equal(t, 1, *got.HomeScore)
	assert.Equal(t, 0, *got.AwayScore)
}

func TestEditMatch(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	a := e.team(t, "A")
	b := e.team(t, "B")
	c := e.team(t, "C")
	now := e.clock.Now()
	match := e.match(t, a.ID, b.ID, now.Add(-time.Hour), nil)
	_, err := e.m.RecordResult(ctx, match.ID, 6, 2)
	require.NoError(t, err)

	_, err = e.m.EditMatch(ctx, match.ID, league.MatchSettings{
		Date:       now.Add(time.Hour),
		HomeTeamID: a.ID,
		AwayTeamID: b.ID,
	})
	require.True(t, league.IsState(err))

	match, err = e.m.EditMatch(ctx, match.ID, league.MatchSettings{
		Date:       now.Add(-2 * time.Hour),
		HomeTeamID: a.ID,
		AwayTeamID: c.ID,
	})
	require.NoError(t, err)
	got, err := e.m.GetMatch(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.AwayTeamID)
	assert.Equal(t, league.MatchPlayed, got.Status)
	assert.True(t, got.Date.Equal(now.Add(-2*time.Hour)))
}

func TestCancelTournamentCascade(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	a := e.team(t, "A")
	b := e.team(t, "B")
	now := e.clock.Now()

	tour, err := e.m.CreateTournament(ctx, league.TournamentSettings{
		Name:      "Summer Cup",
		StartDate: now.Add(24 * time.Hour),
	})
	require.NoError(t, err)
	m1 := e.match(t, a.ID, b.ID, now.Add(25*time.Hour), &tour.ID)
	m2 := e.match(t, b.ID, a.ID, now.Add(26*time.Hour), &tour.ID)
	m3 := e.match(t, a.ID, b.ID, now.Add(27*time.Hour), &tour.ID)
	other := e.match(t, a.ID, b.ID, now.Add(28*time.Hour), nil)
	_, err = e.m.CancelMatch(ctx, m3.ID, "injury")
	require.NoError(t, err)

	_, err = e.m.CancelTournament(ctx, tour.ID, " ")
	require.True(t, league.IsValidation(err))

	cnt, err := e.m.CancelTournament(ctx, tour.ID, "venue lost")
	require.NoError(t, err)
	assert.Equal(t, int64(2), cnt)

	d, err := e.m.GetTournament(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, league.TournamentCancelled, d.Status)
	assert.Equal(t, league.TournamentCancelled, d.Effective)
	require.NotNil(t, d.CancellationReason)
	assert.Equal(t, "venue lost", *d.CancellationReason)
	assert.Empty(t, d.Upcoming)
	assert.Empty(t, d.Played)
	require.Len(t, d.Cancelled, 3)

	for _, id := range []string{m1.ID, m2.ID} {
		got, err := e.m.GetMatch(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, league.MatchCancelled, got.Status)
		assert.Equal(t, "Tournament cancelled: venue lost", *got.CancellationReason)
	}
	got, err := e.m.GetMatch(ctx, m3.ID)
	require.NoError(t, err)
	assert.Equal(t, "injury", *got.CancellationReason)

	got, err = e.m.GetMatch(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, league.MatchUpcoming, got.Status)

	_, err = e.m.CreateMatch(ctx, league.MatchSettings{
		Date:         now,
		HomeTeamID:   a.ID,
		AwayTeamID:   b.ID,
		TournamentID: &tour.ID,
	})
	assert.True(t, league.IsState(err))

	_, err = e.m.UpdateTournamentStatus(ctx, tour.ID, league.TournamentOngoing)
	assert.True(t, league.IsState(err))

	_, err = e.m.CancelTournament(ctx, "missing", "venue lost")
	assert.ErrorIs(t, err, league.ErrNotFound)
}

var errInjected = errors.New("injected failure")

// failingDB fails the cascade step of the tournament cancellation.
type failingDB struct {
	league.DB
}

func (d failingDB) Transaction(ctx context.Context, f func(tx league.DB) error) error {
	return d.DB.Transaction(ctx, func(tx league.DB) error {
		return f(failingDB{DB: tx})
	})
}

func (d failingDB) CancelTournamentMatches(context.Context, string, string) (int64, error) {
	return 0, errInjected
}

func TestCancelTournamentRollback(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	good := newEnvWithDB(t, db)
	bad := newEnvWithDB(t, failingDB{DB: db})
	a := good.team(t, "A")
	b := good.team(t, "B")
	now := good.clock.Now()

	tour, err := good.m.CreateTournament(ctx, league.TournamentSettings{
		Name:      "Autumn Open",
		StartDate: now.Add(time.Hour),
	})
	require.NoError(t, err)
	match := good.match(t, a.ID, b.ID, now.Add(2*time.Hour), &tour.ID)

	_, err = bad.m.CancelTournament(ctx, tour.ID, "sponsor left")
	require.Error(t, err)
	assert.True(t, league.IsStore(err))
	assert.ErrorIs(t, err, errInjected)
	assert.Empty(t, bad.changes.changes)

	d, err := good.m.GetTournament(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, league.TournamentUpcoming, d.Status)
	assert.Nil(t, d.CancellationReason)

	got, err := good.m.GetMatch(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, league.MatchUpcoming, got.Status)
}

func TestTournamentStatuses(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	now := e.clock.Now()
	end := now.Add(48 * time.Hour)

	_, err := e.m.CreateTournament(ctx, league.TournamentSettings{
		Name:      "Backwards",
		StartDate: now,
		EndDate:   ptr(now.Add(-time.Hour)),
	})
	require.True(t, league.IsValidation(err))

	tour, err := e.m.CreateTournament(ctx, league.TournamentSettings{
		Name:      "Winter League",
		StartDate: now.Add(24 * time.Hour),
		EndDate:   &end,
	})
	require.NoError(t, err)
	assert.Equal(t, league.TournamentUpcoming, tour.Status)

	e.clock.Add(25 * time.Hour)
	d, err := e.m.GetTournament(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, league.TournamentUpcoming, d.Status)
	assert.Equal(t, league.TournamentOngoing, d.Effective)

	ongoing := league.TournamentOngoing
	views, err := e.m.ListTournaments(ctx, league.TournamentFilter{Effective: &ongoing})
	require.NoError(t, err)
	require.Len(t, views, 1)

	cnt, err := e.m.SyncTournamentStatuses(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cnt)
	cnt, err = e.m.SyncTournamentStatuses(ctx)
	require.NoError(t, err)
	assert.Zero(t, cnt)

	e.clock.Add(48 * time.Hour)
	d, err = e.m.GetTournament(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, league.TournamentCompleted, d.Effective)

	_, err = e.m.UpdateTournamentStatus(ctx, tour.ID, league.TournamentCancelled)
	assert.True(t, league.IsValidation(err))
	_, err = e.m.UpdateTournamentStatus(ctx, tour.ID, "paused")
	assert.True(t, league.IsValidation(err))

	// Completed is terminal and survives moving the dates.
	_, err = e.m.UpdateTournamentStatus(ctx, tour.ID, league.TournamentCompleted)
	require.NoError(t, err)
	_, err = e.m.EditTournament(ctx, tour.ID, league.TournamentSettings{
		Name:      "Winter League",
		StartDate: e.clock.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	d, err = e.m.GetTournament(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, league.TournamentCompleted, d.Effective)
	assert.Nil(t, d.EndDate)
}

func TestOverview(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	a := e.team(t, "A")
	b := e.team(t, "B")
	now := e.clock.Now()
	_, err := e.m.CreatePlayer(ctx, league.PlayerSettings{Name: "Ann"})
	require.NoError(t, err)
	e.match(t, a.ID, b.ID, now.Add(time.Hour), nil)
	played := e.match(t, a.ID, b.ID, now.Add(-time.Hour), nil)
	_, err = e.m.RecordResult(ctx, played.ID, 1, 0)
	require.NoError(t, err)
	_, err = e.m.CreateTournament(ctx, league.TournamentSettings{Name: "T", StartDate: now.Add(-time.Hour)})
	require.NoError(t, err)

	o, err := e.m.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), o.Teams)
	assert.Equal(t, int64(1), o.Players)
	assert.Equal(t, int64(2), o.TotalMatches())
	assert.Equal(t, int64(1), o.Matches[league.MatchPlayed])
	assert.Equal(t, int64(1), o.Matches[league.MatchUpcoming])
	assert.Equal(t, 1, o.Tournaments[league.TournamentOngoing])
}

func ptr[T any](v T) *T {
	return &v
}
