package webui_test

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/alex65536/league/internal/database"
	"github.com/alex65536/league/internal/feed"
	"github.com/alex65536/league/internal/league"
	"github.com/alex65536/league/internal/testutil"
	"github.com/alex65536/league/internal/userauth"
	"github.com/alex65536/league/internal/util/slogx"
	"github.com/alex65536/league/internal/webui"
	"github.com/itbasis/go-clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type server struct {
	srv   *httptest.Server
	mgr   *league.Manager
	db    *database.DB
	clock *clock.Mock
}

func newServer(t *testing.T) *server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	log := slogx.DiscardLogger()

	db := testutil.NewTestDB(t)
	clk := testutil.NewClock()
	users, err := userauth.NewManager(log, userauth.ManagerConfig{DB: db, Clock: clk},
		userauth.ManagerOptions{LinkPrefix: "http://localhost/invite/"})
	require.NoError(t, err)
	t.Cleanup(users.Close)
	hub := feed.NewHub()
	t.Cleanup(hub.Close)
	mgr := league.NewManager(log, league.Config{
		DB:       db,
		Clock:    clk,
		Listener: hub,
	}, league.Options{})

	mux := http.NewServeMux()
	err = webui.Handle(ctx, log, mux, "", webui.Config{
		League:              mgr,
		UserManager:         users,
		Feed:                hub,
		SessionStoreFactory: db,
	}, webui.Options{
		Session: webui.SessionOptions{Key: []byte("0123456789abcdef0123456789abcdef")},
		CSRFKey: []byte("fedcba9876543210fedcba9876543210"),
	})
	require.NoError(t, err)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &server{srv: srv, mgr: mgr, db: db, clock: clk}
}

func (s *server) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.Get(s.srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestPublicPages(t *testing.T) {
	ctx := context.Background()
	s := newServer(t)

	home, err := s.mgr.CreateTeam(ctx, league.TeamSettings{Name: "Court Jesters"})
	require.NoError(t, err)
	away, err := s.mgr.CreateTeam(ctx, league.TeamSettings{Name: "Drop Shots"})
	require.NoError(t, err)
	match, err := s.mgr.CreateMatch(ctx, league.MatchSettings{
		Date:       s.mgr.Now().Add(24 * time.Hour),
		HomeTeamID: home.ID,
		AwayTeamID: away.ID,
	})
	require.NoError(t, err)

	resp, body := s.get(t, "/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Court Jesters")
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Len(t, resp.Header.Get("X-Request-Id"), 26)

	resp, _ = s.get(t, "/?filter=cancelled")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = s.get(t, "/?filter=bogus")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = s.get(t, "/team/"+home.ID)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Drop Shots")

	resp, _ = s.get(t, "/match/"+match.ID)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = s.get(t, "/team/missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = s.get(t, "/no/such/page")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = s.get(t, "/css/main.css")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDashboardNeedsLogin(t *testing.T) {
	s := newServer(t)
	for _, path := range []string{"/dashboard", "/dashboard/teams", "/dashboard/matches"} {
		resp, _ := s.get(t, path)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}

	resp, body := s.get(t, "/login")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "gorilla.csrf.Token")
}

var csrfTokenRe = regexp.MustCompile(`name="gorilla\.csrf\.Token" value="([^"]+)"`)

// browser keeps the cookies between the requests and does not follow the redirects.
type browser struct {
	t    *testing.T
	base string
	c    *http.Client
}

func (s *server) browser(t *testing.T) *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		t:    t,
		base: s.srv.URL,
		c: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (b *browser) do(req func() (*http.Response, error)) (*http.Response, string) {
	b.t.Helper()
	resp, err := req()
	require.NoError(b.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return resp, string(body)
}

func (b *browser) get(path string) (*http.Response, string) {
	b.t.Helper()
	return b.do(func() (*http.Response, error) { return b.c.Get(b.base + path) })
}

// submit opens the page at path and posts the form back with the CSRF token taken from the page.
func (b *browser) submit(path string, form url.Values) (*http.Response, string) {
	b.t.Helper()
	resp, body := b.get(path)
	require.Equal(b.t, http.StatusOK, resp.StatusCode, path)
	m := csrfTokenRe.FindStringSubmatch(body)
	require.NotNil(b.t, m, "no csrf token on %v", path)
	form.Set("gorilla.csrf.Token", m[1])
	return b.do(func() (*http.Response, error) { return b.c.PostForm(b.base+path, form) })
}

func (s *server) ownerBrowser(t *testing.T) *browser {
	t.Helper()
	link := userauth.InviteLink{
		Name:      "owner",
		Perms:     userauth.OwnerPerms(),
		CreatedAt: s.clock.Now(),
		ExpiresAt: s.clock.Now().Add(time.Hour),
	}
	require.NoError(t, link.GenerateNew())
	require.NoError(t, s.db.CreateInviteLink(context.Background(), link))

	b := s.browser(t)
	resp, _ := b.submit("/invite/"+link.Value, url.Values{
		"username":  {"owner"},
		"password":  {"owner-password"},
		"password2": {"owner-password"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/dashboard", resp.Header.Get("Location"))
	return b
}

func TestDashboardForms(t *testing.T) {
	ctx := context.Background()
	s := newServer(t)
	b := s.ownerBrowser(t)
	now := s.mgr.Now()

	home, err := s.mgr.CreateTeam(ctx, league.TeamSettings{Name: "Court Jesters"})
	require.NoError(t, err)
	away, err := s.mgr.CreateTeam(ctx, league.TeamSettings{Name: "Drop Shots"})
	require.NoError(t, err)
	player, err := s.mgr.CreatePlayer(ctx, league.PlayerSettings{Name: "Ann", TeamID: &home.ID})
	require.NoError(t, err)
	tournament, err := s.mgr.CreateTournament(ctx, league.TournamentSettings{
		Name:      "Summer Cup",
		StartDate: now.Add(-24 * time.Hour),
	})
	require.NoError(t, err)
	past, err := s.mgr.CreateMatch(ctx, league.MatchSettings{
		Date:       now.Add(-time.Hour),
		HomeTeamID: home.ID,
		AwayTeamID: away.ID,
	})
	require.NoError(t, err)
	cupMatch, err := s.mgr.CreateMatch(ctx, league.MatchSettings{
		Date:         now.Add(2 * time.Hour),
		HomeTeamID:   away.ID,
		AwayTeamID:   home.ID,
		TournamentID: &tournament.ID,
	})
	require.NoError(t, err)

	for _, path := range []string{
		"/dashboard",
		"/dashboard/upcoming",
		"/dashboard/teams",
		"/dashboard/team/" + home.ID,
		"/dashboard/players",
		"/dashboard/player/" + player.ID,
		"/dashboard/matches",
		"/dashboard/match/" + past.ID,
		"/dashboard/tournaments",
		"/dashboard/tournament/" + tournament.ID,
		"/dashboard/invites",
		"/dashboard/users",
		"/dashboard/user/owner",
	} {
		resp, _ := b.get(path)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
	resp, _ := b.get("/dashboard/profile")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard/user/owner", resp.Header.Get("Location"))

	pastPath := "/dashboard/match/" + past.ID
	resp, _ = b.submit(pastPath, url.Values{
		"action":     {"result"},
		"home-score": {"6"},
		"away-score": {"3"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, pastPath, resp.Header.Get("Location"))
	got, err := s.mgr.GetMatch(ctx, past.ID)
	require.NoError(t, err)
	assert.Equal(t, league.MatchPlayed, got.Status)
	require.NotNil(t, got.HomeScore)
	assert.Equal(t, 6, *got.HomeScore)

	resp, body := b.submit(pastPath, url.Values{
		"action": {"edit"},
		"date":   {"2030-01-01T10:00"},
		"home":   {home.ID},
		"away":   {away.ID},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "cannot move a played match to the future")

	resp, body = b.submit("/dashboard/matches", url.Values{
		"action": {"create"},
		"date":   {"2030-01-01T10:00"},
		"home":   {home.ID},
		"away":   {home.ID},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "home and away team must be different")

	tournamentPath := "/dashboard/tournament/" + tournament.ID
	resp, _ = b.submit(tournamentPath, url.Values{
		"action": {"cancel"},
		"reason": {"budget"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, tournamentPath+"?cancelled=1", resp.Header.Get("Location"))
	got, err = s.mgr.GetMatch(ctx, cupMatch.ID)
	require.NoError(t, err)
	assert.Equal(t, league.MatchCancelled, got.Status)
	require.NotNil(t, got.CancellationReason)
	assert.Equal(t, "Tournament cancelled: budget", *got.CancellationReason)

	resp, _ = b.submit(pastPath, url.Values{
		"action": {"cancel"},
		"reason": {"rain"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	got, err = s.mgr.GetMatch(ctx, past.ID)
	require.NoError(t, err)
	assert.Equal(t, league.MatchCancelled, got.Status)
	assert.Nil(t, got.HomeScore)
}
