package webui

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/alex65536/league/internal/feed"
	"github.com/alex65536/league/internal/league"
	"github.com/alex65536/league/internal/userauth"
	"github.com/alex65536/league/internal/util/idgen"
	"github.com/alex65536/league/internal/util/websockutil"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
)

type SessionOptions struct {
	Key             []byte        `toml:"-"`
	CleanupInterval time.Duration `toml:"cleanup-interval"`
	MaxAge          time.Duration `toml:"max-age"`
	Secure          bool          `toml:"secure"`
}

func (o *SessionOptions) FillDefaults() {
	if o.CleanupInterval == 0 {
		o.CleanupInterval = 1 * time.Hour
	}
	if o.MaxAge == 0 {
		o.MaxAge = 30 * 24 * time.Hour
	}
}

func (o *SessionOptions) SetupSession(s *sessions.Options) {
	s.Path = "/"
	s.MaxAge = int(o.MaxAge.Seconds())
	s.HttpOnly = true
	s.Secure = o.Secure
	s.SameSite = http.SameSiteLaxMode
}

type SessionStoreFactory interface {
	NewSessionStore(ctx context.Context, opts SessionOptions) sessions.Store
}

type Config struct {
	League              *league.Manager
	UserManager         *userauth.Manager
	Feed                *feed.Hub
	SessionStoreFactory SessionStoreFactory
	ServerID            string

	prefix       string
	opts         *Options
	sessionStore sessions.Store
}

type Options struct {
	WebSocket    websockutil.Options `toml:"websocket"`
	Session      SessionOptions      `toml:"session"`
	CSRFKey      []byte              `toml:"-"`
	FeedRPSLimit float64             `toml:"feed-rps-limit"`
	FeedRPSBurst int                 `toml:"feed-rps-burst"`
	NoCompress   bool                `toml:"no-compress"`
}

func (o *Options) FillDefaults() {
	o.WebSocket.FillDefaults()
	o.Session.FillDefaults()
	if o.FeedRPSLimit == 0.0 {
		o.FeedRPSLimit = 0.5
	}
	if o.FeedRPSBurst == 0 {
		o.FeedRPSBurst = 2
	}
}

func must[T any](t T, err error) T {
	if err != nil {
		panic(err)
	}
	return t
}

func Handle(ctx context.Context, log *slog.Logger, mux *http.ServeMux, prefix string, cfg Config, o Options) error {
	o.FillDefaults()
	if len(o.Session.Key) == 0 {
		return fmt.Errorf("no session key")
	}
	if len(o.CSRFKey) != 32 {
		return fmt.Errorf("csrf key must have 32 bytes")
	}

	if cfg.ServerID == "" {
		cfg.ServerID = idgen.ID()
	}
	cfg.prefix = prefix
	cfg.opts = &o
	cfg.sessionStore = cfg.SessionStoreFactory.NewSessionStore(ctx, o.Session)

	b := middlewareBuilder{
		Log:    log,
		Prefix: prefix,
		CSRFProtect: csrf.Protect(
			o.CSRFKey,
			csrf.Secure(o.Session.Secure),
			csrf.Path("/"),
			csrf.SameSite(csrf.SameSiteLaxMode),
		),
		Compress: gziphandler.GzipHandler,
	}
	if o.NoCompress {
		b.Compress = func(h http.Handler) http.Handler { return h }
	}
	templ := newTemplator(&cfg)

	mux.Handle(prefix+"/css/", b.WrapStatic(http.StripPrefix(prefix, http.FileServerFS(staticData))))
	mux.Handle(prefix+"/js/", b.WrapStatic(http.StripPrefix(prefix, http.FileServerFS(staticData))))

	mux.Handle(prefix+"/{$}", b.WrapPage(must(mainPage(log, &cfg, templ))))
	mux.Handle(prefix+"/team/{teamID}", b.WrapPage(must(teamPage(log, &cfg, templ))))
	mux.Handle(prefix+"/player/{playerID}", b.WrapPage(must(playerPage(log, &cfg, templ))))
	mux.Handle(prefix+"/match/{matchID}", b.WrapPage(must(matchPage(log, &cfg, templ))))
	mux.Handle(prefix+"/tournament/{tournamentID}", b.WrapPage(must(tournamentPage(log, &cfg, templ))))

	mux.Handle(prefix+"/login", b.WrapPage(must(loginPage(log, &cfg, templ))))
	mux.Handle(prefix+"/logout", b.WrapPage(must(logoutPage(log, &cfg, templ))))
	mux.Handle(prefix+"/invite/{inviteVal}", b.WrapPage(must(invitePage(log, &cfg, templ))))

	mux.Handle(prefix+"/dashboard", b.WrapPage(must(dashboardPage(log, &cfg, templ))))
	mux.Handle(prefix+"/dashboard/upcoming", b.WrapPage(must(upcomingPage(log, &cfg, templ))))
	mux.Handle(prefix+"/dashboard/teams", b.WrapPage(must(dashTeamsPage(log, &cfg, templ))))
	mux.Handle(prefix+"/dashboard/team/{teamID}", b.WrapPage(must(dashTeamPage(log, &cfg, templ))))
	mux.Handle(prefix+"/dashboard/players", b.WrapPage(must(dashPlayersPage(log, &cfg, templ))))
	mux.Handle(prefix+"/dashboard/player/{playerID}", b.WrapPage(must(dashPlayerPage(log, &cfg, templ))))
	mux.Handle(prefix+"/dashboard/matches", b.WrapPage(must(dashMatchesPage(log, &cfg, templ))))
	mux.Handle(prefix+"/dashboard/match/{matchID}", b.WrapPage(must(dashMatchPage(log, &cfg, templ))))
	mux.Handle(prefix+"/dashboard/tournaments", b.WrapPage(must(dashTournamentsPage(log, &cfg, templ))))
	mux.Handle(prefix+"/dashboard/tournament/{tournamentID}", b.WrapPage(must(dashTournamentPage(log, &cfg, templ))))
	mux.Handle(prefix+"/dashboard/invites", b.WrapPage(must(invitesPage(log, &cfg, templ))))
	mux.Handle(prefix+"/dashboard/profile", b.WrapPage(must(profilePage(log, &cfg, templ))))
	mux.Handle(prefix+"/dashboard/users", b.WrapPage(must(usersPage(log, &cfg, templ))))
	mux.Handle(prefix+"/dashboard/user/{username}", b.WrapPage(must(userPage(log, &cfg, templ))))

	mux.Handle(prefix+"/ws/changes", b.WrapWebSocket(feedWebSocket(log, &cfg)))
	mux.Handle(prefix+"/", b.WrapPage(must(e404Page(log, &cfg, templ))))
	return nil
}
