package webui

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/alex65536/league/internal/league"
	"github.com/alex65536/league/internal/userauth"
	"github.com/alex65536/league/internal/util/httputil"
	"golang.org/x/sync/errgroup"
)

type dashboardDataCount struct {
	Name  string
	Count int64
}

type dashboardData struct {
	Perms       *permsPartData
	Teams       int64
	Players     int64
	Matches     []dashboardDataCount
	Tournaments []dashboardDataCount
	// Overdue lists the upcoming matches which have already started, so they wait for a result.
	Overdue []*matchPartData
}

type dashboardDataBuilder struct{}

func (dashboardDataBuilder) Build(ctx context.Context, bc builderCtx) (any, error) {
	if bc.FullUser == nil {
		return nil, bc.Redirect("/login")
	}
	if !bc.FullUser.Perms.Any() {
		return nil, httputil.MakeError(http.StatusForbidden, "permission denied")
	}
	mgr := bc.League()
	now := bc.Now()

	var (
		overview league.Overview
		upcoming []league.Match
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		overview, err = mgr.Overview(gctx)
		if err != nil {
			return fmt.Errorf("overview: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		upcoming, err = mgr.ListMatches(gctx, league.MatchFilter{Status: ptr(league.MatchUpcoming)})
		if err != nil {
			return fmt.Errorf("list upcoming matches: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d := &dashboardData{
		Perms:   buildPermsPartData(bc.FullUser.Perms),
		Teams:   overview.Teams,
		Players: overview.Players,
	}
	for _, s := range []league.MatchStatus{league.MatchUpcoming, league.MatchPlayed, league.MatchCancelled} {
		d.Matches = append(d.Matches, dashboardDataCount{Name: s.PrettyString(), Count: overview.Matches[s]})
	}
	for _, s := range []league.TournamentStatus{
		league.TournamentUpcoming,
		league.TournamentOngoing,
		league.TournamentCompleted,
		league.TournamentCancelled,
	} {
		d.Tournaments = append(d.Tournaments, dashboardDataCount{
			Name:  s.PrettyString(),
			Count: int64(overview.Tournaments[s]),
		})
	}
	if bc.FullUser.Perms.Get(userauth.PermManageMatches) {
		for i := range upcoming {
			if !upcoming[i].Date.After(now) {
				d.Overdue = append(d.Overdue, buildMatchPartData(now, &upcoming[i]))
			}
		}
	}
	return d, nil
}

func dashboardPage(log *slog.Logger, cfg *Config, templ *templator) (http.Handler, error) {
	return newPage(log, cfg, pageOptions{FullUser: true}, templ, dashboardDataBuilder{}, "dashboard")
}
