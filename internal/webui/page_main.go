package webui

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/alex65536/league/internal/league"
	"github.com/alex65536/league/internal/util/httputil"
	"golang.org/x/sync/errgroup"
)

type mainDataFilter struct {
	Value  string
	Name   string
	Active bool
}

type mainData struct {
	Tournaments []*tournamentPartData
	Matches     []*matchPartData
	Filters     []mainDataFilter
}

var mainFilters = []struct {
	value  string
	name   string
	status *league.MatchStatus
}{
	{"", "All", nil},
	{string(league.MatchUpcoming), "Upcoming", ptr(league.MatchUpcoming)},
	{string(league.MatchPlayed), "Played", ptr(league.MatchPlayed)},
	{string(league.MatchCancelled), "Cancelled", ptr(league.MatchCancelled)},
}

func ptr[T any](v T) *T {
	return &v
}

type mainDataBuilder struct{}

func (mainDataBuilder) Build(ctx context.Context, bc builderCtx) (any, error) {
	mgr := bc.League()
	filter := bc.Req.URL.Query().Get("filter")

	d := &mainData{}
	var status *league.MatchStatus
	found := false
	for _, f := range mainFilters {
		active := f.value == filter
		if active {
			status = f.status
			found = true
		}
		d.Filters = append(d.Filters, mainDataFilter{Value: f.value, Name: f.name, Active: active})
	}
	if !found {
		return nil, httputil.MakeError(http.StatusBadRequest, "unknown filter")
	}

	now := bc.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ts, err := mgr.ListTournaments(gctx, league.TournamentFilter{})
		if err != nil {
			return fmt.Errorf("list tournaments: %w", err)
		}
		d.Tournaments = buildTournamentPartsData(ts)
		return nil
	})
	g.Go(func() error {
		ms, err := mgr.ListMatches(gctx, league.MatchFilter{
			Status:             status,
			ExcludeTournaments: true,
		})
		if err != nil {
			return fmt.Errorf("list matches: %w", err)
		}
		d.Matches = buildMatchPartsData(now, ms)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

func mainPage(log *slog.Logger, cfg *Config, templ *templator) (http.Handler, error) {
	return newPage(log, cfg, pageOptions{LiveReload: true}, templ, mainDataBuilder{}, "main")
}
