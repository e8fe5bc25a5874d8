package webui

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alex65536/league/internal/league"
)

type teamData struct {
	Team      *teamPartData
	Players   []league.Player
	Record    *recordPartData
	Upcoming  []*matchPartData
	Played    []*matchPartData
	Cancelled []*matchPartData
}

type teamDataBuilder struct{}

func (teamDataBuilder) Build(ctx context.Context, bc builderCtx) (any, error) {
	stats, err := bc.League().TeamRecord(ctx, bc.Req.PathValue("teamID"))
	if err != nil {
		return nil, loadErr(err)
	}
	now := bc.Now()
	upcoming, played, cancelled := league.SplitMatches(stats.Matches)
	return &teamData{
		Team:      buildTeamPartData(&stats.Team),
		Players:   stats.Team.Players,
		Record:    buildRecordPartData(stats.Record),
		Upcoming:  buildMatchPartsData(now, upcoming),
		Played:    buildMatchPartsData(now, played),
		Cancelled: buildMatchPartsData(now, cancelled),
	}, nil
}

func teamPage(log *slog.Logger, cfg *Config, templ *templator) (http.Handler, error) {
	return newPage(log, cfg, pageOptions{LiveReload: true}, templ, teamDataBuilder{}, "team")
}
