package webui

import (
	"context"
	"log/slog"
	"net/http"
)

type tournamentData struct {
	Tournament *tournamentPartData
	Upcoming   []*matchPartData
	Played     []*matchPartData
	Cancelled  []*matchPartData
}

type tournamentDataBuilder struct{}

func (tournamentDataBuilder) Build(ctx context.Context, bc builderCtx) (any, error) {
	t, err := bc.League().GetTournament(ctx, bc.Req.PathValue("tournamentID"))
	if err != nil {
		return nil, loadErr(err)
	}
	now := bc.Now()
	return &tournamentData{
		Tournament: buildTournamentPartData(&t.TournamentView),
		Upcoming:   buildMatchPartsData(now, t.Upcoming),
		Played:     buildMatchPartsData(now, t.Played),
		Cancelled:  buildMatchPartsData(now, t.Cancelled),
	}, nil
}

func tournamentPage(log *slog.Logger, cfg *Config, templ *templator) (http.Handler, error) {
	return newPage(log, cfg, pageOptions{LiveReload: true}, templ, tournamentDataBuilder{}, "tournament")
}
