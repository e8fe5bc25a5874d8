package webui

import (
	"context"
	"log/slog"
	"net/http"
)

type playerData struct {
	Name    string
	Team    *teamPartData
	Record  *recordPartData
	Matches []*matchPartData
}

type playerDataBuilder struct{}

func (playerDataBuilder) Build(ctx context.Context, bc builderCtx) (any, error) {
	stats, err := bc.League().PlayerRecord(ctx, bc.Req.PathValue("playerID"))
	if err != nil {
		return nil, loadErr(err)
	}
	d := &playerData{
		Name:    stats.Player.Name,
		Record:  buildRecordPartData(stats.Record),
		Matches: buildMatchPartsData(bc.Now(), stats.Matches),
	}
	if stats.Player.Team != nil {
		d.Team = buildTeamPartData(stats.Player.Team)
	}
	return d, nil
}

func playerPage(log *slog.Logger, cfg *Config, templ *templator) (http.Handler, error) {
	return newPage(log, cfg, pageOptions{LiveReload: true}, templ, playerDataBuilder{}, "player")
}
