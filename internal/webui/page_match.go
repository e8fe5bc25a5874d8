package webui

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alex65536/league/internal/league"
)

type matchData struct {
	Match       *matchPartData
	HomePlayers []league.Player
	AwayPlayers []league.Player
}

type matchDataBuilder struct{}

func (matchDataBuilder) Build(ctx context.Context, bc builderCtx) (any, error) {
	m, err := bc.League().GetMatch(ctx, bc.Req.PathValue("matchID"))
	if err != nil {
		return nil, loadErr(err)
	}
	d := &matchData{Match: buildMatchPartData(bc.Now(), &m)}
	if m.HomeTeam != nil {
		d.HomePlayers = m.HomeTeam.Players
	}
	if m.AwayTeam != nil {
		d.AwayPlayers = m.AwayTeam.Players
	}
	return d, nil
}

func matchPage(log *slog.Logger, cfg *Config, templ *templator) (http.Handler, error) {
	return newPage(log, cfg, pageOptions{LiveReload: true}, templ, matchDataBuilder{}, "match")
}
