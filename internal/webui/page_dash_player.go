package webui

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/alex65536/league/internal/league"
	"github.com/alex65536/league/internal/userauth"
	"github.com/alex65536/league/internal/util/httputil"
	"github.com/alex65536/league/internal/util/sliceutil"
	"github.com/alex65536/go-chess/util/maybe"
	"github.com/gorilla/csrf"
)

type dashPlayerData struct {
	ID        string
	Name      string
	TeamID    string
	Teams     []*teamPartData
	Errors    []string
	CSRFField template.HTML
}

type dashPlayerDataBuilder struct{}

func (dashPlayerDataBuilder) load(ctx context.Context, bc builderCtx, playerID string, errs []string) (any, error) {
	mgr := bc.League()
	player, err := mgr.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, loadErr(err)
	}
	teams, err := mgr.ListTeams(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	d := &dashPlayerData{
		ID:   player.ID,
		Name: player.Name,
		Teams: sliceutil.Map(teams, func(t league.Team) *teamPartData {
			return buildTeamPartData(&t)
		}),
		Errors:    errs,
		CSRFField: csrf.TemplateField(bc.Req),
	}
	if player.TeamID != nil {
		d.TeamID = *player.TeamID
	}
	return d, nil
}

func (b dashPlayerDataBuilder) Build(ctx context.Context, bc builderCtx) (any, error) {
	req := bc.Req
	mgr := bc.League()
	playerID := req.PathValue("playerID")

	switch req.Method {
	case http.MethodGet:
		return b.load(ctx, bc, playerID, nil)
	case http.MethodPost:
		if err := parseForm(req); err != nil {
			return nil, err
		}
		rerender := func(errs []string) (any, error) { return b.load(ctx, bc, playerID, errs) }
		switch req.FormValue("action") {
		case "edit":
			_, err := mgr.EditPlayer(ctx, playerID, league.PlayerSettings{
				Name:   req.FormValue("name"),
				TeamID: optString(req.FormValue("team")),
			})
			return actionResult(bc, err, "/dashboard/player/"+playerID, rerender)
		case "delete":
			_, err := mgr.DeletePlayers(ctx, []string{playerID})
			return actionResult(bc, err, "/dashboard/players", rerender)
		default:
			return nil, httputil.MakeError(http.StatusBadRequest, "unknown action")
		}
	default:
		return nil, httputil.MakeError(http.StatusMethodNotAllowed, "method not allowed")
	}
}

func dashPlayerPage(log *slog.Logger, cfg *Config, templ *templator) (http.Handler, error) {
	return newPage(log, cfg, pageOptions{
		RequirePerm: maybe.Some(userauth.PermManageTeams),
	}, templ, dashPlayerDataBuilder{}, "dash_player")
}
