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
	"github.com/alex65536/go-chess/util/maybe"
	"github.com/gorilla/csrf"
)

type dashTeamData struct {
	Team       *teamPartData
	Name       string
	Logo       string
	Players    []league.Player
	FreeAgents []league.Player
	Errors     []string
	CSRFField  template.HTML
}

type dashTeamDataBuilder struct{}

func (dashTeamDataBuilder) load(ctx context.Context, bc builderCtx, teamID string, errs []string) (any, error) {
	mgr := bc.League()
	team, err := mgr.GetTeam(ctx, teamID)
	if err != nil {
		return nil, loadErr(err)
	}
	free, err := mgr.ListFreeAgents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list free agents: %w", err)
	}
	d := &dashTeamData{
		Team:       buildTeamPartData(&team),
		Name:       team.Name,
		Players:    team.Players,
		FreeAgents: free,
		Errors:     errs,
		CSRFField:  csrf.TemplateField(bc.Req),
	}
	if team.Logo != nil {
		d.Logo = *team.Logo
	}
	return d, nil
}

func (b dashTeamDataBuilder) Build(ctx context.Context, bc builderCtx) (any, error) {
	req := bc.Req
	mgr := bc.League()
	teamID := req.PathValue("teamID")

	switch req.Method {
	case http.MethodGet:
		return b.load(ctx, bc, teamID, nil)
	case http.MethodPost:
		if err := parseForm(req); err != nil {
			return nil, err
		}
		self := "/dashboard/team/" + teamID
		rerender := func(errs []string) (any, error) { return b.load(ctx, bc, teamID, errs) }
		var err error
		switch req.FormValue("action") {
		case "edit":
			_, err = mgr.EditTeam(ctx, teamID, league.TeamSettings{
				Name: req.FormValue("name"),
				Logo: req.FormValue("logo"),
			})
		case "archive":
			err = mgr.SetTeamArchived(ctx, teamID, true)
		case "restore":
			err = mgr.SetTeamArchived(ctx, teamID, false)
		case "delete":
			err = mgr.DeleteTeam(ctx, teamID)
			return actionResult(bc, err, "/dashboard/teams", rerender)
		case "add-player":
			err = mgr.AssignPlayerToTeam(ctx, req.FormValue("player"), teamID)
		case "remove-player":
			err = mgr.RemovePlayerFromTeam(ctx, req.FormValue("player"))
		default:
			return nil, httputil.MakeError(http.StatusBadRequest, "unknown action")
		}
		return actionResult(bc, err, self, rerender)
	default:
		return nil, httputil.MakeError(http.StatusMethodNotAllowed, "method not allowed")
	}
}

func dashTeamPage(log *slog.Logger, cfg *Config, templ *templator) (http.Handler, error) {
	return newPage(log, cfg, pageOptions{
		RequirePerm: maybe.Some(userauth.PermManageTeams),
	}, templ, dashTeamDataBuilder{}, "dash_team")
}
