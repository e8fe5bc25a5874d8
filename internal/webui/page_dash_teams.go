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

type dashTeamsDataItem struct {
	Team    *teamPartData
	Players int
}

type dashTeamsData struct {
	Teams     []dashTeamsDataItem
	Name      string
	Logo      string
	Errors    []string
	CSRFField template.HTML
}

type dashTeamsDataBuilder struct{}

func (dashTeamsDataBuilder) load(ctx context.Context, bc builderCtx, errs []string) (*dashTeamsData, error) {
	teams, err := bc.League().ListTeams(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	d := &dashTeamsData{
		Errors:    errs,
		CSRFField: csrf.TemplateField(bc.Req),
	}
	for i := range teams {
		d.Teams = append(d.Teams, dashTeamsDataItem{
			Team:    buildTeamPartData(&teams[i]),
			Players: len(teams[i].Players),
		})
	}
	return d, nil
}

func (b dashTeamsDataBuilder) Build(ctx context.Context, bc builderCtx) (any, error) {
	req := bc.Req

	switch req.Method {
	case http.MethodGet:
		return b.load(ctx, bc, nil)
	case http.MethodPost:
		if err := parseForm(req); err != nil {
			return nil, err
		}
		if req.FormValue("action") != "create" {
			return nil, httputil.MakeError(http.StatusBadRequest, "unknown action")
		}
		settings := league.TeamSettings{
			Name: req.FormValue("name"),
			Logo: req.FormValue("logo"),
		}
		team, err := bc.League().CreateTeam(ctx, settings)
		return actionResult(bc, err, "/dashboard/team/"+team.ID, func(errs []string) (any, error) {
			d, err := b.load(ctx, bc, errs)
			if err != nil {
				return nil, err
			}
			d.Name, d.Logo = settings.Name, settings.Logo
			return d, nil
		})
	default:
		return nil, httputil.MakeError(http.StatusMethodNotAllowed, "method not allowed")
	}
}

func dashTeamsPage(log *slog.Logger, cfg *Config, templ *templator) (http.Handler, error) {
	return newPage(log, cfg, pageOptions{
		RequirePerm: maybe.Some(userauth.PermManageTeams),
	}, templ, dashTeamsDataBuilder{}, "dash_teams")
}
