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

type dashPlayersDataItem struct {
	ID   string
	Name string
	Team *teamPartData
}

type dashPlayersData struct {
	Players   []dashPlayersDataItem
	Teams     []*teamPartData
	Name      string
	TeamID    string
	Errors    []string
	CSRFField template.HTML
}

type dashPlayersDataBuilder struct{}

func (dashPlayersDataBuilder) load(ctx context.Context, bc builderCtx, errs []string) (*dashPlayersData, error) {
	mgr := bc.League()
	players, err := mgr.ListPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	teams, err := mgr.ListTeams(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return &dashPlayersData{
		Players: sliceutil.Map(players, func(p league.Player) dashPlayersDataItem {
			item := dashPlayersDataItem{ID: p.ID, Name: p.Name}
			if p.Team != nil {
				item.Team = buildTeamPartData(p.Team)
			}
			return item
		}),
		Teams: sliceutil.Map(teams, func(t league.Team) *teamPartData {
			return buildTeamPartData(&t)
		}),
		Errors:    errs,
		CSRFField: csrf.TemplateField(bc.Req),
	}, nil
}

func (b dashPlayersDataBuilder) Build(ctx context.Context, bc builderCtx) (any, error) {
	req := bc.Req
	mgr := bc.League()

	switch req.Method {
	case http.MethodGet:
		return b.load(ctx, bc, nil)
	case http.MethodPost:
		if err := parseForm(req); err != nil {
			return nil, err
		}
		switch req.FormValue("action") {
		case "create":
			name, teamID := req.FormValue("name"), req.FormValue("team")
			_, err := mgr.CreatePlayer(ctx, league.PlayerSettings{
				Name:   name,
				TeamID: optString(teamID),
			})
			return actionResult(bc, err, "/dashboard/players", func(errs []string) (any, error) {
				d, err := b.load(ctx, bc, errs)
				if err != nil {
					return nil, err
				}
				d.Name, d.TeamID = name, teamID
				return d, nil
			})
		case "delete":
			_, err := mgr.DeletePlayers(ctx, req.Form["player"])
			return actionResult(bc, err, "/dashboard/players", func(errs []string) (any, error) {
				return b.load(ctx, bc, errs)
			})
		default:
			return nil, httputil.MakeError(http.StatusBadRequest, "unknown action")
		}
	default:
		return nil, httputil.MakeError(http.StatusMethodNotAllowed, "method not allowed")
	}
}

func dashPlayersPage(log *slog.Logger, cfg *Config, templ *templator) (http.Handler, error) {
	return newPage(log, cfg, pageOptions{
		RequirePerm: maybe.Some(userauth.PermManageTeams),
	}, templ, dashPlayersDataBuilder{}, "dash_players")
}
