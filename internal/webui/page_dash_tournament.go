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

type dashTournamentData struct {
	Tournament *tournamentPartData
	Persisted  league.TournamentStatus
	Statuses   []league.TournamentStatus
	Form       tournamentFormData
	Matches    []*matchPartData
	Cancelled  string
	Errors     []string
	CSRFField  template.HTML
}

type dashTournamentDataBuilder struct{}

func (dashTournamentDataBuilder) load(ctx context.Context, bc builderCtx, tournamentID string, errs []string) (*dashTournamentData, error) {
	t, err := bc.League().GetTournament(ctx, tournamentID)
	if err != nil {
		return nil, loadErr(err)
	}
	now := bc.Now()
	d := &dashTournamentData{
		Tournament: buildTournamentPartData(&t.TournamentView),
		Persisted:  t.Status,
		Statuses: []league.TournamentStatus{
			league.TournamentUpcoming,
			league.TournamentOngoing,
			league.TournamentCompleted,
		},
		Form: tournamentFormData{
			Name:      t.Name,
			StartDate: t.StartDate,
		},
		Cancelled: bc.Req.URL.Query().Get("cancelled"),
		Errors:    errs,
		CSRFField: csrf.TemplateField(bc.Req),
	}
	if t.Description != nil {
		d.Form.Description = *t.Description
	}
	if t.EndDate != nil {
		d.Form.EndDate = *t.EndDate
	}
	for _, ms := range [][]league.Match{t.Upcoming, t.Played, t.Cancelled} {
		d.Matches = append(d.Matches, buildMatchPartsData(now, ms)...)
	}
	return d, nil
}

func (b dashTournamentDataBuilder) Build(ctx context.Context, bc builderCtx) (any, error) {
	req := bc.Req
	mgr := bc.League()
	tournamentID := req.PathValue("tournamentID")

	switch req.Method {
	case http.MethodGet:
		return b.load(ctx, bc, tournamentID, nil)
	case http.MethodPost:
		if err := parseForm(req); err != nil {
			return nil, err
		}
		self := "/dashboard/tournament/" + tournamentID
		rerender := func(errs []string) (any, error) { return b.load(ctx, bc, tournamentID, errs) }
		switch req.FormValue("action") {
		case "edit":
			settings, form, errs := parseTournamentForm(req)
			rerenderForm := func(errs []string) (any, error) {
				d, err := b.load(ctx, bc, tournamentID, errs)
				if err != nil {
					return nil, err
				}
				d.Form = form
				return d, nil
			}
			if len(errs) != 0 {
				return rerenderForm(errs)
			}
			_, err := mgr.EditTournament(ctx, tournamentID, settings)
			return actionResult(bc, err, self, rerenderForm)
		case "status":
			_, err := mgr.UpdateTournamentStatus(ctx, tournamentID, league.TournamentStatus(req.FormValue("status")))
			return actionResult(bc, err, self, rerender)
		case "cancel":
			cnt, err := mgr.CancelTournament(ctx, tournamentID, req.FormValue("reason"))
			return actionResult(bc, err, fmt.Sprintf("%v?cancelled=%d", self, cnt), rerender)
		default:
			return nil, httputil.MakeError(http.StatusBadRequest, "unknown action")
		}
	default:
		return nil, httputil.MakeError(http.StatusMethodNotAllowed, "method not allowed")
	}
}

func dashTournamentPage(log *slog.Logger, cfg *Config, templ *templator) (http.Handler, error) {
	return newPage(log, cfg, pageOptions{
		RequirePerm: maybe.Some(userauth.PermManageTournaments),
	}, templ, dashTournamentDataBuilder{}, "dash_tournament")
}
