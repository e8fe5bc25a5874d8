package webui

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/alex65536/league/internal/league"
	"github.com/alex65536/league/internal/userauth"
	"github.com/alex65536/league/internal/util/httputil"
	"github.com/alex65536/go-chess/util/maybe"
	"github.com/gorilla/csrf"
)

type tournamentFormData struct {
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
}

func parseTournamentForm(req *http.Request) (league.TournamentSettings, tournamentFormData, []string) {
	start, errs := parseFormDate("start date", req.FormValue("start"), time.Local)
	end, errs2 := parseFormDate("end date", req.FormValue("end"), time.Local)
	errs = append(errs, errs2...)
	f := tournamentFormData{
		Name:        req.FormValue("name"),
		Description: req.FormValue("description"),
		StartDate:   start,
		EndDate:     end,
	}
	s := league.TournamentSettings{
		Name:        f.Name,
		Description: f.Description,
		StartDate:   f.StartDate,
	}
	if !end.IsZero() {
		s.EndDate = &end
	}
	return s, f, errs
}

type dashTournamentsData struct {
	Tournaments []*tournamentPartData
	Form        tournamentFormData
	Synced      string
	Errors      []string
	CSRFField   template.HTML
}

type dashTournamentsDataBuilder struct{}

func (dashTournamentsDataBuilder) load(ctx context.Context, bc builderCtx, errs []string) (*dashTournamentsData, error) {
	ts, err := bc.League().ListTournaments(ctx, league.TournamentFilter{})
	if err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}
	return &dashTournamentsData{
		Tournaments: buildTournamentPartsData(ts),
		Synced:      bc.Req.URL.Query().Get("synced"),
		Errors:      errs,
		CSRFField:   csrf.TemplateField(bc.Req),
	}, nil
}

func (b dashTournamentsDataBuilder) Build(ctx context.Context, bc builderCtx) (any, error) {
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
			settings, form, errs := parseTournamentForm(req)
			rerender := func(errs []string) (any, error) {
				d, err := b.load(ctx, bc, errs)
				if err != nil {
					return nil, err
				}
				d.Form = form
				return d, nil
			}
			if len(errs) != 0 {
				return rerender(errs)
			}
			t, err := mgr.CreateTournament(ctx, settings)
			return actionResult(bc, err, "/dashboard/tournament/"+t.ID, rerender)
		case "sync":
			cnt, err := mgr.SyncTournamentStatuses(ctx)
			if err != nil {
				return nil, fmt.Errorf("sync statuses: %w", err)
			}
			return nil, bc.Redirect(fmt.Sprintf("/dashboard/tournaments?synced=%d", cnt))
		default:
			return nil, httputil.MakeError(http.StatusBadRequest, "unknown action")
		}
	default:
		return nil, httputil.MakeError(http.StatusMethodNotAllowed, "method not allowed")
	}
}

func dashTournamentsPage(log *slog.Logger, cfg *Config, templ *templator) (http.Handler, error) {
	return newPage(log, cfg, pageOptions{
		RequirePerm: maybe.Some(userauth.PermManageTournaments),
	}, templ, dashTournamentsDataBuilder{}, "dash_tournaments")
}
