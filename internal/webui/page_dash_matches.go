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
	"github.com/alex65536/league/internal/util/sliceutil"
	"github.com/alex65536/go-chess/util/maybe"
	"github.com/gorilla/csrf"
)

type matchFormData struct {
	Date         time.Time
	HomeTeamID   string
	AwayTeamID   string
	TournamentID string
}

// matchFormOptions lists the teams and tournaments to choose from in the match form.
type matchFormOptions struct {
	Teams       []*teamPartData
	Tournaments []*tournamentPartData
}

func loadMatchFormOptions(ctx context.Context, mgr *league.Manager) (matchFormOptions, error) {
	teams, err := mgr.ListTeams(ctx, false)
	if err != nil {
		return matchFormOptions{}, fmt.Errorf("list teams: %w", err)
	}
	ts, err := mgr.ListTournaments(ctx, league.TournamentFilter{})
	if err != nil {
		return matchFormOptions{}, fmt.Errorf("list tournaments: %w", err)
	}
	open := sliceutil.Filter(ts, func(t league.TournamentView) bool {
		return t.Status != league.TournamentCancelled
	})
	return matchFormOptions{
		Teams: sliceutil.Map(teams, func(t league.Team) *teamPartData {
			return buildTeamPartData(&t)
		}),
		Tournaments: buildTournamentPartsData(open),
	}, nil
}

func parseMatchForm(req *http.Request) (league.MatchSettings, matchFormData, []string) {
	date, errs := parseFormDate("date", req.FormValue("date"), time.Local)
	f := matchFormData{
		Date:         date,
		HomeTeamID:   req.FormValue("home"),
		AwayTeamID:   req.FormValue("away"),
		TournamentID: req.FormValue("tournament"),
	}
	return league.MatchSettings{
		Date:         f.Date,
		HomeTeamID:   f.HomeTeamID,
		AwayTeamID:   f.AwayTeamID,
		TournamentID: optString(f.TournamentID),
	}, f, errs
}

type dashMatchesDataFilter struct {
	Value  string
	Name   string
	Active bool
}

type dashMatchesData struct {
	matchFormOptions
	Form      matchFormData
	Matches   []*matchPartData
	Filters   []dashMatchesDataFilter
	Errors    []string
	CSRFField template.HTML
}

type dashMatchesDataBuilder struct{}

func (dashMatchesDataBuilder) load(ctx context.Context, bc builderCtx, errs []string) (*dashMatchesData, error) {
	mgr := bc.League()
	filter := bc.Req.URL.Query().Get("filter")
	d := &dashMatchesData{
		Errors:    errs,
		CSRFField: csrf.TemplateField(bc.Req),
	}
	var status *league.MatchStatus
	for _, f := range mainFilters {
		active := f.value == filter
		if active {
			status = f.status
		}
		d.Filters = append(d.Filters, dashMatchesDataFilter{Value: f.value, Name: f.name, Active: active})
	}
	ms, err := mgr.ListMatches(ctx, league.MatchFilter{Status: status})
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	d.Matches = buildMatchPartsData(bc.Now(), ms)
	if d.matchFormOptions, err = loadMatchFormOptions(ctx, mgr); err != nil {
		return nil, err
	}
	return d, nil
}

func (b dashMatchesDataBuilder) Build(ctx context.Context, bc builderCtx) (any, error) {
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
		settings, form, errs := parseMatchForm(req)
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
		match, err := bc.League().CreateMatch(ctx, settings)
		return actionResult(bc, err, "/dashboard/match/"+match.ID, rerender)
	default:
		return nil, httputil.MakeError(http.StatusMethodNotAllowed, "method not allowed")
	}
}

func dashMatchesPage(log *slog.Logger, cfg *Config, templ *templator) (http.Handler, error) {
	return newPage(log, cfg, pageOptions{
		RequirePerm: maybe.Some(userauth.PermManageMatches),
	}, templ, dashMatchesDataBuilder{}, "dash_matches")
}
