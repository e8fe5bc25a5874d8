package webui

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/alex65536/league/internal/userauth"
	"github.com/alex65536/league/internal/util/httputil"
	"github.com/alex65536/go-chess/util/maybe"
	"github.com/gorilla/csrf"
)

type dashMatchData struct {
	matchFormOptions
	Match     *matchPartData
	Form      matchFormData
	Errors    []string
	CSRFField template.HTML
}

type dashMatchDataBuilder struct{}

func (dashMatchDataBuilder) load(ctx context.Context, bc builderCtx, matchID string, errs []string) (*dashMatchData, error) {
	mgr := bc.League()
	m, err := mgr.GetMatch(ctx, matchID)
	if err != nil {
		return nil, loadErr(err)
	}
	d := &dashMatchData{
		Match: buildMatchPartData(bc.Now(), &m),
		Form: matchFormData{
			Date:       m.Date,
			HomeTeamID: m.HomeTeamID,
			AwayTeamID: m.AwayTeamID,
		},
		Errors:    errs,
		CSRFField: csrf.TemplateField(bc.Req),
	}
	if d.matchFormOptions, err = loadMatchFormOptions(ctx, mgr); err != nil {
		return nil, err
	}
	return d, nil
}

func (b dashMatchDataBuilder) Build(ctx context.Context, bc builderCtx) (any, error) {
	req := bc.Req
	mgr := bc.League()
	matchID := req.PathValue("matchID")

	switch req.Method {
	case http.MethodGet:
		return b.load(ctx, bc, matchID, nil)
	case http.MethodPost:
		if err := parseForm(req); err != nil {
			return nil, err
		}
		self := "/dashboard/match/" + matchID
		rerender := func(errs []string) (any, error) { return b.load(ctx, bc, matchID, errs) }
		switch req.FormValue("action") {
		case "edit":
			settings, form, errs := parseMatchForm(req)
			rerenderForm := func(errs []string) (any, error) {
				d, err := b.load(ctx, bc, matchID, errs)
				if err != nil {
					return nil, err
				}
				d.Form = form
				return d, nil
			}
			if len(errs) != 0 {
				return rerenderForm(errs)
			}
			_, err := mgr.EditMatch(ctx, matchID, settings)
			return actionResult(bc, err, self, rerenderForm)
		case "result":
			home, errs := parseFormScore("home score", req.FormValue("home-score"))
			away, errs2 := parseFormScore("away score", req.FormValue("away-score"))
			if errs = append(errs, errs2...); len(errs) != 0 {
				return rerender(errs)
			}
			_, err := mgr.RecordResult(ctx, matchID, home, away)
			return actionResult(bc, err, self, rerender)
		case "cancel":
			_, err := mgr.CancelMatch(ctx, matchID, req.FormValue("reason"))
			return actionResult(bc, err, self, rerender)
		default:
			return nil, httputil.MakeError(http.StatusBadRequest, "unknown action")
		}
	default:
		return nil, httputil.MakeError(http.StatusMethodNotAllowed, "method not allowed")
	}
}

func dashMatchPage(log *slog.Logger, cfg *Config, templ *templator) (http.Handler, error) {
	return newPage(log, cfg, pageOptions{
		RequirePerm: maybe.Some(userauth.PermManageMatches),
	}, templ, dashMatchDataBuilder{}, "dash_match")
}
