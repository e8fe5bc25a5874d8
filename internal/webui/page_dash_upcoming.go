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

type upcomingData struct {
	Matches   []*matchPartData
	Errors    []string
	CSRFField template.HTML
}

type upcomingDataBuilder struct{}

func (upcomingDataBuilder) load(ctx context.Context, bc builderCtx, errs []string) (any, error) {
	ms, err := bc.League().ListMatches(ctx, league.MatchFilter{Status: ptr(league.MatchUpcoming)})
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return &upcomingData{
		Matches:   buildMatchPartsData(bc.Now(), ms),
		Errors:    errs,
		CSRFField: csrf.TemplateField(bc.Req),
	}, nil
}

func (b upcomingDataBuilder) Build(ctx context.Context, bc builderCtx) (any, error) {
	req := bc.Req
	mgr := bc.League()

	switch req.Method {
	case http.MethodGet:
		return b.load(ctx, bc, nil)
	case http.MethodPost:
		if err := parseForm(req); err != nil {
			return nil, err
		}
		rerender := func(errs []string) (any, error) { return b.load(ctx, bc, errs) }
		matchID := req.FormValue("match")
		switch req.FormValue("action") {
		case "result":
			home, errs := parseFormScore("home score", req.FormValue("home-score"))
			away, errs2 := parseFormScore("away score", req.FormValue("away-score"))
			if errs = append(errs, errs2...); len(errs) != 0 {
				return rerender(errs)
			}
			_, err := mgr.RecordResult(ctx, matchID, home, away)
			return actionResult(bc, err, "/dashboard/upcoming", rerender)
		case "cancel":
			_, err := mgr.CancelMatch(ctx, matchID, req.FormValue("reason"))
			return actionResult(bc, err, "/dashboard/upcoming", rerender)
		default:
			return nil, httputil.MakeError(http.StatusBadRequest, "unknown action")
		}
	default:
		return nil, httputil.MakeError(http.StatusMethodNotAllowed, "method not allowed")
	}
}

func upcomingPage(log *slog.Logger, cfg *Config, templ *templator) (http.Handler, error) {
	return newPage(log, cfg, pageOptions{
		RequirePerm: maybe.Some(userauth.PermManageMatches),
		LiveReload:  true,
	}, templ, upcomingDataBuilder{}, "dash_upcoming")
}
