package webui

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alex65536/league/internal/util/httputil"
)

// actionFunc is a page without its own template. It always ends with a redirect or an error.
type actionFunc func(ctx context.Context, bc builderCtx) error

func (f actionFunc) Build(ctx context.Context, bc builderCtx) (any, error) {
	return nil, f(ctx, bc)
}

func profilePage(log *slog.Logger, cfg *Config, templ *templator) (http.Handler, error) {
	return newPage(log, cfg, pageOptions{NoShowAuth: true}, templ, actionFunc(func(_ context.Context, bc builderCtx) error {
		if bc.UserInfo == nil {
			return bc.Redirect("/login")
		}
		return bc.Redirect("/dashboard/user/" + bc.UserInfo.Username)
	}), "")
}

func logoutPage(log *slog.Logger, cfg *Config, templ *templator) (http.Handler, error) {
	return newPage(log, cfg, pageOptions{NoUserInfo: true}, templ, actionFunc(func(_ context.Context, bc builderCtx) error {
		bc.ResetSession(nil)
		return bc.Redirect("/")
	}), "")
}

func e404Page(log *slog.Logger, cfg *Config, templ *templator) (http.Handler, error) {
	return newPage(log, cfg, pageOptions{}, templ, actionFunc(func(context.Context, builderCtx) error {
		return httputil.MakeError(http.StatusNotFound, "page not found")
	}), "")
}
