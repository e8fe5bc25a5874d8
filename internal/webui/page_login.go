package webui

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/alex65536/league/internal/util/httputil"
	"github.com/gorilla/csrf"
)

type loginData struct {
	Username  string
	Errors    []string
	CSRFField template.HTML
}

type loginDataBuilder struct{}

func (loginDataBuilder) Build(ctx context.Context, bc builderCtx) (any, error) {
	req := bc.Req
	if bc.UserInfo != nil {
		return nil, bc.Redirect("/")
	}
	form := func(username string, errs []string) (any, error) {
		return &loginData{
			Username:  username,
			Errors:    errs,
			CSRFField: csrf.TemplateField(req),
		}, nil
	}

	switch req.Method {
	case http.MethodGet:
		return form("", nil)
	case http.MethodPost:
		if err := parseForm(req); err != nil {
			return nil, err
		}
		username := req.FormValue("username")
		user, err := bc.Config.UserManager.Authenticate(ctx, username, req.FormValue("password"))
		if errs, err := formErrors(err); err != nil {
			return nil, err
		} else if len(errs) != 0 {
			bc.Log.Info("login failed", slog.String("user", username))
			return form(username, errs)
		}
		bc.ResetSession(makeUserInfo(&user))
		if user.Perms.Any() {
			return nil, bc.Redirect("/dashboard")
		}
		return nil, bc.Redirect("/")
	default:
		return nil, httputil.MakeError(http.StatusMethodNotAllowed, "")
	}
}

func loginPage(log *slog.Logger, cfg *Config, templ *templator) (http.Handler, error) {
	return newPage(log, cfg, pageOptions{NoShowAuth: true}, templ, loginDataBuilder{}, "login")
}
