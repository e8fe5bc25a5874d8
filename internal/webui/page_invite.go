package webui

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/alex65536/league/internal/userauth"
	"github.com/alex65536/league/internal/util/httputil"
	"github.com/gorilla/csrf"
)

type inviteData struct {
	InviteVal string
	LinkName  string
	Username  string
	Errors    []string
	CSRFField template.HTML
}

type inviteDataBuilder struct{}

func (inviteDataBuilder) Build(ctx context.Context, bc builderCtx) (any, error) {
	req := bc.Req
	users := bc.Config.UserManager

	if bc.UserInfo != nil {
		return nil, httputil.MakeError(http.StatusBadRequest, "already logged in")
	}

	inviteVal := req.PathValue("inviteVal")
	link, err := users.LookupInvite(ctx, inviteVal)
	if errors.Is(err, userauth.ErrInviteLinkNotFound) {
		return nil, httputil.MakeError(http.StatusNotFound, "invite link not found")
	} else if err != nil {
		return nil, err
	}
	form := func(username string, errs []string) (any, error) {
		return &inviteData{
			InviteVal: inviteVal,
			LinkName:  link.Name,
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
		user, err := users.Register(ctx, link, username, req.FormValue("password"), req.FormValue("password2"))
		if errs, err := formErrors(err); err != nil {
			return nil, err
		} else if len(errs) != 0 {
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

func invitePage(log *slog.Logger, cfg *Config, templ *templator) (http.Handler, error) {
	return newPage(log, cfg, pageOptions{NoShowAuth: true}, templ, inviteDataBuilder{}, "invite")
}
