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

type userData struct {
	User              *userPartData
	CSRFField         template.HTML
	CanChangePassword bool
	CanChangePerms    bool
	CanInvite         bool
	Errors            []string
}

// permsFromForm reads the checkboxes of the perms form. Blocking a user drops all the other
// perms.
func permsFromForm(req *http.Request) userauth.Perms {
	if req.FormValue("perm-blocked") == "true" {
		return userauth.BlockedPerms()
	}
	var perms userauth.Perms
	for p := range userauth.PermMax {
		*perms.GetMut(p) = req.FormValue("perm-"+p.String()) == "true"
	}
	return perms
}

type userDataBuilder struct{}

func (userDataBuilder) Build(ctx context.Context, bc builderCtx) (any, error) {
	req := bc.Req
	me := bc.FullUser
	users := bc.Config.UserManager

	if me == nil {
		return nil, bc.Redirect("/login")
	}

	username := req.PathValue("username")
	target, err := users.GetUserByUsername(ctx, username)
	if errors.Is(err, userauth.ErrUserNotFound) {
		return nil, httputil.MakeError(http.StatusNotFound, "user not found")
	} else if err != nil {
		return nil, err
	}
	ownPage := me.ID == target.ID

	render := func(errs []string) (any, error) {
		return &userData{
			User:              buildUserPartData(target),
			CSRFField:         csrf.TemplateField(req),
			CanChangePassword: ownPage && !me.Perms.IsBlocked,
			CanChangePerms:    target.CanChangePerms(me, target.Perms) == nil,
			CanInvite:         ownPage && me.Perms.Get(userauth.PermInvite),
			Errors:            errs,
		}, nil
	}
	self := "/dashboard/user/" + username

	switch req.Method {
	case http.MethodGet:
		return render(nil)
	case http.MethodPost:
		if err := parseForm(req); err != nil {
			return nil, err
		}
		switch req.FormValue("action") {
		case "password":
			if !ownPage {
				return nil, httputil.MakeError(http.StatusForbidden, "")
			}
			err := users.ChangePassword(ctx, me,
				req.FormValue("old-password"), req.FormValue("new-password"), req.FormValue("new-password2"))
			if err == nil {
				bc.UpgradeSession(makeUserInfo(me))
			}
			return actionResult(bc, err, self, render)
		case "perms":
			err := users.ChangePerms(ctx, me, &target, permsFromForm(req))
			if err == nil && ownPage {
				bc.UpgradeSession(makeUserInfo(&target))
			}
			return actionResult(bc, err, self, render)
		default:
			return nil, httputil.MakeError(http.StatusBadRequest, "unknown action")
		}
	default:
		return nil, httputil.MakeError(http.StatusMethodNotAllowed, "")
	}
}

func userPage(log *slog.Logger, cfg *Config, templ *templator) (http.Handler, error) {
	return newPage(log, cfg, pageOptions{FullUser: true}, templ, userDataBuilder{}, "dash_user")
}
