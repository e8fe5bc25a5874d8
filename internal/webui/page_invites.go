package webui

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alex65536/league/internal/userauth"
	"github.com/alex65536/league/internal/util/httputil"
	"github.com/alex65536/go-chess/util/maybe"
	"github.com/gorilla/csrf"
)

type invitesDataPerm struct {
	Name  string
	Field string
}

type invitesDataItem struct {
	Name    string
	Link    string
	Perms   string
	Created *humanTimePartData
	Expires *humanTimePartData
	Hash    string
}

type invitesData struct {
	CSRFField template.HTML
	Perms     []invitesDataPerm
	Invites   []invitesDataItem
	Errors    []string
}

func invitePermField(p userauth.PermKind) string {
	return "invite-perm-" + p.String()
}

type invitesDataBuilder struct{}

func (invitesDataBuilder) Build(ctx context.Context, bc builderCtx) (any, error) {
	req := bc.Req
	users := bc.Config.UserManager
	me := bc.FullUser

	render := func(errs []string) (any, error) {
		now := bc.Now()
		data := &invitesData{
			CSRFField: csrf.TemplateField(req),
			Errors:    errs,
		}
		for p := range userauth.PermMax {
			if me.Perms.Get(p) {
				data.Perms = append(data.Perms, invitesDataPerm{Name: p.PrettyString(), Field: invitePermField(p)})
			}
		}
		for _, l := range users.InviteLinks(me) {
			var names []string
			for p := range userauth.PermMax {
				if l.Perms.Get(p) {
					names = append(names, p.PrettyString())
				}
			}
			data.Invites = append(data.Invites, invitesDataItem{
				Name:    l.Name,
				Link:    users.InviteLinkURL(l),
				Perms:   strings.Join(names, ", "),
				Created: buildHumanTimePartData(now, l.CreatedAt),
				Expires: buildHumanTimePartData(now, l.ExpiresAt),
				Hash:    l.Hash,
			})
		}
		return data, nil
	}
	const self = "/dashboard/invites"

	switch req.Method {
	case http.MethodGet:
		return render(nil)
	case http.MethodPost:
		if err := parseForm(req); err != nil {
			return nil, err
		}
		switch req.FormValue("action") {
		case "delete":
			err := users.DeleteInviteLink(ctx, me, req.FormValue("hash"))
			return actionResult(bc, err, self, render)
		case "invite":
			var perms userauth.Perms
			for p := range userauth.PermMax {
				*perms.GetMut(p) = req.FormValue(invitePermField(p)) == "true"
			}
			link, err := users.GenerateInviteLink(ctx, req.FormValue("invite-name"), me, perms)
			if err == nil {
				bc.Log.Info("invite link issued", slog.String("name", link.Name))
			}
			return actionResult(bc, err, self, render)
		default:
			return nil, httputil.MakeError(http.StatusBadRequest, "unknown action")
		}
	default:
		return nil, httputil.MakeError(http.StatusMethodNotAllowed, "")
	}
}

func invitesPage(log *slog.Logger, cfg *Config, templ *templator) (http.Handler, error) {
	return newPage(log, cfg, pageOptions{
		RequirePerm: maybe.Some(userauth.PermInvite),
		GetUserOptions: maybe.Some(userauth.GetUserOptions{
			WithInviteLinks: true,
		}),
	}, templ, invitesDataBuilder{}, "dash_invites")
}
