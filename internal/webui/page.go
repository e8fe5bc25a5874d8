package webui

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/alex65536/league/internal/league"
	"github.com/alex65536/league/internal/userauth"
	"github.com/alex65536/league/internal/util/httputil"
	"github.com/alex65536/league/internal/util/slogx"
	"github.com/alex65536/go-chess/util/maybe"
)

const sessionName = "league_session"

type userInfo struct {
	ID        string
	Username  string
	Epoch     int
	Dashboard bool
}

func makeUserInfo(user *userauth.User) *userInfo {
	if user == nil {
		return nil
	}
	return &userInfo{
		ID:        user.ID,
		Username:  user.Username,
		Epoch:     user.Epoch,
		Dashboard: user.Perms.Any(),
	}
}

func (u *userInfo) clone() *userInfo {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

type dataBuilder interface {
	Build(ctx context.Context, bc builderCtx) (any, error)
}

type pageOptions struct {
	NoUserInfo     bool
	NoShowAuth     bool
	FullUser       bool
	GetUserOptions maybe.Maybe[userauth.GetUserOptions]
	// RequirePerm restricts the page to the logged in users with the given permission.
	RequirePerm maybe.Maybe[userauth.PermKind]
	// LiveReload makes the page reload itself when the league data changes.
	LiveReload bool
}

type page struct {
	name     string
	cfg      *Config
	pageOpts pageOptions
	log      *slog.Logger
	b        dataBuilder
	tmpl     *template.Template
	errTmpl  *template.Template
}

type pageData struct {
	Data       any
	User       *userInfo
	WithAuth   bool
	LiveReload bool
}

type builderCtx struct {
	Log      *slog.Logger
	Config   *Config
	UserInfo *userInfo
	FullUser *userauth.User
	Req      *http.Request
	writer   http.ResponseWriter
}

func (bc *builderCtx) League() *league.Manager {
	return bc.Config.League
}

func (bc *builderCtx) Now() time.Time {
	return bc.Config.League.Now()
}

func (bc *builderCtx) Redirect(path string) error {
	return httputil.MakeRedirectError(http.StatusSeeOther, "redirecting", bc.Config.prefix+path)
}

func (bc *builderCtx) UpgradeSession(newUser *userInfo) {
	session, _ := bc.Config.sessionStore.Get(bc.Req, sessionName)
	delete(session.Values, "user")
	if newUser != nil {
		session.Values["user"] = *newUser
	}
	if err := session.Save(bc.Req, bc.writer); err != nil {
		bc.Log.Error("apply new session", slogx.Err(err))
	}
	bc.UserInfo = newUser.clone()
}

func (bc *builderCtx) ResetSession(newUser *userInfo) {
	log := bc.Log
	session, _ := bc.Config.sessionStore.Get(bc.Req, sessionName)
	session.Options.MaxAge = -1
	clear(session.Values)
	if err := session.Save(bc.Req, bc.writer); err != nil {
		log.Error("expire current session", slogx.Err(err))
	}
	session, _ = bc.Config.sessionStore.New(bc.Req, sessionName)
	bc.Config.opts.Session.SetupSession(session.Options)
	if newUser != nil {
		session.Values["user"] = *newUser
	}
	if err := session.Save(bc.Req, bc.writer); err != nil {
		log.Error("apply new session", slogx.Err(err))
	}
	bc.UserInfo = newUser.clone()
	bc.FullUser = nil
}

func (p *page) writePage(log *slog.Logger, w http.ResponseWriter, tmpl *template.Template, code int, data pageData) {
	var b bytes.Buffer
	if err := tmpl.ExecuteTemplate(&b, "base", data); err != nil {
		log.Error("error rendering page", slogx.Err(err))
		writeHTTPErr(log, w, fmt.Errorf("render page"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if _, err := w.Write(b.Bytes()); err != nil {
		log.Info("error writing page data", slogx.Err(err))
	}
}

func (p *page) renderError(log *slog.Logger, w http.ResponseWriter, user *userInfo, httpErr *httputil.Error) {
	if httpErr.IsRedirect() {
		log.Info("send http redirect",
			slog.Int("code", httpErr.Code()),
			slog.String("msg", httpErr.Message()),
		)
		httpErr.ApplyHeaders(w)
		w.WriteHeader(httpErr.Code())
		return
	}

	log.Info("send http status error",
		slog.Int("code", httpErr.Code()),
		slog.String("msg", httpErr.Message()),
	)
	httpErr.ApplyHeaders(w)
	p.writePage(log, w, p.errTmpl, httpErr.Code(), pageData{
		Data: struct {
			Code    int
			Message string
		}{
			Code:    httpErr.Code(),
			Message: httpErr.Message(),
		},
		User:     user,
		WithAuth: !p.pageOpts.NoUserInfo,
	})
}

func (p *page) loadUserInfo(log *slog.Logger, w http.ResponseWriter, req *http.Request) *userInfo {
	session, _ := p.cfg.sessionStore.Get(req, sessionName)
	var res *userInfo
	if raw, ok := session.Values["user"].(userInfo); ok {
		res = &raw
	}
	if session.IsNew {
		p.cfg.opts.Session.SetupSession(session.Options)
		if err := p.cfg.sessionStore.Save(req, w, session); err != nil {
			log.Error("could not save session", slogx.Err(err))
		}
	}
	return res
}

// loadFullUser fetches the user behind the session if the page needs it. The session must be
// reset if the user is gone, blocked or has changed the password or perms since login.
func (p *page) loadFullUser(ctx context.Context, log *slog.Logger, inf *userInfo) (*userauth.User, *userInfo, bool) {
	if inf == nil || (!p.pageOpts.FullUser && p.pageOpts.RequirePerm.IsNone()) {
		return nil, inf, false
	}
	var opts []userauth.GetUserOptions
	if o, ok := p.pageOpts.GetUserOptions.TryGet(); ok {
		opts = append(opts, o)
	}
	user, err := p.cfg.UserManager.GetUser(ctx, inf.ID, opts...)
	switch {
	case errors.Is(err, userauth.ErrUserNotFound):
		log.Info("session user is gone", slog.String("user_id", inf.ID))
		return nil, nil, true
	case err != nil:
		log.Error("could not fetch session user", slogx.Err(err))
		return nil, nil, false
	case user.Perms.IsBlocked || user.Epoch != inf.Epoch:
		return nil, nil, true
	default:
		return &user, inf, false
	}
}

func (p *page) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	log := p.log.With(slog.String("rid", httputil.ExtractReqID(ctx)))
	log.Info("handle page request",
		slog.String("method", req.Method),
		slog.String("addr", req.RemoteAddr),
	)

	if req.Method != http.MethodGet && req.Method != http.MethodPost {
		log.Warn("method not allowed")
		writeHTTPErr(log, w, httputil.MakeError(http.StatusMethodNotAllowed, "method not allowed"))
		return
	}

	var userInf *userInfo
	if !p.pageOpts.NoUserInfo {
		userInf = p.loadUserInfo(log, w, req)
	}

	fullUser, userInf, resetSession := p.loadFullUser(ctx, log, userInf)
	bc := builderCtx{
		Log:      log,
		Config:   p.cfg,
		UserInfo: userInf,
		FullUser: fullUser,
		Req:      req,
		writer:   w,
	}
	if resetSession {
		bc.ResetSession(nil)
	}

	data, err := func() (any, error) {
		if perm, ok := p.pageOpts.RequirePerm.TryGet(); ok {
			if bc.FullUser == nil {
				return nil, bc.Redirect("/login")
			}
			if !bc.FullUser.Perms.Get(perm) {
				return nil, httputil.MakeError(http.StatusForbidden, "permission denied")
			}
		}
		return p.b.Build(ctx, bc)
	}()
	if err != nil {
		if httpErr := (*httputil.Error)(nil); errors.As(err, &httpErr) {
			p.renderError(log, w, bc.UserInfo, httpErr)
			return
		}
		log.Error("error building page data", slogx.Err(err))
		p.renderError(log, w, bc.UserInfo, httputil.MakeError(http.StatusInternalServerError, "internal server error").(*httputil.Error))
		return
	}

	p.writePage(log, w, p.tmpl, http.StatusOK, pageData{
		Data:       data,
		User:       bc.UserInfo,
		WithAuth:   !p.pageOpts.NoUserInfo && !p.pageOpts.NoShowAuth,
		LiveReload: p.pageOpts.LiveReload,
	})
}

func newPage(
	log *slog.Logger,
	cfg *Config,
	pageOpts pageOptions,
	templator *templator,
	builder dataBuilder,
	name string,
) (http.Handler, error) {
	tmpl, err := templator.Get(name)
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", name, err)
	}
	errTempl, err := templator.Get("error")
	if err != nil {
		return nil, fmt.Errorf("template \"error\": %w", err)
	}
	return &page{
		name:     name,
		cfg:      cfg,
		pageOpts: pageOpts,
		log:      log.With(slog.String("page", name)),
		b:        builder,
		tmpl:     tmpl,
		errTmpl:  errTempl,
	}, nil
}

func init() {
	gob.Register(userInfo{})
}
