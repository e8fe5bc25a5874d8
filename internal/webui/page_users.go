package webui

import (
	"context"
	"log/slog"
	"net/http"
)

type usersData struct {
	Users []*userPartData
}

type usersDataBuilder struct{}

func (usersDataBuilder) Build(ctx context.Context, bc builderCtx) (any, error) {
	if bc.FullUser == nil {
		return nil, bc.Redirect("/login")
	}
	users, err := bc.Config.UserManager.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}
	data := &usersData{}
	for _, u := range users {
		item := buildUserPartData(u)
		if u.InviterID != nil {
			item.InvitedBy = names[*u.InviterID]
		}
		data.Users = append(data.Users, item)
	}
	return data, nil
}

func usersPage(log *slog.Logger, cfg *Config, templ *templator) (http.Handler, error) {
	return newPage(log, cfg, pageOptions{FullUser: true}, templ, usersDataBuilder{}, "dash_users")
}
