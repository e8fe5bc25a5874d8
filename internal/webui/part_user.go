package webui

import (
	"github.com/alex65536/league/internal/userauth"
)

type permPartData struct {
	Field  string
	Name   string
	Active bool
}

type permsPartData struct {
	IsOwner   bool
	IsBlocked bool
	Perms     []permPartData
}

func buildPermsPartData(p userauth.Perms) *permsPartData {
	res := &permsPartData{IsOwner: p.IsOwner, IsBlocked: p.IsBlocked}
	for k := range userauth.PermMax {
		res.Perms = append(res.Perms, permPartData{
			Field:  "perm-" + k.String(),
			Name:   k.PrettyString(),
			Active: p.Get(k),
		})
	}
	return res
}

type userPartData struct {
	Username  string
	InvitedBy string
	Perms     *permsPartData
}

func buildUserPartData(user userauth.User) *userPartData {
	return &userPartData{
		Username: user.Username,
		Perms:    buildPermsPartData(user.Perms),
	}
}
