package database

import (
	"github.com/alex65536/league/internal/league"
	"github.com/alex65536/league/internal/userauth"
)

var models = append([]any{
	&userauth.User{},
	&userauth.InviteLink{},
}, league.Models...)
