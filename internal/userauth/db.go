package userauth

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInviteLinkUsed     = errors.New("invite link already used")
	ErrInviteLinkNotFound = errors.New("invite link not found")
	ErrUserAlreadyExists  = errors.New("user with such username already exists")
	ErrUserNotFound       = errors.New("user not found")
)

type GetUserOptions struct {
	WithInviteLinks bool
}

type UpdateUserOptions struct {
	// DropInviteLinks deletes the invite links of the user if the user may not invite anymore.
	DropInviteLinks bool
}

// DB stores the users and their invite links. Invite links are looked up by the hash of their
// value and only while they are not expired.
type DB interface {
	CreateUser(ctx context.Context, user User, link InviteLink) error
	GetUser(ctx context.Context, userID string, o ...GetUserOptions) (User, error)
	GetUserByUsername(ctx context.Context, username string, o ...GetUserOptions) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	UpdateUser(ctx context.Context, user User, o ...UpdateUserOptions) error
	HasOwnerUser(ctx context.Context) (bool, error)
	CreateInviteLink(ctx context.Context, link InviteLink) error
	GetInviteLink(ctx context.Context, linkHash string, now time.Time) (InviteLink, error)
	PruneInviteLinks(ctx context.Context, now time.Time) (int64, error)
	DeleteInviteLink(ctx context.Context, ownerUserID string, linkHash string) error
}
