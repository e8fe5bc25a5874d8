// Package userauth manages the dashboard users: sign up by invite links, passwords and
// permissions.
package userauth

import (
	"cmp"
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/alex65536/league/internal/util/idgen"
	"github.com/alex65536/league/internal/util/slogx"
	petname "github.com/dustinkirkland/golang-petname"
	"github.com/itbasis/go-clock"
)

var ErrBadCredentials error = &InputError{Msg: "invalid username or password"}

type ManagerOptions struct {
	GCInterval       time.Duration   `toml:"gc-interval"`
	LinkPrefix       string          `toml:"link-prefix"`
	Password         PasswordOptions `toml:"password"`
	InviteLinkExpiry time.Duration   `toml:"invite-link-expiry"`
}

func (o *ManagerOptions) FillDefaults() {
	if o.GCInterval == 0 {
		o.GCInterval = 5 * time.Minute
	}
	if o.InviteLinkExpiry == 0 {
		o.InviteLinkExpiry = 24 * time.Hour
	}
	o.Password.FillDefaults()
}

type ManagerConfig struct {
	DB    DB
	Clock clock.Clock
}

type Manager struct {
	db     DB
	clock  clock.Clock
	o      ManagerOptions
	log    *slog.Logger
	cancel func()
	done   chan struct{}
}

// NewManager starts the manager. If there is no owner yet, it issues an invite link for the
// owner and logs it.
func NewManager(log *slog.Logger, cfg ManagerConfig, o ManagerOptions) (*Manager, error) {
	o.FillDefaults()
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	m := &Manager{
		db:    cfg.DB,
		clock: cfg.Clock,
		o:     o,
		log:   log,
		done:  make(chan struct{}),
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	hasOwner, err := m.db.HasOwnerUser(ctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("check for owner user: %w", err)
	}
	if !hasOwner {
		link, err := m.newInviteLink(ctx, "owner", nil, OwnerPerms())
		if err != nil {
			cancel()
			return nil, fmt.Errorf("create owner invite: %w", err)
		}
		log.Warn("no owner yet, follow the invite link to sign up as owner",
			slog.String("url", m.InviteLinkURL(link)))
	}
	go m.gcLoop(ctx)
	return m, nil
}

func (m *Manager) Close() {
	m.cancel()
	<-m.done
}

func (m *Manager) now() time.Time {
	return m.clock.Now().UTC()
}

func (m *Manager) GetUser(ctx context.Context, userID string, o ...GetUserOptions) (User, error) {
	return m.db.GetUser(ctx, userID, o...)
}

func (m *Manager) GetUserByUsername(ctx context.Context, username string) (User, error) {
	return m.db.GetUserByUsername(ctx, username)
}

func (m *Manager) ListUsers(ctx context.Context) ([]User, error) {
	return m.db.ListUsers(ctx)
}

func (m *Manager) InviteLinkURL(l InviteLink) string {
	return m.o.LinkPrefix + l.Value
}

func (m *Manager) newInviteLink(ctx context.Context, name string, owner *User, perms Perms) (InviteLink, error) {
	now := m.now()
	link := InviteLink{
		Name:      name,
		Perms:     perms,
		CreatedAt: now,
		ExpiresAt: now.Add(m.o.InviteLinkExpiry),
	}
	if owner != nil {
		id := owner.ID
		link.OwnerUserID = &id
	}
	if err := link.GenerateNew(); err != nil {
		return InviteLink{}, err
	}
	if err := m.db.CreateInviteLink(ctx, link); err != nil {
		return InviteLink{}, fmt.Errorf("save invite link: %w", err)
	}
	return link, nil
}

// GenerateInviteLink issues a link owned by creator. An empty name is replaced by a random
// readable one.
func (m *Manager) GenerateInviteLink(ctx context.Context, name string, creator *User, perms Perms) (InviteLink, error) {
	name = strings.TrimSpace(name)
	if err := ValidateInviteName(name); err != nil {
		return InviteLink{}, err
	}
	if name == "" {
		name = petname.Generate(2, "-")
	}
	link := InviteLink{Perms: perms}
	if err := link.Verify(creator); err != nil {
		return InviteLink{}, err
	}
	link, err := m.newInviteLink(ctx, name, creator, perms)
	if err != nil {
		return InviteLink{}, err
	}
	m.log.Info("created invite link",
		slog.String("user", creator.Username),
		slog.String("name", name),
	)
	return link, nil
}

// InviteLinks returns the active links of the user, newest first.
func (m *Manager) InviteLinks(u *User) []InviteLink {
	now := m.now()
	var res []InviteLink
	for _, l := range u.InviteLinks {
		if !l.ExpiresAt.Before(now) {
			res = append(res, l)
		}
	}
	slices.SortFunc(res, func(a, b InviteLink) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.Hash, b.Hash))
	})
	return res
}

func (m *Manager) DeleteInviteLink(ctx context.Context, owner *User, linkHash string) error {
	if err := m.db.DeleteInviteLink(ctx, owner.ID, linkHash); err != nil {
		return fmt.Errorf("delete invite link: %w", err)
	}
	return nil
}

// LookupInvite finds the active invite link by its secret value.
func (m *Manager) LookupInvite(ctx context.Context, value string) (InviteLink, error) {
	link, err := m.db.GetInviteLink(ctx, HashInviteValue(value), m.now())
	if err != nil {
		return InviteLink{}, err
	}
	if subtle.ConstantTimeCompare([]byte(link.Value), []byte(value)) == 0 {
		return InviteLink{}, ErrInviteLinkNotFound
	}
	return link, nil
}

// Register creates the user invited by link and consumes the link.
func (m *Manager) Register(ctx context.Context, link InviteLink, username, password, confirm string) (User, error) {
	if err := ValidateUsername(username); err != nil {
		return User{}, err
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(confirm)) == 0 {
		return User{}, inputErr("passwords do not match")
	}
	if err := ValidatePassword(password); err != nil {
		return User{}, err
	}
	user := User{
		ID:        idgen.ID(),
		Username:  username,
		InviterID: link.OwnerUserID,
		Perms:     link.Perms,
	}
	if err := user.SetPassword([]byte(password), m.o.Password); err != nil {
		return User{}, err
	}
	switch err := m.db.CreateUser(ctx, user, link); {
	case errors.Is(err, ErrUserAlreadyExists):
		return User{}, inputErr("username %q is already taken", username)
	case errors.Is(err, ErrInviteLinkUsed):
		return User{}, inputErr("invite link is already used")
	case err != nil:
		return User{}, fmt.Errorf("create user: %w", err)
	}
	m.log.Info("registered user",
		slog.String("user", username),
		slog.Bool("owner", user.Perms.IsOwner),
	)
	return user, nil
}

// Authenticate checks the credentials. Blocked users cannot log in.
func (m *Manager) Authenticate(ctx context.Context, username, password string) (User, error) {
	user, err := m.db.GetUserByUsername(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		return User{}, ErrBadCredentials
	}
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	if !user.VerifyPassword([]byte(password), m.o.Password) {
		return User{}, ErrBadCredentials
	}
	if user.Perms.IsBlocked {
		return User{}, inputErr("user is blocked")
	}
	return user, nil
}

// ChangePassword replaces the password of u. The old sessions of u become invalid.
func (m *Manager) ChangePassword(ctx context.Context, u *User, oldPassword, newPassword, confirm string) error {
	if u.Perms.IsBlocked {
		return inputErr("user is blocked")
	}
	if !u.VerifyPassword([]byte(oldPassword), m.o.Password) {
		return inputErr("wrong old password")
	}
	if subtle.ConstantTimeCompare([]byte(newPassword), []byte(confirm)) == 0 {
		return inputErr("new passwords do not match")
	}
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	if err := u.SetPassword([]byte(newPassword), m.o.Password); err != nil {
		return err
	}
	if err := m.db.UpdateUser(ctx, *u); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// ChangePerms replaces the perms of target on behalf of initiator.
func (m *Manager) ChangePerms(ctx context.Context, initiator, target *User, perms Perms) error {
	if err := target.TryChangePerms(initiator, perms); err != nil {
		return err
	}
	if err := m.db.UpdateUser(ctx, *target, UpdateUserOptions{DropInviteLinks: true}); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	m.log.Info("changed user perms",
		slog.String("user", target.Username),
		slog.String("by", initiator.Username),
	)
	return nil
}

func (m *Manager) gcLoop(ctx context.Context) {
	defer close(m.done)
	ticker := time.NewTicker(m.o.GCInterval)
	defer ticker.Stop()
	for {
		cnt, err := m.db.PruneInviteLinks(ctx, m.now())
		switch {
		case err != nil && !errors.Is(err, context.Canceled):
			m.log.Warn("could not prune invite links", slogx.Err(err))
		case cnt != 0:
			m.log.Info("pruned expired invite links", slog.Int64("count", cnt))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
