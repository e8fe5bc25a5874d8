package userauth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alex65536/league/internal/util/slogx"
	"github.com/itbasis/go-clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDB struct {
	mock.Mock
}

func (db *mockDB) CreateUser(ctx context.Context, user User, link InviteLink) error {
	return db.Called(ctx, user, link).Error(0)
}

func (db *mockDB) GetUser(ctx context.Context, userID string, o ...GetUserOptions) (User, error) {
	args := db.Called(ctx, userID)
	return args.Get(0).(User), args.Error(1)
}

func (db *mockDB) GetUserByUsername(ctx context.Context, username string, o ...GetUserOptions) (User, error) {
	args := db.Called(ctx, username)
	return args.Get(0).(User), args.Error(1)
}

func (db *mockDB) ListUsers(ctx context.Context) ([]User, error) {
	args := db.Called(ctx)
	var r []User
	if args.Get(0) != nil {
		r = args.Get(0).([]User)
	}
	return r, args.Error(1)
}

func (db *mockDB) UpdateUser(ctx context.Context, user User, o ...UpdateUserOptions) error {
	return db.Called(ctx, user).Error(0)
}

func (db *mockDB) HasOwnerUser(ctx context.Context) (bool, error) {
	args := db.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (db *mockDB) CreateInviteLink(ctx context.Context, link InviteLink) error {
	return db.Called(ctx, link).Error(0)
}

func (db *mockDB) GetInviteLink(ctx context.Context, linkHash string, now time.Time) (InviteLink, error) {
	args := db.Called(ctx, linkHash, now)
	return args.Get(0).(InviteLink), args.Error(1)
}

func (db *mockDB) PruneInviteLinks(ctx context.Context, now time.Time) (int64, error) {
	args := db.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (db *mockDB) DeleteInviteLink(ctx context.Context, ownerUserID string, linkHash string) error {
	return db.Called(ctx, ownerUserID, linkHash).Error(0)
}

var errDB = errors.New("db is down")

func newMockManager(t *testing.T, db *mockDB) *Manager {
	t.Helper()
	db.On("PruneInviteLinks", mock.Anything, mock.Anything).Return(int64(0), nil).Maybe()
	m, err := NewManager(slogx.DiscardLogger(), ManagerConfig{DB: db, Clock: clock.NewMock()}, ManagerOptions{
		Password: fastPassword,
	})
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m
}

func TestNewManagerOwnerInvite(t *testing.T) {
	db := &mockDB{}
	db.On("HasOwnerUser", mock.Anything).Return(false, nil)
	db.On("CreateInviteLink", mock.Anything, mock.MatchedBy(func(l InviteLink) bool {
		return l.Perms.IsOwner && l.OwnerUserID == nil && l.Hash == HashInviteValue(l.Value)
	})).Return(nil).Once()
	m := newMockManager(t, db)
	m.Close()
	db.AssertExpectations(t)
}

func TestNewManagerFails(t *testing.T) {
	db := &mockDB{}
	db.On("HasOwnerUser", mock.Anything).Return(false, errDB)
	_, err := NewManager(slogx.DiscardLogger(), ManagerConfig{DB: db}, ManagerOptions{})
	assert.ErrorIs(t, err, errDB)

	db = &mockDB{}
	db.On("HasOwnerUser", mock.Anything).Return(false, nil)
	db.On("CreateInviteLink", mock.Anything, mock.Anything).Return(errDB)
	_, err = NewManager(slogx.DiscardLogger(), ManagerConfig{DB: db}, ManagerOptions{})
	assert.ErrorIs(t, err, errDB)
}

func TestManagerStoreErrors(t *testing.T) {
	ctx := context.Background()
	db := &mockDB{}
	db.On("HasOwnerUser", mock.Anything).Return(true, nil)
	m := newMockManager(t, db)

	db.On("GetUserByUsername", mock.Anything, "ghost").Return(User{}, errDB).Once()
	_, err := m.Authenticate(ctx, "ghost", "password1")
	assert.ErrorIs(t, err, errDB)
	assert.False(t, IsInput(err))

	db.On("CreateUser", mock.Anything, mock.Anything, mock.Anything).Return(ErrInviteLinkUsed).Once()
	_, err = m.Register(ctx, InviteLink{Hash: "h"}, "newbie", "password1", "password1")
	assert.True(t, IsInput(err))

	db.On("CreateUser", mock.Anything, mock.Anything, mock.Anything).Return(errDB).Once()
	_, err = m.Register(ctx, InviteLink{Hash: "h"}, "newbie", "password1", "password1")
	assert.ErrorIs(t, err, errDB)
	assert.False(t, IsInput(err))

	db.On("GetInviteLink", mock.Anything, HashInviteValue("val"), mock.Anything).
		Return(InviteLink{Value: "other"}, nil).Once()
	_, err = m.LookupInvite(ctx, "val")
	assert.ErrorIs(t, err, ErrInviteLinkNotFound)

	db.AssertExpectations(t)
}
