package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alex65536/league/internal/userauth"
	"gorm.io/gorm"
)

// first runs q and returns the single matching row, or notFound if there is none.
func first[T any](q *gorm.DB, notFound error) (T, error) {
	var rows []T
	if err := q.Limit(1).Find(&rows).Error; err != nil {
		var zero T
		return zero, err
	}
	if len(rows) == 0 {
		var zero T
		return zero, notFound
	}
	return rows[0], nil
}

// CreateUser adds user and consumes link in one transaction. If the link is already gone, the
// user is not created.
func (d *DB) CreateUser(ctx context.Context, user userauth.User, link userauth.InviteLink) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&userauth.User{}).Where("username = ?", user.Username).Count(&taken).Error; err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if taken != 0 {
			return userauth.ErrUserAlreadyExists
		}
		res := tx.Where("hash = ?", link.Hash).Delete(&userauth.InviteLink{})
		if res.Error != nil {
			return fmt.Errorf("consume invite link: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return userauth.ErrInviteLinkUsed
		}
		if err := tx.Omit("InviteLinks").Create(&user).Error; err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		return nil
	})
}

func (d *DB) userQuery(ctx context.Context, os []userauth.GetUserOptions) *gorm.DB {
	q := d.db.WithContext(ctx)
	if applyOpts(os).WithInviteLinks {
		q = q.Preload("InviteLinks", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		})
	}
	return q
}

func (d *DB) GetUser(ctx context.Context, userID string, o ...userauth.GetUserOptions) (userauth.User, error) {
	u, err := first[userauth.User](d.userQuery(ctx, o).Where("id = ?", userID), userauth.ErrUserNotFound)
	if err != nil && !errors.Is(err, userauth.ErrUserNotFound) {
		return userauth.User{}, fmt.Errorf("get user %q: %w", userID, err)
	}
	return u, err
}

func (d *DB) GetUserByUsername(ctx context.Context, username string, o ...userauth.GetUserOptions) (userauth.User, error) {
	u, err := first[userauth.User](d.userQuery(ctx, o).Where("username = ?", username), userauth.ErrUserNotFound)
	if err != nil && !errors.Is(err, userauth.ErrUserNotFound) {
		return userauth.User{}, fmt.Errorf("get user by name: %w", err)
	}
	return u, err
}

func (d *DB) UpdateUser(ctx context.Context, user userauth.User, os ...userauth.UpdateUserOptions) error {
	dropLinks := applyOpts(os).DropInviteLinks && !user.Perms.Get(userauth.PermInvite)
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("InviteLinks").Save(&user).Error; err != nil {
			return fmt.Errorf("save user: %w", err)
		}
		if !dropLinks {
			return nil
		}
		if err := tx.Where("owner_user_id = ?", user.ID).Delete(&userauth.InviteLink{}).Error; err != nil {
			return fmt.Errorf("drop invite links: %w", err)
		}
		return nil
	})
}

func (d *DB) HasOwnerUser(ctx context.Context) (bool, error) {
	var n int64
	if err := d.db.WithContext(ctx).Model(&userauth.User{}).Where("is_owner = ?", true).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count owners: %w", err)
	}
	return n > 0, nil
}

func (d *DB) ListUsers(ctx context.Context) ([]userauth.User, error) {
	var users []userauth.User
	if err := d.db.WithContext(ctx).Order("username").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (d *DB) CreateInviteLink(ctx context.Context, link userauth.InviteLink) error {
	if err := d.db.WithContext(ctx).Create(&link).Error; err != nil {
		return fmt.Errorf("insert invite link: %w", err)
	}
	return nil
}

func (d *DB) GetInviteLink(ctx context.Context, linkHash string, now time.Time) (userauth.InviteLink, error) {
	q := d.db.WithContext(ctx).Where("hash = ? AND expires_at >= ?", linkHash, now.UTC())
	l, err := first[userauth.InviteLink](q, userauth.ErrInviteLinkNotFound)
	if err != nil && !errors.Is(err, userauth.ErrInviteLinkNotFound) {
		return userauth.InviteLink{}, fmt.Errorf("get invite link: %w", err)
	}
	return l, err
}

// PruneInviteLinks deletes the links expired before now and returns their count.
func (d *DB) PruneInviteLinks(ctx context.Context, now time.Time) (int64, error) {
	res := d.db.WithContext(ctx).Where("expires_at < ?", now.UTC()).Delete(&userauth.InviteLink{})
	if res.Error != nil {
		return 0, fmt.Errorf("prune invite links: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (d *DB) DeleteInviteLink(ctx context.Context, ownerUserID string, linkHash string) error {
	res := d.db.WithContext(ctx).
		Where("hash = ? AND owner_user_id = ?", linkHash, ownerUserID).
		Delete(&userauth.InviteLink{})
	if res.Error != nil {
		return fmt.Errorf("delete invite link: %w", res.Error)
	}
	return nil
}
