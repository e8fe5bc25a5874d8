package userauth

import (
	crand "crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/alex65536/league/internal/util/idgen"
	"golang.org/x/crypto/argon2"
)

// PasswordOptions are the argon2id parameters. Changing them makes the stored passwords invalid.
type PasswordOptions struct {
	Time    uint32 `toml:"time"`
	Memory  uint32 `toml:"memory"`
	Threads uint8  `toml:"threads"`
	KeyLen  uint32 `toml:"key-len"`
	SaltLen uint32 `toml:"salt-len"`
}

func (o *PasswordOptions) FillDefaults() {
	if o.Time == 0 {
		o.Time = 3
	}
	if o.Memory == 0 {
		o.Memory = 16 * 1024
	}
	if o.Threads == 0 {
		o.Threads = 1
	}
	if o.KeyLen == 0 {
		o.KeyLen = 32
	}
	if o.SaltLen == 0 {
		o.SaltLen = 16
	}
}

type User struct {
	ID           string  `gorm:"primaryKey"`
	Username     string  `gorm:"uniqueIndex"`
	InviterID    *string `gorm:"index"`
	PasswordHash []byte
	PasswordSalt []byte
	// Epoch changes together with the password or the perms, so the sessions issued before
	// become invalid.
	Epoch       int
	Perms       Perms        `gorm:"embedded"`
	InviteLinks []InviteLink `gorm:"foreignKey:OwnerUserID;constraint:OnDelete:CASCADE"`
}

func (u *User) SetPassword(password []byte, o PasswordOptions) error {
	salt := make([]byte, o.SaltLen)
	if _, err := crand.Read(salt); err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}
	u.PasswordSalt = salt
	u.PasswordHash = argon2.IDKey(password, salt, o.Time, o.Memory, o.Threads, o.KeyLen)
	u.Epoch++
	return nil
}

func (u *User) VerifyPassword(password []byte, o PasswordOptions) bool {
	if len(u.PasswordHash) == 0 {
		return false
	}
	hash := argon2.IDKey(password, u.PasswordSalt, o.Time, o.Memory, o.Threads, uint32(len(u.PasswordHash)))
	return subtle.ConstantTimeCompare(hash, u.PasswordHash) == 1
}

// InviteLink lets a new user sign up with the given perms. Only the hash of the secret value
// is used for lookups.
type InviteLink struct {
	Hash        string  `gorm:"primaryKey"`
	OwnerUserID *string `gorm:"index"`
	Name        string
	Value       string
	Perms       Perms `gorm:"embedded"`
	CreatedAt   time.Time
	ExpiresAt   time.Time `gorm:"index"`
}

func HashInviteValue(val string) string {
	hash := sha256.Sum256([]byte(val))
	return hex.EncodeToString(hash[:])
}

func (l *InviteLink) GenerateNew() error {
	val, err := idgen.SecureLinkValue()
	if err != nil {
		return fmt.Errorf("generate invite value: %w", err)
	}
	l.Value = val
	l.Hash = HashInviteValue(val)
	return nil
}

// Verify checks that creator may issue the link.
func (l InviteLink) Verify(creator *User) error {
	switch {
	case l.Perms.IsOwner:
		return inputErr("nobody can invite an owner")
	case l.Perms.IsBlocked:
		return inputErr("cannot invite a blocked user")
	case !creator.Perms.Get(PermInvite):
		return inputErr("you cannot create invite links")
	case l.Perms.Get(PermAdmin) && !creator.Perms.IsOwner:
		return inputErr("only the owner can invite admins")
	case !l.Perms.LessEq(creator.Perms):
		return inputErr("cannot grant permissions you do not have")
	default:
		return nil
	}
}
