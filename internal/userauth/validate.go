package userauth

import (
	"unicode/utf8"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 32
	minPasswordLen = 8
	maxPasswordLen = 64
	maxInviteName  = 64
)

func checkLen(what string, s string, lo, hi int) error {
	if n := utf8.RuneCountInString(s); n < lo || n > hi {
		return inputErr("%v must have from %v to %v characters", what, lo, hi)
	}
	return nil
}

func isUsernameChar(c rune) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	default:
		return c == '_' || c == '-' || c == '.'
	}
}

func ValidatePassword(password string) error {
	return checkLen("password", password, minPasswordLen, maxPasswordLen)
}

func ValidateUsername(username string) error {
	if err := checkLen("username", username, minUsernameLen, maxUsernameLen); err != nil {
		return err
	}
	for _, c := range username {
		if !isUsernameChar(c) {
			return inputErr("username may contain only latin letters, digits and the symbols _ - .")
		}
	}
	return nil
}

// ValidateInviteName checks the name of a new invite link. Empty names are allowed.
func ValidateInviteName(name string) error {
	if name == "" {
		return nil
	}
	return checkLen("invite name", name, 1, maxInviteName)
}
