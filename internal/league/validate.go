package league

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

const (
	maxNameLen        = 64
	maxTournamentName = 128
	maxDescriptionLen = 2000
	maxReasonLen      = 500
)

func validateName(field, name string, maxLen int) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n == 0 {
		return "", validationErr(field, "must not be empty")
	}
	if n > maxLen {
		return "", validationErr(field, "must have at most %v characters", maxLen)
	}
	return name, nil
}

func validateLogo(logo string) (*string, error) {
	logo = strings.TrimSpace(logo)
	if logo == "" {
		return nil, nil
	}
	u, err := url.Parse(logo)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, validationErr("logo", "must be an http or https url")
	}
	return &logo, nil
}

func validateReason(reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return "", validationErr("reason", "must not be empty")
	}
	if utf8.RuneCountInString(reason) > maxReasonLen {
		return "", validationErr("reason", "must have at most %v characters", maxReasonLen)
	}
	return reason, nil
}

func validateDescription(desc string) (*string, error) {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(desc) > maxDescriptionLen {
		return nil, validationErr("description", "must have at most %v characters", maxDescriptionLen)
	}
	return &desc, nil
}

func validateScore(field string, score int) error {
	if score < 0 {
		return validationErr(field, "must not be negative")
	}
	return nil
}

func validateID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return validationErr(field, "must not be empty")
	}
	return nil
}
