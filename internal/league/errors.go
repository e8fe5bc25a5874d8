package league

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// ValidationError means that the input is malformed. Nothing is persisted.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Msg
	}
	return fmt.Sprintf("invalid %v: %v", e.Field, e.Msg)
}

func validationErr(field, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// StateError means that the operation is not allowed in the current state of the entity.
type StateError struct {
	Msg string
}

func (e *StateError) Error() string { return e.Msg }

func stateErr(format string, args ...any) error {
	return &StateError{Msg: fmt.Sprintf(format, args...)}
}

type EntityKind int

const (
	KindTeam EntityKind = iota
	KindPlayer
	KindMatch
	KindTournament
)

func (k EntityKind) String() string {
	switch k {
	case KindTeam:
		return "team"
	case KindPlayer:
		return "player"
	case KindMatch:
		return "match"
	case KindTournament:
		return "tournament"
	default:
		panic("bad entity kind")
	}
}

type NotFoundError struct {
	Kind EntityKind
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(kind EntityKind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// StoreError wraps a failure of the underlying entity store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store: %v: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

// storeErr passes the domain errors through as is and wraps everything else into StoreError.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		vErr  *ValidationError
		sErr  *StateError
		nfErr *NotFoundError
		stErr *StoreError
	)
	if errors.As(err, &vErr) || errors.As(err, &sErr) || errors.As(err, &nfErr) || errors.As(err, &stErr) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsState(err error) bool {
	var e *StateError
	return errors.As(err, &e)
}

func IsStore(err error) bool {
	var e *StoreError
	return errors.As(err, &e)
}
