package userauth

import (
	"errors"
	"fmt"
)

// InputError is a problem the user can fix by changing what they entered.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string { return e.Msg }

func inputErr(format string, args ...any) error {
	return &InputError{Msg: fmt.Sprintf(format, args...)}
}

func IsInput(err error) bool {
	var e *InputError
	return errors.As(err, &e)
}
