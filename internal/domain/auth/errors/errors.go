package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrInternal            = errors.New("internal error")
	ErrNotFound            = errors.New("not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAlreadyExists       = errors.New("already exists")
	ErrInvalidToken        = errors.New("invalid token")
	ErrNoToken             = errors.New("no token provided")
	ErrForbidden           = errors.New("insufficient permissions for this action")
	ErrProvider            = errors.New("identity provider error")
	ErrNewPasswordRequired = errors.New("user needs to set a new password")
	ErrUserBlocked         = errors.New("user is blocked")
)

func NewInvalidArgument(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, msg)
}

func WrapInternal(err error, context string) error {
	return fmt.Errorf("%w: %s: %v", ErrInternal, context, err)
}

// WrapProvider keeps the provider message readable for clients: it is the
// text returned in 400 bodies.
func WrapProvider(err error, op string) error {
	return fmt.Errorf("%w: %s: %w", ErrProvider, op, err)
}

// NewInvalidToken carries the verifier message, which the gate returns as is.
func NewInvalidToken(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidToken, msg)
}

func NewNotFound(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

func IsInvalidToken(err error) bool {
	return errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrNoToken)
}

func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

func IsProvider(err error) bool {
	return errors.Is(err, ErrProvider)
}
