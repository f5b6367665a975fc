package services

import (
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/todo-api/internal/store"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("not found")
	ErrUnavailable          = errors.New("service temporarily unavailable")
	ErrStore                = errors.New("internal server error")
)

func validationError(detail string) error {
	return fmt.Errorf("%w: %s", ErrValidation, detail)
}

// storeError maps a store failure onto the service taxonomy. The underlying
// error stays in the chain for logging.
func storeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrUnavailable):
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	default:
		return fmt.Errorf("%w: %w", ErrStore, err)
	}
}
