package rounds

import (
	"errors"
	"fmt"

	"roundhouse/internal/game"
	"roundhouse/internal/ledger"
	"roundhouse/internal/store"
)

var (
	ErrValidation        = errors.New("validation")
	ErrStateConflict     = errors.New("state_conflict")
	ErrNotFound          = store.ErrNotFound
	ErrInsufficientFunds = store.ErrInsufficientFunds
	ErrInconsistentState = ledger.ErrInconsistentState

	// errRaceLost reports that a conditional transition was won by another
	// caller. It never leaves this package.
	errRaceLost = errors.New("race_lost")
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStateConflict, fmt.Sprintf(format, args...))
}

// asValidation folds rule and config errors from the game packages into
// ErrValidation.
func asValidation(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, game.ErrInvalidBet) || errors.Is(err, game.ErrInvalidConfig) ||
		errors.Is(err, game.ErrUnknownGame) || errors.Is(err, game.ErrMissingOdds) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return err
}

// Code is the wire code of err.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrStateConflict):
		return "state_conflict"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInconsistentState):
		return "inconsistent_state"
	default:
		return "internal_error"
	}
}
