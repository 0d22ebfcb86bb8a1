package cart

import (
	"context"

	"github.com/pkg/errors"
)

// ErrNotConfirmed is returned when the user declined a destructive action.
var ErrNotConfirmed = errors.New("action not confirmed")

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// Confirmed is a Confirmer with a fixed answer, e.g. from a ?confirm=true
// query parameter.
type Confirmed bool

func (c Confirmed) Confirm(context.Context, string) bool { return bool(c) }

// RequireConfirmation returns ErrNotConfirmed unless c approves prompt.
func RequireConfirmation(ctx context.Context, c Confirmer, prompt string) error {
	if c == nil || !c.Confirm(ctx, prompt) {
		return ErrNotConfirmed
	}
	return nil
}
