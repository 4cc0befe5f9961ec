package forum

import (
	"errors"
	"fmt"

	"agoradb/pkg/models"
)

// Sentinel error kinds of the mutation/query protocol. Handlers match on
// these with errors.Is / errors.As to pick status codes.
var (
	// ErrUnauthorized is returned when an operator-only operation is
	// invoked by any other identity. No state is touched.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned when a referenced thread, post or person
	// does not exist where existence is required.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned on a thread-name collision at creation.
	ErrAlreadyExists = errors.New("already exists")

	// ErrNoReaction is returned by Unreact when the caller holds no
	// reaction slot on the post.
	ErrNoReaction = errors.New("no reaction")

	// ErrInvalid is returned for malformed input (empty or oversized
	// thread names, unknown reaction kinds) before any fee is applied.
	ErrInvalid = errors.New("invalid argument")
)

// InsufficientFeeError reports an attached deposit below the required
// fee. By the time the caller sees it the full deposit has already been
// refunded; no other state was mutated.
type InsufficientFeeError struct {
	Required models.Amount
}

func (e *InsufficientFeeError) Error() string {
	return fmt.Sprintf("attached deposit is less than the fee of %s; deposit has been refunded", e.Required)
}
