package lifecycle

import (
	"errors"
	"fmt"
	"strings"

	"lifecycle-service/internal/models"
)

var (
	// ErrNotFound indicates the entity id or tracking code does not resolve.
	ErrNotFound = errors.New("entity not found")

	// ErrNotCompleted indicates certificate issuance was attempted on an
	// enrollment that has not reached completed.
	ErrNotCompleted = errors.New("training is not completed")

	// ErrConflict indicates a concurrent transition won the write race.
	// Callers should re-fetch current state and re-decide; the engine does
	// not auto-retry.
	ErrConflict = errors.New("entity was modified concurrently")
)

// InvalidTransitionError reports a requested status unreachable from the
// current one, including the reachable set.
type InvalidTransitionError struct {
	Kind    models.EntityKind
	From    string
	To      string
	Allowed []string
}

func (e *InvalidTransitionError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("%s transition %s -> %s not allowed: %s is terminal",
			e.Kind, e.From, e.To, e.From)
	}
	return fmt.Sprintf("%s transition %s -> %s not allowed, valid targets: %s",
		e.Kind, e.From, e.To, strings.Join(e.Allowed, ", "))
}

// InvalidMetadataError reports a request payload field that is missing or
// invalid for the requested operation.
type InvalidMetadataError struct {
	Kind   models.EntityKind
	Field  string
	Reason string
}

func (e *InvalidMetadataError) Error() string {
	return fmt.Sprintf("%s transition metadata invalid: field %q: %s", e.Kind, e.Field, e.Reason)
}
