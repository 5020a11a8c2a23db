// Package session persists per-session checkpoint snapshots of the request
// record. Overlapping requests on the same session are not serialized; the
// last write observed by the store wins.
package session

import (
	"context"
	"errors"

	"github.com/aura-assist/aura-backend/internal/types"
)

// ErrNotFound is returned when no checkpoint exists for a thread key. Callers
// treat it as a fresh session, not a failure.
var ErrNotFound = errors.New("session: checkpoint not found")

// Store is the checkpoint backend.
type Store interface {
	Get(ctx context.Context, threadKey string) (types.RequestRecord, error)
	Put(ctx context.Context, threadKey string, record types.RequestRecord) error
	Delete(ctx context.Context, threadKey string) error
}
