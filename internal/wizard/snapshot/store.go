// Package snapshot persists the wizard crash-recovery tuple. Writes are full
// overwrites of the serialized snapshot; the last synchronous write wins.
package snapshot

import (
	"context"
	"errors"

	"github.com/smallbiznis/sitekit/internal/wizard/domain"
)

// ErrNotFound is returned by Load when no snapshot exists for the session.
var ErrNotFound = errors.New("wizard_snapshot_not_found")

type Store interface {
	Load(ctx context.Context, sessionID string) (domain.Snapshot, error)
	Save(ctx context.Context, sessionID string, snap domain.Snapshot) error
	Clear(ctx context.Context, sessionID string) error
}
