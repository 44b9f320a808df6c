package storage

import (
	"context"
	"errors"
)

// Logical keys for the two persisted blobs. Each key is an independent unit
// of consistency: a write replaces the whole blob under that key.
const (
	KeyTemplates = "templates"
	KeySessions  = "sessions"
)

// ErrUnavailable is the only failure category the data layer surfaces:
// the persistence backend itself could not be reached. Absent keys are not
// errors.
var ErrUnavailable = errors.New("storage unavailable")

// KV is the persistence contract the workout stores run against: a
// synchronous key-value store holding serialized catalogs. Get reports
// absence via the bool, reserving errors for backend failure.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}
