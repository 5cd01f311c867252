package store

import (
	"context"

	"github.com/MKhiriev/go-lesson-sync/models"
)

// ChangeRepository is the versioned change log of the lesson server.
type ChangeRepository interface {
	// Append records change. A version already present yields
	// [ErrVersionConflict].
	Append(ctx context.Context, change models.Change) error

	// Since returns every change with a version greater than from, ordered
	// by version.
	Since(ctx context.Context, from int64) ([]models.Change, error)

	// LatestVersion returns the highest recorded version, or 0 for an empty
	// log.
	LatestVersion(ctx context.Context) (int64, error)
}

// ErrorClassificator decides how a failed database operation is handled.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
