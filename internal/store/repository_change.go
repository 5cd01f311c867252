// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-lesson-sync/internal/logger"
	"github.com/MKhiriev/go-lesson-sync/models"
)

const (
	appendRetryBase     = 50 * time.Millisecond
	appendRetryAttempts = 3
)

// changeRepository is the SQL-backed implementation of [ChangeRepository].
// Queries are built with squirrel in the placeholder format of the
// connection's dialect.
type changeRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewChangeRepository constructs a [ChangeRepository] backed by db.
func NewChangeRepository(db *DB, logger *logger.Logger) ChangeRepository {
	logger.Debug().Str("dialect", string(db.dialect)).Msg("creating change repository")
	return &changeRepository{
		db:     db,
		logger: logger,
	}
}

// Append inserts change. Transient failures are retried with exponential
// backoff; a duplicate version maps to [ErrVersionConflict].
func (r *changeRepository) Append(ctx context.Context, change models.Change) error {
	log := logger.FromContext(ctx)

	if change.CreatedAt.IsZero() {
		change.CreatedAt = time.Now().UTC()
	}

	query, args, err := buildAppendChangeQuery(r.db.dialect, change)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	backoff := retry.WithMaxRetries(appendRetryAttempts, retry.NewExponential(appendRetryBase))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		_, execErr := r.db.ExecContext(ctx, query, args...)
		if execErr != nil && r.classify(execErr) == Retryable {
			log.Warn().Err(execErr).Int64("version", change.Version).Msg("retrying change append")
			return retry.RetryableError(execErr)
		}
		return execErr
	})
	if err == nil {
		return nil
	}

	log.Err(err).Str("func", "*changeRepository.Append").Int64("version", change.Version).Msg("error appending change")
	if r.classify(err) == Conflict {
		return fmt.Errorf("%w: version %d", ErrVersionConflict, change.Version)
	}
	return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
}

// Since returns the changes after version from in version order.
func (r *changeRepository) Since(ctx context.Context, from int64) ([]models.Change, error) {
	query, args, err := buildSinceQuery(r.db.dialect, from)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var changes []models.Change
	for rows.Next() {
		var (
			change models.Change
			data   string
		)
		if err = rows.Scan(&change.Version, &change.Path, &data, &change.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		change.Data = []byte(data)
		changes = append(changes, change)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return changes, nil
}

// LatestVersion returns MAX(version), or 0 for an empty log.
func (r *changeRepository) LatestVersion(ctx context.Context) (int64, error) {
	query, args, err := buildLatestVersionQuery(r.db.dialect)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var version int64
	if err = r.db.QueryRowContext(ctx, query, args...).Scan(&version); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return version, nil
}

func (r *changeRepository) classify(err error) ErrorClassification {
	if r.db.errorClassificator == nil || errors.Is(err, context.Canceled) {
		return NonRetryable
	}
	return r.db.errorClassificator.Classify(err)
}
