package store

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/MKhiriev/go-lesson-sync/models"
)

// memoryChangeRepository keeps the change log in process memory. It is used
// when no database is configured; the log is lost on restart.
type memoryChangeRepository struct {
	mu      sync.RWMutex
	changes []models.Change
	seen    map[int64]struct{}
}

// NewMemoryChangeRepository returns an empty in-memory [ChangeRepository].
func NewMemoryChangeRepository() ChangeRepository {
	return &memoryChangeRepository{seen: make(map[int64]struct{})}
}

func (m *memoryChangeRepository) Append(_ context.Context, change models.Change) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.seen[change.Version]; ok {
		return fmt.Errorf("%w: version %d", ErrVersionConflict, change.Version)
	}
	if change.CreatedAt.IsZero() {
		change.CreatedAt = time.Now().UTC()
	}
	change.Data = slices.Clone(change.Data)

	m.seen[change.Version] = struct{}{}
	// versions normally arrive in order; keep the slice sorted regardless
	i, _ := slices.BinarySearchFunc(m.changes, change.Version, func(c models.Change, v int64) int {
		switch {
		case c.Version < v:
			return -1
		case c.Version > v:
			return 1
		default:
			return 0
		}
	})
	m.changes = slices.Insert(m.changes, i, change)
	return nil
}

func (m *memoryChangeRepository) Since(_ context.Context, from int64) ([]models.Change, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Change
	for _, c := range m.changes {
		if c.Version > from {
			c.Data = slices.Clone(c.Data)
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memoryChangeRepository) LatestVersion(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.changes) == 0 {
		return 0, nil
	}
	return m.changes[len(m.changes)-1].Version, nil
}
