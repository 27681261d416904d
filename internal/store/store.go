package store

import (
	"context"
	"errors"
	"math"

	"github.com/nulzo/inference-gateway/internal/store/model"
)

// ErrNotFound is returned by every backend for an unknown job id.
var ErrNotFound = errors.New("job not found")

// ListFilter selects one page of jobs of a kind, newest first.
type ListFilter struct {
	Kind  model.JobKind
	Page  int
	Limit int
}

// Offset is the zero-based row offset of the page. It saturates at
// math.MaxInt instead of overflowing, which every backend reads as past the end.
func (f ListFilter) Offset() int {
	if f.Page < 1 || f.Limit < 1 {
		return 0
	}
	if f.Page-1 > math.MaxInt/f.Limit {
		return math.MaxInt
	}
	return (f.Page - 1) * f.Limit
}

// JobRepository is the contract every job backend implements.
// Callers serialize access per id; backends need not.
type JobRepository interface {
	Create(ctx context.Context, job *model.Job) error
	// Get returns ErrNotFound for unknown ids.
	Get(ctx context.Context, id string) (*model.Job, error)
	// Update overwrites the stored record. Unknown ids return ErrNotFound.
	Update(ctx context.Context, job *model.Job) error
	// Delete is a no-op for unknown ids.
	Delete(ctx context.Context, id string) error
	// List returns one page and the total count for the kind.
	List(ctx context.Context, filter ListFilter) ([]model.Job, int, error)

	Close() error
}
