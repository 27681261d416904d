package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/nulzo/inference-gateway/internal/store"
	"github.com/nulzo/inference-gateway/internal/store/model"
)

// JobStore keeps jobs in process memory. Records are held encoded so callers
// never share state with the store.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string][]byte
}

func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[string][]byte)}
}

func (s *JobStore) Create(ctx context.Context, job *model.Job) error {
	return s.put(job)
}

func (s *JobStore) Get(ctx context.Context, id string) (*model.Job, error) {
	s.mu.RLock()
	data, ok := s.jobs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, store.ErrNotFound
	}

	var job model.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *JobStore) Update(ctx context.Context, job *model.Job) error {
	s.mu.RLock()
	_, ok := s.jobs[job.ID]
	s.mu.RUnlock()
	if !ok {
		return store.ErrNotFound
	}
	return s.put(job)
}

func (s *JobStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, id)
	return nil
}

func (s *JobStore) List(ctx context.Context, filter store.ListFilter) ([]model.Job, int, error) {
	s.mu.RLock()
	all := make([]model.Job, 0, len(s.jobs))
	for _, data := range s.jobs {
		var job model.Job
		if err := json.Unmarshal(data, &job); err != nil {
			s.mu.RUnlock()
			return nil, 0, err
		}
		if filter.Kind == "" || job.Kind == filter.Kind {
			all = append(all, job)
		}
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	start := filter.Offset()
	if start >= total {
		return []model.Job{}, total, nil
	}
	end := total
	if filter.Limit > 0 && filter.Limit < total-start {
		end = start + filter.Limit
	}
	return all[start:end], total, nil
}

func (s *JobStore) Close() error {
	return nil
}

func (s *JobStore) put(job *model.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = data
	return nil
}
