package jobs

import (
	"hash/fnv"
	"sync"
)

const DefaultStripes = 64

// stripedMutex serializes work per job id without a map of locks.
// Distinct ids share a stripe only on hash collision.
type stripedMutex struct {
	stripes []sync.Mutex
}

func newStripedMutex(n int) *stripedMutex {
	if n <= 0 {
		n = DefaultStripes
	}
	return &stripedMutex{stripes: make([]sync.Mutex, n)}
}

func (s *stripedMutex) stripe(id string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return &s.stripes[h.Sum32()%uint32(len(s.stripes))]
}

// lock acquires the stripe for id and returns its unlock.
func (s *stripedMutex) lock(id string) func() {
	m := s.stripe(id)
	m.Lock()
	return m.Unlock
}
