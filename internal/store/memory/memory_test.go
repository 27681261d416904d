package memory

import (
	"testing"

	"github.com/nulzo/inference-gateway/internal/store"
	"github.com/nulzo/inference-gateway/internal/store/storetest"
)

func TestJobStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.JobRepository {
		return NewJobStore()
	})
}
