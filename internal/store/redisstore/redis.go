package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nulzo/inference-gateway/internal/store"
	"github.com/nulzo/inference-gateway/internal/store/model"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Store implements store.JobRepository on Redis. Each job is a JSON string key;
// per-kind sorted sets scored by creation time index it for listing.
type Store struct {
	client *redis.Client
	prefix string
}

// New connects and pings the server.
func New(cfg Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewWithClient(client, cfg.Prefix), nil
}

func NewWithClient(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) jobKey(id string) string {
	return s.prefix + "job:" + id
}

func (s *Store) indexKey(kind model.JobKind) string {
	if kind == "" {
		return s.prefix + "jobs"
	}
	return s.prefix + "jobs:" + string(kind)
}

func (s *Store) Create(ctx context.Context, job *model.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	member := redis.Z{Score: float64(job.CreatedAt.UnixMilli()), Member: job.ID}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.jobKey(job.ID), data, 0)
		pipe.ZAdd(ctx, s.indexKey(""), member)
		pipe.ZAdd(ctx, s.indexKey(job.Kind), member)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store job: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*model.Job, error) {
	data, err := s.client.Get(ctx, s.jobKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var job model.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job %s: %w", id, err)
	}
	return &job, nil
}

func (s *Store) Update(ctx context.Context, job *model.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	ok, err := s.client.SetXX(ctx, s.jobKey(job.ID), data, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.jobKey(id))
		pipe.ZRem(ctx, s.indexKey(""), id)
		pipe.ZRem(ctx, s.indexKey(model.KindBatch), id)
		pipe.ZRem(ctx, s.indexKey(model.KindTraining), id)
		return nil
	})
	return err
}

func (s *Store) List(ctx context.Context, filter store.ListFilter) ([]model.Job, int, error) {
	index := s.indexKey(filter.Kind)

	total, err := s.client.ZCard(ctx, index).Result()
	if err != nil {
		return nil, 0, err
	}

	start := int64(filter.Offset())
	if start >= total {
		return []model.Job{}, int(total), nil
	}
	stop := int64(-1)
	if filter.Limit > 0 && int64(filter.Limit) < total-start {
		stop = start + int64(filter.Limit) - 1
	}

	ids, err := s.client.ZRevRange(ctx, index, start, stop).Result()
	if err != nil {
		return nil, 0, err
	}
	if len(ids) == 0 {
		return []model.Job{}, int(total), nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.jobKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, 0, err
	}

	jobs := make([]model.Job, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var job model.Job
		if err := json.Unmarshal([]byte(raw), &job); err != nil {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, int(total), nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
