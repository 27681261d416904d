package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/nulzo/inference-gateway/internal/store"
	"github.com/nulzo/inference-gateway/internal/store/model"
)

// Store implements store.JobRepository on SQLite or PostgreSQL.
type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Create(ctx context.Context, job *model.Job) error {
	query := `
	INSERT INTO jobs (
		id, kind, status, model, progress, estimated_cost_usd, callback_url, error,
		created_at, updated_at, estimated_completion, payload
	) VALUES (
		:id, :kind, :status, :model, :progress, :estimated_cost_usd, :callback_url, :error,
		:created_at, :updated_at, :estimated_completion, :payload
	)`
	_, err := s.db.NamedExecContext(ctx, query, utc(job))
	return err
}

func (s *Store) Get(ctx context.Context, id string) (*model.Job, error) {
	var job model.Job
	err := s.db.GetContext(ctx, &job, s.db.Rebind(`SELECT * FROM jobs WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *Store) Update(ctx context.Context, job *model.Job) error {
	query := `
	UPDATE jobs SET
		status = :status,
		model = :model,
		progress = :progress,
		estimated_cost_usd = :estimated_cost_usd,
		callback_url = :callback_url,
		error = :error,
		updated_at = :updated_at,
		estimated_completion = :estimated_completion,
		payload = :payload
	WHERE id = :id`
	res, err := s.db.NamedExecContext(ctx, query, utc(job))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM jobs WHERE id = ?`), id)
	return err
}

func (s *Store) List(ctx context.Context, filter store.ListFilter) ([]model.Job, int, error) {
	where := ""
	args := []interface{}{}
	if filter.Kind != "" {
		where = ` WHERE kind = ?`
		args = append(args, filter.Kind)
	}

	var total int
	if err := s.db.GetContext(ctx, &total, s.db.Rebind(`SELECT COUNT(*) FROM jobs`+where), args...); err != nil {
		return nil, 0, err
	}

	if filter.Offset() >= total {
		return []model.Job{}, total, nil
	}

	query := `SELECT * FROM jobs` + where + ` ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset())
	}

	jobs := []model.Job{}
	if err := s.db.SelectContext(ctx, &jobs, s.db.Rebind(query), args...); err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// utc stores every timestamp in UTC so text-encoded columns order correctly.
func utc(job *model.Job) *model.Job {
	row := *job
	row.CreatedAt = row.CreatedAt.UTC()
	row.UpdatedAt = row.UpdatedAt.UTC()
	row.EstimatedCompletion = row.EstimatedCompletion.UTC()
	return &row
}
