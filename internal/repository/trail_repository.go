package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type TrailRepository interface {
	FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]*model.Trail, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Trail, error)
	Create(ctx context.Context, trail *model.Trail) error
	Update(ctx context.Context, trail *model.Trail) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type trailRepository struct {
	db *sqlx.DB
}

func NewTrailRepository(db *sqlx.DB) TrailRepository {
	return &trailRepository{db: db}
}

func (r *trailRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]*model.Trail, error) {
	var trails []*model.Trail
	err := r.db.SelectContext(ctx, &trails,
		"SELECT * FROM trails WHERE tenant_id = $1 ORDER BY created_at DESC", tenantID)
	return trails, err
}

func (r *trailRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Trail, error) {
	var trail model.Trail
	err := r.db.GetContext(ctx, &trail, "SELECT * FROM trails WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &trail, nil
}

func (r *trailRepository) Create(ctx context.Context, trail *model.Trail) error {
	query := `
		INSERT INTO trails (id, tenant_id, title, description, duration, work_ids, created_at, updated_at)
		VALUES (:id, :tenant_id, :title, :description, :duration, :work_ids, NOW(), NOW())
	`
	_, err := r.db.NamedExecContext(ctx, query, trail)
	return err
}

func (r *trailRepository) Update(ctx context.Context, trail *model.Trail) error {
	query := `
		UPDATE trails
		SET title = :title, description = :description, duration = :duration,
		    work_ids = :work_ids, updated_at = NOW()
		WHERE id = :id
	`
	_, err := r.db.NamedExecContext(ctx, query, trail)
	return err
}

func (r *trailRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM trails WHERE id = $1", id)
	return err
}
