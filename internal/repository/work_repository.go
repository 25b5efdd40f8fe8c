package repository

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type WorkRepository interface {
	FindAll(ctx context.Context, filter model.WorkFilter) ([]*model.Work, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Work, error)
	CountByTenant(ctx context.Context, tenantID uuid.UUID) (int, error)
	Create(ctx context.Context, work *model.Work) error
	Update(ctx context.Context, work *model.Work) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type workRepository struct {
	db *sqlx.DB
}

func NewWorkRepository(db *sqlx.DB) WorkRepository {
	return &workRepository{db: db}
}

func workConditions(filter model.WorkFilter) sq.And {
	where := sq.And{sq.Eq{"tenant_id": filter.TenantID}}
	if filter.PublishedOnly {
		where = append(where, sq.Eq{"published": true})
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		where = append(where, sq.Or{
			sq.ILike{"title": like},
			sq.ILike{"artist": like},
		})
	}
	return where
}

func (r *workRepository) FindAll(ctx context.Context, filter model.WorkFilter) ([]*model.Work, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	where := workConditions(filter)

	countSQL, countArgs, err := sq.Select("COUNT(*)").From("works").Where(where).
		PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.db.GetContext(ctx, &total, countSQL, countArgs...); err != nil {
		return nil, 0, err
	}

	query, args, err := sq.Select("*").From("works").Where(where).
		OrderBy("created_at DESC").
		Limit(uint64(filter.PerPage)).
		Offset(uint64((filter.Page - 1) * filter.PerPage)).
		PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, 0, err
	}

	var works []*model.Work
	if err := r.db.SelectContext(ctx, &works, query, args...); err != nil {
		return nil, 0, err
	}
	return works, total, nil
}

func (r *workRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Work, error) {
	var work model.Work
	err := r.db.GetContext(ctx, &work, "SELECT * FROM works WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &work, nil
}

func (r *workRepository) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM works WHERE tenant_id = $1", tenantID)
	return count, err
}

func (r *workRepository) Create(ctx context.Context, work *model.Work) error {
	query := `
		INSERT INTO works (id, tenant_id, title, artist, year, room, floor, description,
		                   image_url, audio_url, published, created_at, updated_at)
		VALUES (:id, :tenant_id, :title, :artist, :year, :room, :floor, :description,
		        :image_url, :audio_url, :published, NOW(), NOW())
	`
	_, err := r.db.NamedExecContext(ctx, query, work)
	return err
}

func (r *workRepository) Update(ctx context.Context, work *model.Work) error {
	query := `
		UPDATE works
		SET title = :title, artist = :artist, year = :year, room = :room, floor = :floor,
		    description = :description, image_url = :image_url, audio_url = :audio_url,
		    published = :published, updated_at = NOW()
		WHERE id = :id
	`
	_, err := r.db.NamedExecContext(ctx, query, work)
	return err
}

func (r *workRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM works WHERE id = $1", id)
	return err
}
