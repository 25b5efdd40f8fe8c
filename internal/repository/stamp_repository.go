package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type StampRepository interface {
	// Create mengembalikan stempel yang tersimpan dan false bila stempel sudah ada sebelumnya
	Create(ctx context.Context, visitorID, workID uuid.UUID) (*model.PassportStamp, bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.PassportStamp, error)
	FindByVisitor(ctx context.Context, visitorID uuid.UUID) ([]*model.PassportStamp, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type stampRepository struct {
	db *sqlx.DB
}

func NewStampRepository(db *sqlx.DB) StampRepository {
	return &stampRepository{db: db}
}

const stampSelect = `
	SELECT ps.id, ps.visitor_id, ps.work_id, ps.stamped_at, w.title AS work_title
	FROM passport_stamps ps
	LEFT JOIN works w ON w.id = ps.work_id
`

func (r *stampRepository) Create(ctx context.Context, visitorID, workID uuid.UUID) (*model.PassportStamp, bool, error) {
	created, err := insertStamp(ctx, r.db, visitorID, workID)
	if err != nil {
		return nil, false, err
	}

	var stamp model.PassportStamp
	if err := r.db.GetContext(ctx, &stamp,
		stampSelect+" WHERE ps.visitor_id = $1 AND ps.work_id = $2", visitorID, workID); err != nil {
		return nil, false, err
	}
	return &stamp, created, nil
}

func (r *stampRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.PassportStamp, error) {
	var stamp model.PassportStamp
	err := r.db.GetContext(ctx, &stamp, stampSelect+" WHERE ps.id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &stamp, nil
}

func (r *stampRepository) FindByVisitor(ctx context.Context, visitorID uuid.UUID) ([]*model.PassportStamp, error) {
	var stamps []*model.PassportStamp
	err := r.db.SelectContext(ctx, &stamps,
		stampSelect+" WHERE ps.visitor_id = $1 ORDER BY ps.stamped_at DESC", visitorID)
	return stamps, err
}

func (r *stampRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM passport_stamps WHERE id = $1", id)
	return err
}
