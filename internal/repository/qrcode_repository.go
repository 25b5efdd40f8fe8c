package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type QRCodeRepository interface {
	FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]*model.QRCode, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.QRCode, error)
	FindByCode(ctx context.Context, code string) (*model.QRCode, error)
	Create(ctx context.Context, qr *model.QRCode) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type qrCodeRepository struct {
	db *sqlx.DB
}

func NewQRCodeRepository(db *sqlx.DB) QRCodeRepository {
	return &qrCodeRepository{db: db}
}

func (r *qrCodeRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]*model.QRCode, error) {
	var codes []*model.QRCode
	err := r.db.SelectContext(ctx, &codes,
		"SELECT * FROM qr_codes WHERE tenant_id = $1 ORDER BY created_at DESC", tenantID)
	return codes, err
}

func (r *qrCodeRepository) get(ctx context.Context, query string, arg interface{}) (*model.QRCode, error) {
	var qr model.QRCode
	err := r.db.GetContext(ctx, &qr, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &qr, nil
}

func (r *qrCodeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.QRCode, error) {
	return r.get(ctx, "SELECT * FROM qr_codes WHERE id = $1", id)
}

func (r *qrCodeRepository) FindByCode(ctx context.Context, code string) (*model.QRCode, error) {
	return r.get(ctx, "SELECT * FROM qr_codes WHERE code = $1", code)
}

func (r *qrCodeRepository) Create(ctx context.Context, qr *model.QRCode) error {
	query := `
		INSERT INTO qr_codes (id, tenant_id, code, type, reference_id, title, xp_reward, created_at)
		VALUES (:id, :tenant_id, :code, :type, :reference_id, :title, :xp_reward, NOW())
	`
	_, err := r.db.NamedExecContext(ctx, query, qr)
	return err
}

func (r *qrCodeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM qr_codes WHERE id = $1", id)
	return err
}
