package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type CertificateTemplateRepository interface {
	FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]*model.CertificateTemplate, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.CertificateTemplate, error)
	Create(ctx context.Context, tpl *model.CertificateTemplate) error
	Update(ctx context.Context, tpl *model.CertificateTemplate) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type certificateTemplateRepository struct {
	db *sqlx.DB
}

func NewCertificateTemplateRepository(db *sqlx.DB) CertificateTemplateRepository {
	return &certificateTemplateRepository{db: db}
}

func (r *certificateTemplateRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]*model.CertificateTemplate, error) {
	var templates []*model.CertificateTemplate
	err := r.db.SelectContext(ctx, &templates,
		"SELECT * FROM certificate_templates WHERE tenant_id = $1 ORDER BY created_at DESC", tenantID)
	return templates, err
}

func (r *certificateTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.CertificateTemplate, error) {
	var tpl model.CertificateTemplate
	err := r.db.GetContext(ctx, &tpl, "SELECT * FROM certificate_templates WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &tpl, nil
}

func (r *certificateTemplateRepository) Create(ctx context.Context, tpl *model.CertificateTemplate) error {
	query := `
		INSERT INTO certificate_templates (id, tenant_id, name, background_url, elements, dimensions,
		                                   created_at, updated_at)
		VALUES (:id, :tenant_id, :name, :background_url, :elements, :dimensions, NOW(), NOW())
	`
	_, err := r.db.NamedExecContext(ctx, query, tpl)
	return err
}

func (r *certificateTemplateRepository) Update(ctx context.Context, tpl *model.CertificateTemplate) error {
	query := `
		UPDATE certificate_templates
		SET name = :name, background_url = :background_url, elements = :elements,
		    dimensions = :dimensions, updated_at = NOW()
		WHERE id = :id
	`
	_, err := r.db.NamedExecContext(ctx, query, tpl)
	return err
}

func (r *certificateTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM certificate_templates WHERE id = $1", id)
	return err
}
