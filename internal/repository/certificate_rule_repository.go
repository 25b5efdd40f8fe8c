package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type CertificateRuleRepository interface {
	FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]*model.CertificateRule, error)
	FindActiveByTrigger(ctx context.Context, tenantID uuid.UUID, trigger model.TriggerType) ([]*model.CertificateRule, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.CertificateRule, error)
	Create(ctx context.Context, rule *model.CertificateRule) error
	Update(ctx context.Context, rule *model.CertificateRule) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type certificateRuleRepository struct {
	db *sqlx.DB
}

func NewCertificateRuleRepository(db *sqlx.DB) CertificateRuleRepository {
	return &certificateRuleRepository{db: db}
}

func (r *certificateRuleRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]*model.CertificateRule, error) {
	var rules []*model.CertificateRule
	err := r.db.SelectContext(ctx, &rules,
		"SELECT * FROM certificate_rules WHERE tenant_id = $1 ORDER BY created_at DESC", tenantID)
	return rules, err
}

func (r *certificateRuleRepository) FindActiveByTrigger(ctx context.Context, tenantID uuid.UUID, trigger model.TriggerType) ([]*model.CertificateRule, error) {
	var rules []*model.CertificateRule
	err := r.db.SelectContext(ctx, &rules, `
		SELECT * FROM certificate_rules
		WHERE tenant_id = $1 AND trigger_type = $2 AND active = TRUE
		ORDER BY created_at ASC
	`, tenantID, trigger)
	return rules, err
}

func (r *certificateRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.CertificateRule, error) {
	var rule model.CertificateRule
	err := r.db.GetContext(ctx, &rule, "SELECT * FROM certificate_rules WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *certificateRuleRepository) Create(ctx context.Context, rule *model.CertificateRule) error {
	query := `
		INSERT INTO certificate_rules (id, tenant_id, name, trigger_type, conditions, action_template_id,
		                               active, created_at, updated_at)
		VALUES (:id, :tenant_id, :name, :trigger_type, :conditions, :action_template_id,
		        :active, NOW(), NOW())
	`
	_, err := r.db.NamedExecContext(ctx, query, rule)
	return err
}

func (r *certificateRuleRepository) Update(ctx context.Context, rule *model.CertificateRule) error {
	query := `
		UPDATE certificate_rules
		SET name = :name, trigger_type = :trigger_type, conditions = :conditions,
		    action_template_id = :action_template_id, active = :active, updated_at = NOW()
		WHERE id = :id
	`
	_, err := r.db.NamedExecContext(ctx, query, rule)
	return err
}

func (r *certificateRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM certificate_rules WHERE id = $1", id)
	return err
}
