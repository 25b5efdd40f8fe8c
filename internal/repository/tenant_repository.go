package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ahmadqo/museum-engagement-ledger/internal/database"
	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type TenantRepository interface {
	FindAll(ctx context.Context) ([]*model.Tenant, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Tenant, error)
	FindBySlug(ctx context.Context, slug string) (*model.Tenant, error)
	CreateWithAdmin(ctx context.Context, tenant *model.Tenant, admin *model.User) error
	Update(ctx context.Context, tenant *model.Tenant) error
}

type tenantRepository struct {
	db *sqlx.DB
}

func NewTenantRepository(db *sqlx.DB) TenantRepository {
	return &tenantRepository{db: db}
}

func (r *tenantRepository) FindAll(ctx context.Context) ([]*model.Tenant, error) {
	var tenants []*model.Tenant
	err := r.db.SelectContext(ctx, &tenants, "SELECT * FROM tenants ORDER BY name ASC")
	return tenants, err
}

func (r *tenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Tenant, error) {
	var tenant model.Tenant
	err := r.db.GetContext(ctx, &tenant, "SELECT * FROM tenants WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepository) FindBySlug(ctx context.Context, slug string) (*model.Tenant, error) {
	var tenant model.Tenant
	err := r.db.GetContext(ctx, &tenant, "SELECT * FROM tenants WHERE slug = $1", slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &tenant, nil
}

// CreateWithAdmin menyimpan tenant dan user ADMIN pertamanya dalam satu transaksi
func (r *tenantRepository) CreateWithAdmin(ctx context.Context, tenant *model.Tenant, admin *model.User) error {
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO tenants (id, name, slug, primary_color, secondary_color, mission, plan, max_works,
			                     certificate_background_url, logo_url, signature_url, created_at, updated_at)
			VALUES (:id, :name, :slug, :primary_color, :secondary_color, :mission, :plan, :max_works,
			        :certificate_background_url, :logo_url, :signature_url, NOW(), NOW())
		`
		if _, err := tx.NamedExecContext(ctx, query, tenant); err != nil {
			return err
		}

		admin.TenantID = &tenant.ID
		return insertUser(ctx, tx, admin)
	})
}

func (r *tenantRepository) Update(ctx context.Context, tenant *model.Tenant) error {
	query := `
		UPDATE tenants
		SET name = :name, primary_color = :primary_color, secondary_color = :secondary_color,
		    mission = :mission, plan = :plan, max_works = :max_works,
		    certificate_background_url = :certificate_background_url,
		    logo_url = :logo_url, signature_url = :signature_url, updated_at = NOW()
		WHERE id = :id
	`
	_, err := r.db.NamedExecContext(ctx, query, tenant)
	return err
}
