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

type CertificateRepository interface {
	FindAll(ctx context.Context, filter model.CertificateFilter) ([]*model.Certificate, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Certificate, error)
	FindByCode(ctx context.Context, code string) (*model.Certificate, error)
	FindByVisitors(ctx context.Context, visitorIDs []uuid.UUID) ([]*model.Certificate, error)
	FindByVisitorTypeRelated(ctx context.Context, visitorID uuid.UUID, certType model.CertificateType, relatedID uuid.UUID) (*model.Certificate, error)
	CountByVisitor(ctx context.Context, visitorID uuid.UUID) (int64, error)
	Create(ctx context.Context, cert *model.Certificate) error
	CreateDirect(ctx context.Context, cert *model.Certificate) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.CertificateStatus) error

	// Dipakai rule engine
	ExistsForRule(ctx context.Context, visitorID uuid.UUID, ruleID string) (bool, error)
	CreateForRule(ctx context.Context, cert *model.Certificate) (bool, error)
}

type certificateRepository struct {
	db *sqlx.DB
}

func NewCertificateRepository(db *sqlx.DB) CertificateRepository {
	return &certificateRepository{db: db}
}

func certificateSelect() sq.SelectBuilder {
	return sq.Select("c.*", "v.name AS visitor_name", "t.name AS tenant_name").
		From("certificates c").
		LeftJoin("visitors v ON v.id = c.visitor_id").
		LeftJoin("tenants t ON t.id = c.tenant_id").
		PlaceholderFormat(sq.Dollar)
}

func certificateConditions(filter model.CertificateFilter) sq.And {
	where := sq.And{}
	if filter.TenantID != "" {
		where = append(where, sq.Eq{"c.tenant_id": filter.TenantID})
	}
	if filter.VisitorID != "" {
		where = append(where, sq.Eq{"c.visitor_id": filter.VisitorID})
	}
	if filter.Type != "" {
		where = append(where, sq.Eq{"c.type": filter.Type})
	}
	if filter.Status != "" {
		where = append(where, sq.Eq{"c.status": filter.Status})
	}
	return where
}

func (r *certificateRepository) FindAll(ctx context.Context, filter model.CertificateFilter) ([]*model.Certificate, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 10
	}
	where := certificateConditions(filter)

	countSQL, countArgs, err := sq.Select("COUNT(*)").From("certificates c").Where(where).
		PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.db.GetContext(ctx, &total, countSQL, countArgs...); err != nil {
		return nil, 0, err
	}

	query, args, err := certificateSelect().Where(where).
		OrderBy("c.generated_at DESC").
		Limit(uint64(filter.PerPage)).
		Offset(uint64((filter.Page - 1) * filter.PerPage)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	var certs []*model.Certificate
	if err := r.db.SelectContext(ctx, &certs, query, args...); err != nil {
		return nil, 0, err
	}
	return certs, total, nil
}

func (r *certificateRepository) getOne(ctx context.Context, where sq.Sqlizer) (*model.Certificate, error) {
	query, args, err := certificateSelect().Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, err
	}

	var cert model.Certificate
	if err := r.db.GetContext(ctx, &cert, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &cert, nil
}

func (r *certificateRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Certificate, error) {
	return r.getOne(ctx, sq.Eq{"c.id": id})
}

func (r *certificateRepository) FindByCode(ctx context.Context, code string) (*model.Certificate, error) {
	return r.getOne(ctx, sq.Eq{"c.code": code})
}

func (r *certificateRepository) FindByVisitorTypeRelated(ctx context.Context, visitorID uuid.UUID, certType model.CertificateType, relatedID uuid.UUID) (*model.Certificate, error) {
	return r.getOne(ctx, sq.Eq{
		"c.visitor_id": visitorID,
		"c.type":       certType,
		"c.related_id": relatedID,
	})
}

// FindByVisitors mengambil sertifikat dari semua profil visitor milik satu user (lintas tenant)
func (r *certificateRepository) FindByVisitors(ctx context.Context, visitorIDs []uuid.UUID) ([]*model.Certificate, error) {
	if len(visitorIDs) == 0 {
		return []*model.Certificate{}, nil
	}
	query, args, err := certificateSelect().
		Where(sq.Eq{"c.visitor_id": visitorIDs}).
		OrderBy("c.generated_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var certs []*model.Certificate
	if err := r.db.SelectContext(ctx, &certs, query, args...); err != nil {
		return nil, err
	}
	return certs, nil
}

func (r *certificateRepository) CountByVisitor(ctx context.Context, visitorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM certificates WHERE visitor_id = $1", visitorID)
	return count, err
}

const insertCertificate = `
	INSERT INTO certificates (id, code, visitor_id, tenant_id, type, related_id, template_id,
	                          metadata, status, generated_at, updated_at)
	VALUES (:id, :code, :visitor_id, :tenant_id, :type, :related_id, :template_id,
	        :metadata, :status, :generated_at, NOW())
`

func (r *certificateRepository) Create(ctx context.Context, cert *model.Certificate) error {
	_, err := r.db.NamedExecContext(ctx, insertCertificate, cert)
	return err
}

// CreateDirect insert sertifikat tanpa rule: false bila (visitor, type, related_id) sudah ada.
// Unique index uq_certificates_visitor_type_related menutup race antar request paralel.
func (r *certificateRepository) CreateDirect(ctx context.Context, cert *model.Certificate) (bool, error) {
	query := insertCertificate + `
		ON CONFLICT (visitor_id, type, related_id) WHERE metadata->>'ruleId' IS NULL
		DO NOTHING
	`
	return r.insertIgnoringConflict(ctx, query, cert)
}

func (r *certificateRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.CertificateStatus) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE certificates SET status = $1, updated_at = NOW() WHERE id = $2", status, id)
	return err
}

func (r *certificateRepository) ExistsForRule(ctx context.Context, visitorID uuid.UUID, ruleID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM certificates
			WHERE visitor_id = $1 AND metadata->>'ruleId' = $2
		)
	`, visitorID, ruleID)
	return exists, err
}

// CreateForRule insert kondisional: false bila (visitor, ruleId) sudah punya sertifikat.
// Unique index uq_certificates_visitor_rule menutup race antar request paralel.
func (r *certificateRepository) CreateForRule(ctx context.Context, cert *model.Certificate) (bool, error) {
	query := insertCertificate + `
		ON CONFLICT (visitor_id, (metadata->>'ruleId')) WHERE metadata->>'ruleId' IS NOT NULL
		DO NOTHING
	`
	return r.insertIgnoringConflict(ctx, query, cert)
}

func (r *certificateRepository) insertIgnoringConflict(ctx context.Context, query string, cert *model.Certificate) (bool, error) {
	res, err := r.db.NamedExecContext(ctx, query, cert)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
