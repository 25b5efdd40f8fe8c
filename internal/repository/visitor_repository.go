package repository

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/ahmadqo/museum-engagement-ledger/internal/database"
	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// VisitorActivity adalah hitungan untuk ringkasan profil pengunjung
type VisitorActivity struct {
	Visits       int64 `db:"visits"`
	Stamps       int64 `db:"stamps"`
	Achievements int64 `db:"achievements"`
}

type VisitorRepository interface {
	FindAll(ctx context.Context, filter model.VisitorFilter) ([]*model.Visitor, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Visitor, error)
	FindByUserAndTenant(ctx context.Context, userID, tenantID uuid.UUID) (*model.Visitor, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*model.Visitor, error)
	FindAnonymous(ctx context.Context, tenantID uuid.UUID) (*model.Visitor, error)
	Create(ctx context.Context, visitor *model.Visitor) error
	UpdateProfile(ctx context.Context, visitor *model.Visitor) error

	// RecordVisit menyimpan kunjungan dan menambah XP dalam satu transaksi, mengembalikan total XP baru
	RecordVisit(ctx context.Context, visit *model.VisitorVisit) (int64, error)
	// RecordQRVisit seperti RecordVisit, ditambah stempel paspor bila visit.WorkID terisi
	RecordQRVisit(ctx context.Context, visit *model.VisitorVisit) (newXP int64, stamped bool, err error)

	Activity(ctx context.Context, visitorID uuid.UUID) (*VisitorActivity, error)
	TopByXP(ctx context.Context, tenantID uuid.UUID, limit int) ([]model.LeaderboardEntry, error)
	CountAboveXP(ctx context.Context, tenantID uuid.UUID, xp int64) (int, error)
}

type visitorRepository struct {
	db *sqlx.DB
}

func NewVisitorRepository(db *sqlx.DB) VisitorRepository {
	return &visitorRepository{db: db}
}

func (r *visitorRepository) FindAll(ctx context.Context, filter model.VisitorFilter) ([]*model.Visitor, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}

	where := sq.And{sq.Eq{"tenant_id": filter.TenantID}}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		where = append(where, sq.Or{sq.ILike{"name": like}, sq.ILike{"email": like}})
	}

	countSQL, countArgs, err := sq.Select("COUNT(*)").From("visitors").Where(where).
		PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.db.GetContext(ctx, &total, countSQL, countArgs...); err != nil {
		return nil, 0, err
	}

	query, args, err := sq.Select("*").From("visitors").Where(where).
		OrderBy("xp DESC", "created_at ASC").
		Limit(uint64(filter.PerPage)).
		Offset(uint64((filter.Page - 1) * filter.PerPage)).
		PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, 0, err
	}

	var visitors []*model.Visitor
	if err := r.db.SelectContext(ctx, &visitors, query, args...); err != nil {
		return nil, 0, err
	}
	return visitors, total, nil
}

func (r *visitorRepository) getOne(ctx context.Context, query string, args ...interface{}) (*model.Visitor, error) {
	var visitor model.Visitor
	err := r.db.GetContext(ctx, &visitor, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &visitor, nil
}

func (r *visitorRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Visitor, error) {
	return r.getOne(ctx, "SELECT * FROM visitors WHERE id = $1", id)
}

func (r *visitorRepository) FindByUserAndTenant(ctx context.Context, userID, tenantID uuid.UUID) (*model.Visitor, error) {
	return r.getOne(ctx, "SELECT * FROM visitors WHERE user_id = $1 AND tenant_id = $2", userID, tenantID)
}

func (r *visitorRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*model.Visitor, error) {
	var visitors []*model.Visitor
	err := r.db.SelectContext(ctx, &visitors,
		"SELECT * FROM visitors WHERE user_id = $1 ORDER BY created_at ASC", userID)
	return visitors, err
}

// FindAnonymous mengambil visitor anonim bersama milik tenant (tanpa user dan email)
func (r *visitorRepository) FindAnonymous(ctx context.Context, tenantID uuid.UUID) (*model.Visitor, error) {
	return r.getOne(ctx, `
		SELECT * FROM visitors
		WHERE tenant_id = $1 AND user_id IS NULL AND email IS NULL
		ORDER BY created_at ASC
		LIMIT 1
	`, tenantID)
}

func (r *visitorRepository) Create(ctx context.Context, visitor *model.Visitor) error {
	query := `
		INSERT INTO visitors (id, tenant_id, user_id, name, email, photo_url, xp, created_at, updated_at)
		VALUES (:id, :tenant_id, :user_id, :name, :email, :photo_url, :xp, NOW(), NOW())
	`
	_, err := r.db.NamedExecContext(ctx, query, visitor)
	return err
}

func (r *visitorRepository) UpdateProfile(ctx context.Context, visitor *model.Visitor) error {
	query := `
		UPDATE visitors
		SET name = :name, photo_url = :photo_url, updated_at = NOW()
		WHERE id = :id
	`
	_, err := r.db.NamedExecContext(ctx, query, visitor)
	return err
}

func insertVisit(ctx context.Context, tx *sqlx.Tx, visit *model.VisitorVisit) error {
	query := `
		INSERT INTO visitor_visits (id, visitor_id, tenant_id, work_id, trail_id, event_id, source, xp_gained, created_at)
		VALUES (:id, :visitor_id, :tenant_id, :work_id, :trail_id, :event_id, :source, :xp_gained, NOW())
	`
	_, err := tx.NamedExecContext(ctx, query, visit)
	return err
}

// addXP menambah XP visitor dan mengembalikan total terbaru
func addXP(ctx context.Context, tx *sqlx.Tx, visitorID uuid.UUID, amount int64) (int64, error) {
	var xp int64
	err := tx.GetContext(ctx, &xp,
		"UPDATE visitors SET xp = xp + $1, updated_at = NOW() WHERE id = $2 RETURNING xp",
		amount, visitorID)
	return xp, err
}

func insertStamp(ctx context.Context, exec sqlx.ExtContext, visitorID, workID uuid.UUID) (bool, error) {
	res, err := exec.ExecContext(ctx, `
		INSERT INTO passport_stamps (id, visitor_id, work_id, stamped_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (visitor_id, work_id) DO NOTHING
	`, uuid.New(), visitorID, workID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *visitorRepository) RecordVisit(ctx context.Context, visit *model.VisitorVisit) (int64, error) {
	var newXP int64
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertVisit(ctx, tx, visit); err != nil {
			return err
		}
		xp, err := addXP(ctx, tx, visit.VisitorID, visit.XPGained)
		newXP = xp
		return err
	})
	return newXP, err
}

func (r *visitorRepository) RecordQRVisit(ctx context.Context, visit *model.VisitorVisit) (int64, bool, error) {
	var (
		newXP   int64
		stamped bool
	)
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertVisit(ctx, tx, visit); err != nil {
			return err
		}
		xp, err := addXP(ctx, tx, visit.VisitorID, visit.XPGained)
		if err != nil {
			return err
		}
		newXP = xp

		if visit.WorkID != nil {
			stamped, err = insertStamp(ctx, tx, visit.VisitorID, *visit.WorkID)
			return err
		}
		return nil
	})
	return newXP, stamped, err
}

func (r *visitorRepository) Activity(ctx context.Context, visitorID uuid.UUID) (*VisitorActivity, error) {
	var a VisitorActivity
	err := r.db.GetContext(ctx, &a, `
		SELECT
			(SELECT COUNT(*) FROM visitor_visits WHERE visitor_id = $1)       AS visits,
			(SELECT COUNT(*) FROM passport_stamps WHERE visitor_id = $1)      AS stamps,
			(SELECT COUNT(*) FROM visitor_achievements WHERE visitor_id = $1) AS achievements
	`, visitorID)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *visitorRepository) TopByXP(ctx context.Context, tenantID uuid.UUID, limit int) ([]model.LeaderboardEntry, error) {
	var entries []model.LeaderboardEntry
	err := r.db.SelectContext(ctx, &entries, `
		SELECT id, name, photo_url, xp
		FROM visitors
		WHERE tenant_id = $1
		ORDER BY xp DESC, created_at ASC
		LIMIT $2
	`, tenantID, limit)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func (r *visitorRepository) CountAboveXP(ctx context.Context, tenantID uuid.UUID, xp int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM visitors WHERE tenant_id = $1 AND xp > $2", tenantID, xp)
	return count, err
}
