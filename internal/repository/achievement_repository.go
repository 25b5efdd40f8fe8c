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

type AchievementRepository interface {
	FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]*model.Achievement, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Achievement, error)
	Create(ctx context.Context, a *model.Achievement) error
	Update(ctx context.Context, a *model.Achievement) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Unlock mencatat pencapaian dan memberi XP reward-nya dalam satu transaksi.
	// unlocked=false berarti pencapaian sudah dimiliki; newXP hanya berarti bila unlocked.
	Unlock(ctx context.Context, visitorID uuid.UUID, a *model.Achievement) (unlocked bool, newXP int64, err error)
	FindByVisitor(ctx context.Context, visitorID uuid.UUID) ([]*model.VisitorAchievement, error)
}

type achievementRepository struct {
	db *sqlx.DB
}

func NewAchievementRepository(db *sqlx.DB) AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]*model.Achievement, error) {
	var achievements []*model.Achievement
	err := r.db.SelectContext(ctx, &achievements,
		"SELECT * FROM achievements WHERE tenant_id = $1 ORDER BY title ASC", tenantID)
	return achievements, err
}

func (r *achievementRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Achievement, error) {
	var a model.Achievement
	err := r.db.GetContext(ctx, &a, "SELECT * FROM achievements WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *achievementRepository) Create(ctx context.Context, a *model.Achievement) error {
	query := `
		INSERT INTO achievements (id, tenant_id, code, title, description, icon_url, xp_reward, created_at, updated_at)
		VALUES (:id, :tenant_id, :code, :title, :description, :icon_url, :xp_reward, NOW(), NOW())
	`
	_, err := r.db.NamedExecContext(ctx, query, a)
	return err
}

func (r *achievementRepository) Update(ctx context.Context, a *model.Achievement) error {
	query := `
		UPDATE achievements
		SET code = :code, title = :title, description = :description,
		    icon_url = :icon_url, xp_reward = :xp_reward, updated_at = NOW()
		WHERE id = :id
	`
	_, err := r.db.NamedExecContext(ctx, query, a)
	return err
}

func (r *achievementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM achievements WHERE id = $1", id)
	return err
}

func (r *achievementRepository) Unlock(ctx context.Context, visitorID uuid.UUID, a *model.Achievement) (bool, int64, error) {
	var (
		unlocked bool
		newXP    int64
	)
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO visitor_achievements (visitor_id, achievement_id, unlocked_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (visitor_id, achievement_id) DO NOTHING
		`, visitorID, a.ID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		unlocked = true

		newXP, err = addXP(ctx, tx, visitorID, a.XPReward)
		return err
	})
	return unlocked, newXP, err
}

func (r *achievementRepository) FindByVisitor(ctx context.Context, visitorID uuid.UUID) ([]*model.VisitorAchievement, error) {
	var list []*model.VisitorAchievement
	err := r.db.SelectContext(ctx, &list, `
		SELECT va.visitor_id, va.achievement_id, va.unlocked_at, a.code, a.title
		FROM visitor_achievements va
		JOIN achievements a ON a.id = va.achievement_id
		WHERE va.visitor_id = $1
		ORDER BY va.unlocked_at DESC
	`, visitorID)
	return list, err
}
