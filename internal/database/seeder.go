package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewSeeder(db *sqlx.DB, logger *zap.Logger) *Seeder {
	return &Seeder{db: db, logger: logger}
}

// SeedMasterUser membuat user MASTER default jika belum ada
func (s *Seeder) SeedMasterUser(ctx context.Context) error {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE role = 'MASTER'").Scan(&count)
	if err != nil {
		return err
	}

	if count > 0 {
		s.logger.Debug("master user already exists, skipping seed")
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("Master@123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 'MASTER', TRUE, NOW(), NOW())
	`,
		uuid.New(),
		"Master",
		"master@museus.app",
		string(hashedPassword),
	)
	if err != nil {
		return err
	}

	s.logger.Warn("default master user created, change the password after first login",
		zap.String("email", "master@museus.app"),
	)
	return nil
}

// SeedDemoTenant membuat museum contoh beserta rule sertifikat XP agar alur penerbitan bisa dicoba
func (s *Seeder) SeedDemoTenant(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tenants").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tenantID := uuid.New()
	return WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tenants (id, name, slug, mission, plan, max_works)
			VALUES ($1, 'Museu Demonstração', 'demo', 'Aproximar o público da cultura.', 'START', 50)
		`, tenantID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO certificate_rules (id, tenant_id, name, trigger_type, conditions, active)
			VALUES ($1, $2, 'Explorador Cultural', 'XP_THRESHOLD', '{"min_xp": 100}', TRUE)
		`, uuid.New(), tenantID); err != nil {
			return err
		}

		s.logger.Info("demo tenant created", zap.String("tenant_id", tenantID.String()))
		return nil
	})
}
