package service

import (
	"context"

	"github.com/ahmadqo/museum-engagement-ledger/internal/cache"
	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/ahmadqo/museum-engagement-ledger/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Progression menjalankan efek samping setelah aksi gamifikasi di-commit:
// invalidasi cache leaderboard dan evaluasi rule sertifikat.
type Progression struct {
	engine RuleEvaluator
	board  cache.LeaderboardCache
	logger *zap.Logger
}

func NewProgression(engine RuleEvaluator, board cache.LeaderboardCache, logger *zap.Logger) *Progression {
	if board == nil {
		board = cache.NoopLeaderboardCache{}
	}
	return &Progression{engine: engine, board: board, logger: logger}
}

// XPChanged dipanggil dengan total XP baru hasil increment atomik
func (p *Progression) XPChanged(ctx context.Context, tenantID, visitorID uuid.UUID, newXP int64) {
	if err := p.board.Invalidate(ctx, tenantID); err != nil {
		p.logger.Warn("failed to invalidate leaderboard cache",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	}
	evaluateAndLog(ctx, p.engine, p.logger, model.TriggerXPThreshold, EvalContext{
		TenantID:  tenantID,
		VisitorID: visitorID,
		NewXP:     &newXP,
	})
}

func (p *Progression) TrailCompleted(ctx context.Context, tenantID, visitorID, trailID uuid.UUID) {
	evaluateAndLog(ctx, p.engine, p.logger, model.TriggerTrailCompleted, EvalContext{
		TenantID:  tenantID,
		VisitorID: visitorID,
		TrailID:   &trailID,
	})
}

func (p *Progression) EventAttended(ctx context.Context, tenantID, visitorID, eventID uuid.UUID) {
	evaluateAndLog(ctx, p.engine, p.logger, model.TriggerEventAttended, EvalContext{
		TenantID:  tenantID,
		VisitorID: visitorID,
		EventID:   &eventID,
	})
}

// visitorInTenant memuat visitor dan memastikan ia milik tenant yang sama dengan sumber aksi
func visitorInTenant(ctx context.Context, visitors repository.VisitorRepository, id string, tenantID uuid.UUID) (*model.Visitor, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, badInput("visitor_id tidak valid")
	}
	visitor, err := visitors.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if visitor == nil {
		return nil, ErrVisitorNotFound
	}
	if visitor.TenantID != tenantID {
		return nil, badInput("Visitante não pertence a este museu")
	}
	return visitor, nil
}

// authorizeVisitor: profil anonim terbuka, profil milik user hanya untuk pemiliknya atau staff tenant
func authorizeVisitor(actor Actor, visitor *model.Visitor) error {
	if visitor.UserID == nil {
		return nil
	}
	if *visitor.UserID == actor.UserID || actor.CanManage(visitor.TenantID) {
		return nil
	}
	return forbidden("Anda tidak memiliki akses ke visitor ini")
}
