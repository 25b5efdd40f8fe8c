package service

import (
	"context"

	"github.com/ahmadqo/museum-engagement-ledger/internal/cache"
	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/ahmadqo/museum-engagement-ledger/internal/repository"
	"go.uber.org/zap"
)

const leaderboardSize = 10

type LeaderboardService interface {
	Get(ctx context.Context, actor Actor) (*model.Leaderboard, error)
}

type leaderboardService struct {
	visitorRepo repository.VisitorRepository
	board       cache.LeaderboardCache
	logger      *zap.Logger
}

func NewLeaderboardService(visitorRepo repository.VisitorRepository, board cache.LeaderboardCache, logger *zap.Logger) LeaderboardService {
	if board == nil {
		board = cache.NoopLeaderboardCache{}
	}
	return &leaderboardService{visitorRepo: visitorRepo, board: board, logger: logger}
}

// Get mengembalikan top 10 tenant aktif beserta peringkat pemanggil (jumlah XP lebih tinggi + 1)
func (s *leaderboardService) Get(ctx context.Context, actor Actor) (*model.Leaderboard, error) {
	tenantID, err := actor.scopeTenant()
	if err != nil {
		return nil, err
	}

	top, err := s.top(ctx, actor)
	if err != nil {
		return nil, err
	}
	result := &model.Leaderboard{Top: top}

	visitor, err := s.visitorRepo.FindByUserAndTenant(ctx, actor.UserID, tenantID)
	if err != nil {
		return nil, err
	}
	if visitor == nil {
		return result, nil
	}

	above, err := s.visitorRepo.CountAboveXP(ctx, tenantID, visitor.XP)
	if err != nil {
		return nil, err
	}
	rank := above + 1
	xp := visitor.XP
	result.MyRank = &rank
	result.MyXP = &xp
	return result, nil
}

func (s *leaderboardService) top(ctx context.Context, actor Actor) ([]model.LeaderboardEntry, error) {
	tenantID := *actor.TenantID

	entries, ok, err := s.board.Get(ctx, tenantID)
	if err != nil {
		s.logger.Warn("leaderboard cache read failed", zap.Error(err))
	}
	if ok {
		return entries, nil
	}

	entries, err = s.visitorRepo.TopByXP(ctx, tenantID, leaderboardSize)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}

	if err := s.board.Set(ctx, tenantID, entries); err != nil {
		s.logger.Warn("leaderboard cache write failed", zap.Error(err))
	}
	return entries, nil
}
