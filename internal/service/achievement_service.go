package service

import (
	"context"
	"strings"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/ahmadqo/museum-engagement-ledger/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrAchievementNotFound = notFound("Conquista não encontrada")
	ErrAlreadyUnlocked     = badInput("Conquista já desbloqueada")
)

type UnlockResult struct {
	VisitorID     uuid.UUID `json:"visitor_id"`
	AchievementID uuid.UUID `json:"achievement_id"`
	XPGained      int64     `json:"xp_gained"`
	XP            int64     `json:"xp"`
}

type AchievementService interface {
	GetByTenant(ctx context.Context, tenantID string) ([]*model.Achievement, error)
	GetByID(ctx context.Context, id string) (*model.Achievement, error)
	Create(ctx context.Context, actor Actor, req model.AchievementRequest) (*model.Achievement, error)
	Update(ctx context.Context, actor Actor, id string, req model.AchievementRequest) (*model.Achievement, error)
	Delete(ctx context.Context, actor Actor, id string) error
	Unlock(ctx context.Context, actor Actor, req model.UnlockAchievementRequest) (*UnlockResult, error)
	GetByVisitor(ctx context.Context, actor Actor, visitorID string) ([]*model.VisitorAchievement, error)
}

type achievementService struct {
	repo        repository.AchievementRepository
	visitorRepo repository.VisitorRepository
	progression *Progression
	logger      *zap.Logger
}

func NewAchievementService(
	repo repository.AchievementRepository,
	visitorRepo repository.VisitorRepository,
	progression *Progression,
	logger *zap.Logger,
) AchievementService {
	return &achievementService{repo: repo, visitorRepo: visitorRepo, progression: progression, logger: logger}
}

func (s *achievementService) GetByTenant(ctx context.Context, tenantID string) ([]*model.Achievement, error) {
	tid, err := uuid.Parse(tenantID)
	if err != nil {
		return nil, ErrNoTenantID
	}
	return s.repo.FindByTenant(ctx, tid)
}

func (s *achievementService) GetByID(ctx context.Context, id string) (*model.Achievement, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	a, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAchievementNotFound
	}
	return a, nil
}

func (s *achievementService) Create(ctx context.Context, actor Actor, req model.AchievementRequest) (*model.Achievement, error) {
	tenantID, err := actor.scopeTenant()
	if err != nil {
		return nil, err
	}

	a := &model.Achievement{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Code:        strings.ToUpper(strings.TrimSpace(req.Code)),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		IconURL:     req.IconURL,
		XPReward:    req.XPReward,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *achievementService) Update(ctx context.Context, actor Actor, id string, req model.AchievementRequest) (*model.Achievement, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.requireManage(a.TenantID); err != nil {
		return nil, err
	}

	a.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	a.Title = strings.TrimSpace(req.Title)
	a.Description = req.Description
	a.IconURL = req.IconURL
	a.XPReward = req.XPReward

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *achievementService) Delete(ctx context.Context, actor Actor, id string) error {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := actor.requireManage(a.TenantID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, a.ID)
}

// Unlock sekali per (visitor, conquista); XP reward ditambahkan dalam transaksi yang sama
func (s *achievementService) Unlock(ctx context.Context, actor Actor, req model.UnlockAchievementRequest) (*UnlockResult, error) {
	a, err := s.GetByID(ctx, req.AchievementID)
	if err != nil {
		return nil, err
	}
	visitor, err := visitorInTenant(ctx, s.visitorRepo, req.VisitorID, a.TenantID)
	if err != nil {
		return nil, err
	}
	if err := authorizeVisitor(actor, visitor); err != nil {
		return nil, err
	}

	unlocked, newXP, err := s.repo.Unlock(ctx, visitor.ID, a)
	if err != nil {
		return nil, err
	}
	if !unlocked {
		return nil, ErrAlreadyUnlocked
	}

	s.logger.Info("achievement unlocked",
		zap.String("achievement", a.Code),
		zap.String("visitor_id", visitor.ID.String()),
	)

	if a.XPReward > 0 {
		s.progression.XPChanged(ctx, a.TenantID, visitor.ID, newXP)
	}
	return &UnlockResult{VisitorID: visitor.ID, AchievementID: a.ID, XPGained: a.XPReward, XP: newXP}, nil
}

func (s *achievementService) GetByVisitor(ctx context.Context, actor Actor, visitorID string) ([]*model.VisitorAchievement, error) {
	uid, err := parseID(visitorID)
	if err != nil {
		return nil, err
	}
	visitor, err := s.visitorRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if visitor == nil {
		return nil, ErrVisitorNotFound
	}
	if err := authorizeVisitor(actor, visitor); err != nil {
		return nil, err
	}

	list, err := s.repo.FindByVisitor(ctx, visitor.ID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*model.VisitorAchievement{}
	}
	return list, nil
}
