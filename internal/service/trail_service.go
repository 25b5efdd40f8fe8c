package service

import (
	"context"
	"strings"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/ahmadqo/museum-engagement-ledger/internal/repository"
	"github.com/google/uuid"
)

// XP yang diberikan saat pengunjung menyelesaikan trilha
const TrailCompletionXP int64 = 20

var ErrTrailNotFound = notFound("Trilha não encontrada")

type CompleteTrailResult struct {
	Visitor  *model.Visitor `json:"visitor"`
	XPGained int64          `json:"xp_gained"`
}

type TrailService interface {
	GetByTenant(ctx context.Context, tenantID string) ([]*model.Trail, error)
	GetByID(ctx context.Context, id string) (*model.Trail, error)
	Create(ctx context.Context, actor Actor, req model.TrailRequest) (*model.Trail, error)
	Update(ctx context.Context, actor Actor, id string, req model.TrailRequest) (*model.Trail, error)
	Delete(ctx context.Context, actor Actor, id string) error
	Complete(ctx context.Context, actor Actor, id string, req model.CompleteTrailRequest) (*CompleteTrailResult, error)
}

type trailService struct {
	repo        repository.TrailRepository
	workRepo    repository.WorkRepository
	visitorRepo repository.VisitorRepository
	progression *Progression
}

func NewTrailService(
	repo repository.TrailRepository,
	workRepo repository.WorkRepository,
	visitorRepo repository.VisitorRepository,
	progression *Progression,
) TrailService {
	return &trailService{repo: repo, workRepo: workRepo, visitorRepo: visitorRepo, progression: progression}
}

func (s *trailService) GetByTenant(ctx context.Context, tenantID string) ([]*model.Trail, error) {
	tid, err := uuid.Parse(tenantID)
	if err != nil {
		return nil, ErrNoTenantID
	}
	return s.repo.FindByTenant(ctx, tid)
}

func (s *trailService) GetByID(ctx context.Context, id string) (*model.Trail, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	trail, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if trail == nil {
		return nil, ErrTrailNotFound
	}
	return trail, nil
}

func (s *trailService) Create(ctx context.Context, actor Actor, req model.TrailRequest) (*model.Trail, error) {
	tenantID, err := actor.scopeTenant()
	if err != nil {
		return nil, err
	}

	workIDs, err := s.resolveWorks(ctx, tenantID, req.WorkIDs)
	if err != nil {
		return nil, err
	}

	trail := &model.Trail{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Duration:    req.Duration,
		WorkIDs:     workIDs,
	}
	if err := s.repo.Create(ctx, trail); err != nil {
		return nil, err
	}
	return trail, nil
}

func (s *trailService) Update(ctx context.Context, actor Actor, id string, req model.TrailRequest) (*model.Trail, error) {
	trail, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.requireManage(trail.TenantID); err != nil {
		return nil, err
	}

	workIDs, err := s.resolveWorks(ctx, trail.TenantID, req.WorkIDs)
	if err != nil {
		return nil, err
	}

	trail.Title = strings.TrimSpace(req.Title)
	trail.Description = req.Description
	trail.Duration = req.Duration
	trail.WorkIDs = workIDs

	if err := s.repo.Update(ctx, trail); err != nil {
		return nil, err
	}
	return trail, nil
}

func (s *trailService) Delete(ctx context.Context, actor Actor, id string) error {
	trail, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := actor.requireManage(trail.TenantID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, trail.ID)
}

// resolveWorks menjaga urutan karya dan memastikan semuanya milik tenant yang sama
func (s *trailService) resolveWorks(ctx context.Context, tenantID uuid.UUID, ids []string) (model.UUIDList, error) {
	out := make(model.UUIDList, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for i, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, badInputf("work_ids[%d] tidak valid", i)
		}
		if seen[id] {
			continue
		}
		work, err := s.workRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if work == nil || work.TenantID != tenantID {
			return nil, badInputf("work_ids[%d] tidak ditemukan di museu ini", i)
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, nil
}

// Complete mencatat kunjungan trilha, menambah XP, lalu menjalankan rule TRAIL_COMPLETED dan XP_THRESHOLD
func (s *trailService) Complete(ctx context.Context, actor Actor, id string, req model.CompleteTrailRequest) (*CompleteTrailResult, error) {
	trail, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	visitor, err := visitorInTenant(ctx, s.visitorRepo, req.VisitorID, trail.TenantID)
	if err != nil {
		return nil, err
	}
	if err := authorizeVisitor(actor, visitor); err != nil {
		return nil, err
	}

	trailID := trail.ID
	newXP, err := s.visitorRepo.RecordVisit(ctx, &model.VisitorVisit{
		ID:        uuid.New(),
		VisitorID: visitor.ID,
		TenantID:  trail.TenantID,
		TrailID:   &trailID,
		Source:    model.VisitSourceApp,
		XPGained:  TrailCompletionXP,
	})
	if err != nil {
		return nil, err
	}
	visitor.XP = newXP

	s.progression.TrailCompleted(ctx, trail.TenantID, visitor.ID, trail.ID)
	s.progression.XPChanged(ctx, trail.TenantID, visitor.ID, newXP)

	return &CompleteTrailResult{Visitor: visitor, XPGained: TrailCompletionXP}, nil
}
