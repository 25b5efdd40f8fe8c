package service

import (
	"context"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/ahmadqo/museum-engagement-ledger/internal/repository"
)

var ErrStampNotFound = notFound("Carimbo não encontrado")

type StampService interface {
	Create(ctx context.Context, actor Actor, req model.StampRequest) (stamp *model.PassportStamp, created bool, err error)
	GetByVisitor(ctx context.Context, actor Actor, visitorID string) ([]*model.PassportStamp, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

type stampService struct {
	repo        repository.StampRepository
	visitorRepo repository.VisitorRepository
	workRepo    repository.WorkRepository
}

func NewStampService(repo repository.StampRepository, visitorRepo repository.VisitorRepository, workRepo repository.WorkRepository) StampService {
	return &stampService{repo: repo, visitorRepo: visitorRepo, workRepo: workRepo}
}

// Create idempoten per (visitor, karya); created=false bila carimbo sudah ada
func (s *stampService) Create(ctx context.Context, actor Actor, req model.StampRequest) (*model.PassportStamp, bool, error) {
	workID, err := parseOptionalID("work_id", req.WorkID)
	if err != nil {
		return nil, false, err
	}
	if workID == nil {
		return nil, false, badInput("work_id wajib diisi")
	}
	work, err := s.workRepo.FindByID(ctx, *workID)
	if err != nil {
		return nil, false, err
	}
	if work == nil {
		return nil, false, ErrWorkNotFound
	}

	visitor, err := visitorInTenant(ctx, s.visitorRepo, req.VisitorID, work.TenantID)
	if err != nil {
		return nil, false, err
	}
	if err := authorizeVisitor(actor, visitor); err != nil {
		return nil, false, err
	}

	return s.repo.Create(ctx, visitor.ID, work.ID)
}

func (s *stampService) GetByVisitor(ctx context.Context, actor Actor, visitorID string) ([]*model.PassportStamp, error) {
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

	stamps, err := s.repo.FindByVisitor(ctx, visitor.ID)
	if err != nil {
		return nil, err
	}
	if stamps == nil {
		stamps = []*model.PassportStamp{}
	}
	return stamps, nil
}

func (s *stampService) Delete(ctx context.Context, actor Actor, id string) error {
	uid, err := parseID(id)
	if err != nil {
		return err
	}
	stamp, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return err
	}
	if stamp == nil {
		return ErrStampNotFound
	}

	visitor, err := s.visitorRepo.FindByID(ctx, stamp.VisitorID)
	if err != nil {
		return err
	}
	if visitor != nil {
		if err := authorizeVisitor(actor, visitor); err != nil {
			return err
		}
	}
	return s.repo.Delete(ctx, stamp.ID)
}
