package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/ahmadqo/museum-engagement-ledger/internal/repository"
	"github.com/ahmadqo/museum-engagement-ledger/internal/response"
	"github.com/google/uuid"
)

var ErrWorkNotFound = notFound("Obra não encontrada")

type WorkService interface {
	GetAll(ctx context.Context, actor Actor, filter model.WorkFilter) ([]*model.Work, *response.Pagination, error)
	GetByID(ctx context.Context, id string) (*model.Work, error)
	Create(ctx context.Context, actor Actor, req model.WorkRequest) (*model.Work, error)
	Update(ctx context.Context, actor Actor, id string, req model.WorkRequest) (*model.Work, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

type workService struct {
	repo       repository.WorkRepository
	tenantRepo repository.TenantRepository
}

func NewWorkService(repo repository.WorkRepository, tenantRepo repository.TenantRepository) WorkService {
	return &workService{repo: repo, tenantRepo: tenantRepo}
}

// GetAll: pengunjung hanya melihat karya yang sudah dipublikasikan
func (s *workService) GetAll(ctx context.Context, actor Actor, filter model.WorkFilter) ([]*model.Work, *response.Pagination, error) {
	tenantID, err := uuid.Parse(filter.TenantID)
	if err != nil {
		return nil, nil, ErrNoTenantID
	}
	filter.TenantID = tenantID.String()
	filter.PublishedOnly = !actor.CanManage(tenantID)
	filter.Search = strings.TrimSpace(filter.Search)

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}

	works, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	return works, paginate(filter.Page, filter.PerPage, total), nil
}

func (s *workService) GetByID(ctx context.Context, id string) (*model.Work, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	work, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if work == nil {
		return nil, ErrWorkNotFound
	}
	return work, nil
}

func (s *workService) Create(ctx context.Context, actor Actor, req model.WorkRequest) (*model.Work, error) {
	tenantID, err := actor.scopeTenant()
	if err != nil {
		return nil, err
	}

	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, ErrTenantNotFound
	}

	// Kuota karya sesuai paket tenant
	count, err := s.repo.CountByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant.MaxWorks > 0 && count >= tenant.MaxWorks {
		return nil, forbidden(fmt.Sprintf("Limite de obras atingido (%d) para o plano %s", tenant.MaxWorks, tenant.Plan))
	}

	work := &model.Work{
		ID:       uuid.New(),
		TenantID: tenantID,
	}
	applyWorkRequest(work, req)

	if err := s.repo.Create(ctx, work); err != nil {
		return nil, err
	}
	return work, nil
}

func (s *workService) Update(ctx context.Context, actor Actor, id string, req model.WorkRequest) (*model.Work, error) {
	work, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.requireManage(work.TenantID); err != nil {
		return nil, err
	}

	applyWorkRequest(work, req)
	if err := s.repo.Update(ctx, work); err != nil {
		return nil, err
	}
	return work, nil
}

func (s *workService) Delete(ctx context.Context, actor Actor, id string) error {
	work, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := actor.requireManage(work.TenantID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, work.ID)
}

func applyWorkRequest(work *model.Work, req model.WorkRequest) {
	work.Title = strings.TrimSpace(req.Title)
	work.Artist = req.Artist
	work.Year = req.Year
	work.Room = req.Room
	work.Floor = req.Floor
	work.Description = req.Description
	work.ImageURL = req.ImageURL
	work.AudioURL = req.AudioURL
	work.Published = req.Published == nil || *req.Published
}
