package service

import (
	"context"
	"strings"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/ahmadqo/museum-engagement-ledger/internal/repository"
	"github.com/ahmadqo/museum-engagement-ledger/internal/utils"
	"github.com/google/uuid"
)

type CertificateTemplateService interface {
	GetAll(ctx context.Context, actor Actor, tenantID string) ([]*model.CertificateTemplate, error)
	GetByID(ctx context.Context, actor Actor, id string) (*model.CertificateTemplate, error)
	Create(ctx context.Context, actor Actor, req model.CertificateTemplateRequest) (*model.CertificateTemplate, error)
	Update(ctx context.Context, actor Actor, id string, req model.CertificateTemplateRequest) (*model.CertificateTemplate, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

type certificateTemplateService struct {
	repo repository.CertificateTemplateRepository
}

func NewCertificateTemplateService(repo repository.CertificateTemplateRepository) CertificateTemplateService {
	return &certificateTemplateService{repo: repo}
}

func (s *certificateTemplateService) GetAll(ctx context.Context, actor Actor, tenantID string) ([]*model.CertificateTemplate, error) {
	tid, err := actor.targetTenant(tenantID)
	if err != nil {
		return nil, err
	}
	templates, err := s.repo.FindByTenant(ctx, tid)
	if err != nil {
		return nil, err
	}
	if templates == nil {
		templates = []*model.CertificateTemplate{}
	}
	return templates, nil
}

func (s *certificateTemplateService) GetByID(ctx context.Context, actor Actor, id string) (*model.CertificateTemplate, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	tpl, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, ErrTemplateNotFound
	}
	if err := actor.requireManage(tpl.TenantID); err != nil {
		return nil, err
	}
	return tpl, nil
}

func (s *certificateTemplateService) Create(ctx context.Context, actor Actor, req model.CertificateTemplateRequest) (*model.CertificateTemplate, error) {
	tenantID, err := actor.scopeTenant()
	if err != nil {
		return nil, err
	}

	tpl := &model.CertificateTemplate{ID: uuid.New(), TenantID: tenantID}
	if err := applyTemplateRequest(tpl, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

func (s *certificateTemplateService) Update(ctx context.Context, actor Actor, id string, req model.CertificateTemplateRequest) (*model.CertificateTemplate, error) {
	tpl, err := s.GetByID(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := applyTemplateRequest(tpl, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

func (s *certificateTemplateService) Delete(ctx context.Context, actor Actor, id string) error {
	tpl, err := s.GetByID(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, tpl.ID)
}

func applyTemplateRequest(tpl *model.CertificateTemplate, req model.CertificateTemplateRequest) error {
	if err := req.Elements.Validate(); err != nil {
		return badInput(err.Error())
	}

	dims := model.TemplateDimensions{Width: utils.PageWidth, Height: utils.PageHeight}
	if req.Dimensions != nil {
		if req.Dimensions.Width <= 0 || req.Dimensions.Height <= 0 {
			return badInput("dimensions harus lebih dari 0")
		}
		dims = *req.Dimensions
	}

	elements := req.Elements
	if elements == nil {
		elements = model.TemplateElements{}
	}

	tpl.Name = strings.TrimSpace(req.Name)
	tpl.BackgroundURL = req.BackgroundURL
	tpl.Elements = elements
	tpl.Dimensions = dims
	return nil
}
