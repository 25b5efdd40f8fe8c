package service

import (
	"context"
	"strings"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/ahmadqo/museum-engagement-ledger/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrSlugTaken = conflict("Slug já em uso")

// Batas karya default per paket
var planMaxWorks = map[string]int{
	"START":      50,
	"PRO":        200,
	"ENTERPRISE": 500,
}

type TenantService interface {
	GetPublic(ctx context.Context) ([]*model.Tenant, error)
	GetAll(ctx context.Context) ([]*model.Tenant, error)
	GetByID(ctx context.Context, id string) (*model.Tenant, error)
	Create(ctx context.Context, req model.CreateTenantRequest) (*model.TenantWithAdmin, error)
	Update(ctx context.Context, actor Actor, id string, req model.UpdateTenantRequest) (*model.Tenant, error)
}

type tenantService struct {
	repo     repository.TenantRepository
	userRepo repository.UserRepository
	logger   *zap.Logger
}

func NewTenantService(repo repository.TenantRepository, userRepo repository.UserRepository, logger *zap.Logger) TenantService {
	return &tenantService{repo: repo, userRepo: userRepo, logger: logger}
}

func (s *tenantService) GetPublic(ctx context.Context) ([]*model.Tenant, error) {
	return s.repo.FindAll(ctx)
}

func (s *tenantService) GetAll(ctx context.Context) ([]*model.Tenant, error) {
	return s.repo.FindAll(ctx)
}

func (s *tenantService) GetByID(ctx context.Context, id string) (*model.Tenant, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	tenant, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, ErrTenantNotFound
	}
	return tenant, nil
}

// Create membuat tenant beserta user ADMIN-nya dalam satu transaksi
func (s *tenantService) Create(ctx context.Context, req model.CreateTenantRequest) (*model.TenantWithAdmin, error) {
	slug := strings.ToLower(strings.TrimSpace(req.Slug))

	existing, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSlugTaken
	}

	user, err := s.userRepo.FindByEmail(ctx, req.AdminEmail)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return nil, ErrEmailAlreadyExists
	}

	plan := req.Plan
	if plan == "" {
		plan = "START"
	}
	maxWorks := req.MaxWorks
	if maxWorks <= 0 {
		maxWorks = planMaxWorks[plan]
	}

	primary, secondary := req.PrimaryColor, req.SecondaryColor
	if primary == "" {
		primary = "#1f2937"
	}
	if secondary == "" {
		secondary = "#d4af37"
	}

	tenant := &model.Tenant{
		ID:             uuid.New(),
		Name:           strings.TrimSpace(req.Name),
		Slug:           slug,
		PrimaryColor:   primary,
		SecondaryColor: secondary,
		Mission:        req.Mission,
		Plan:           plan,
		MaxWorks:       maxWorks,
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	admin := &model.User{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(req.AdminName),
		Email:    strings.ToLower(strings.TrimSpace(req.AdminEmail)),
		Password: string(hashedPassword),
		Role:     model.RoleAdmin,
		IsActive: true,
	}

	if err := s.repo.CreateWithAdmin(ctx, tenant, admin); err != nil {
		return nil, err
	}

	s.logger.Info("tenant created",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("slug", tenant.Slug),
		zap.String("admin_email", admin.Email),
	)
	return &model.TenantWithAdmin{Tenant: tenant, Admin: admin.ToResponse()}, nil
}

func (s *tenantService) Update(ctx context.Context, actor Actor, id string, req model.UpdateTenantRequest) (*model.Tenant, error) {
	tenant, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.requireManage(tenant.ID); err != nil {
		return nil, err
	}

	tenant.Name = strings.TrimSpace(req.Name)
	tenant.Mission = req.Mission
	if req.PrimaryColor != "" {
		tenant.PrimaryColor = req.PrimaryColor
	}
	if req.SecondaryColor != "" {
		tenant.SecondaryColor = req.SecondaryColor
	}
	tenant.CertificateBackgroundURL = req.CertificateBackgroundURL
	tenant.LogoURL = req.LogoURL
	tenant.SignatureURL = req.SignatureURL

	// Paket dan kuota hanya boleh diubah MASTER
	if actor.IsMaster() {
		if req.Plan != "" {
			tenant.Plan = req.Plan
		}
		if req.MaxWorks > 0 {
			tenant.MaxWorks = req.MaxWorks
		}
	}

	if err := s.repo.Update(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}
