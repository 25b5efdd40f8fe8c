package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ahmadqo/museum-engagement-ledger/internal/config"
	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/ahmadqo/museum-engagement-ledger/internal/repository"
	"github.com/ahmadqo/museum-engagement-ledger/internal/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Request & Response DTOs
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	User  model.UserResponse `json:"user"`
	Token utils.TokenPair    `json:"token"`
}

// RegisterRequest untuk pendaftaran mandiri pengunjung
type RegisterRequest struct {
	Name     string `json:"name"      validate:"required,max=120"`
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=8"`
	TenantID string `json:"tenant_id" validate:"omitempty,uuid"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type SwitchTenantRequest struct {
	TargetTenantID string `json:"target_tenant_id" validate:"required,uuid"`
}

// CreateUserRequest untuk membuat user staff (ADMIN/MASTER)
type CreateUserRequest struct {
	Name     string `json:"name"      validate:"required,max=120"`
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=8"`
	Role     string `json:"role"      validate:"required,oneof=MASTER ADMIN"`
	TenantID string `json:"tenant_id" validate:"omitempty,uuid"`
}

// Errors
var (
	ErrInvalidCredentials = errors.New("email atau password salah")
	ErrAccountDisabled    = errors.New("akun tidak aktif, hubungi administrator")
	ErrInvalidRefresh     = errors.New("refresh token tidak valid atau sudah expired")
	ErrEmailAlreadyExists = conflict("email sudah terdaftar")
	ErrUserNotFound       = notFound("user tidak ditemukan")
	ErrTenantNotFound     = notFound("Museu não encontrado")
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*utils.TokenPair, error)
	Me(ctx context.Context, userID string) (*model.UserResponse, error)
	SwitchTenant(ctx context.Context, actor Actor, req SwitchTenantRequest) (*LoginResponse, error)
	CreateUser(ctx context.Context, actor Actor, req CreateUserRequest) (*model.UserResponse, error)
}

type authService struct {
	userRepo    repository.UserRepository
	tenantRepo  repository.TenantRepository
	visitorRepo repository.VisitorRepository
	cfg         *config.Config
	logger      *zap.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	tenantRepo repository.TenantRepository,
	visitorRepo repository.VisitorRepository,
	cfg *config.Config,
	logger *zap.Logger,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		tenantRepo:  tenantRepo,
		visitorRepo: visitorRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

func (s *authService) issue(user *model.User) (*LoginResponse, error) {
	claims := model.JWTClaims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   string(user.Role),
		Name:   user.Name,
	}
	if user.TenantID != nil {
		claims.TenantID = user.TenantID.String()
	}

	tokenPair, err := utils.GenerateTokenPair(
		claims,
		s.cfg.JWT.Secret,
		s.cfg.JWT.ExpireHours,
		s.cfg.JWT.RefreshExpHours,
	)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		User:  user.ToResponse(),
		Token: *tokenPair,
	}, nil
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	// Cari user by email
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	// Cek status aktif
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	// Validasi password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// Register membuat user VISITOR; bila tenant diberikan, profil visitor di tenant itu ikut dibuat
func (s *authService) Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error) {
	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	tenantID, err := parseOptionalID("tenant_id", req.TenantID)
	if err != nil {
		return nil, err
	}
	if tenantID != nil {
		tenant, err := s.tenantRepo.FindByID(ctx, *tenantID)
		if err != nil {
			return nil, err
		}
		if tenant == nil {
			return nil, ErrTenantNotFound
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: string(hashedPassword),
		Role:     model.RoleVisitor,
		TenantID: tenantID,
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if tenantID != nil {
		if _, err := ensureVisitorProfile(ctx, s.visitorRepo, user, *tenantID); err != nil {
			return nil, err
		}
	}

	s.logger.Info("visitor registered", zap.String("user_id", user.ID.String()))
	return s.issue(user)
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*utils.TokenPair, error) {
	claims, err := utils.ValidateToken(refreshToken, s.cfg.JWT.Secret, utils.TokenTypeRefresh)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	// Pastikan user masih ada dan aktif
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidRefresh
	}

	resp, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	return &resp.Token, nil
}

func (s *authService) Me(ctx context.Context, userID string) (*model.UserResponse, error) {
	id, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	resp := user.ToResponse()
	return &resp, nil
}

// SwitchTenant memindahkan konteks pengunjung ke museum lain dan menerbitkan token baru
func (s *authService) SwitchTenant(ctx context.Context, actor Actor, req SwitchTenantRequest) (*LoginResponse, error) {
	if actor.Role != model.RoleVisitor {
		return nil, forbidden("Hanya pengunjung yang dapat berpindah museum")
	}
	targetID, err := uuid.Parse(req.TargetTenantID)
	if err != nil {
		return nil, badInput("target_tenant_id tidak valid")
	}

	tenant, err := s.tenantRepo.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, ErrTenantNotFound
	}

	user, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if _, err := ensureVisitorProfile(ctx, s.visitorRepo, user, targetID); err != nil {
		return nil, err
	}

	user.TenantID = &targetID
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return s.issue(user)
}

// CreateUser: MASTER membuat MASTER/ADMIN di tenant mana pun, ADMIN hanya ADMIN di tenant-nya
func (s *authService) CreateUser(ctx context.Context, actor Actor, req CreateUserRequest) (*model.UserResponse, error) {
	role := model.Role(req.Role)

	tenantID, err := parseOptionalID("tenant_id", req.TenantID)
	if err != nil {
		return nil, err
	}

	if !actor.IsMaster() {
		if role != model.RoleAdmin {
			return nil, forbidden("ADMIN hanya dapat membuat user ADMIN")
		}
		own, err := actor.scopeTenant()
		if err != nil {
			return nil, err
		}
		if tenantID != nil && *tenantID != own {
			return nil, forbidden("Anda tidak memiliki akses ke tenant ini")
		}
		tenantID = &own
	}

	if role == model.RoleAdmin && tenantID == nil {
		return nil, ErrNoTenantID
	}
	if role == model.RoleMaster {
		tenantID = nil
	}

	if tenantID != nil {
		tenant, err := s.tenantRepo.FindByID(ctx, *tenantID)
		if err != nil {
			return nil, err
		}
		if tenant == nil {
			return nil, ErrTenantNotFound
		}
	}

	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: string(hashedPassword),
		Role:     role,
		TenantID: tenantID,
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("staff user created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(role)),
		zap.String("by", actor.UserID.String()),
	)

	resp := user.ToResponse()
	return &resp, nil
}

// ensureVisitorProfile mencari atau membuat profil visitor user di satu tenant
func ensureVisitorProfile(ctx context.Context, visitors repository.VisitorRepository, user *model.User, tenantID uuid.UUID) (*model.Visitor, error) {
	visitor, err := visitors.FindByUserAndTenant(ctx, user.ID, tenantID)
	if err != nil {
		return nil, err
	}
	if visitor != nil {
		return visitor, nil
	}

	userID := user.ID
	visitor = &model.Visitor{
		ID:       uuid.New(),
		TenantID: tenantID,
		UserID:   &userID,
		Name:     strPtr(user.Name),
		Email:    strPtr(user.Email),
	}
	if err := visitors.Create(ctx, visitor); err != nil {
		return nil, err
	}
	return visitor, nil
}
