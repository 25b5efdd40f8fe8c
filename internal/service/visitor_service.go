package service

import (
	"context"
	"strings"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/ahmadqo/museum-engagement-ledger/internal/repository"
	"github.com/ahmadqo/museum-engagement-ledger/internal/response"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// XP default untuk kunjungan yang tidak menyebut xp_gained
const DefaultTrackXP int64 = 1

var ErrVisitorNotFound = notFound("Visitante não encontrado")

type TrackVisitResult struct {
	VisitorID uuid.UUID `json:"visitor_id"`
	XPGained  int64     `json:"xp_gained"`
	XP        int64     `json:"xp"`
}

type VisitorService interface {
	Register(ctx context.Context, req model.RegisterVisitorRequest) (*model.Visitor, error)
	Track(ctx context.Context, actor Actor, req model.TrackVisitRequest) (*TrackVisitResult, error)
	VisitFromQR(ctx context.Context, actor Actor, req model.VisitFromQRRequest) (*model.VisitFromQRResult, error)
	Summary(ctx context.Context, actor Actor, id string) (*model.VisitorSummary, error)
	MeSummary(ctx context.Context, actor Actor) (*model.VisitorSummary, error)
	UpdateMe(ctx context.Context, actor Actor, req model.UpdateVisitorRequest) (*model.Visitor, error)
	GetAll(ctx context.Context, actor Actor, filter model.VisitorFilter) ([]*model.Visitor, *response.Pagination, error)
}

type visitorService struct {
	repo            repository.VisitorRepository
	userRepo        repository.UserRepository
	tenantRepo      repository.TenantRepository
	workRepo        repository.WorkRepository
	qrRepo          repository.QRCodeRepository
	stampRepo       repository.StampRepository
	achievementRepo repository.AchievementRepository
	certRepo        repository.CertificateRepository
	progression     *Progression
	logger          *zap.Logger
}

func NewVisitorService(
	repo repository.VisitorRepository,
	userRepo repository.UserRepository,
	tenantRepo repository.TenantRepository,
	workRepo repository.WorkRepository,
	qrRepo repository.QRCodeRepository,
	stampRepo repository.StampRepository,
	achievementRepo repository.AchievementRepository,
	certRepo repository.CertificateRepository,
	progression *Progression,
	logger *zap.Logger,
) VisitorService {
	return &visitorService{
		repo: repo, userRepo: userRepo, tenantRepo: tenantRepo,
		workRepo: workRepo, qrRepo: qrRepo, stampRepo: stampRepo,
		achievementRepo: achievementRepo, certRepo: certRepo,
		progression: progression, logger: logger,
	}
}

// Register membuat profil pengunjung tanpa akun
func (s *visitorService) Register(ctx context.Context, req model.RegisterVisitorRequest) (*model.Visitor, error) {
	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		return nil, ErrNoTenantID
	}
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, ErrTenantNotFound
	}

	visitor := &model.Visitor{
		ID:       uuid.New(),
		TenantID: tenantID,
		Name:     strPtr(strings.TrimSpace(req.Name)),
		Email:    strPtr(strings.ToLower(strings.TrimSpace(req.Email))),
	}
	if err := s.repo.Create(ctx, visitor); err != nil {
		return nil, err
	}
	return visitor, nil
}

// Track mencatat kunjungan dan menambah XP dalam satu transaksi, lalu mengevaluasi XP_THRESHOLD
func (s *visitorService) Track(ctx context.Context, actor Actor, req model.TrackVisitRequest) (*TrackVisitResult, error) {
	visitorID, err := uuid.Parse(req.VisitorID)
	if err != nil {
		return nil, badInput("visitor_id tidak valid")
	}
	visitor, err := s.repo.FindByID(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	if visitor == nil {
		return nil, ErrVisitorNotFound
	}
	if err := authorizeVisitor(actor, visitor); err != nil {
		return nil, err
	}

	workID, err := parseOptionalID("work_id", req.WorkID)
	if err != nil {
		return nil, err
	}
	trailID, err := parseOptionalID("trail_id", req.TrailID)
	if err != nil {
		return nil, err
	}
	eventID, err := parseOptionalID("event_id", req.EventID)
	if err != nil {
		return nil, err
	}
	if workID != nil {
		work, err := s.workRepo.FindByID(ctx, *workID)
		if err != nil {
			return nil, err
		}
		if work == nil || work.TenantID != visitor.TenantID {
			return nil, ErrWorkNotFound
		}
	}

	xp := DefaultTrackXP
	if req.XPGained != nil {
		xp = *req.XPGained
	}

	newXP, err := s.repo.RecordVisit(ctx, &model.VisitorVisit{
		ID:        uuid.New(),
		VisitorID: visitor.ID,
		TenantID:  visitor.TenantID,
		WorkID:    workID,
		TrailID:   trailID,
		EventID:   eventID,
		Source:    model.VisitSourceApp,
		XPGained:  xp,
	})
	if err != nil {
		return nil, err
	}

	s.progression.XPChanged(ctx, visitor.TenantID, visitor.ID, newXP)
	return &TrackVisitResult{VisitorID: visitor.ID, XPGained: xp, XP: newXP}, nil
}

// VisitFromQR: kunjungan, XP, dan stamp (untuk QR karya) disimpan dalam satu transaksi
func (s *visitorService) VisitFromQR(ctx context.Context, actor Actor, req model.VisitFromQRRequest) (*model.VisitFromQRResult, error) {
	qr, err := s.qrRepo.FindByCode(ctx, strings.TrimSpace(req.Code))
	if err != nil {
		return nil, err
	}
	if qr == nil {
		return nil, ErrQRCodeNotFound
	}

	visitor, err := s.resolveQRVisitor(ctx, actor, req.VisitorID, qr.TenantID)
	if err != nil {
		return nil, err
	}

	xp := qr.XPReward
	if xp <= 0 {
		xp = model.DefaultQRXPReward
	}

	visit := &model.VisitorVisit{
		ID:        uuid.New(),
		VisitorID: visitor.ID,
		TenantID:  qr.TenantID,
		Source:    model.VisitSourceQR,
		XPGained:  xp,
	}
	switch qr.Type {
	case model.QRCodeWork:
		visit.WorkID = qr.ReferenceID
	case model.QRCodeTrail:
		visit.TrailID = qr.ReferenceID
	case model.QRCodeEvent:
		visit.EventID = qr.ReferenceID
	}

	newXP, stamped, err := s.repo.RecordQRVisit(ctx, visit)
	if err != nil {
		return nil, err
	}
	visitor.XP = newXP

	s.logger.Debug("qr visit recorded",
		zap.String("qr_code", qr.Code),
		zap.String("visitor_id", visitor.ID.String()),
		zap.Int64("xp_gained", xp),
		zap.Bool("stamped", stamped),
	)

	s.progression.XPChanged(ctx, qr.TenantID, visitor.ID, newXP)
	return &model.VisitFromQRResult{Visitor: visitor, XPGained: xp, Stamped: stamped}, nil
}

// resolveQRVisitor: visitor_id eksplisit, lalu profil user yang login, lalu visitor anonim tenant
func (s *visitorService) resolveQRVisitor(ctx context.Context, actor Actor, visitorID string, tenantID uuid.UUID) (*model.Visitor, error) {
	if visitorID != "" {
		visitor, err := visitorInTenant(ctx, s.repo, visitorID, tenantID)
		if err != nil {
			return nil, err
		}
		if err := authorizeVisitor(actor, visitor); err != nil {
			return nil, err
		}
		return visitor, nil
	}

	if actor.UserID != uuid.Nil && actor.Role == model.RoleVisitor {
		user, err := s.userRepo.FindByID(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		if user != nil {
			return ensureVisitorProfile(ctx, s.repo, user, tenantID)
		}
	}

	visitor, err := s.repo.FindAnonymous(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if visitor != nil {
		return visitor, nil
	}

	name := model.AnonymousVisitorName
	visitor = &model.Visitor{ID: uuid.New(), TenantID: tenantID, Name: &name}
	if err := s.repo.Create(ctx, visitor); err != nil {
		return nil, err
	}
	return visitor, nil
}

func (s *visitorService) Summary(ctx context.Context, actor Actor, id string) (*model.VisitorSummary, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	visitor, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if visitor == nil {
		return nil, ErrVisitorNotFound
	}
	if err := authorizeVisitor(actor, visitor); err != nil {
		return nil, err
	}
	return s.summarize(ctx, visitor)
}

// MeSummary mengembalikan ringkasan kosong bila user belum punya profil di tenant aktif
func (s *visitorService) MeSummary(ctx context.Context, actor Actor) (*model.VisitorSummary, error) {
	tenantID, err := actor.scopeTenant()
	if err != nil {
		return nil, err
	}
	visitor, err := s.repo.FindByUserAndTenant(ctx, actor.UserID, tenantID)
	if err != nil {
		return nil, err
	}
	if visitor == nil {
		return &model.VisitorSummary{
			Stamps:       []*model.PassportStamp{},
			Achievements: []*model.VisitorAchievement{},
		}, nil
	}
	return s.summarize(ctx, visitor)
}

func (s *visitorService) summarize(ctx context.Context, visitor *model.Visitor) (*model.VisitorSummary, error) {
	activity, err := s.repo.Activity(ctx, visitor.ID)
	if err != nil {
		return nil, err
	}
	stamps, err := s.stampRepo.FindByVisitor(ctx, visitor.ID)
	if err != nil {
		return nil, err
	}
	achievements, err := s.achievementRepo.FindByVisitor(ctx, visitor.ID)
	if err != nil {
		return nil, err
	}
	certs, err := s.certRepo.CountByVisitor(ctx, visitor.ID)
	if err != nil {
		return nil, err
	}

	if stamps == nil {
		stamps = []*model.PassportStamp{}
	}
	if achievements == nil {
		achievements = []*model.VisitorAchievement{}
	}

	return &model.VisitorSummary{
		Visitor:          visitor,
		VisitCount:       activity.Visits,
		StampCount:       activity.Stamps,
		AchievementCount: activity.Achievements,
		CertificateCount: certs,
		Stamps:           stamps,
		Achievements:     achievements,
	}, nil
}

func (s *visitorService) UpdateMe(ctx context.Context, actor Actor, req model.UpdateVisitorRequest) (*model.Visitor, error) {
	tenantID, err := actor.scopeTenant()
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	visitor, err := ensureVisitorProfile(ctx, s.repo, user, tenantID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	visitor.Name = &name
	visitor.PhotoURL = req.PhotoURL
	if err := s.repo.UpdateProfile(ctx, visitor); err != nil {
		return nil, err
	}
	return visitor, nil
}

func (s *visitorService) GetAll(ctx context.Context, actor Actor, filter model.VisitorFilter) ([]*model.Visitor, *response.Pagination, error) {
	if !actor.IsMaster() {
		tenantID, err := actor.scopeTenant()
		if err != nil {
			return nil, nil, err
		}
		filter.TenantID = tenantID.String()
	} else if _, err := uuid.Parse(filter.TenantID); err != nil {
		return nil, nil, ErrNoTenantID
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}

	visitors, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	return visitors, paginate(filter.Page, filter.PerPage, total), nil
}
