package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/ahmadqo/museum-engagement-ledger/internal/repository"
	"github.com/ahmadqo/museum-engagement-ledger/internal/utils"
	"github.com/google/uuid"
)

var ErrQRCodeNotFound = notFound("QR Code não encontrado")

const qrImageSize = 512

type QRCodeService interface {
	GetByTenant(ctx context.Context, actor Actor, tenantID string) ([]*model.QRCode, error)
	GetByCode(ctx context.Context, code string) (*model.QRCode, error)
	Create(ctx context.Context, actor Actor, req model.QRCodeRequest) (*model.QRCode, error)
	Delete(ctx context.Context, actor Actor, id string) error
	Image(ctx context.Context, actor Actor, id string) ([]byte, string, error)
}

type qrCodeService struct {
	repo        repository.QRCodeRepository
	workRepo    repository.WorkRepository
	trailRepo   repository.TrailRepository
	eventRepo   repository.EventRepository
	frontendURL string
}

func NewQRCodeService(
	repo repository.QRCodeRepository,
	workRepo repository.WorkRepository,
	trailRepo repository.TrailRepository,
	eventRepo repository.EventRepository,
	frontendURL string,
) QRCodeService {
	return &qrCodeService{
		repo: repo, workRepo: workRepo, trailRepo: trailRepo,
		eventRepo: eventRepo, frontendURL: frontendURL,
	}
}

// GetByTenant: ADMIN selalu tenant sendiri, MASTER boleh menyebut tenantId
func (s *qrCodeService) GetByTenant(ctx context.Context, actor Actor, tenantID string) ([]*model.QRCode, error) {
	tid, err := actor.targetTenant(tenantID)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByTenant(ctx, tid)
}

// GetByCode dipakai halaman publik /qr/{code}
func (s *qrCodeService) GetByCode(ctx context.Context, code string) (*model.QRCode, error) {
	qr, err := s.repo.FindByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	if qr == nil {
		return nil, ErrQRCodeNotFound
	}
	return qr, nil
}

func (s *qrCodeService) Create(ctx context.Context, actor Actor, req model.QRCodeRequest) (*model.QRCode, error) {
	tenantID, err := actor.scopeTenant()
	if err != nil {
		return nil, err
	}

	qrType := model.QRCodeType(req.Type)
	refID, err := parseOptionalID("reference_id", req.ReferenceID)
	if err != nil {
		return nil, err
	}
	if refID != nil {
		if err := s.checkReference(ctx, qrType, *refID, tenantID); err != nil {
			return nil, err
		}
	}

	code, err := utils.GenerateQRToken()
	if err != nil {
		return nil, err
	}

	xp := model.DefaultQRXPReward
	if req.XPReward != nil {
		xp = *req.XPReward
	}

	qr := &model.QRCode{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Code:        code,
		Type:        qrType,
		ReferenceID: refID,
		Title:       strings.TrimSpace(req.Title),
		XPReward:    xp,
	}
	if err := s.repo.Create(ctx, qr); err != nil {
		return nil, err
	}
	return qr, nil
}

func (s *qrCodeService) checkReference(ctx context.Context, qrType model.QRCodeType, refID, tenantID uuid.UUID) error {
	var owner *uuid.UUID
	switch qrType {
	case model.QRCodeWork:
		w, err := s.workRepo.FindByID(ctx, refID)
		if err != nil {
			return err
		}
		if w != nil {
			owner = &w.TenantID
		}
	case model.QRCodeTrail:
		t, err := s.trailRepo.FindByID(ctx, refID)
		if err != nil {
			return err
		}
		if t != nil {
			owner = &t.TenantID
		}
	case model.QRCodeEvent:
		e, err := s.eventRepo.FindByID(ctx, refID)
		if err != nil {
			return err
		}
		if e != nil {
			owner = &e.TenantID
		}
	default:
		return badInputf("type %q tidak dikenal", qrType)
	}
	if owner == nil || *owner != tenantID {
		return badInput("reference_id tidak ditemukan di museu ini")
	}
	return nil
}

func (s *qrCodeService) find(ctx context.Context, actor Actor, id string) (*model.QRCode, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	qr, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if qr == nil {
		return nil, ErrQRCodeNotFound
	}
	if err := actor.requireManage(qr.TenantID); err != nil {
		return nil, err
	}
	return qr, nil
}

func (s *qrCodeService) Delete(ctx context.Context, actor Actor, id string) error {
	qr, err := s.find(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, qr.ID)
}

// Image menghasilkan PNG siap cetak yang mengarah ke halaman /qr/{code} di frontend
func (s *qrCodeService) Image(ctx context.Context, actor Actor, id string) ([]byte, string, error) {
	qr, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	content := fmt.Sprintf("%s/qr/%s", strings.TrimRight(s.frontendURL, "/"), qr.Code)
	png, err := utils.GenerateQRCodePNG(content, qrImageSize)
	if err != nil {
		return nil, "", err
	}
	return png, fmt.Sprintf("qrcode-%s.png", qr.Code), nil
}
