package service

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"time"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/ahmadqo/museum-engagement-ledger/internal/repository"
	"github.com/ahmadqo/museum-engagement-ledger/internal/response"
	"github.com/ahmadqo/museum-engagement-ledger/internal/utils"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var (
	ErrCertificateNotFound     = notFound("Certificado não encontrado")
	ErrCertificateNotRevocable = badInput("Sertifikat sudah dicabut")
	ErrCertificateNotEmailable = badInput("Hanya sertifikat acara yang dapat dikirim via email")
	ErrNoRecipient             = badInput("Email penerima tidak tersedia")
)

// PDFRenderer diimplementasikan utils.CertificateRenderer
type PDFRenderer interface {
	Render(ctx context.Context, data utils.CertificateRenderData) ([]byte, error)
	RenderParticipation(ctx context.Context, data utils.ParticipationRenderData) ([]byte, error)
}

type EmailResult struct {
	Recipient string `json:"recipient"`
	Delivered bool   `json:"delivered"`
}

type CertificateService interface {
	Generate(ctx context.Context, actor Actor, req model.GenerateCertificateRequest) (cert *model.Certificate, created bool, err error)
	Mine(ctx context.Context, actor Actor) ([]*model.Certificate, error)
	GetAll(ctx context.Context, actor Actor, filter model.CertificateFilter) ([]*model.Certificate, *response.Pagination, error)
	Verify(ctx context.Context, code string) (*model.VerifyResponse, error)
	RenderPDF(ctx context.Context, id string) ([]byte, string, error)
	Revoke(ctx context.Context, actor Actor, id string) (*model.Certificate, error)
	SendEmail(ctx context.Context, actor Actor, id string, req model.EmailCertificateRequest) (*EmailResult, error)
}

type certificateService struct {
	repo         repository.CertificateRepository
	visitorRepo  repository.VisitorRepository
	userRepo     repository.UserRepository
	tenantRepo   repository.TenantRepository
	trailRepo    repository.TrailRepository
	eventRepo    repository.EventRepository
	templateRepo repository.CertificateTemplateRepository

	renderer    PDFRenderer
	mailer      utils.Mailer
	logger      *zap.Logger
	metrics     Metrics
	frontendURL string
}

func NewCertificateService(
	repo repository.CertificateRepository,
	visitorRepo repository.VisitorRepository,
	userRepo repository.UserRepository,
	tenantRepo repository.TenantRepository,
	trailRepo repository.TrailRepository,
	eventRepo repository.EventRepository,
	templateRepo repository.CertificateTemplateRepository,
	renderer PDFRenderer,
	mailer utils.Mailer,
	logger *zap.Logger,
	metrics Metrics,
	frontendURL string,
) CertificateService {
	return &certificateService{
		repo: repo, visitorRepo: visitorRepo, userRepo: userRepo,
		tenantRepo: tenantRepo, trailRepo: trailRepo, eventRepo: eventRepo,
		templateRepo: templateRepo, renderer: renderer, mailer: mailer,
		logger: logger, metrics: metricsOrNoop(metrics), frontendURL: frontendURL,
	}
}

// Generate menerbitkan sertifikat langsung untuk pemanggil, sekali per (visitor, type, relatedId).
// created=false berarti sertifikat yang sudah ada dikembalikan.
func (s *certificateService) Generate(ctx context.Context, actor Actor, req model.GenerateCertificateRequest) (*model.Certificate, bool, error) {
	tenantID, err := actor.scopeTenant()
	if err != nil {
		return nil, false, err
	}
	relatedID, err := uuid.Parse(req.RelatedID)
	if err != nil {
		return nil, false, badInput("related_id tidak valid")
	}
	certType := model.CertificateType(req.Type)

	user, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, false, err
	}
	if user == nil {
		return nil, false, ErrUserNotFound
	}
	visitor, err := ensureVisitorProfile(ctx, s.visitorRepo, user, tenantID)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.repo.FindByVisitorTypeRelated(ctx, visitor.ID, certType, relatedID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	var metadata model.CertificateMetadata
	switch certType {
	case model.CertificateEvent:
		event, err := s.eventRepo.FindByID(ctx, relatedID)
		if err != nil {
			return nil, false, err
		}
		if event == nil || event.TenantID != tenantID {
			return nil, false, ErrEventNotFound
		}
		start := event.StartDate
		metadata = model.CertificateMetadata{Title: event.Title, Date: &start, Hours: event.CulturalHours}
	case model.CertificateTrail:
		trail, err := s.trailRepo.FindByID(ctx, relatedID)
		if err != nil {
			return nil, false, err
		}
		if trail == nil || trail.TenantID != tenantID {
			return nil, false, ErrTrailNotFound
		}
		metadata = model.CertificateMetadata{Title: trail.Title}
	default:
		return nil, false, badInputf("type %q tidak didukung", req.Type)
	}

	code, err := utils.GenerateCertificateCode()
	if err != nil {
		return nil, false, err
	}

	cert := &model.Certificate{
		ID:          uuid.New(),
		Code:        code,
		VisitorID:   visitor.ID,
		TenantID:    tenantID,
		Type:        certType,
		RelatedID:   &relatedID,
		Metadata:    metadata,
		Status:      model.CertificateValid,
		GeneratedAt: time.Now(),
	}
	created, err := s.repo.CreateDirect(ctx, cert)
	if err != nil {
		return nil, false, err
	}
	if !created {
		// request paralel menang lebih dulu
		existing, err := s.repo.FindByVisitorTypeRelated(ctx, visitor.ID, certType, relatedID)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, conflict("Certificado em emissão, tente novamente")
		}
		return existing, false, nil
	}

	s.metrics.IncrCertificateIssued("direct")
	s.logger.Info("certificate generated",
		zap.String("certificate_id", cert.ID.String()),
		zap.String("visitor_id", visitor.ID.String()),
		zap.String("type", string(cert.Type)),
	)
	return cert, true, nil
}

// Mine mengembalikan sertifikat dari semua profil visitor milik user, terbaru dulu
func (s *certificateService) Mine(ctx context.Context, actor Actor) ([]*model.Certificate, error) {
	visitors, err := s.visitorRepo.FindByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if len(visitors) == 0 {
		return []*model.Certificate{}, nil
	}

	ids := make([]uuid.UUID, 0, len(visitors))
	for _, v := range visitors {
		ids = append(ids, v.ID)
	}
	return s.repo.FindByVisitors(ctx, ids)
}

func (s *certificateService) GetAll(ctx context.Context, actor Actor, filter model.CertificateFilter) ([]*model.Certificate, *response.Pagination, error) {
	if !actor.IsMaster() {
		tenantID, err := actor.scopeTenant()
		if err != nil {
			return nil, nil, err
		}
		filter.TenantID = tenantID.String()
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 10
	}

	certs, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	return certs, paginate(filter.Page, filter.PerPage, total), nil
}

func (s *certificateService) Verify(ctx context.Context, code string) (*model.VerifyResponse, error) {
	code = utils.NormalizeCertificateCode(code)
	if code == "" {
		return nil, ErrCertificateNotFound
	}

	cert, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, ErrCertificateNotFound
	}

	resp := &model.VerifyResponse{
		Valid:       cert.Status == model.CertificateValid,
		Type:        cert.Type,
		Metadata:    cert.Metadata,
		GeneratedAt: cert.GeneratedAt,
		Revoked:     cert.Status == model.CertificateRevoked,
	}
	if cert.VisitorName != nil {
		resp.VisitorName = *cert.VisitorName
	}
	if cert.TenantName != nil {
		resp.TenantName = *cert.TenantName
	}
	return resp, nil
}

// RenderPDF menghasilkan PDF sertifikat beserta nama file unduhan
func (s *certificateService) RenderPDF(ctx context.Context, id string) ([]byte, string, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, "", err
	}

	ctx, span := tracer.Start(ctx, "CertificateService.RenderPDF", trace.WithAttributes(
		attribute.String("certificate_id", uid.String()),
	))
	defer span.End()

	cert, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, "", err
	}
	if cert == nil {
		return nil, "", ErrCertificateNotFound
	}

	data, _, _, err := s.renderData(ctx, cert)
	if err != nil {
		return nil, "", err
	}

	layout := "default"
	if data.Template != nil {
		layout = "template"
	}
	span.SetAttributes(attribute.String("layout", layout))

	start := time.Now()
	pdf, err := s.renderer.Render(ctx, data)
	s.metrics.ObserveRender(layout, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		return nil, "", fmt.Errorf("gagal membuat PDF: %w", err)
	}

	return pdf, fmt.Sprintf("certificado-%s.pdf", cert.ID), nil
}

// renderData me-resolve visitor, tenant, trail/acara, dan template untuk renderer
func (s *certificateService) renderData(ctx context.Context, cert *model.Certificate) (utils.CertificateRenderData, *model.Tenant, *model.Event, error) {
	data := utils.CertificateRenderData{
		Code:          cert.Code,
		Type:          cert.Type,
		GeneratedAt:   cert.GeneratedAt,
		Title:         cert.Metadata.Title,
		CulturalHours: cert.Metadata.Hours,
		VerifyURL:     utils.VerifyURL(s.frontendURL, cert.Code),
	}

	visitor, err := s.visitorRepo.FindByID(ctx, cert.VisitorID)
	if err != nil {
		return data, nil, nil, err
	}
	data.VisitorName = visitor.DisplayName()

	tenant, err := s.tenantRepo.FindByID(ctx, cert.TenantID)
	if err != nil {
		return data, nil, nil, err
	}
	if tenant != nil {
		data.TenantName = tenant.Name
		if tenant.CertificateBackgroundURL != nil {
			data.BackgroundURL = *tenant.CertificateBackgroundURL
		}
	}

	var event *model.Event
	if cert.RelatedID != nil {
		switch cert.Type {
		case model.CertificateEvent:
			event, err = s.eventRepo.FindByID(ctx, *cert.RelatedID)
			if err != nil {
				return data, nil, nil, err
			}
			if event != nil {
				if data.Title == "" {
					data.Title = event.Title
				}
				if data.CulturalHours == nil {
					data.CulturalHours = event.CulturalHours
				}
				if event.CertificateBackgroundURL != nil && *event.CertificateBackgroundURL != "" {
					data.BackgroundURL = *event.CertificateBackgroundURL
				}
			}
		case model.CertificateTrail:
			if data.Title == "" {
				trail, err := s.trailRepo.FindByID(ctx, *cert.RelatedID)
				if err != nil {
					return data, nil, nil, err
				}
				if trail != nil {
					data.Title = trail.Title
				}
			}
		}
	}

	if cert.TemplateID != nil {
		tpl, err := s.templateRepo.FindByID(ctx, *cert.TemplateID)
		if err != nil {
			return data, nil, nil, err
		}
		if tpl == nil {
			s.logger.Warn("certificate template missing, using default layout",
				zap.String("certificate_id", cert.ID.String()),
				zap.String("template_id", cert.TemplateID.String()),
			)
		}
		data.Template = tpl
	}

	return data, tenant, event, nil
}

func (s *certificateService) Revoke(ctx context.Context, actor Actor, id string) (*model.Certificate, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	cert, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, ErrCertificateNotFound
	}
	if err := actor.requireManage(cert.TenantID); err != nil {
		return nil, err
	}

	if cert.Status != model.CertificateValid {
		return nil, ErrCertificateNotRevocable
	}

	if err := s.repo.UpdateStatus(ctx, cert.ID, model.CertificateRevoked); err != nil {
		return nil, err
	}
	cert.Status = model.CertificateRevoked

	s.logger.Info("certificate revoked",
		zap.String("certificate_id", cert.ID.String()),
		zap.String("by", actor.UserID.String()),
	)
	return cert, nil
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// SendEmail mengirim sertifikat partisipasi acara sebagai lampiran PDF
func (s *certificateService) SendEmail(ctx context.Context, actor Actor, id string, req model.EmailCertificateRequest) (*EmailResult, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	cert, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, ErrCertificateNotFound
	}

	visitor, err := s.visitorRepo.FindByID(ctx, cert.VisitorID)
	if err != nil {
		return nil, err
	}
	owner := visitor != nil && visitor.UserID != nil && *visitor.UserID == actor.UserID
	if !owner && !actor.CanManage(cert.TenantID) {
		return nil, forbidden("Anda tidak memiliki akses ke sertifikat ini")
	}

	if cert.Type != model.CertificateEvent || cert.RelatedID == nil {
		return nil, ErrCertificateNotEmailable
	}

	recipient, err := s.recipientFor(ctx, req.Email, visitor)
	if err != nil {
		return nil, err
	}

	data, tenant, event, err := s.renderData(ctx, cert)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}

	participation := utils.ParticipationRenderData{
		CertificateRenderData: data,
		EventDate:             event.StartDate,
	}
	if tenant != nil {
		if tenant.LogoURL != nil {
			participation.LogoURL = *tenant.LogoURL
		}
		if tenant.SignatureURL != nil {
			participation.SignatureURL = *tenant.SignatureURL
		}
	}

	start := time.Now()
	pdf, err := s.renderer.RenderParticipation(ctx, participation)
	s.metrics.ObserveRender("participation", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("gagal membuat PDF: %w", err)
	}

	title := data.Title
	msg := utils.EmailMessage{
		To:      recipient,
		Subject: "Seu Certificado: " + title,
		HTML: fmt.Sprintf(
			`<p>Olá <strong>%s</strong>,</p><p>Obrigado por participar do evento "<strong>%s</strong>".</p><p>Seu certificado está em anexo.</p><br><p>Atenciosamente,<br>%s</p>`,
			html.EscapeString(data.VisitorName), html.EscapeString(title), html.EscapeString(data.TenantName),
		),
		Attachments: []utils.Attachment{{
			FileName:    fmt.Sprintf("Certificado_%s.pdf", whitespaceRun.ReplaceAllString(title, "_")),
			ContentType: "application/pdf",
			Data:        pdf,
		}},
	}

	delivered, err := s.mailer.Send(ctx, msg)
	if err != nil {
		s.metrics.IncrEmail("failed")
		return nil, fmt.Errorf("gagal mengirim email: %w", err)
	}
	if delivered {
		s.metrics.IncrEmail("sent")
	} else {
		s.metrics.IncrEmail("mock")
	}

	return &EmailResult{Recipient: recipient, Delivered: delivered}, nil
}

func (s *certificateService) recipientFor(ctx context.Context, requested string, visitor *model.Visitor) (string, error) {
	if requested != "" {
		return requested, nil
	}
	if visitor == nil {
		return "", ErrNoRecipient
	}
	if visitor.Email != nil && *visitor.Email != "" {
		return *visitor.Email, nil
	}
	if visitor.UserID != nil {
		user, err := s.userRepo.FindByID(ctx, *visitor.UserID)
		if err != nil {
			return "", err
		}
		if user != nil && user.Email != "" {
			return user.Email, nil
		}
	}
	return "", ErrNoRecipient
}

func paginate(page, perPage int, total int64) *response.Pagination {
	totalPages := int(total) / perPage
	if int(total)%perPage > 0 {
		totalPages++
	}
	return &response.Pagination{
		Page: page, PerPage: perPage,
		TotalItems: total, TotalPages: totalPages,
	}
}
