package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type certFixture struct {
	svc      CertificateService
	certs    *fakeCertificateRepo
	visitors *fakeVisitorRepo
	users    *fakeUserRepo
	events   *fakeEventRepo
	trails   *fakeTrailRepo
	renderer *fakeRenderer
	mailer   *fakeMailer

	tenant  *model.Tenant
	user    *model.User
	visitor *model.Visitor
	event   *model.Event
	trail   *model.Trail
}

func newCertFixture(t *testing.T) *certFixture {
	t.Helper()

	bg := "https://cdn.example.com/tenant-bg.png"
	logo := "https://cdn.example.com/logo.png"
	tenant := &model.Tenant{ID: uuid.New(), Name: "Museu Nacional", CertificateBackgroundURL: &bg, LogoURL: &logo}
	user := &model.User{ID: uuid.New(), Name: "Ana Souza", Email: "ana@example.com", Role: model.RoleVisitor, TenantID: &tenant.ID, IsActive: true}
	hours := 4
	event := &model.Event{
		ID: uuid.New(), TenantID: tenant.ID, Title: "Noite   dos Museus",
		StartDate: time.Date(2025, 5, 18, 19, 0, 0, 0, time.UTC), CulturalHours: &hours,
	}
	trail := &model.Trail{ID: uuid.New(), TenantID: tenant.ID, Title: "Arte Moderna"}

	name := user.Name
	visitor := &model.Visitor{ID: uuid.New(), TenantID: tenant.ID, UserID: &user.ID, Name: &name}

	f := &certFixture{
		certs:    newFakeCertificateRepo(),
		visitors: newFakeVisitorRepo(),
		users:    newFakeUserRepo(user),
		events:   newFakeEventRepo(event),
		trails:   newFakeTrailRepo(trail),
		renderer: &fakeRenderer{},
		mailer:   &fakeMailer{},
		tenant:   tenant, user: user, visitor: visitor, event: event, trail: trail,
	}
	f.visitors.add(visitor)
	f.certs.names[visitor.ID] = name
	f.certs.tname[tenant.ID] = tenant.Name

	f.svc = NewCertificateService(
		f.certs, f.visitors, f.users, newFakeTenantRepo(tenant), f.trails, f.events,
		newFakeTemplateRepo(), f.renderer, f.mailer, zap.NewNop(), nil, "https://app.example.com",
	)
	return f
}

func (f *certFixture) visitorActor() Actor {
	return NewActor(f.user.ID.String(), string(model.RoleVisitor), f.tenant.ID.String())
}

func (f *certFixture) adminActor() Actor {
	return NewActor(uuid.NewString(), string(model.RoleAdmin), f.tenant.ID.String())
}

func TestGenerateIsIdempotentPerRelatedItem(t *testing.T) {
	f := newCertFixture(t)
	ctx := context.Background()
	req := model.GenerateCertificateRequest{Type: "EVENT", RelatedID: f.event.ID.String()}

	first, created, err := f.svc.Generate(ctx, f.visitorActor(), req)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, model.CertificateEvent, first.Type)
	assert.Equal(t, f.visitor.ID, first.VisitorID)
	assert.Equal(t, "Noite   dos Museus", first.Metadata.Title)
	require.NotNil(t, first.Metadata.Hours)
	assert.Equal(t, 4, *first.Metadata.Hours)

	second, created, err := f.svc.Generate(ctx, f.visitorActor(), req)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, f.certs.count())
}

// racingCertificateRepo menyisipkan sertifikat pesaing setelah cek awal,
// meniru dua request generate paralel untuk item yang sama.
type racingCertificateRepo struct {
	*fakeCertificateRepo
	t       *testing.T
	rival   *model.Certificate
	lookups int
}

func (r *racingCertificateRepo) FindByVisitorTypeRelated(ctx context.Context, visitorID uuid.UUID, t model.CertificateType, relatedID uuid.UUID) (*model.Certificate, error) {
	r.lookups++
	if r.lookups == 1 {
		require.NoError(r.t, r.fakeCertificateRepo.Create(ctx, r.rival))
		return nil, nil
	}
	return r.fakeCertificateRepo.FindByVisitorTypeRelated(ctx, visitorID, t, relatedID)
}

func TestGenerateConcurrentInsertReturnsExisting(t *testing.T) {
	f := newCertFixture(t)
	rival := &model.Certificate{
		ID: uuid.New(), Code: "RIVL-CERT-0001", VisitorID: f.visitor.ID, TenantID: f.tenant.ID,
		Type: model.CertificateEvent, RelatedID: &f.event.ID, Status: model.CertificateValid,
		GeneratedAt: time.Now(),
	}
	repo := &racingCertificateRepo{fakeCertificateRepo: f.certs, t: t, rival: rival}
	svc := NewCertificateService(
		repo, f.visitors, f.users, newFakeTenantRepo(f.tenant), f.trails, f.events,
		newFakeTemplateRepo(), f.renderer, f.mailer, zap.NewNop(), nil, "https://app.example.com",
	)

	cert, created, err := svc.Generate(context.Background(), f.visitorActor(),
		model.GenerateCertificateRequest{Type: "EVENT", RelatedID: f.event.ID.String()})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, rival.ID, cert.ID)
	assert.Equal(t, 2, repo.lookups)
	assert.Equal(t, 1, f.certs.count())
}

func TestGenerateRejectsItemFromOtherTenant(t *testing.T) {
	f := newCertFixture(t)
	foreign := &model.Trail{ID: uuid.New(), TenantID: uuid.New(), Title: "Outra"}
	f.trails.trails[foreign.ID] = foreign

	_, _, err := f.svc.Generate(context.Background(), f.visitorActor(), model.GenerateCertificateRequest{
		Type: "TRAIL", RelatedID: foreign.ID.String(),
	})
	assert.ErrorIs(t, err, ErrTrailNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, f.certs.count())
}

func TestVerifyRoundTrip(t *testing.T) {
	f := newCertFixture(t)
	ctx := context.Background()

	cert, _, err := f.svc.Generate(ctx, f.visitorActor(), model.GenerateCertificateRequest{
		Type: "TRAIL", RelatedID: f.trail.ID.String(),
	})
	require.NoError(t, err)

	got, err := f.svc.Verify(ctx, strings.ToLower(cert.Code))
	require.NoError(t, err)
	assert.True(t, got.Valid)
	assert.False(t, got.Revoked)
	assert.Equal(t, "Ana Souza", got.VisitorName)
	assert.Equal(t, "Museu Nacional", got.TenantName)
	assert.Equal(t, model.CertificateTrail, got.Type)
	assert.Equal(t, "Arte Moderna", got.Metadata.Title)

	_, err = f.svc.Revoke(ctx, f.adminActor(), cert.ID.String())
	require.NoError(t, err)

	got, err = f.svc.Verify(ctx, cert.Code)
	require.NoError(t, err)
	assert.False(t, got.Valid)
	assert.True(t, got.Revoked)
}

func TestVerifyUnknownCode(t *testing.T) {
	f := newCertFixture(t)

	_, err := f.svc.Verify(context.Background(), "ZZZZ-ZZZZ-ZZZZ")
	assert.ErrorIs(t, err, ErrCertificateNotFound)

	_, err = f.svc.Verify(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrCertificateNotFound)
}

func TestRevoke(t *testing.T) {
	f := newCertFixture(t)
	ctx := context.Background()
	cert, _, err := f.svc.Generate(ctx, f.visitorActor(), model.GenerateCertificateRequest{
		Type: "EVENT", RelatedID: f.event.ID.String(),
	})
	require.NoError(t, err)

	t.Run("visitor cannot revoke", func(t *testing.T) {
		_, err := f.svc.Revoke(ctx, f.visitorActor(), cert.ID.String())
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin of another tenant cannot revoke", func(t *testing.T) {
		other := NewActor(uuid.NewString(), "ADMIN", uuid.NewString())
		_, err := f.svc.Revoke(ctx, other, cert.ID.String())
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin revokes once", func(t *testing.T) {
		revoked, err := f.svc.Revoke(ctx, f.adminActor(), cert.ID.String())
		require.NoError(t, err)
		assert.Equal(t, model.CertificateRevoked, revoked.Status)

		_, err = f.svc.Revoke(ctx, f.adminActor(), cert.ID.String())
		assert.ErrorIs(t, err, ErrCertificateNotRevocable)
		assert.ErrorIs(t, err, ErrBadInput)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := f.svc.Revoke(ctx, f.adminActor(), uuid.NewString())
		assert.ErrorIs(t, err, ErrCertificateNotFound)
	})
}

func TestRenderPDF(t *testing.T) {
	f := newCertFixture(t)
	ctx := context.Background()
	eventBg := "https://cdn.example.com/event-bg.png"
	f.event.CertificateBackgroundURL = &eventBg

	cert, _, err := f.svc.Generate(ctx, f.visitorActor(), model.GenerateCertificateRequest{
		Type: "EVENT", RelatedID: f.event.ID.String(),
	})
	require.NoError(t, err)

	pdf, filename, err := f.svc.RenderPDF(ctx, cert.ID.String())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))
	assert.Equal(t, "certificado-"+cert.ID.String()+".pdf", filename)

	data := f.renderer.last
	assert.Equal(t, cert.Code, data.Code)
	assert.Equal(t, "Ana Souza", data.VisitorName)
	assert.Equal(t, "Museu Nacional", data.TenantName)
	assert.Equal(t, eventBg, data.BackgroundURL)
	assert.Equal(t, "https://app.example.com/verify/"+cert.Code, data.VerifyURL)
	assert.Nil(t, data.Template)
}

func TestRenderPDFMissingTemplateFallsBack(t *testing.T) {
	f := newCertFixture(t)
	tplID := uuid.New()
	cert := &model.Certificate{
		ID: uuid.New(), Code: "ABCD-EFGH-JKLM", VisitorID: f.visitor.ID, TenantID: f.tenant.ID,
		Type: model.CertificateTrail, RelatedID: &f.trail.ID, TemplateID: &tplID,
		Status: model.CertificateValid, GeneratedAt: time.Now(),
	}
	require.NoError(t, f.certs.Create(context.Background(), cert))

	_, _, err := f.svc.RenderPDF(context.Background(), cert.ID.String())
	require.NoError(t, err)
	assert.Nil(t, f.renderer.last.Template)
	assert.Equal(t, "Arte Moderna", f.renderer.last.Title)
	assert.Equal(t, "https://cdn.example.com/tenant-bg.png", f.renderer.last.BackgroundURL)
}

func TestRenderPDFNotFound(t *testing.T) {
	f := newCertFixture(t)

	_, _, err := f.svc.RenderPDF(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrCertificateNotFound)

	_, _, err = f.svc.RenderPDF(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrBadInput)
}

func TestSendEmail(t *testing.T) {
	f := newCertFixture(t)
	ctx := context.Background()

	eventCert, _, err := f.svc.Generate(ctx, f.visitorActor(), model.GenerateCertificateRequest{
		Type: "EVENT", RelatedID: f.event.ID.String(),
	})
	require.NoError(t, err)

	t.Run("falls back to the account email and reports mock delivery", func(t *testing.T) {
		res, err := f.svc.SendEmail(ctx, f.visitorActor(), eventCert.ID.String(), model.EmailCertificateRequest{})
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", res.Recipient)
		assert.False(t, res.Delivered)

		require.Len(t, f.mailer.sent, 1)
		msg := f.mailer.sent[0]
		assert.Equal(t, "Seu Certificado: Noite   dos Museus", msg.Subject)
		require.Len(t, msg.Attachments, 1)
		assert.Equal(t, "Certificado_Noite_dos_Museus.pdf", msg.Attachments[0].FileName)
		assert.Equal(t, "application/pdf", msg.Attachments[0].ContentType)
		assert.Equal(t, "https://cdn.example.com/logo.png", f.renderer.participation.LogoURL)
		assert.Equal(t, f.event.StartDate, f.renderer.participation.EventDate)
	})

	t.Run("explicit recipient wins", func(t *testing.T) {
		f.mailer.delivered = true
		res, err := f.svc.SendEmail(ctx, f.adminActor(), eventCert.ID.String(), model.EmailCertificateRequest{Email: "outro@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "outro@example.com", res.Recipient)
		assert.True(t, res.Delivered)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		stranger := NewActor(uuid.NewString(), "VISITOR", f.tenant.ID.String())
		_, err := f.svc.SendEmail(ctx, stranger, eventCert.ID.String(), model.EmailCertificateRequest{})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("trail certificates are not emailed", func(t *testing.T) {
		trailCert, _, err := f.svc.Generate(ctx, f.visitorActor(), model.GenerateCertificateRequest{
			Type: "TRAIL", RelatedID: f.trail.ID.String(),
		})
		require.NoError(t, err)

		_, err = f.svc.SendEmail(ctx, f.visitorActor(), trailCert.ID.String(), model.EmailCertificateRequest{})
		assert.ErrorIs(t, err, ErrCertificateNotEmailable)
	})
}

func TestMineCollectsAcrossProfiles(t *testing.T) {
	f := newCertFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.Generate(ctx, f.visitorActor(), model.GenerateCertificateRequest{Type: "EVENT", RelatedID: f.event.ID.String()})
	require.NoError(t, err)

	otherTenant := uuid.New()
	otherProfile := f.visitors.add(&model.Visitor{ID: uuid.New(), TenantID: otherTenant, UserID: &f.user.ID})
	require.NoError(t, f.certs.Create(ctx, &model.Certificate{
		ID: uuid.New(), Code: "QRST-UVWX-YZ23", VisitorID: otherProfile.ID, TenantID: otherTenant,
		Type: model.CertificateCustom, Status: model.CertificateValid, GeneratedAt: time.Now().Add(time.Hour),
	}))

	mine, err := f.svc.Mine(ctx, f.visitorActor())
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "QRST-UVWX-YZ23", mine[0].Code)

	none, err := f.svc.Mine(ctx, NewActor(uuid.NewString(), "VISITOR", ""))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetAllScopesAdminToTenant(t *testing.T) {
	f := newCertFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.Generate(ctx, f.visitorActor(), model.GenerateCertificateRequest{Type: "EVENT", RelatedID: f.event.ID.String()})
	require.NoError(t, err)
	require.NoError(t, f.certs.Create(ctx, &model.Certificate{
		ID: uuid.New(), Code: "OTHR-TNNT-CERT", VisitorID: uuid.New(), TenantID: uuid.New(),
		Type: model.CertificateCustom, Status: model.CertificateValid,
	}))

	certs, pagination, err := f.svc.GetAll(ctx, f.adminActor(), model.CertificateFilter{})
	require.NoError(t, err)
	assert.Len(t, certs, 1)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 10, pagination.PerPage)
	assert.Equal(t, 1, pagination.TotalPages)

	all, _, err := f.svc.GetAll(ctx, NewActor(uuid.NewString(), "MASTER", ""), model.CertificateFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPaginate(t *testing.T) {
	p := paginate(2, 10, 21)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, int64(21), p.TotalItems)

	assert.Equal(t, 0, paginate(1, 10, 0).TotalPages)
	assert.Equal(t, 1, paginate(1, 10, 10).TotalPages)
}
