package service

import (
	"context"
	"sort"
	"sync"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/ahmadqo/museum-engagement-ledger/internal/repository"
	"github.com/ahmadqo/museum-engagement-ledger/internal/utils"
	"github.com/google/uuid"
)

// Fake in-memory; method yang tidak dipakai test jatuh ke interface embedded (nil) dan panic.

type fakeCertificateRepo struct {
	repository.CertificateRepository
	mu    sync.Mutex
	certs map[uuid.UUID]*model.Certificate
	names map[uuid.UUID]string // visitor name
	tname map[uuid.UUID]string // tenant name
}

func newFakeCertificateRepo() *fakeCertificateRepo {
	return &fakeCertificateRepo{
		certs: map[uuid.UUID]*model.Certificate{},
		names: map[uuid.UUID]string{},
		tname: map[uuid.UUID]string{},
	}
}

func (f *fakeCertificateRepo) withJoins(c *model.Certificate) *model.Certificate {
	cp := *c
	if n, ok := f.names[c.VisitorID]; ok {
		cp.VisitorName = &n
	}
	if n, ok := f.tname[c.TenantID]; ok {
		cp.TenantName = &n
	}
	return &cp
}

func (f *fakeCertificateRepo) FindAll(_ context.Context, filter model.CertificateFilter) ([]*model.Certificate, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Certificate
	for _, c := range f.certs {
		if filter.TenantID != "" && c.TenantID.String() != filter.TenantID {
			continue
		}
		if filter.Status != "" && string(c.Status) != filter.Status {
			continue
		}
		out = append(out, f.withJoins(c))
	}
	return out, int64(len(out)), nil
}

func (f *fakeCertificateRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Certificate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.certs[id]
	if !ok {
		return nil, nil
	}
	return f.withJoins(c), nil
}

func (f *fakeCertificateRepo) FindByCode(_ context.Context, code string) (*model.Certificate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.certs {
		if c.Code == code {
			return f.withJoins(c), nil
		}
	}
	return nil, nil
}

func (f *fakeCertificateRepo) FindByVisitors(_ context.Context, ids []uuid.UUID) ([]*model.Certificate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := map[uuid.UUID]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []*model.Certificate
	for _, c := range f.certs {
		if want[c.VisitorID] {
			out = append(out, f.withJoins(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GeneratedAt.After(out[j].GeneratedAt) })
	return out, nil
}

func (f *fakeCertificateRepo) FindByVisitorTypeRelated(_ context.Context, visitorID uuid.UUID, t model.CertificateType, relatedID uuid.UUID) (*model.Certificate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.certs {
		if c.VisitorID == visitorID && c.Type == t && c.RelatedID != nil && *c.RelatedID == relatedID {
			return f.withJoins(c), nil
		}
	}
	return nil, nil
}

func (f *fakeCertificateRepo) CountByVisitor(_ context.Context, visitorID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, c := range f.certs {
		if c.VisitorID == visitorID {
			n++
		}
	}
	return n, nil
}

func (f *fakeCertificateRepo) Create(_ context.Context, cert *model.Certificate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *cert
	f.certs[cert.ID] = &cp
	return nil
}

func (f *fakeCertificateRepo) CreateDirect(_ context.Context, cert *model.Certificate) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.certs {
		if c.Metadata.RuleID == "" && c.VisitorID == cert.VisitorID && c.Type == cert.Type &&
			c.RelatedID != nil && cert.RelatedID != nil && *c.RelatedID == *cert.RelatedID {
			return false, nil
		}
	}
	cp := *cert
	f.certs[cert.ID] = &cp
	return true, nil
}

func (f *fakeCertificateRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.CertificateStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.certs[id]; ok {
		c.Status = status
	}
	return nil
}

func (f *fakeCertificateRepo) ExistsForRule(_ context.Context, visitorID uuid.UUID, ruleID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.certs {
		if c.VisitorID == visitorID && c.Metadata.RuleID == ruleID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCertificateRepo) CreateForRule(_ context.Context, cert *model.Certificate) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.certs {
		if c.VisitorID == cert.VisitorID && c.Metadata.RuleID == cert.Metadata.RuleID {
			return false, nil
		}
	}
	cp := *cert
	f.certs[cert.ID] = &cp
	return true, nil
}

func (f *fakeCertificateRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.certs)
}

type fakeVisitorRepo struct {
	repository.VisitorRepository
	mu       sync.Mutex
	visitors map[uuid.UUID]*model.Visitor
	visits   []*model.VisitorVisit
	stamps   map[[2]uuid.UUID]bool
}

func newFakeVisitorRepo() *fakeVisitorRepo {
	return &fakeVisitorRepo{visitors: map[uuid.UUID]*model.Visitor{}, stamps: map[[2]uuid.UUID]bool{}}
}

func (f *fakeVisitorRepo) add(v *model.Visitor) *model.Visitor {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *v
	f.visitors[v.ID] = &cp
	return v
}

func (f *fakeVisitorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Visitor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.visitors[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (f *fakeVisitorRepo) FindByUserAndTenant(_ context.Context, userID, tenantID uuid.UUID) (*model.Visitor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.visitors {
		if v.UserID != nil && *v.UserID == userID && v.TenantID == tenantID {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeVisitorRepo) FindByUser(_ context.Context, userID uuid.UUID) ([]*model.Visitor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Visitor
	for _, v := range f.visitors {
		if v.UserID != nil && *v.UserID == userID {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeVisitorRepo) FindAnonymous(_ context.Context, tenantID uuid.UUID) (*model.Visitor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.visitors {
		if v.TenantID == tenantID && v.UserID == nil && v.Email == nil {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeVisitorRepo) Create(_ context.Context, v *model.Visitor) error {
	f.add(v)
	return nil
}

func (f *fakeVisitorRepo) UpdateProfile(_ context.Context, v *model.Visitor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cur, ok := f.visitors[v.ID]; ok {
		cur.Name = v.Name
		cur.PhotoURL = v.PhotoURL
	}
	return nil
}

func (f *fakeVisitorRepo) RecordVisit(_ context.Context, visit *model.VisitorVisit) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visits = append(f.visits, visit)
	v := f.visitors[visit.VisitorID]
	v.XP += visit.XPGained
	return v.XP, nil
}

func (f *fakeVisitorRepo) RecordQRVisit(_ context.Context, visit *model.VisitorVisit) (int64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visits = append(f.visits, visit)
	v := f.visitors[visit.VisitorID]
	v.XP += visit.XPGained

	stamped := false
	if visit.WorkID != nil {
		key := [2]uuid.UUID{visit.VisitorID, *visit.WorkID}
		if !f.stamps[key] {
			f.stamps[key] = true
			stamped = true
		}
	}
	return v.XP, stamped, nil
}

func (f *fakeVisitorRepo) Activity(_ context.Context, visitorID uuid.UUID) (*repository.VisitorActivity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := &repository.VisitorActivity{}
	for _, visit := range f.visits {
		if visit.VisitorID == visitorID {
			a.Visits++
		}
	}
	for key := range f.stamps {
		if key[0] == visitorID {
			a.Stamps++
		}
	}
	return a, nil
}

func (f *fakeVisitorRepo) TopByXP(_ context.Context, tenantID uuid.UUID, limit int) ([]model.LeaderboardEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.LeaderboardEntry
	for _, v := range f.visitors {
		if v.TenantID == tenantID {
			out = append(out, model.LeaderboardEntry{VisitorID: v.ID, Name: v.Name, XP: v.XP})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].XP > out[j].XP })
	if len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

func (f *fakeVisitorRepo) CountAboveXP(_ context.Context, tenantID uuid.UUID, xp int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, v := range f.visitors {
		if v.TenantID == tenantID && v.XP > xp {
			n++
		}
	}
	return n, nil
}

type fakeUserRepo struct {
	repository.UserRepository
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	f := &fakeUserRepo{users: map[uuid.UUID]*model.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	f.users[u.ID] = u
	return nil
}

type fakeTenantRepo struct {
	repository.TenantRepository
	tenants map[uuid.UUID]*model.Tenant
}

func newFakeTenantRepo(tenants ...*model.Tenant) *fakeTenantRepo {
	f := &fakeTenantRepo{tenants: map[uuid.UUID]*model.Tenant{}}
	for _, t := range tenants {
		f.tenants[t.ID] = t
	}
	return f
}

func (f *fakeTenantRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Tenant, error) {
	return f.tenants[id], nil
}

type fakeEventRepo struct {
	repository.EventRepository
	events     map[uuid.UUID]*model.Event
	attendance map[[2]uuid.UUID]bool
}

func newFakeEventRepo(events ...*model.Event) *fakeEventRepo {
	f := &fakeEventRepo{events: map[uuid.UUID]*model.Event{}, attendance: map[[2]uuid.UUID]bool{}}
	for _, e := range events {
		f.events[e.ID] = e
	}
	return f
}

func (f *fakeEventRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Event, error) {
	return f.events[id], nil
}

func (f *fakeEventRepo) AddAttendance(_ context.Context, eventID, visitorID uuid.UUID) (bool, error) {
	key := [2]uuid.UUID{eventID, visitorID}
	if f.attendance[key] {
		return false, nil
	}
	f.attendance[key] = true
	return true, nil
}

type fakeTrailRepo struct {
	repository.TrailRepository
	trails map[uuid.UUID]*model.Trail
}

func newFakeTrailRepo(trails ...*model.Trail) *fakeTrailRepo {
	f := &fakeTrailRepo{trails: map[uuid.UUID]*model.Trail{}}
	for _, t := range trails {
		f.trails[t.ID] = t
	}
	return f
}

func (f *fakeTrailRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Trail, error) {
	return f.trails[id], nil
}

type fakeTemplateRepo struct {
	repository.CertificateTemplateRepository
	templates map[uuid.UUID]*model.CertificateTemplate
}

func newFakeTemplateRepo(templates ...*model.CertificateTemplate) *fakeTemplateRepo {
	f := &fakeTemplateRepo{templates: map[uuid.UUID]*model.CertificateTemplate{}}
	for _, t := range templates {
		f.templates[t.ID] = t
	}
	return f
}

func (f *fakeTemplateRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CertificateTemplate, error) {
	return f.templates[id], nil
}

func (f *fakeTemplateRepo) Create(_ context.Context, t *model.CertificateTemplate) error {
	f.templates[t.ID] = t
	return nil
}

type fakeRuleRepo struct {
	repository.CertificateRuleRepository
	rules map[uuid.UUID]*model.CertificateRule
}

func newFakeRuleRepo(rules ...*model.CertificateRule) *fakeRuleRepo {
	f := &fakeRuleRepo{rules: map[uuid.UUID]*model.CertificateRule{}}
	for _, r := range rules {
		f.rules[r.ID] = r
	}
	return f
}

func (f *fakeRuleRepo) FindActiveByTrigger(_ context.Context, tenantID uuid.UUID, trigger model.TriggerType) ([]*model.CertificateRule, error) {
	var out []*model.CertificateRule
	for _, r := range f.rules {
		if r.TenantID == tenantID && r.TriggerType == trigger && r.Active {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRuleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CertificateRule, error) {
	return f.rules[id], nil
}

func (f *fakeRuleRepo) Create(_ context.Context, r *model.CertificateRule) error {
	f.rules[r.ID] = r
	return nil
}

func (f *fakeRuleRepo) Update(_ context.Context, r *model.CertificateRule) error {
	f.rules[r.ID] = r
	return nil
}

type fakeQRRepo struct {
	repository.QRCodeRepository
	codes map[string]*model.QRCode
}

func newFakeQRRepo(codes ...*model.QRCode) *fakeQRRepo {
	f := &fakeQRRepo{codes: map[string]*model.QRCode{}}
	for _, c := range codes {
		f.codes[c.Code] = c
	}
	return f
}

func (f *fakeQRRepo) FindByCode(_ context.Context, code string) (*model.QRCode, error) {
	return f.codes[code], nil
}

type fakeWorkRepo struct {
	repository.WorkRepository
	works map[uuid.UUID]*model.Work
}

func newFakeWorkRepo(works ...*model.Work) *fakeWorkRepo {
	f := &fakeWorkRepo{works: map[uuid.UUID]*model.Work{}}
	for _, w := range works {
		f.works[w.ID] = w
	}
	return f
}

func (f *fakeWorkRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Work, error) {
	return f.works[id], nil
}

func (f *fakeWorkRepo) CountByTenant(_ context.Context, tenantID uuid.UUID) (int, error) {
	n := 0
	for _, w := range f.works {
		if w.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

func (f *fakeWorkRepo) Create(_ context.Context, w *model.Work) error {
	f.works[w.ID] = w
	return nil
}

type fakeRenderer struct {
	mu            sync.Mutex
	last          utils.CertificateRenderData
	participation utils.ParticipationRenderData
}

func (r *fakeRenderer) Render(_ context.Context, data utils.CertificateRenderData) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = data
	return []byte("%PDF-1.3 fake"), nil
}

func (r *fakeRenderer) RenderParticipation(_ context.Context, data utils.ParticipationRenderData) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.participation = data
	return []byte("%PDF-1.3 participation"), nil
}

type fakeMailer struct {
	sent      []utils.EmailMessage
	delivered bool
}

func (m *fakeMailer) Send(_ context.Context, msg utils.EmailMessage) (bool, error) {
	m.sent = append(m.sent, msg)
	return m.delivered, nil
}
