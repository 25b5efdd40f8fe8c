package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/ahmadqo/museum-engagement-ledger/internal/repository"
	"github.com/google/uuid"
)

var (
	ErrRuleNotFound     = notFound("Regra não encontrada")
	ErrTemplateNotFound = notFound("Template não encontrado")
)

type CertificateRuleService interface {
	GetAll(ctx context.Context, actor Actor, tenantID string) ([]*model.CertificateRule, error)
	GetByID(ctx context.Context, actor Actor, id string) (*model.CertificateRule, error)
	Create(ctx context.Context, actor Actor, req model.CertificateRuleRequest) (*model.CertificateRule, error)
	Update(ctx context.Context, actor Actor, id string, req model.CertificateRuleRequest) (*model.CertificateRule, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

type certificateRuleService struct {
	repo         repository.CertificateRuleRepository
	templateRepo repository.CertificateTemplateRepository
}

func NewCertificateRuleService(repo repository.CertificateRuleRepository, templateRepo repository.CertificateTemplateRepository) CertificateRuleService {
	return &certificateRuleService{repo: repo, templateRepo: templateRepo}
}

func (s *certificateRuleService) GetAll(ctx context.Context, actor Actor, tenantID string) ([]*model.CertificateRule, error) {
	tid, err := actor.targetTenant(tenantID)
	if err != nil {
		return nil, err
	}
	rules, err := s.repo.FindByTenant(ctx, tid)
	if err != nil {
		return nil, err
	}
	if rules == nil {
		rules = []*model.CertificateRule{}
	}
	return rules, nil
}

func (s *certificateRuleService) GetByID(ctx context.Context, actor Actor, id string) (*model.CertificateRule, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	rule, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, ErrRuleNotFound
	}
	if err := actor.requireManage(rule.TenantID); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *certificateRuleService) Create(ctx context.Context, actor Actor, req model.CertificateRuleRequest) (*model.CertificateRule, error) {
	tenantID, err := actor.scopeTenant()
	if err != nil {
		return nil, err
	}

	rule := &model.CertificateRule{ID: uuid.New(), TenantID: tenantID, Active: true}
	if err := s.apply(ctx, rule, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *certificateRuleService) Update(ctx context.Context, actor Actor, id string, req model.CertificateRuleRequest) (*model.CertificateRule, error) {
	rule, err := s.GetByID(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, rule, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *certificateRuleService) Delete(ctx context.Context, actor Actor, id string) error {
	rule, err := s.GetByID(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, rule.ID)
}

// apply memvalidasi conditions sesuai trigger dan template milik tenant yang sama
func (s *certificateRuleService) apply(ctx context.Context, rule *model.CertificateRule, req model.CertificateRuleRequest) error {
	trigger := model.TriggerType(req.TriggerType)
	if !trigger.Valid() {
		return badInputf("trigger_type %q tidak dikenal", req.TriggerType)
	}

	if _, err := model.ParseRuleConditions(trigger, req.Conditions); err != nil {
		if errors.Is(err, model.ErrInvalidConditions) {
			return badInput(err.Error())
		}
		return err
	}

	templateID, err := parseOptionalID("action_template_id", req.ActionTemplateID)
	if err != nil {
		return err
	}
	if templateID != nil {
		tpl, err := s.templateRepo.FindByID(ctx, *templateID)
		if err != nil {
			return err
		}
		if tpl == nil || tpl.TenantID != rule.TenantID {
			return ErrTemplateNotFound
		}
	}

	conditions := model.RawJSON(req.Conditions)
	if len(strings.TrimSpace(string(conditions))) == 0 || strings.TrimSpace(string(conditions)) == "null" {
		conditions = model.RawJSON("{}")
	}

	rule.Name = strings.TrimSpace(req.Name)
	rule.TriggerType = trigger
	rule.Conditions = conditions
	rule.ActionTemplateID = templateID
	if req.Active != nil {
		rule.Active = *req.Active
	}
	return nil
}
