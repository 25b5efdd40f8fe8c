package service

import (
	"context"
	"time"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/ahmadqo/museum-engagement-ledger/internal/utils"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

//go:generate mockgen -destination=mock_certificate_engine_test.go -package=service . RuleSource,CertificateStore

// RuleSource membaca rule aktif milik tenant
type RuleSource interface {
	FindActiveByTrigger(ctx context.Context, tenantID uuid.UUID, trigger model.TriggerType) ([]*model.CertificateRule, error)
}

// CertificateStore menyimpan sertifikat hasil rule.
// CreateForRule mengembalikan false bila (visitor, ruleId) sudah punya sertifikat.
type CertificateStore interface {
	ExistsForRule(ctx context.Context, visitorID uuid.UUID, ruleID string) (bool, error)
	CreateForRule(ctx context.Context, cert *model.Certificate) (bool, error)
}

// EvalContext adalah konteks kejadian yang dievaluasi terhadap rule
type EvalContext struct {
	TenantID  uuid.UUID
	VisitorID uuid.UUID
	TrailID   *uuid.UUID
	EventID   *uuid.UUID
	NewXP     *int64
}

// RuleEvaluator dipanggil service yang mendeteksi trail selesai, check-in acara, atau perubahan XP
type RuleEvaluator interface {
	Evaluate(ctx context.Context, trigger model.TriggerType, ec EvalContext) error
}

type CertificateEngine struct {
	rules   RuleSource
	store   CertificateStore
	logger  *zap.Logger
	metrics Metrics

	now     func() time.Time
	newCode func() (string, error)
}

func NewCertificateEngine(rules RuleSource, store CertificateStore, logger *zap.Logger, metrics Metrics) *CertificateEngine {
	return &CertificateEngine{
		rules:   rules,
		store:   store,
		logger:  logger,
		metrics: metricsOrNoop(metrics),
		now:     time.Now,
		newCode: utils.GenerateCertificateCode,
	}
}

// Evaluate menerbitkan paling banyak satu sertifikat per (visitor, rule) untuk setiap rule yang cocok.
// Error database dikembalikan; sertifikat dari rule sebelumnya tetap tersimpan.
func (e *CertificateEngine) Evaluate(ctx context.Context, trigger model.TriggerType, ec EvalContext) error {
	ctx, span := tracer.Start(ctx, "CertificateEngine.Evaluate", trace.WithAttributes(
		attribute.String("trigger", string(trigger)),
		attribute.String("tenant_id", ec.TenantID.String()),
		attribute.String("visitor_id", ec.VisitorID.String()),
	))
	defer span.End()

	rules, err := e.rules.FindActiveByTrigger(ctx, ec.TenantID, trigger)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rule lookup failed")
		return err
	}
	span.SetAttributes(attribute.Int("rules", len(rules)))

	for _, rule := range rules {
		conds, err := model.ParseRuleConditions(trigger, rule.Conditions)
		if err != nil {
			e.logger.Warn("skipping rule with invalid conditions",
				zap.String("rule_id", rule.ID.String()),
				zap.Error(err),
			)
			e.metrics.IncrRuleEvaluation(string(trigger), "invalid")
			continue
		}

		if !matches(trigger, conds, ec) {
			e.metrics.IncrRuleEvaluation(string(trigger), "no_match")
			continue
		}

		if err := e.issue(ctx, trigger, rule, ec); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "issuance failed")
			return err
		}
	}
	return nil
}

func matches(trigger model.TriggerType, conds model.RuleConditions, ec EvalContext) bool {
	switch trigger {
	case model.TriggerTrailCompleted:
		return conds.TrailID == nil || (ec.TrailID != nil && *ec.TrailID == *conds.TrailID)
	case model.TriggerEventAttended:
		return conds.EventID == nil || (ec.EventID != nil && *ec.EventID == *conds.EventID)
	case model.TriggerXPThreshold:
		return conds.MinXP != nil && ec.NewXP != nil && *ec.NewXP >= *conds.MinXP
	}
	return false
}

func (e *CertificateEngine) issue(ctx context.Context, trigger model.TriggerType, rule *model.CertificateRule, ec EvalContext) error {
	ruleID := rule.ID.String()
	log := e.logger.With(
		zap.String("rule_id", ruleID),
		zap.String("visitor_id", ec.VisitorID.String()),
	)

	exists, err := e.store.ExistsForRule(ctx, ec.VisitorID, ruleID)
	if err != nil {
		return err
	}
	if exists {
		log.Debug("certificate already issued for rule, skipping")
		e.metrics.IncrRuleEvaluation(string(trigger), "duplicate")
		return nil
	}

	code, err := e.newCode()
	if err != nil {
		return err
	}

	certType, relatedID := certificateTarget(trigger, ec)
	cert := &model.Certificate{
		ID:         uuid.New(),
		Code:       code,
		VisitorID:  ec.VisitorID,
		TenantID:   ec.TenantID,
		Type:       certType,
		RelatedID:  relatedID,
		TemplateID: rule.ActionTemplateID,
		Metadata: model.CertificateMetadata{
			RuleID:  ruleID,
			Trigger: string(trigger),
			Title:   rule.Name,
		},
		Status:      model.CertificateValid,
		GeneratedAt: e.now(),
	}

	created, err := e.store.CreateForRule(ctx, cert)
	if err != nil {
		return err
	}
	if !created {
		log.Info("certificate issued concurrently for rule, skipping")
		e.metrics.IncrRuleEvaluation(string(trigger), "duplicate")
		return nil
	}

	log.Info("certificate issued by rule",
		zap.String("certificate_id", cert.ID.String()),
		zap.String("code", cert.Code),
		zap.String("type", string(cert.Type)),
	)
	e.metrics.IncrRuleEvaluation(string(trigger), "issued")
	e.metrics.IncrCertificateIssued("rule")
	return nil
}

func certificateTarget(trigger model.TriggerType, ec EvalContext) (model.CertificateType, *uuid.UUID) {
	switch trigger {
	case model.TriggerTrailCompleted:
		return model.CertificateTrail, ec.TrailID
	case model.TriggerEventAttended:
		return model.CertificateEvent, ec.EventID
	}
	return model.CertificateCustom, nil
}

// evaluateAndLog menjalankan rule engine setelah aksi utama berhasil; kegagalan hanya dicatat
func evaluateAndLog(ctx context.Context, engine RuleEvaluator, logger *zap.Logger, trigger model.TriggerType, ec EvalContext) {
	if engine == nil {
		return
	}
	if err := engine.Evaluate(ctx, trigger, ec); err != nil {
		logger.Error("certificate rule evaluation failed",
			zap.String("trigger", string(trigger)),
			zap.String("visitor_id", ec.VisitorID.String()),
			zap.Error(err),
		)
	}
}
