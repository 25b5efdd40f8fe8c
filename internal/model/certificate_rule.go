package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type TriggerType string

const (
	TriggerTrailCompleted TriggerType = "TRAIL_COMPLETED"
	TriggerEventAttended  TriggerType = "EVENT_ATTENDED"
	TriggerXPThreshold    TriggerType = "XP_THRESHOLD"
)

func (t TriggerType) Valid() bool {
	switch t {
	case TriggerTrailCompleted, TriggerEventAttended, TriggerXPThreshold:
		return true
	}
	return false
}

var ErrInvalidConditions = errors.New("conditions tidak valid")

type CertificateRule struct {
	ID               uuid.UUID   `db:"id"                 json:"id"`
	TenantID         uuid.UUID   `db:"tenant_id"          json:"tenant_id"`
	Name             string      `db:"name"               json:"name"`
	TriggerType      TriggerType `db:"trigger_type"       json:"trigger_type"`
	Conditions       RawJSON     `db:"conditions"         json:"conditions"`
	ActionTemplateID *uuid.UUID  `db:"action_template_id" json:"action_template_id"`
	Active           bool        `db:"active"             json:"active"`
	CreatedAt        time.Time   `db:"created_at"         json:"created_at"`
	UpdatedAt        time.Time   `db:"updated_at"         json:"updated_at"`
}

// RuleConditions adalah bentuk bertipe dari payload conditions.
// Hanya field yang relevan dengan trigger rule yang terisi.
type RuleConditions struct {
	TrailID *uuid.UUID
	EventID *uuid.UUID
	MinXP   *int64
}

type rawConditions struct {
	TrailID *string `json:"trail_id"`
	EventID *string `json:"event_id"`
	MinXP   *int64  `json:"min_xp"`
}

// ParseRuleConditions membaca conditions sesuai trigger.
// trail_id / event_id kosong diperlakukan sebagai wildcard.
func ParseRuleConditions(trigger TriggerType, raw []byte) (RuleConditions, error) {
	var out RuleConditions
	if !trigger.Valid() {
		return out, fmt.Errorf("%w: trigger %q tidak dikenal", ErrInvalidConditions, trigger)
	}

	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return out, nil
	}

	var rc rawConditions
	if err := json.Unmarshal([]byte(trimmed), &rc); err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidConditions, err)
	}

	switch trigger {
	case TriggerTrailCompleted:
		id, err := parseOptionalUUID(rc.TrailID)
		if err != nil {
			return out, fmt.Errorf("%w: trail_id %v", ErrInvalidConditions, err)
		}
		out.TrailID = id
	case TriggerEventAttended:
		id, err := parseOptionalUUID(rc.EventID)
		if err != nil {
			return out, fmt.Errorf("%w: event_id %v", ErrInvalidConditions, err)
		}
		out.EventID = id
	case TriggerXPThreshold:
		if rc.MinXP != nil && *rc.MinXP < 0 {
			return out, fmt.Errorf("%w: min_xp tidak boleh negatif", ErrInvalidConditions)
		}
		out.MinXP = rc.MinXP
	}

	return out, nil
}

func parseOptionalUUID(s *string) (*uuid.UUID, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*s))
	if err != nil {
		return nil, err
	}
	return &id, nil
}

type CertificateRuleRequest struct {
	Name             string          `json:"name"               validate:"required,max=150"`
	TriggerType      string          `json:"trigger_type"       validate:"required,oneof=TRAIL_COMPLETED EVENT_ATTENDED XP_THRESHOLD"`
	Conditions       json.RawMessage `json:"conditions"`
	ActionTemplateID string          `json:"action_template_id" validate:"omitempty,uuid"`
	Active           *bool           `json:"active"`
}
