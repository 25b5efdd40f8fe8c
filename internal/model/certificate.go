package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type CertificateType string

const (
	CertificateTrail  CertificateType = "TRAIL"
	CertificateEvent  CertificateType = "EVENT"
	CertificateCustom CertificateType = "CUSTOM"
)

type CertificateStatus string

const (
	CertificateValid   CertificateStatus = "VALID"
	CertificateRevoked CertificateStatus = "REVOKED"
)

// CertificateMetadata mencatat asal-usul penerbitan (rule, trigger, judul tampilan)
type CertificateMetadata struct {
	RuleID  string     `json:"ruleId,omitempty"`
	Trigger string     `json:"trigger,omitempty"`
	Title   string     `json:"title,omitempty"`
	Date    *time.Time `json:"date,omitempty"`
	Hours   *int       `json:"hours,omitempty"`
}

func (m CertificateMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *CertificateMetadata) Scan(src interface{}) error {
	return scanJSON(src, m)
}

type Certificate struct {
	ID          uuid.UUID           `db:"id"           json:"id"`
	Code        string              `db:"code"         json:"code"`
	VisitorID   uuid.UUID           `db:"visitor_id"   json:"visitor_id"`
	TenantID    uuid.UUID           `db:"tenant_id"    json:"tenant_id"`
	Type        CertificateType     `db:"type"         json:"type"`
	RelatedID   *uuid.UUID          `db:"related_id"   json:"related_id"`
	TemplateID  *uuid.UUID          `db:"template_id"  json:"template_id"`
	Metadata    CertificateMetadata `db:"metadata"     json:"metadata"`
	Status      CertificateStatus   `db:"status"       json:"status"`
	GeneratedAt time.Time           `db:"generated_at" json:"generated_at"`
	UpdatedAt   time.Time           `db:"updated_at"   json:"updated_at"`

	// Join fields
	VisitorName *string `db:"visitor_name" json:"visitor_name,omitempty"`
	TenantName  *string `db:"tenant_name"  json:"tenant_name,omitempty"`
}

type GenerateCertificateRequest struct {
	Type      string `json:"type"       validate:"required,oneof=TRAIL EVENT"`
	RelatedID string `json:"related_id" validate:"required,uuid"`
}

type CertificateFilter struct {
	TenantID  string
	VisitorID string
	Type      string
	Status    string
	Page      int
	PerPage   int
}

// VerifyResponse adalah kontrak publik endpoint verifikasi
type VerifyResponse struct {
	Valid       bool                `json:"valid"`
	VisitorName string              `json:"visitorName"`
	TenantName  string              `json:"tenantName"`
	Type        CertificateType     `json:"type"`
	Metadata    CertificateMetadata `json:"metadata"`
	GeneratedAt time.Time           `json:"generatedAt"`
	Revoked     bool                `json:"revoked"`
}

type VerifyNotFoundResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

type EmailCertificateRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
}
