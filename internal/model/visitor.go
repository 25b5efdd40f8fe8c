package model

import (
	"time"

	"github.com/google/uuid"
)

// Visitor adalah profil keterlibatan pengunjung di satu tenant
type Visitor struct {
	ID        uuid.UUID  `db:"id"         json:"id"`
	TenantID  uuid.UUID  `db:"tenant_id"  json:"tenant_id"`
	UserID    *uuid.UUID `db:"user_id"    json:"user_id"`
	Name      *string    `db:"name"       json:"name"`
	Email     *string    `db:"email"      json:"email"`
	PhotoURL  *string    `db:"photo_url"  json:"photo_url"`
	XP        int64      `db:"xp"         json:"xp"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// DisplayName mengembalikan nama untuk sertifikat, default "Visitante"
func (v *Visitor) DisplayName() string {
	if v == nil || v.Name == nil || *v.Name == "" {
		return "Visitante"
	}
	return *v.Name
}

const AnonymousVisitorName = "Visitante Anônimo"

type VisitSource string

const (
	VisitSourceApp VisitSource = "APP"
	VisitSourceQR  VisitSource = "QR"
)

type VisitorVisit struct {
	ID        uuid.UUID   `db:"id"         json:"id"`
	VisitorID uuid.UUID   `db:"visitor_id" json:"visitor_id"`
	TenantID  uuid.UUID   `db:"tenant_id"  json:"tenant_id"`
	WorkID    *uuid.UUID  `db:"work_id"    json:"work_id"`
	TrailID   *uuid.UUID  `db:"trail_id"   json:"trail_id"`
	EventID   *uuid.UUID  `db:"event_id"   json:"event_id"`
	Source    VisitSource `db:"source"     json:"source"`
	XPGained  int64       `db:"xp_gained"  json:"xp_gained"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}

type RegisterVisitorRequest struct {
	TenantID string `json:"tenant_id" validate:"required,uuid"`
	Name     string `json:"name"      validate:"omitempty,max=120"`
	Email    string `json:"email"     validate:"omitempty,email"`
}

type TrackVisitRequest struct {
	VisitorID string `json:"visitor_id" validate:"required,uuid"`
	WorkID    string `json:"work_id"    validate:"omitempty,uuid"`
	TrailID   string `json:"trail_id"   validate:"omitempty,uuid"`
	EventID   string `json:"event_id"   validate:"omitempty,uuid"`
	XPGained  *int64 `json:"xp_gained"  validate:"omitempty,min=0,max=1000"`
}

type VisitFromQRRequest struct {
	Code      string `json:"code"       validate:"required"`
	VisitorID string `json:"visitor_id" validate:"omitempty,uuid"`
}

type VisitFromQRResult struct {
	Visitor  *Visitor `json:"visitor"`
	XPGained int64    `json:"xp_gained"`
	Stamped  bool     `json:"stamped"`
}

type UpdateVisitorRequest struct {
	Name     string  `json:"name"      validate:"required,max=120"`
	PhotoURL *string `json:"photo_url" validate:"omitempty,url"`
}

type VisitorSummary struct {
	Visitor          *Visitor              `json:"visitor"`
	VisitCount       int64                 `json:"visit_count"`
	StampCount       int64                 `json:"stamp_count"`
	AchievementCount int64                 `json:"achievement_count"`
	CertificateCount int64                 `json:"certificate_count"`
	Stamps           []*PassportStamp      `json:"stamps"`
	Achievements     []*VisitorAchievement `json:"achievements"`
}

type VisitorFilter struct {
	TenantID string
	Search   string
	Page     int
	PerPage  int
}
