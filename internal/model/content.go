package model

import (
	"time"

	"github.com/google/uuid"
)

type Work struct {
	ID          uuid.UUID `db:"id"          json:"id"`
	TenantID    uuid.UUID `db:"tenant_id"   json:"tenant_id"`
	Title       string    `db:"title"       json:"title"`
	Artist      string    `db:"artist"      json:"artist"`
	Year        string    `db:"year"        json:"year"`
	Room        string    `db:"room"        json:"room"`
	Floor       string    `db:"floor"       json:"floor"`
	Description string    `db:"description" json:"description"`
	ImageURL    *string   `db:"image_url"   json:"image_url"`
	AudioURL    *string   `db:"audio_url"   json:"audio_url"`
	Published   bool      `db:"published"   json:"published"`
	CreatedAt   time.Time `db:"created_at"  json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"  json:"updated_at"`
}

type WorkRequest struct {
	Title       string  `json:"title"       validate:"required,max=200"`
	Artist      string  `json:"artist"      validate:"max=200"`
	Year        string  `json:"year"        validate:"max=20"`
	Room        string  `json:"room"        validate:"max=80"`
	Floor       string  `json:"floor"       validate:"max=40"`
	Description string  `json:"description"`
	ImageURL    *string `json:"image_url"   validate:"omitempty,url"`
	AudioURL    *string `json:"audio_url"   validate:"omitempty,url"`
	Published   *bool   `json:"published"`
}

type WorkFilter struct {
	TenantID      string
	Search        string
	PublishedOnly bool
	Page          int
	PerPage       int
}

type Trail struct {
	ID          uuid.UUID `db:"id"          json:"id"`
	TenantID    uuid.UUID `db:"tenant_id"   json:"tenant_id"`
	Title       string    `db:"title"       json:"title"`
	Description string    `db:"description" json:"description"`
	Duration    *int      `db:"duration"    json:"duration"` // menit
	WorkIDs     UUIDList  `db:"work_ids"    json:"work_ids"`
	CreatedAt   time.Time `db:"created_at"  json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"  json:"updated_at"`
}

type TrailRequest struct {
	Title       string   `json:"title"       validate:"required,max=200"`
	Description string   `json:"description"`
	Duration    *int     `json:"duration"    validate:"omitempty,min=1"`
	WorkIDs     []string `json:"work_ids"    validate:"dive,uuid"`
}

type CompleteTrailRequest struct {
	VisitorID string `json:"visitor_id" validate:"required,uuid"`
}

type Event struct {
	ID                       uuid.UUID  `db:"id"                         json:"id"`
	TenantID                 uuid.UUID  `db:"tenant_id"                  json:"tenant_id"`
	Title                    string     `db:"title"                      json:"title"`
	Description              string     `db:"description"                json:"description"`
	Location                 string     `db:"location"                   json:"location"`
	StartDate                time.Time  `db:"start_date"                 json:"start_date"`
	EndDate                  *time.Time `db:"end_date"                   json:"end_date"`
	CertificateBackgroundURL *string    `db:"certificate_background_url" json:"certificate_background_url"`
	CulturalHours            *int       `db:"cultural_hours"             json:"cultural_hours"`
	CreatedAt                time.Time  `db:"created_at"                 json:"created_at"`
	UpdatedAt                time.Time  `db:"updated_at"                 json:"updated_at"`
}

type EventRequest struct {
	Title                    string  `json:"title"       validate:"required,max=200"`
	Description              string  `json:"description"`
	Location                 string  `json:"location"    validate:"max=200"`
	StartDate                string  `json:"start_date"  validate:"required"` // RFC3339 atau YYYY-MM-DD
	EndDate                  string  `json:"end_date"`
	CertificateBackgroundURL *string `json:"certificate_background_url" validate:"omitempty,url"`
	CulturalHours            *int    `json:"cultural_hours"             validate:"omitempty,min=1"`
}

type CheckInRequest struct {
	VisitorID string `json:"visitor_id" validate:"required,uuid"`
}

type EventAttendance struct {
	EventID     uuid.UUID `db:"event_id"      json:"event_id"`
	VisitorID   uuid.UUID `db:"visitor_id"    json:"visitor_id"`
	CheckedInAt time.Time `db:"checked_in_at" json:"checked_in_at"`
}
