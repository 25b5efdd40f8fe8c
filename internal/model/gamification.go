package model

import (
	"time"

	"github.com/google/uuid"
)

type Achievement struct {
	ID          uuid.UUID `db:"id"          json:"id"`
	TenantID    uuid.UUID `db:"tenant_id"   json:"tenant_id"`
	Code        string    `db:"code"        json:"code"`
	Title       string    `db:"title"       json:"title"`
	Description string    `db:"description" json:"description"`
	IconURL     *string   `db:"icon_url"    json:"icon_url"`
	XPReward    int64     `db:"xp_reward"   json:"xp_reward"`
	CreatedAt   time.Time `db:"created_at"  json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"  json:"updated_at"`
}

type AchievementRequest struct {
	Code        string  `json:"code"        validate:"required,max=60"`
	Title       string  `json:"title"       validate:"required,max=150"`
	Description string  `json:"description"`
	IconURL     *string `json:"icon_url"    validate:"omitempty,url"`
	XPReward    int64   `json:"xp_reward"   validate:"min=0"`
}

type VisitorAchievement struct {
	VisitorID     uuid.UUID `db:"visitor_id"     json:"visitor_id"`
	AchievementID uuid.UUID `db:"achievement_id" json:"achievement_id"`
	UnlockedAt    time.Time `db:"unlocked_at"    json:"unlocked_at"`

	// Join fields
	Code  *string `db:"code"  json:"code,omitempty"`
	Title *string `db:"title" json:"title,omitempty"`
}

type UnlockAchievementRequest struct {
	VisitorID     string `json:"visitor_id"     validate:"required,uuid"`
	AchievementID string `json:"achievement_id" validate:"required,uuid"`
}

type PassportStamp struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	VisitorID uuid.UUID `db:"visitor_id" json:"visitor_id"`
	WorkID    uuid.UUID `db:"work_id"    json:"work_id"`
	StampedAt time.Time `db:"stamped_at" json:"stamped_at"`

	// Join fields
	WorkTitle *string `db:"work_title" json:"work_title,omitempty"`
}

type StampRequest struct {
	VisitorID string `json:"visitor_id" validate:"required,uuid"`
	WorkID    string `json:"work_id"    validate:"required,uuid"`
}

type QRCodeType string

const (
	QRCodeWork  QRCodeType = "WORK"
	QRCodeTrail QRCodeType = "TRAIL"
	QRCodeEvent QRCodeType = "EVENT"
)

const DefaultQRXPReward int64 = 5

type QRCode struct {
	ID          uuid.UUID  `db:"id"           json:"id"`
	TenantID    uuid.UUID  `db:"tenant_id"    json:"tenant_id"`
	Code        string     `db:"code"         json:"code"`
	Type        QRCodeType `db:"type"         json:"type"`
	ReferenceID *uuid.UUID `db:"reference_id" json:"reference_id"`
	Title       string     `db:"title"        json:"title"`
	XPReward    int64      `db:"xp_reward"    json:"xp_reward"`
	CreatedAt   time.Time  `db:"created_at"   json:"created_at"`
}

type QRCodeRequest struct {
	Type        string `json:"type"         validate:"required,oneof=WORK TRAIL EVENT"`
	ReferenceID string `json:"reference_id" validate:"omitempty,uuid"`
	Title       string `json:"title"        validate:"required,max=200"`
	XPReward    *int64 `json:"xp_reward"    validate:"omitempty,min=0,max=1000"`
}

type LeaderboardEntry struct {
	VisitorID uuid.UUID `db:"id"        json:"visitor_id"`
	Name      *string   `db:"name"      json:"name"`
	PhotoURL  *string   `db:"photo_url" json:"photo_url"`
	XP        int64     `db:"xp"        json:"xp"`
	Rank      int       `db:"-"         json:"rank"`
}

type Leaderboard struct {
	Top    []LeaderboardEntry `json:"top"`
	MyRank *int               `json:"my_rank"`
	MyXP   *int64             `json:"my_xp"`
}
