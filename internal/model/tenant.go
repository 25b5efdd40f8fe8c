package model

import (
	"time"

	"github.com/google/uuid"
)

// Tenant adalah satu museum, batas isolasi data paling atas
type Tenant struct {
	ID                       uuid.UUID `db:"id"                         json:"id"`
	Name                     string    `db:"name"                       json:"name"`
	Slug                     string    `db:"slug"                       json:"slug"`
	PrimaryColor             string    `db:"primary_color"              json:"primary_color"`
	SecondaryColor           string    `db:"secondary_color"            json:"secondary_color"`
	Mission                  string    `db:"mission"                    json:"mission"`
	Plan                     string    `db:"plan"                       json:"plan"`
	MaxWorks                 int       `db:"max_works"                  json:"max_works"`
	CertificateBackgroundURL *string   `db:"certificate_background_url" json:"certificate_background_url"`
	LogoURL                  *string   `db:"logo_url"                   json:"logo_url"`
	SignatureURL             *string   `db:"signature_url"              json:"signature_url"`
	CreatedAt                time.Time `db:"created_at"                 json:"created_at"`
	UpdatedAt                time.Time `db:"updated_at"                 json:"updated_at"`
}

type CreateTenantRequest struct {
	Name           string `json:"name"            validate:"required,max=150"`
	Slug           string `json:"slug"            validate:"required,max=80"`
	PrimaryColor   string `json:"primary_color"   validate:"omitempty,hexcolor"`
	SecondaryColor string `json:"secondary_color" validate:"omitempty,hexcolor"`
	Mission        string `json:"mission"`
	Plan           string `json:"plan"            validate:"omitempty,oneof=START PRO ENTERPRISE"`
	MaxWorks       int    `json:"max_works"       validate:"omitempty,min=1"`
	AdminName      string `json:"admin_name"      validate:"required"`
	AdminEmail     string `json:"admin_email"     validate:"required,email"`
	AdminPassword  string `json:"admin_password"  validate:"required,min=8"`
}

type UpdateTenantRequest struct {
	Name                     string  `json:"name"            validate:"required,max=150"`
	PrimaryColor             string  `json:"primary_color"   validate:"omitempty,hexcolor"`
	SecondaryColor           string  `json:"secondary_color" validate:"omitempty,hexcolor"`
	Mission                  string  `json:"mission"`
	Plan                     string  `json:"plan"            validate:"omitempty,oneof=START PRO ENTERPRISE"`
	MaxWorks                 int     `json:"max_works"       validate:"omitempty,min=1"`
	CertificateBackgroundURL *string `json:"certificate_background_url" validate:"omitempty,url"`
	LogoURL                  *string `json:"logo_url"                   validate:"omitempty,url"`
	SignatureURL             *string `json:"signature_url"              validate:"omitempty,url"`
}

type TenantWithAdmin struct {
	Tenant *Tenant      `json:"tenant"`
	Admin  UserResponse `json:"admin"`
}
