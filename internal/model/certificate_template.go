package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

type ElementType string

const (
	ElementText   ElementType = "text"
	ElementQRCode ElementType = "qrcode"
)

var ErrInvalidElement = errors.New("elemen template tidak valid")

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// TemplateElement diposisikan secara absolut dalam satuan point A4 landscape
type TemplateElement struct {
	Type       ElementType `json:"type"`
	X          float64     `json:"x"`
	Y          float64     `json:"y"`
	Width      *float64    `json:"width,omitempty"`
	Height     *float64    `json:"height,omitempty"`
	FontSize   *float64    `json:"fontSize,omitempty"`
	FontFamily string      `json:"fontFamily,omitempty"`
	Color      string      `json:"color,omitempty"`
	Align      string      `json:"align,omitempty"`
	Text       string      `json:"text,omitempty"`
}

func (e TemplateElement) Validate() error {
	switch e.Type {
	case ElementText, ElementQRCode:
	default:
		return fmt.Errorf("type %q tidak dikenal", e.Type)
	}
	if e.X < 0 || e.Y < 0 {
		return errors.New("posisi x/y tidak boleh negatif")
	}
	if e.Width != nil && *e.Width <= 0 {
		return errors.New("width harus lebih dari 0")
	}
	if e.Height != nil && *e.Height <= 0 {
		return errors.New("height harus lebih dari 0")
	}
	if e.FontSize != nil && *e.FontSize <= 0 {
		return errors.New("fontSize harus lebih dari 0")
	}
	if e.Color != "" && !hexColorRegex.MatchString(e.Color) {
		return fmt.Errorf("color %q bukan warna hex", e.Color)
	}
	switch e.Align {
	case "", "left", "center", "right":
	default:
		return fmt.Errorf("align %q tidak dikenal", e.Align)
	}
	return nil
}

type TemplateElements []TemplateElement

func (t TemplateElements) Value() (driver.Value, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t)
}

func (t *TemplateElements) Scan(src interface{}) error {
	return scanJSON(src, t)
}

// Validate mengembalikan error pertama beserta indeks elemennya
func (t TemplateElements) Validate() error {
	for i, e := range t {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("%w: elements[%d]: %v", ErrInvalidElement, i, err)
		}
	}
	return nil
}

type TemplateDimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (d TemplateDimensions) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *TemplateDimensions) Scan(src interface{}) error {
	return scanJSON(src, d)
}

type CertificateTemplate struct {
	ID            uuid.UUID          `db:"id"             json:"id"`
	TenantID      uuid.UUID          `db:"tenant_id"      json:"tenant_id"`
	Name          string             `db:"name"           json:"name"`
	BackgroundURL *string            `db:"background_url" json:"background_url"`
	Elements      TemplateElements   `db:"elements"       json:"elements"`
	Dimensions    TemplateDimensions `db:"dimensions"     json:"dimensions"`
	CreatedAt     time.Time          `db:"created_at"     json:"created_at"`
	UpdatedAt     time.Time          `db:"updated_at"     json:"updated_at"`
}

type CertificateTemplateRequest struct {
	Name          string              `json:"name"           validate:"required,max=150"`
	BackgroundURL *string             `json:"background_url" validate:"omitempty,url"`
	Elements      TemplateElements    `json:"elements"`
	Dimensions    *TemplateDimensions `json:"dimensions"`
}
