package site

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Template categories accepted by the generator.
const (
	CategoryRestaurant  = "restaurant"
	CategoryConsultancy = "consultancy"
	CategoryShop        = "shop"
	CategoryServices    = "services"
)

// Color directive keys. Each maps to a --<key>-color custom property in the stylesheet.
const (
	ColorPrimary   = "primary"
	ColorSecondary = "secondary"
	ColorAccent    = "accent"
)

// Image directive slots.
const (
	ImageLogo = "logo"
	ImageHero = "hero"
)

var ColorKeys = []string{ColorPrimary, ColorSecondary, ColorAccent}

// GenerationRequest is one attempt to produce a website. GeneratedHTML stays nil until the
// generator has returned; that is the only readiness signal.
type GenerationRequest struct {
	ID      uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID *uuid.UUID `gorm:"type:uuid;column:owner_id;index:idx_generation_request_owner_created,priority:1" json:"owner_id,omitempty"`

	BusinessDescription string `gorm:"column:business_description;type:text;not null" json:"business_description"`
	TemplateCategory    string `gorm:"column:template_category;not null" json:"template_category"`

	GeneratedHTML *string `gorm:"column:generated_html;type:text" json:"generated_html,omitempty"`
	GeneratedCSS  *string `gorm:"column:generated_css;type:text" json:"generated_css,omitempty"`
	GeneratedJS   *string `gorm:"column:generated_js;type:text" json:"generated_js,omitempty"`

	CustomColors datatypes.JSONMap `gorm:"column:custom_colors" json:"custom_colors"`
	CustomTexts  datatypes.JSONMap `gorm:"column:custom_texts" json:"custom_texts"`
	CustomImages datatypes.JSONMap `gorm:"column:custom_images" json:"custom_images"`

	CreatedAt time.Time `gorm:"not null;index:idx_generation_request_owner_created,priority:2" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (GenerationRequest) TableName() string { return "generation_request" }

// BeforeCreate assigns a time-ordered id so that id order follows insertion order.
func (g *GenerationRequest) BeforeCreate(*gorm.DB) error {
	if g.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		g.ID = id
	}
	if g.CustomColors == nil {
		g.CustomColors = datatypes.JSONMap{}
	}
	if g.CustomTexts == nil {
		g.CustomTexts = datatypes.JSONMap{}
	}
	if g.CustomImages == nil {
		g.CustomImages = datatypes.JSONMap{}
	}
	return nil
}

func (g *GenerationRequest) IsGenerated() bool {
	return g != nil && g.GeneratedHTML != nil
}

func (g *GenerationRequest) OwnedBy(id uuid.UUID) bool {
	return g != nil && g.OwnerID != nil && *g.OwnerID == id
}

func (g *GenerationRequest) HTML() string { return deref(g.GeneratedHTML) }
func (g *GenerationRequest) CSS() string  { return deref(g.GeneratedCSS) }
func (g *GenerationRequest) JS() string   { return deref(g.GeneratedJS) }

// StringMap flattens a JSON column into string values, dropping non-string entries.
func StringMap(m datatypes.JSONMap) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

// IsColorKey reports whether k names one of the three palette colors.
func IsColorKey(k string) bool {
	switch strings.ToLower(k) {
	case ColorPrimary, ColorSecondary, ColorAccent:
		return true
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
