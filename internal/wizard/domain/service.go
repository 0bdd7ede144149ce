package domain

import (
	"context"
	"errors"
)

// DataPatch is a merge patch over Data: nil fields are left untouched.
type DataPatch struct {
	Trade       *string          `json:"trade,omitempty"`
	TemplateID  *string          `json:"template_id,omitempty"`
	Profile     *ProfilePatch    `json:"profile,omitempty"`
	Domain      *DomainSelection `json:"domain,omitempty"`
	ClearDomain bool             `json:"clear_domain,omitempty"`
	SearchSeed  *string          `json:"search_seed,omitempty"`
	Appearance  *AppearancePatch `json:"appearance,omitempty"`
	Confirmed   *bool            `json:"confirmed,omitempty"`
}

type ProfilePatch struct {
	Name        *string   `json:"name,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	Email       *string   `json:"email,omitempty"`
	ServiceArea *string   `json:"service_area,omitempty"`
	Services    *[]string `json:"services,omitempty"`
}

type AppearancePatch struct {
	PrimaryColor    *string   `json:"primary_color,omitempty"`
	SecondaryColor  *string   `json:"secondary_color,omitempty"`
	HeadingColor    *string   `json:"heading_color,omitempty"`
	BodyColor       *string   `json:"body_color,omitempty"`
	HeadingFont     *string   `json:"heading_font,omitempty"`
	BodyFont        *string   `json:"body_font,omitempty"`
	HeroImage       *string   `json:"hero_image,omitempty"`
	GalleryImages   *[]string `json:"gallery_images,omitempty"`
	EnabledSections *[]string `json:"enabled_sections,omitempty"`
	Tagline         *string   `json:"tagline,omitempty"`
	About           *string   `json:"about,omitempty"`
}

// SourceProfile is the external business record prefill maps from. Industry
// uses the external classifier vocabulary, not the wizard's trade vocabulary.
type SourceProfile struct {
	Industry    string `json:"industry"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	ServiceArea string `json:"service_area"`
}

// AdvanceResult reports a validation outcome. Message is human-readable and
// only set when OK is false.
type AdvanceResult struct {
	OK      bool    `json:"ok"`
	Message string  `json:"message,omitempty"`
	Session Session `json:"session"`
}

type Service interface {
	// Start issues a new session for the calling tenant.
	Start(ctx context.Context) (Session, error)
	Get(ctx context.Context, id string) (Session, error)
	Advance(ctx context.Context, id string) (AdvanceResult, error)
	Retreat(ctx context.Context, id string) (Session, error)
	JumpTo(ctx context.Context, id string, step int) (Session, error)
	Mutate(ctx context.Context, id string, patch DataPatch) (Session, error)
	Prefill(ctx context.Context, id string, source SourceProfile) (Session, error)
	Reset(ctx context.Context, id string) (Session, error)
	// Clear drops the session and its snapshot, called after a successful launch.
	Clear(ctx context.Context, id string) error
}

// ServiceCatalog yields a tenant's existing service offerings for prefill
// seeding. Implementations may fall back to per-trade starter lists when the
// tenant has no recorded catalog.
type ServiceCatalog interface {
	Services(ctx context.Context, trade string) ([]string, error)
}

var (
	ErrSessionNotFound = errors.New("wizard_session_not_found")
	ErrStepOutOfRange  = errors.New("wizard_step_out_of_range")
	ErrStepNotReached  = errors.New("wizard_step_not_reached")
)
