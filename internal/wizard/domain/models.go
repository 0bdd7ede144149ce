package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	MinStep = 1
	MaxStep = 6
)

// Step numbers in order: trade, template, business profile, domain,
// appearance, review.
const (
	StepTrade    = 1
	StepTemplate = 2
	StepProfile  = 3
	StepDomain   = 4
	StepDesign   = 5
	StepReview   = 6
)

type BusinessProfile struct {
	Name        string   `json:"name"`
	Phone       string   `json:"phone"`
	Email       string   `json:"email"`
	ServiceArea string   `json:"service_area"`
	Services    []string `json:"services"`
}

// DomainSelection is the single outcome of the acquisition flows. Type is one
// of new|existing|subdomain; at most one selection exists per session.
type DomainSelection struct {
	Type         string  `json:"type"`
	DomainName   string  `json:"domain_name"`
	Price        float64 `json:"price"`
	RenewalPrice float64 `json:"renewal_price"`
	Premium      bool    `json:"premium"`
}

type Appearance struct {
	PrimaryColor    string   `json:"primary_color"`
	SecondaryColor  string   `json:"secondary_color"`
	HeadingColor    string   `json:"heading_color"`
	BodyColor       string   `json:"body_color"`
	HeadingFont     string   `json:"heading_font"`
	BodyFont        string   `json:"body_font"`
	HeroImage       string   `json:"hero_image"`
	GalleryImages   []string `json:"gallery_images"`
	EnabledSections []string `json:"enabled_sections"`
	Tagline         string   `json:"tagline"`
	About           string   `json:"about"`
}

// Data accumulates every step's output. Zero values mean "not provided yet".
type Data struct {
	Trade      string           `json:"trade"`
	TemplateID string           `json:"template_id"`
	Profile    BusinessProfile  `json:"profile"`
	Domain     *DomainSelection `json:"domain,omitempty"`
	SearchSeed string           `json:"search_seed"`
	Appearance Appearance       `json:"appearance"`
	Confirmed  bool             `json:"confirmed"`
}

type Session struct {
	ID             string       `json:"id"`
	TenantID       snowflake.ID `json:"tenant_id"`
	CurrentStep    int          `json:"current_step"`
	MaxStepReached int          `json:"max_step_reached"`
	Data           Data         `json:"data"`
	Prefilled      bool         `json:"prefilled"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Snapshot is the persisted crash-recovery tuple. It carries everything
// needed to resume a session after an abrupt termination.
type Snapshot struct {
	TenantID       snowflake.ID `json:"tenant_id"`
	CurrentStep    int          `json:"current_step"`
	MaxStepReached int          `json:"max_step_reached"`
	Data           Data         `json:"data"`
	Prefilled      bool         `json:"prefilled"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (s Session) Snapshot() Snapshot {
	return Snapshot{
		TenantID:       s.TenantID,
		CurrentStep:    s.CurrentStep,
		MaxStepReached: s.MaxStepReached,
		Data:           s.Data,
		Prefilled:      s.Prefilled,
		UpdatedAt:      s.UpdatedAt,
	}
}

func SessionFromSnapshot(id string, snap Snapshot) Session {
	return Session{
		ID:             id,
		TenantID:       snap.TenantID,
		CurrentStep:    snap.CurrentStep,
		MaxStepReached: snap.MaxStepReached,
		Data:           snap.Data,
		Prefilled:      snap.Prefilled,
		UpdatedAt:      snap.UpdatedAt,
	}
}
