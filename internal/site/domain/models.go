package domain

import (
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/sitekit/internal/render"
	"gorm.io/datatypes"
)

// Status is the site lifecycle state machine: draft -> building -> live | error.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusBuilding Status = "building"
	StatusLive     Status = "live"
	StatusError    Status = "error"
)

// Publish phase flags. Each is monotonic for a given site: once true it is
// never reset to false.
const (
	StepDomainRegistered = "domain_registered"
	StepDNSConfigured    = "dns_configured"
	StepSiteGenerated    = "site_generated"
	StepDeployed         = "deployed"
	StepLive             = "live"
)

// PublishStepKeys returns the five phase flags in pipeline order.
func PublishStepKeys() []string {
	return []string{StepDomainRegistered, StepDNSConfigured, StepSiteGenerated, StepDeployed, StepLive}
}

// DomainType records how the public address was acquired.
const (
	DomainTypeNew       = "new"
	DomainTypeExisting  = "existing"
	DomainTypeSubdomain = "subdomain"
)

type Site struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID   snowflake.ID `gorm:"not null;index" json:"tenant_id"`
	TemplateID snowflake.ID `gorm:"not null" json:"template_id"`
	Status     Status       `gorm:"not null;default:draft;index" json:"status"`

	Slug         string `gorm:"uniqueIndex" json:"slug"`
	CustomDomain string `gorm:"index" json:"custom_domain,omitempty"`
	DomainType   string `json:"domain_type"`

	SiteContent  datatypes.JSON    `gorm:"type:jsonb" json:"site_content,omitempty"`
	PublishSteps datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"publish_steps"`

	ErrorMessage string     `json:"error_message,omitempty"`
	NeedsReview  bool       `gorm:"not null;default:false" json:"needs_review"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`

	// Timestamps are set by the service through the injected clock; gorm's
	// automatic tracking would fight the stuck-build detection.
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false" json:"updated_at"`
}

// Content decodes the tenant override layer. An empty column yields the zero
// value, which resolves entirely from the template and platform defaults.
func (s Site) Content() (render.SiteContent, error) {
	var content render.SiteContent
	if len(s.SiteContent) == 0 {
		return content, nil
	}
	if err := json.Unmarshal(s.SiteContent, &content); err != nil {
		return render.SiteContent{}, err
	}
	return content, nil
}

// Steps reads the phase flags with absent keys reported false.
func (s Site) Steps() map[string]bool {
	steps := make(map[string]bool, 5)
	for _, key := range PublishStepKeys() {
		value, _ := s.PublishSteps[key].(bool)
		steps[key] = value
	}
	return steps
}

// MergeSteps folds incoming flags into existing ones monotonically: a flag
// that is already true is never unset, even if a late or stale poll response
// reports it false.
func MergeSteps(existing datatypes.JSONMap, incoming map[string]bool) datatypes.JSONMap {
	merged := datatypes.JSONMap{}
	for _, key := range PublishStepKeys() {
		prior, _ := existing[key].(bool)
		merged[key] = prior || incoming[key]
	}
	return merged
}

// AllSteps returns every phase flag set to value, used when a launch
// completes synchronously.
func AllSteps(value bool) datatypes.JSONMap {
	steps := datatypes.JSONMap{}
	for _, key := range PublishStepKeys() {
		steps[key] = value
	}
	return steps
}

// CanTransition reports whether the status state machine permits from -> to.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusDraft:
		return to == StatusBuilding || to == StatusLive
	case StatusBuilding:
		return to == StatusLive || to == StatusError
	default:
		return false
	}
}
