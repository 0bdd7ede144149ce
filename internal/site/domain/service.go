package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/sitekit/internal/render"
	"github.com/smallbiznis/sitekit/pkg/db/pagination"
)

type CreateSiteRequest struct {
	TemplateID   string
	Slug         string
	CustomDomain string
	DomainType   string
	Content      render.SiteContent
	Status       Status
	Steps        map[string]bool
}

type ListSitesRequest struct {
	PageToken string
	PageSize  int32
	Status    string
}

type ListSitesResponse struct {
	pagination.PageInfo
	Sites []Site `json:"sites"`
}

type StatusUpdate struct {
	Status       Status
	Steps        map[string]bool
	ErrorMessage string
	NeedsReview  bool
	PublishedAt  *time.Time
}

type Service interface {
	Create(ctx context.Context, req CreateSiteRequest) (Site, error)
	GetByID(ctx context.Context, id string) (Site, error)
	GetByHost(ctx context.Context, host string) (Site, error)
	List(ctx context.Context, req ListSitesRequest) (ListSitesResponse, error)
	// ApplyStatus merges a status update onto the site, refreshing updated_at
	// and enforcing the state machine plus monotonic phase flags.
	ApplyStatus(ctx context.Context, site *Site, update StatusUpdate) error
	UpdateContent(ctx context.Context, id string, content render.SiteContent) (Site, error)
	// Delete removes a tenant-owned site. Building sites cannot be deleted
	// while the publish pipeline may still write to them.
	Delete(ctx context.Context, id string) error
	// Preview resolves the full render model for a tenant-owned site.
	Preview(ctx context.Context, id string) (render.Model, error)
	// ResolveByHost resolves the render model for public serving. Both paths
	// share one resolver so preview and production can never diverge.
	ResolveByHost(ctx context.Context, host string) (render.Model, error)
}

var (
	ErrInvalidTenant     = errors.New("invalid_tenant")
	ErrInvalidID         = errors.New("invalid_site_id")
	ErrInvalidTemplate   = errors.New("invalid_template")
	ErrInvalidSlug       = errors.New("invalid_slug")
	ErrNotFound          = errors.New("site_not_found")
	ErrNotLive           = errors.New("site_not_live")
	ErrSlugTaken         = errors.New("slug_taken")
	ErrInvalidTransition = errors.New("invalid_status_transition")
)
