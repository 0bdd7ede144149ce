package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/sitekit/pkg/db/pagination"
)

// CaptureLeadRequest arrives from a public contact form, addressed by the
// serving host rather than a tenant header.
type CaptureLeadRequest struct {
	Host    string `json:"-"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type ListLeadsRequest struct {
	SiteID    string
	PageToken string
	PageSize  int32
}

type ListLeadsResponse struct {
	pagination.PageInfo
	Leads []Lead `json:"leads"`
}

type Service interface {
	// Capture records a lead against the live site serving host. Leads are
	// accepted only for live sites.
	Capture(ctx context.Context, req CaptureLeadRequest) (Lead, error)
	List(ctx context.Context, req ListLeadsRequest) (ListLeadsResponse, error)
}

var (
	ErrInvalidName   = errors.New("invalid_lead_name")
	ErrNoContact     = errors.New("lead_contact_required")
	ErrInvalidSiteID = errors.New("invalid_site_id")
)
