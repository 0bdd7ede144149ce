package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/sitekit/internal/providers/domainsearch"
	wizarddomain "github.com/smallbiznis/sitekit/internal/wizard/domain"
)

type SearchRequest struct {
	// Seed is free text; sanitization happens once, on first entry.
	Seed      string `json:"seed"`
	Sanitized bool   `json:"sanitized"`
}

type SearchResponse struct {
	// Seed echoes back the sanitized seed so the client submits it unchanged
	// on subsequent searches.
	Seed        string                    `json:"seed"`
	Suggestions []domainsearch.Suggestion `json:"suggestions"`
}

// DNSInstructions is the post-launch guidance for externally owned domains.
type DNSInstructions struct {
	ARecordTarget string `json:"a_record_target"`
	CNAMETarget   string `json:"cname_target"`
	Note          string `json:"note"`
}

type Service interface {
	// Search calls the registrar collaborator and orders results available
	// first, preserving provider order within each group, capped for display.
	Search(ctx context.Context, req SearchRequest) (SearchResponse, error)
	// SelectNew records a search result as the session's selection.
	SelectNew(ctx context.Context, sessionID string, suggestion domainsearch.Suggestion) (wizarddomain.Session, error)
	// SelectExisting accepts a tenant-owned domain with no verification.
	SelectExisting(ctx context.Context, sessionID, domainName string) (wizarddomain.Session, error)
	// SelectSubdomain derives a free subdomain from the business name. Never fails
	// for a session with any business name, and falls back to the session ID
	// when the name yields an empty slug.
	SelectSubdomain(ctx context.Context, sessionID string) (wizarddomain.Session, error)
	// Instructions returns the DNS records an existing-domain tenant must
	// create after launch.
	Instructions(ctx context.Context) DNSInstructions
}

var (
	ErrInvalidDomain     = errors.New("domain_invalid")
	ErrDomainUnavailable = errors.New("domain_unavailable")
)
