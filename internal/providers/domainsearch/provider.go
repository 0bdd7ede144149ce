// Package domainsearch talks to the external domain availability collaborator.
package domainsearch

import (
	"context"
	"errors"
)

// Suggestion is one candidate returned by the registrar search API. Order is
// meaningful: callers must preserve provider order within availability groups.
type Suggestion struct {
	DomainName   string  `json:"domain_name"`
	Available    bool    `json:"available"`
	Premium      bool    `json:"premium"`
	Price        float64 `json:"price"`
	RenewalPrice float64 `json:"renewal_price"`
}

type SearchRequest struct {
	Seed             string `json:"seed"`
	JurisdictionHint string `json:"jurisdiction_hint,omitempty"`
}

type Provider interface {
	Search(ctx context.Context, req SearchRequest) ([]Suggestion, error)
}

// ErrUnavailable wraps transport and upstream failures so callers can surface
// a uniform retryable error to the tenant.
var ErrUnavailable = errors.New("domain_search_unavailable")
