// Package deployer talks to the external deployment collaborator that
// registers domains, configures DNS, generates, and deploys sites.
package deployer

import (
	"context"
	"errors"
)

// ProvisionRequest is the full launch bundle submitted to the collaborator.
type ProvisionRequest struct {
	SiteID     string `json:"site_id"`
	TenantID   string `json:"tenant_id"`
	TemplateID string `json:"template_id"`

	DomainName string `json:"domain_name"`
	DomainType string `json:"domain_type"`

	Profile map[string]any `json:"profile"`
	Content map[string]any `json:"content"`
}

// ProvisionResponse reports acceptance. Synchronous is true when the
// collaborator finished the whole pipeline within the request, in which case
// Steps has every flag set.
type ProvisionResponse struct {
	Accepted    bool            `json:"accepted"`
	Synchronous bool            `json:"synchronous"`
	Status      string          `json:"status"`
	Steps       map[string]bool `json:"steps"`
	Error       string          `json:"error,omitempty"`
}

// StatusResponse is one poll read: the five phase flags plus overall status
// (building|live|error).
type StatusResponse struct {
	Steps  map[string]bool `json:"steps"`
	Status string          `json:"status"`
	Error  string          `json:"error,omitempty"`
}

type Provider interface {
	Provision(ctx context.Context, req ProvisionRequest) (ProvisionResponse, error)
	Status(ctx context.Context, siteID string) (StatusResponse, error)
}

var (
	// ErrUnavailable marks transport-level failures, retryable by the caller.
	ErrUnavailable = errors.New("deployer_unavailable")
	// ErrCredential marks a stale or unobtainable credential. Operations must
	// fail loudly on it rather than provision under ambiguous identity.
	ErrCredential = errors.New("deployer_credential")
	// ErrRejected marks an upstream rejection of the provisioning request.
	ErrRejected = errors.New("deployer_rejected")
)
