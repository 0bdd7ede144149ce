package domain

import (
	"context"
	"errors"

	sitedomain "github.com/smallbiznis/sitekit/internal/site/domain"
)

type LaunchRequest struct {
	SessionID string `json:"session_id"`
}

type LaunchResult struct {
	SiteID string            `json:"site_id"`
	Status sitedomain.Status `json:"status"`
}

// StatusReport is the tenant-facing view of launch progress.
type StatusReport struct {
	SiteID      string            `json:"site_id"`
	Status      sitedomain.Status `json:"status"`
	Steps       map[string]bool   `json:"steps"`
	Error       string            `json:"error,omitempty"`
	NeedsReview bool              `json:"needs_review,omitempty"`
}

type Orchestrator interface {
	// Launch drives a confirmed wizard session through provisioning. On any
	// failure no Site row is written; the tenant retries the launch.
	Launch(ctx context.Context, req LaunchRequest) (LaunchResult, error)
	// Status reads progress for a tenant-owned site, opportunistically
	// reconciling it when the build looks stuck.
	Status(ctx context.Context, siteID string) (StatusReport, error)
	// PollUntilDone blocks, polling the deployer until the site reaches a
	// terminal status or ctx is cancelled. Launch starts it in the background;
	// tests call it directly.
	PollUntilDone(ctx context.Context, siteID string)
	// ReconcileStuck force-completes a building site whose last update is
	// older than the stuck threshold. Returns whether it transitioned.
	ReconcileStuck(ctx context.Context, site *sitedomain.Site) (bool, error)
	// SweepStuck reconciles stuck sites in batches; wired to the scheduler.
	SweepStuck(ctx context.Context) (int, error)
}

var (
	ErrNotConfirmed      = errors.New("launch_not_confirmed")
	ErrNoDomainSelection = errors.New("launch_no_domain_selection")
	ErrNoTemplate        = errors.New("launch_no_template")
)
