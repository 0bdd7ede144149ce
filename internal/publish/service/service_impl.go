package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/sitekit/internal/clock"
	"github.com/smallbiznis/sitekit/internal/config"
	"github.com/smallbiznis/sitekit/internal/observability/metrics"
	"github.com/smallbiznis/sitekit/internal/providers/deployer"
	"github.com/smallbiznis/sitekit/internal/publish/domain"
	"github.com/smallbiznis/sitekit/internal/render"
	sitedomain "github.com/smallbiznis/sitekit/internal/site/domain"
	"github.com/smallbiznis/sitekit/internal/tenantctx"
	wizarddomain "github.com/smallbiznis/sitekit/internal/wizard/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Cfg      config.Config
	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	Deployer deployer.Provider
	Sites    sitedomain.Service
	SiteRepo sitedomain.Repository
	Sessions wizarddomain.Service
}

type Orchestrator struct {
	cfg      config.Config
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	deployer deployer.Provider
	sites    sitedomain.Service
	siteRepo sitedomain.Repository
	sessions wizarddomain.Service

	// base outlives any single request; pollers hang off it so shutdown
	// stops them.
	base   context.Context
	cancel context.CancelFunc
}

func New(p Params) domain.Orchestrator {
	base, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		cfg:      p.Cfg,
		db:       p.DB,
		log:      p.Log.Named("publish.orchestrator"),
		clock:    p.Clock,
		deployer: p.Deployer,
		sites:    p.Sites,
		siteRepo: p.SiteRepo,
		sessions: p.Sessions,
		base:     base,
		cancel:   cancel,
	}
}

// Shutdown stops every background poller.
func (o *Orchestrator) Shutdown() {
	o.cancel()
}

func (o *Orchestrator) Launch(ctx context.Context, req domain.LaunchRequest) (domain.LaunchResult, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return domain.LaunchResult{}, sitedomain.ErrInvalidTenant
	}

	session, err := o.sessions.Get(ctx, req.SessionID)
	if err != nil {
		return domain.LaunchResult{}, err
	}
	if !session.Data.Confirmed {
		return domain.LaunchResult{}, domain.ErrNotConfirmed
	}
	if session.Data.Domain == nil {
		return domain.LaunchResult{}, domain.ErrNoDomainSelection
	}
	if strings.TrimSpace(session.Data.TemplateID) == "" {
		return domain.LaunchResult{}, domain.ErrNoTemplate
	}

	selection := *session.Data.Domain
	content := contentFromSession(session.Data)
	slugHost, customDomain := hostsForSelection(selection, o.cfg.BaseDomain)

	// Provision first: a rejected or failed launch must leave no Site behind.
	resp, err := o.deployer.Provision(ctx, deployer.ProvisionRequest{
		TenantID:   tenantID.String(),
		TemplateID: session.Data.TemplateID,
		DomainName: selection.DomainName,
		DomainType: selection.Type,
		Profile: map[string]any{
			"business_name": session.Data.Profile.Name,
			"phone":         session.Data.Profile.Phone,
			"email":         session.Data.Profile.Email,
			"service_area":  session.Data.Profile.ServiceArea,
			"services":      session.Data.Profile.Services,
		},
		Content: map[string]any{
			"tagline":  content.Tagline,
			"about":    content.About,
			"sections": content.Sections,
		},
	})
	if err != nil {
		metrics.Publish().IncLaunch("error")
		o.log.Warn("launch rejected by deployer",
			zap.String("session_id", req.SessionID),
			zap.Error(err),
		)
		return domain.LaunchResult{}, err
	}

	status := sitedomain.StatusBuilding
	steps := resp.Steps
	if resp.Synchronous || resp.Status == string(sitedomain.StatusLive) {
		status = sitedomain.StatusLive
	}

	site, err := o.sites.Create(ctx, sitedomain.CreateSiteRequest{
		TemplateID:   session.Data.TemplateID,
		Slug:         slugHost,
		CustomDomain: customDomain,
		DomainType:   selection.Type,
		Content:      content,
		Status:       status,
		Steps:        steps,
	})
	if err != nil {
		metrics.Publish().IncLaunch("error")
		return domain.LaunchResult{}, err
	}

	metrics.Publish().IncLaunch(string(status))
	o.log.Info("site launched",
		zap.String("site_id", site.ID.String()),
		zap.String("status", string(status)),
		zap.String("domain", selection.DomainName),
	)

	// The wizard snapshot is only cleared once the launch sticks.
	_ = o.sessions.Clear(ctx, req.SessionID)

	if status == sitedomain.StatusBuilding {
		go o.PollUntilDone(o.base, site.ID.String())
	}
	return domain.LaunchResult{SiteID: site.ID.String(), Status: status}, nil
}

func (o *Orchestrator) Status(ctx context.Context, siteID string) (domain.StatusReport, error) {
	site, err := o.sites.GetByID(ctx, siteID)
	if err != nil {
		return domain.StatusReport{}, err
	}

	// Opportunistic self-heal: a read of a long-stuck site completes it.
	if _, err := o.ReconcileStuck(ctx, &site); err != nil {
		o.log.Warn("reconcile on read failed",
			zap.String("site_id", siteID),
			zap.Error(err),
		)
	}

	return domain.StatusReport{
		SiteID:      site.ID.String(),
		Status:      site.Status,
		Steps:       site.Steps(),
		Error:       site.ErrorMessage,
		NeedsReview: site.NeedsReview,
	}, nil
}

// PollUntilDone drives a building site to a terminal status. Transient poll
// failures are swallowed and retried next tick; only a terminal status or a
// cancelled context stops the loop.
func (o *Orchestrator) PollUntilDone(ctx context.Context, siteID string) {
	interval := o.cfg.PollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if done := o.pollOnce(ctx, siteID); done {
				return
			}
		}
	}
}

// pollOnce reads deployer status and applies it. Returns true when polling
// should stop.
func (o *Orchestrator) pollOnce(ctx context.Context, siteID string) bool {
	site, err := o.loadAny(ctx, siteID)
	if err != nil {
		metrics.Publish().IncPollTick("error")
		o.log.Warn("poll load failed", zap.String("site_id", siteID), zap.Error(err))
		return false
	}
	if site == nil || site.Status != sitedomain.StatusBuilding {
		return true
	}

	resp, err := o.deployer.Status(ctx, siteID)
	if err != nil {
		// Credential and network failures alike: swallow and retry next tick.
		metrics.Publish().IncPollTick("error")
		o.log.Debug("poll tick failed", zap.String("site_id", siteID), zap.Error(err))
		return false
	}
	metrics.Publish().IncPollTick("ok")

	update := sitedomain.StatusUpdate{Steps: resp.Steps}
	switch resp.Status {
	case string(sitedomain.StatusLive):
		now := o.clock.Now()
		update.Status = sitedomain.StatusLive
		update.PublishedAt = &now
	case string(sitedomain.StatusError):
		update.Status = sitedomain.StatusError
		update.ErrorMessage = resp.Error
	}

	if err := o.sites.ApplyStatus(ctx, site, update); err != nil {
		metrics.Publish().IncPollTick("error")
		o.log.Warn("poll apply failed", zap.String("site_id", siteID), zap.Error(err))
		return false
	}

	return site.Status != sitedomain.StatusBuilding
}

// ReconcileStuck completes a building site whose updated_at went quiet past
// the threshold: the deployer finished but the completion signal was lost.
// The transition is flagged for operator review.
func (o *Orchestrator) ReconcileStuck(ctx context.Context, site *sitedomain.Site) (bool, error) {
	if site == nil || site.Status != sitedomain.StatusBuilding {
		return false, nil
	}

	threshold := o.cfg.StuckThreshold
	if threshold <= 0 {
		threshold = 2 * time.Minute
	}
	if o.clock.Now().Sub(site.UpdatedAt) <= threshold {
		return false, nil
	}

	now := o.clock.Now()
	err := o.sites.ApplyStatus(ctx, site, sitedomain.StatusUpdate{
		Status:      sitedomain.StatusLive,
		Steps:       site.Steps(),
		PublishedAt: &now,
		NeedsReview: true,
	})
	if err != nil {
		return false, err
	}

	metrics.Publish().IncStuckRecovered()
	o.log.Warn("stuck site forced live",
		zap.String("site_id", site.ID.String()),
		zap.Time("last_update", site.UpdatedAt),
	)
	return true, nil
}

// SweepStuck is the scheduler entry point: reconcile stuck building sites in
// one bounded batch.
func (o *Orchestrator) SweepStuck(ctx context.Context) (int, error) {
	threshold := o.cfg.StuckThreshold
	if threshold <= 0 {
		threshold = 2 * time.Minute
	}
	cutoff := o.clock.Now().Add(-threshold)

	stuck, err := o.siteRepo.ListBuildingOlderThan(ctx, o.db, cutoff, 50)
	if err != nil {
		return 0, err
	}

	recovered := 0
	for _, site := range stuck {
		transitioned, err := o.ReconcileStuck(ctx, site)
		if err != nil {
			o.log.Warn("sweep reconcile failed",
				zap.String("site_id", site.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if transitioned {
			recovered++
		}
	}
	return recovered, nil
}

func (o *Orchestrator) loadAny(ctx context.Context, siteID string) (*sitedomain.Site, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(siteID))
	if err != nil {
		return nil, sitedomain.ErrInvalidID
	}
	return o.siteRepo.FindByIDAny(ctx, o.db, parsed)
}

// contentFromSession folds the wizard's appearance and profile picks into the
// site's override layer. Empty fields stay empty so the resolver falls
// through to the template.
func contentFromSession(data wizarddomain.Data) render.SiteContent {
	return render.SiteContent{
		Colors: render.ContentColors{
			Primary:   data.Appearance.PrimaryColor,
			Secondary: data.Appearance.SecondaryColor,
			Heading:   data.Appearance.HeadingColor,
			Body:      data.Appearance.BodyColor,
		},
		Fonts: render.ContentFonts{
			Heading: data.Appearance.HeadingFont,
			Body:    data.Appearance.BodyFont,
		},
		Tagline:  data.Appearance.Tagline,
		About:    data.Appearance.About,
		Sections: data.Appearance.EnabledSections,

		BusinessName: data.Profile.Name,
		Phone:        data.Profile.Phone,
		Email:        data.Profile.Email,
		ServiceArea:  data.Profile.ServiceArea,
		Services:     data.Profile.Services,

		HeroImage:     data.Appearance.HeroImage,
		GalleryImages: data.Appearance.GalleryImages,
	}
}

// hostsForSelection splits a selection into the slug the platform serves and
// the custom domain the tenant owns, if any.
func hostsForSelection(selection wizarddomain.DomainSelection, baseDomain string) (slugHost, customDomain string) {
	name := strings.ToLower(strings.TrimSpace(selection.DomainName))
	switch selection.Type {
	case "subdomain":
		return strings.TrimSuffix(name, "."+baseDomain), ""
	default:
		// Registered and existing domains serve from the domain itself; the
		// slug mirrors its first label for platform-side addressing.
		label := name
		if i := strings.Index(name, "."); i > 0 {
			label = name[:i]
		}
		return label, name
	}
}
