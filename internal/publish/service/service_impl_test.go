package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/sitekit/internal/clock"
	"github.com/smallbiznis/sitekit/internal/config"
	"github.com/smallbiznis/sitekit/internal/providers/deployer"
	"github.com/smallbiznis/sitekit/internal/publish/domain"
	sitedomain "github.com/smallbiznis/sitekit/internal/site/domain"
	siterepository "github.com/smallbiznis/sitekit/internal/site/repository"
	siteservice "github.com/smallbiznis/sitekit/internal/site/service"
	templatedomain "github.com/smallbiznis/sitekit/internal/template/domain"
	"github.com/smallbiznis/sitekit/internal/tenantctx"
	wizarddomain "github.com/smallbiznis/sitekit/internal/wizard/domain"
	wizardservice "github.com/smallbiznis/sitekit/internal/wizard/service"
	"github.com/smallbiznis/sitekit/internal/wizard/snapshot"
	dbpkg "github.com/smallbiznis/sitekit/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type templateStub struct{}

func (templateStub) GetByID(ctx context.Context, id string) (templatedomain.Template, error) {
	return templatedomain.Template{PrimaryColor: "#1a1a2e"}, nil
}

func (templateStub) List(ctx context.Context, req templatedomain.ListTemplatesRequest) ([]templatedomain.Template, error) {
	return nil, nil
}

type harness struct {
	orch     *Orchestrator
	sites    sitedomain.Service
	siteRepo sitedomain.Repository
	sessions wizarddomain.Service
	fake     *deployer.Fake
	clk      *clock.FakeClock
	db       *gorm.DB
	ctx      context.Context
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	db, err := dbpkg.NewTest()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&sitedomain.Site{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	siteRepo := siterepository.Provide()
	sites := siteservice.New(siteservice.Params{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		Clock:       clk,
		Repo:        siteRepo,
		TemplateSvc: templateStub{},
	})
	sessions := wizardservice.New(wizardservice.Params{
		Log:     zap.NewNop(),
		Clock:   clk,
		Store:   snapshot.NewMemoryStore(),
		Catalog: wizardservice.NewStaticCatalog(),
	})
	fake := &deployer.Fake{}

	cfg := config.Config{
		BaseDomain:     "sites.smallbiznis.app",
		PollInterval:   time.Hour,
		StuckThreshold: 2 * time.Minute,
	}
	orch := New(Params{
		Cfg:      cfg,
		DB:       db,
		Log:      zap.NewNop(),
		Clock:    clk,
		Deployer: fake,
		Sites:    sites,
		SiteRepo: siteRepo,
		Sessions: sessions,
	}).(*Orchestrator)
	t.Cleanup(orch.Shutdown)

	return &harness{
		orch:     orch,
		sites:    sites,
		siteRepo: siteRepo,
		sessions: sessions,
		fake:     fake,
		clk:      clk,
		db:       db,
		ctx:      tenantctx.WithTenantID(context.Background(), node.Generate()),
	}
}

func strptr(s string) *string { return &s }
func boolptr(b bool) *bool    { return &b }

// readySession builds a fully confirmed session ready to launch.
func (h *harness) readySession(t *testing.T) wizarddomain.Session {
	t.Helper()

	session, err := h.sessions.Start(h.ctx)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	services := []string{"Drain cleaning"}
	session, err = h.sessions.Mutate(h.ctx, session.ID, wizarddomain.DataPatch{
		Trade:      strptr("plumbing"),
		TemplateID: strptr("1001"),
		Profile: &wizarddomain.ProfilePatch{
			Name:     strptr("Bob's Plumbing"),
			Phone:    strptr("5551234567"),
			Services: &services,
		},
		Domain: &wizarddomain.DomainSelection{
			Type:       "subdomain",
			DomainName: "bobs-plumbing.sites.smallbiznis.app",
		},
		Confirmed: boolptr(true),
	})
	if err != nil {
		t.Fatalf("mutate session: %v", err)
	}
	return session
}

func (h *harness) siteCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	if err := h.db.Model(&sitedomain.Site{}).Count(&count).Error; err != nil {
		t.Fatalf("count sites: %v", err)
	}
	return count
}

func TestLaunchRequiresConfirmation(t *testing.T) {
	h := newHarness(t)
	session, _ := h.sessions.Start(h.ctx)

	if _, err := h.orch.Launch(h.ctx, domain.LaunchRequest{SessionID: session.ID}); err != domain.ErrNotConfirmed {
		t.Fatalf("expected ErrNotConfirmed, got %v", err)
	}
	if h.fake.ProvisionCalls != 0 {
		t.Fatal("expected no provision call for unconfirmed session")
	}
}

func TestLaunchFailureLeavesNoSite(t *testing.T) {
	h := newHarness(t)
	session := h.readySession(t)
	h.fake.ProvisionErr = deployer.ErrCredential

	if _, err := h.orch.Launch(h.ctx, domain.LaunchRequest{SessionID: session.ID}); !errors.Is(err, deployer.ErrCredential) {
		t.Fatalf("expected credential error surfaced, got %v", err)
	}
	if got := h.siteCount(t); got != 0 {
		t.Fatalf("expected no site rows after failed launch, got %d", got)
	}
	// The session survives for a user-initiated retry.
	if _, err := h.sessions.Get(h.ctx, session.ID); err != nil {
		t.Fatalf("expected session kept, got %v", err)
	}
}

func TestLaunchEntersBuilding(t *testing.T) {
	h := newHarness(t)
	session := h.readySession(t)
	h.fake.ProvisionResp = deployer.ProvisionResponse{
		Accepted: true,
		Status:   "building",
		Steps:    map[string]bool{sitedomain.StepDomainRegistered: true},
	}

	result, err := h.orch.Launch(h.ctx, domain.LaunchRequest{SessionID: session.ID})
	if err != nil {
		t.Fatalf("launch: %v", err)
	}
	if result.Status != sitedomain.StatusBuilding {
		t.Fatalf("expected building, got %s", result.Status)
	}

	site, err := h.sites.GetByID(h.ctx, result.SiteID)
	if err != nil {
		t.Fatalf("get site: %v", err)
	}
	if site.Slug != "bobs-plumbing" || site.DomainType != "subdomain" {
		t.Fatalf("unexpected site: slug=%q type=%q", site.Slug, site.DomainType)
	}
	if !site.Steps()[sitedomain.StepDomainRegistered] {
		t.Fatal("expected initial step recorded")
	}

	// Snapshot is cleared on a successful launch.
	if _, err := h.sessions.Get(h.ctx, session.ID); err != wizarddomain.ErrSessionNotFound {
		t.Fatalf("expected session cleared, got %v", err)
	}
}

func TestLaunchSynchronousLive(t *testing.T) {
	h := newHarness(t)
	session := h.readySession(t)
	h.fake.ProvisionResp = deployer.ProvisionResponse{
		Accepted:    true,
		Synchronous: true,
		Status:      "live",
	}

	result, err := h.orch.Launch(h.ctx, domain.LaunchRequest{SessionID: session.ID})
	if err != nil {
		t.Fatalf("launch: %v", err)
	}
	if result.Status != sitedomain.StatusLive {
		t.Fatalf("expected live, got %s", result.Status)
	}

	site, err := h.sites.GetByID(h.ctx, result.SiteID)
	if err != nil {
		t.Fatalf("get site: %v", err)
	}
	for key, done := range site.Steps() {
		if !done {
			t.Errorf("expected all flags set on synchronous completion, %s is false", key)
		}
	}
	if site.PublishedAt == nil {
		t.Fatal("expected published_at stamped")
	}
}

func TestPollDrivesSiteLive(t *testing.T) {
	h := newHarness(t)
	session := h.readySession(t)
	h.fake.ProvisionResp = deployer.ProvisionResponse{Accepted: true, Status: "building"}
	h.fake.StatusQueue = []deployer.StatusResponse{
		{Status: "building", Steps: map[string]bool{
			sitedomain.StepDomainRegistered: true,
			sitedomain.StepDNSConfigured:    true,
		}},
		{Status: "live", Steps: map[string]bool{
			sitedomain.StepDomainRegistered: true,
			sitedomain.StepDNSConfigured:    true,
			sitedomain.StepSiteGenerated:    true,
			sitedomain.StepDeployed:         true,
			sitedomain.StepLive:             true,
		}},
	}

	result, err := h.orch.Launch(h.ctx, domain.LaunchRequest{SessionID: session.ID})
	if err != nil {
		t.Fatalf("launch: %v", err)
	}

	if done := h.orch.pollOnce(context.Background(), result.SiteID); done {
		t.Fatal("expected polling to continue while building")
	}
	if done := h.orch.pollOnce(context.Background(), result.SiteID); !done {
		t.Fatal("expected polling to stop at live")
	}

	site, err := h.sites.GetByID(h.ctx, result.SiteID)
	if err != nil {
		t.Fatalf("get site: %v", err)
	}
	if site.Status != sitedomain.StatusLive || site.PublishedAt == nil {
		t.Fatalf("expected live with publish stamp, got %+v", site)
	}
}

func TestPollMergesMonotonically(t *testing.T) {
	h := newHarness(t)
	session := h.readySession(t)
	h.fake.ProvisionResp = deployer.ProvisionResponse{
		Accepted: true,
		Status:   "building",
		Steps:    map[string]bool{sitedomain.StepDomainRegistered: true},
	}
	// Stale read drops an already-true flag.
	h.fake.StatusQueue = []deployer.StatusResponse{
		{Status: "building", Steps: map[string]bool{
			sitedomain.StepDomainRegistered: false,
			sitedomain.StepDNSConfigured:    true,
		}},
	}

	result, err := h.orch.Launch(h.ctx, domain.LaunchRequest{SessionID: session.ID})
	if err != nil {
		t.Fatalf("launch: %v", err)
	}
	h.orch.pollOnce(context.Background(), result.SiteID)

	site, err := h.sites.GetByID(h.ctx, result.SiteID)
	if err != nil {
		t.Fatalf("get site: %v", err)
	}
	steps := site.Steps()
	if !steps[sitedomain.StepDomainRegistered] || !steps[sitedomain.StepDNSConfigured] {
		t.Fatalf("expected monotonic merge, got %v", steps)
	}
}

func TestPollSwallowsTransientErrors(t *testing.T) {
	h := newHarness(t)
	session := h.readySession(t)
	h.fake.ProvisionResp = deployer.ProvisionResponse{Accepted: true, Status: "building"}

	result, err := h.orch.Launch(h.ctx, domain.LaunchRequest{SessionID: session.ID})
	if err != nil {
		t.Fatalf("launch: %v", err)
	}

	h.fake.StatusErr = deployer.ErrUnavailable
	if done := h.orch.pollOnce(context.Background(), result.SiteID); done {
		t.Fatal("expected transient error to keep the loop alive")
	}

	site, err := h.sites.GetByID(h.ctx, result.SiteID)
	if err != nil {
		t.Fatalf("get site: %v", err)
	}
	if site.Status != sitedomain.StatusBuilding {
		t.Fatalf("expected still building, got %s", site.Status)
	}
}

func TestPollRecordsTerminalError(t *testing.T) {
	h := newHarness(t)
	session := h.readySession(t)
	h.fake.ProvisionResp = deployer.ProvisionResponse{Accepted: true, Status: "building"}
	h.fake.StatusQueue = []deployer.StatusResponse{
		{Status: "error", Error: "certificate issuance failed"},
	}

	result, err := h.orch.Launch(h.ctx, domain.LaunchRequest{SessionID: session.ID})
	if err != nil {
		t.Fatalf("launch: %v", err)
	}
	if done := h.orch.pollOnce(context.Background(), result.SiteID); !done {
		t.Fatal("expected polling to stop at terminal error")
	}

	report, err := h.orch.Status(h.ctx, result.SiteID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if report.Status != sitedomain.StatusError || report.Error != "certificate issuance failed" {
		t.Fatalf("expected verbatim terminal error, got %+v", report)
	}
}

func TestReconcileStuck(t *testing.T) {
	h := newHarness(t)
	session := h.readySession(t)
	h.fake.ProvisionResp = deployer.ProvisionResponse{Accepted: true, Status: "building"}

	result, err := h.orch.Launch(h.ctx, domain.LaunchRequest{SessionID: session.ID})
	if err != nil {
		t.Fatalf("launch: %v", err)
	}
	site, _ := h.sites.GetByID(h.ctx, result.SiteID)

	// 30 seconds of silence: untouched.
	h.clk.Advance(30 * time.Second)
	transitioned, err := h.orch.ReconcileStuck(h.ctx, &site)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if transitioned || site.Status != sitedomain.StatusBuilding {
		t.Fatalf("expected young build untouched, got %s", site.Status)
	}

	// 3 minutes of silence: forced live, stamped, flagged for review.
	h.clk.Advance(150 * time.Second)
	transitioned, err = h.orch.ReconcileStuck(h.ctx, &site)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if !transitioned || site.Status != sitedomain.StatusLive {
		t.Fatalf("expected forced live, got %s", site.Status)
	}
	if site.PublishedAt == nil || !site.NeedsReview {
		t.Fatalf("expected publish stamp and review flag, got %+v", site)
	}

	// Idempotent: a second pass on the now-live site is a no-op.
	transitioned, err = h.orch.ReconcileStuck(h.ctx, &site)
	if err != nil {
		t.Fatalf("reconcile again: %v", err)
	}
	if transitioned {
		t.Fatal("expected no-op on live site")
	}
}

func TestSweepStuck(t *testing.T) {
	h := newHarness(t)
	h.fake.ProvisionResp = deployer.ProvisionResponse{Accepted: true, Status: "building"}

	first := h.readySession(t)
	if _, err := h.orch.Launch(h.ctx, domain.LaunchRequest{SessionID: first.ID}); err != nil {
		t.Fatalf("launch: %v", err)
	}

	h.clk.Advance(3 * time.Minute)

	// A second launch after the clock jump stays fresh.
	second, err := h.sessions.Start(h.ctx)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := h.sessions.Mutate(h.ctx, second.ID, wizarddomain.DataPatch{
		Trade:      strptr("roofing"),
		TemplateID: strptr("1002"),
		Domain: &wizarddomain.DomainSelection{
			Type:       "subdomain",
			DomainName: "strong-roofing.sites.smallbiznis.app",
		},
		Confirmed: boolptr(true),
	}); err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if _, err := h.orch.Launch(h.ctx, domain.LaunchRequest{SessionID: second.ID}); err != nil {
		t.Fatalf("second launch: %v", err)
	}

	recovered, err := h.orch.SweepStuck(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if recovered != 1 {
		t.Fatalf("expected exactly the stale site recovered, got %d", recovered)
	}
}

func TestStatusReconcilesOnRead(t *testing.T) {
	h := newHarness(t)
	session := h.readySession(t)
	h.fake.ProvisionResp = deployer.ProvisionResponse{Accepted: true, Status: "building"}

	result, err := h.orch.Launch(h.ctx, domain.LaunchRequest{SessionID: session.ID})
	if err != nil {
		t.Fatalf("launch: %v", err)
	}

	h.clk.Advance(3 * time.Minute)
	report, err := h.orch.Status(h.ctx, result.SiteID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if report.Status != sitedomain.StatusLive || !report.NeedsReview {
		t.Fatalf("expected opportunistic reconcile on read, got %+v", report)
	}
}
