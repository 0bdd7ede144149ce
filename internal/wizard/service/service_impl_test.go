package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/sitekit/internal/clock"
	"github.com/smallbiznis/sitekit/internal/tenantctx"
	"github.com/smallbiznis/sitekit/internal/wizard/domain"
	"github.com/smallbiznis/sitekit/internal/wizard/snapshot"
	"go.uber.org/zap"
)

type failingStore struct {
	saves  int
	clears int
}

func (f *failingStore) Load(ctx context.Context, sessionID string) (domain.Snapshot, error) {
	return domain.Snapshot{}, snapshot.ErrNotFound
}

func (f *failingStore) Save(ctx context.Context, sessionID string, snap domain.Snapshot) error {
	f.saves++
	return errors.New("quota exceeded")
}

func (f *failingStore) Clear(ctx context.Context, sessionID string) error {
	f.clears++
	return nil
}

func strptr(s string) *string { return &s }

func newWizard(t *testing.T, store snapshot.Store) (domain.Service, context.Context) {
	t.Helper()

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	svc := New(Params{
		Log:     zap.NewNop(),
		Clock:   clock.NewFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)),
		Store:   store,
		Catalog: NewStaticCatalog(),
	})
	return svc, tenantctx.WithTenantID(context.Background(), node.Generate())
}

func TestAdvanceTradeUnset(t *testing.T) {
	svc, ctx := newWizard(t, snapshot.NewMemoryStore())
	session, err := svc.Start(ctx)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	result, err := svc.Advance(ctx, session.ID)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if result.OK {
		t.Fatal("expected validation failure with trade unset")
	}
	if result.Message == "" {
		t.Error("expected a human-readable message")
	}
	if result.Session.CurrentStep != 1 {
		t.Errorf("expected current step to stay 1, got %d", result.Session.CurrentStep)
	}
}

func TestAdvanceFailureLeavesDataUntouched(t *testing.T) {
	svc, ctx := newWizard(t, snapshot.NewMemoryStore())
	session, _ := svc.Start(ctx)

	mutated, err := svc.Mutate(ctx, session.ID, domain.DataPatch{Trade: strptr("plumbing")})
	if err != nil {
		t.Fatalf("mutate: %v", err)
	}
	before := mutated.Data

	// Step 1 passes, step 2 fails (no template). Data must be unchanged.
	if result, _ := svc.Advance(ctx, session.ID); !result.OK {
		t.Fatalf("step 1 should pass: %s", result.Message)
	}
	result, err := svc.Advance(ctx, session.ID)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if result.OK {
		t.Fatal("expected step 2 to fail without a template")
	}
	if !reflect.DeepEqual(result.Session.Data, before) {
		t.Fatalf("data mutated on failed advance:\n%+v\n%+v", before, result.Session.Data)
	}
}

func TestProfileValidationCitesPhone(t *testing.T) {
	svc, ctx := newWizard(t, snapshot.NewMemoryStore())
	session, _ := svc.Start(ctx)

	if _, err := svc.Mutate(ctx, session.ID, domain.DataPatch{
		Trade:      strptr("plumbing"),
		TemplateID: strptr("1001"),
		Profile: &domain.ProfilePatch{
			Name:  strptr("Jo"),
			Phone: strptr("555-1234"),
		},
	}); err != nil {
		t.Fatalf("mutate: %v", err)
	}

	for i := 0; i < 2; i++ {
		if result, _ := svc.Advance(ctx, session.ID); !result.OK {
			t.Fatalf("step %d should pass: %s", i+1, result.Message)
		}
	}

	// "Jo" is exactly 2 characters, so the name gate passes and the failure
	// must cite the 7-digit phone number.
	result, err := svc.Advance(ctx, session.ID)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if result.OK {
		t.Fatal("expected step 3 to fail on phone")
	}
	if result.Message != "Phone number must have at least 10 digits." {
		t.Fatalf("expected phone message, got %q", result.Message)
	}

	services := []string{"Drain cleaning"}
	if _, err := svc.Mutate(ctx, session.ID, domain.DataPatch{
		Profile: &domain.ProfilePatch{
			Phone:    strptr("555-123-4567"),
			Services: &services,
		},
	}); err != nil {
		t.Fatalf("mutate: %v", err)
	}

	result, err = svc.Advance(ctx, session.ID)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if !result.OK {
		t.Fatalf("expected step 3 to pass after correction, got %q", result.Message)
	}
	if result.Session.CurrentStep != 4 {
		t.Errorf("expected current step 4, got %d", result.Session.CurrentStep)
	}
}

func TestDesignAndReviewAlwaysValidate(t *testing.T) {
	svc, ctx := newWizard(t, snapshot.NewMemoryStore())
	session, _ := svc.Start(ctx)

	services := []string{"Roof repair"}
	if _, err := svc.Mutate(ctx, session.ID, domain.DataPatch{
		Trade:      strptr("roofing"),
		TemplateID: strptr("1001"),
		Profile: &domain.ProfilePatch{
			Name:     strptr("Strong Roofing"),
			Phone:    strptr("5551234567"),
			Services: &services,
		},
		Domain: &domain.DomainSelection{Type: "subdomain", DomainName: "strong-roofing.sites.smallbiznis.app"},
	}); err != nil {
		t.Fatalf("mutate: %v", err)
	}

	for step := 1; step <= 5; step++ {
		result, err := svc.Advance(ctx, session.ID)
		if err != nil {
			t.Fatalf("advance from step %d: %v", step, err)
		}
		if !result.OK {
			t.Fatalf("step %d should pass with defaults: %s", step, result.Message)
		}
	}

	// Step 6 validates too; the step counter caps at 6.
	result, _ := svc.Advance(ctx, session.ID)
	if !result.OK || result.Session.CurrentStep != 6 {
		t.Fatalf("expected capped step 6, got ok=%v step=%d", result.OK, result.Session.CurrentStep)
	}
}

func TestRetreatFloorsAtOne(t *testing.T) {
	svc, ctx := newWizard(t, snapshot.NewMemoryStore())
	session, _ := svc.Start(ctx)

	got, err := svc.Retreat(ctx, session.ID)
	if err != nil {
		t.Fatalf("retreat: %v", err)
	}
	if got.CurrentStep != 1 {
		t.Fatalf("expected floor 1, got %d", got.CurrentStep)
	}
}

func TestJumpToRequiresReachedStep(t *testing.T) {
	svc, ctx := newWizard(t, snapshot.NewMemoryStore())
	session, _ := svc.Start(ctx)

	if _, err := svc.JumpTo(ctx, session.ID, 3); err != domain.ErrStepNotReached {
		t.Fatalf("expected ErrStepNotReached, got %v", err)
	}
	if _, err := svc.JumpTo(ctx, session.ID, 9); err != domain.ErrStepOutOfRange {
		t.Fatalf("expected ErrStepOutOfRange, got %v", err)
	}

	if _, err := svc.Mutate(ctx, session.ID, domain.DataPatch{Trade: strptr("hvac")}); err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if result, _ := svc.Advance(ctx, session.ID); !result.OK {
		t.Fatalf("advance: %s", result.Message)
	}

	got, err := svc.JumpTo(ctx, session.ID, 1)
	if err != nil {
		t.Fatalf("jump back: %v", err)
	}
	if got.CurrentStep != 1 || got.MaxStepReached != 2 {
		t.Fatalf("expected step 1 with max 2, got %d/%d", got.CurrentStep, got.MaxStepReached)
	}
	if _, err := svc.JumpTo(ctx, session.ID, 2); err != nil {
		t.Fatalf("jump to reached step: %v", err)
	}
}

func TestMutatePersistsSynchronously(t *testing.T) {
	store := snapshot.NewMemoryStore()
	svc, ctx := newWizard(t, store)
	session, _ := svc.Start(ctx)

	if _, err := svc.Mutate(ctx, session.ID, domain.DataPatch{Trade: strptr("painting")}); err != nil {
		t.Fatalf("mutate: %v", err)
	}

	snap, err := store.Load(ctx, session.ID)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if snap.Data.Trade != "painting" {
		t.Fatalf("expected snapshot written before mutate returned, got %+v", snap.Data)
	}
}

func TestCrashRecoveryFromSnapshot(t *testing.T) {
	store := snapshot.NewMemoryStore()
	svc, ctx := newWizard(t, store)
	session, _ := svc.Start(ctx)
	if _, err := svc.Mutate(ctx, session.ID, domain.DataPatch{Trade: strptr("cleaning")}); err != nil {
		t.Fatalf("mutate: %v", err)
	}

	// A new service instance over the same store models a process restart.
	restarted := New(Params{
		Log:     zap.NewNop(),
		Clock:   clock.NewFakeClock(time.Now()),
		Store:   store,
		Catalog: NewStaticCatalog(),
	})
	recovered, err := restarted.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("get after restart: %v", err)
	}
	if recovered.Data.Trade != "cleaning" || recovered.TenantID != session.TenantID {
		t.Fatalf("expected recovered session, got %+v", recovered)
	}
}

func TestPersistFailureDegradesGracefully(t *testing.T) {
	store := &failingStore{}
	svc, ctx := newWizard(t, store)
	session, err := svc.Start(ctx)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	mutated, err := svc.Mutate(ctx, session.ID, domain.DataPatch{Trade: strptr("electrical")})
	if err != nil {
		t.Fatalf("expected persist failure swallowed, got %v", err)
	}
	if mutated.Data.Trade != "electrical" {
		t.Fatalf("expected in-memory session to carry the mutation, got %+v", mutated.Data)
	}
	if store.saves == 0 {
		t.Fatal("expected a synchronous save attempt")
	}
}

func TestPrefillOncePerSession(t *testing.T) {
	svc, ctx := newWizard(t, snapshot.NewMemoryStore())
	session, _ := svc.Start(ctx)

	source := domain.SourceProfile{
		Industry:    "plumber",
		Name:        "Bob's Plumbing",
		Phone:       "5551234567",
		ServiceArea: "Springfield",
	}
	first, err := svc.Prefill(ctx, session.ID, source)
	if err != nil {
		t.Fatalf("prefill: %v", err)
	}
	if first.Data.Trade != "plumbing" {
		t.Errorf("expected industry mapped to plumbing, got %q", first.Data.Trade)
	}
	if first.Data.Profile.Name != "Bob's Plumbing" || first.Data.Profile.Email != "" {
		t.Errorf("expected partial source copied field-wise, got %+v", first.Data.Profile)
	}
	if len(first.Data.Profile.Services) == 0 {
		t.Error("expected services seeded from catalog")
	}
	if !first.Prefilled {
		t.Error("expected prefilled flag set")
	}

	// User renames the business; a second prefill must not overwrite it.
	if _, err := svc.Mutate(ctx, session.ID, domain.DataPatch{
		Profile: &domain.ProfilePatch{Name: strptr("Bob & Sons Plumbing")},
	}); err != nil {
		t.Fatalf("mutate: %v", err)
	}
	second, err := svc.Prefill(ctx, session.ID, source)
	if err != nil {
		t.Fatalf("second prefill: %v", err)
	}
	if second.Data.Profile.Name != "Bob & Sons Plumbing" {
		t.Fatalf("second prefill overwrote user data: %+v", second.Data.Profile)
	}
}

func TestPrefillDoesNotOverwriteExistingFields(t *testing.T) {
	svc, ctx := newWizard(t, snapshot.NewMemoryStore())
	session, _ := svc.Start(ctx)

	if _, err := svc.Mutate(ctx, session.ID, domain.DataPatch{
		Trade:   strptr("roofing"),
		Profile: &domain.ProfilePatch{Email: strptr("owner@example.com")},
	}); err != nil {
		t.Fatalf("mutate: %v", err)
	}

	got, err := svc.Prefill(ctx, session.ID, domain.SourceProfile{
		Industry: "plumber",
		Email:    "other@example.com",
		Phone:    "5559876543",
	})
	if err != nil {
		t.Fatalf("prefill: %v", err)
	}
	if got.Data.Trade != "roofing" {
		t.Errorf("expected existing trade kept, got %q", got.Data.Trade)
	}
	if got.Data.Profile.Email != "owner@example.com" {
		t.Errorf("expected existing email kept, got %q", got.Data.Profile.Email)
	}
	if got.Data.Profile.Phone != "5559876543" {
		t.Errorf("expected empty phone filled, got %q", got.Data.Profile.Phone)
	}
}

func TestResetAndClear(t *testing.T) {
	store := snapshot.NewMemoryStore()
	svc, ctx := newWizard(t, store)
	session, _ := svc.Start(ctx)
	if _, err := svc.Mutate(ctx, session.ID, domain.DataPatch{Trade: strptr("hvac")}); err != nil {
		t.Fatalf("mutate: %v", err)
	}

	got, err := svc.Reset(ctx, session.ID)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if got.Data.Trade != "" || got.CurrentStep != 1 || got.Prefilled {
		t.Fatalf("expected clean session after reset, got %+v", got)
	}

	if err := svc.Clear(ctx, session.ID); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := svc.Get(ctx, session.ID); err != domain.ErrSessionNotFound {
		t.Fatalf("expected session gone after clear, got %v", err)
	}
	if _, err := store.Load(ctx, session.ID); err != snapshot.ErrNotFound {
		t.Fatalf("expected snapshot cleared, got %v", err)
	}
}

func TestTradeForIndustry(t *testing.T) {
	tests := []struct {
		industry string
		want     string
	}{
		{"plumber", "plumbing"},
		{"Heating_Cooling", "hvac"},
		{"taxidermy", "general"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := TradeForIndustry(tt.industry); got != tt.want {
			t.Errorf("TradeForIndustry(%q) = %q, want %q", tt.industry, got, tt.want)
		}
	}
}
