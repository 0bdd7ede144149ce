package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/sitekit/internal/clock"
	"github.com/smallbiznis/sitekit/internal/config"
	"github.com/smallbiznis/sitekit/internal/domains/domain"
	"github.com/smallbiznis/sitekit/internal/providers/domainsearch"
	"github.com/smallbiznis/sitekit/internal/tenantctx"
	wizarddomain "github.com/smallbiznis/sitekit/internal/wizard/domain"
	wizardservice "github.com/smallbiznis/sitekit/internal/wizard/service"
	"github.com/smallbiznis/sitekit/internal/wizard/snapshot"
	"go.uber.org/zap"
)

type searchStub struct {
	suggestions []domainsearch.Suggestion
	err         error
	calls       int
	lastSeed    string
}

func (s *searchStub) Search(ctx context.Context, req domainsearch.SearchRequest) ([]domainsearch.Suggestion, error) {
	s.calls++
	s.lastSeed = req.Seed
	return s.suggestions, s.err
}

func strptr(s string) *string { return &s }

func setup(t *testing.T, search *searchStub) (domain.Service, wizarddomain.Service, context.Context) {
	t.Helper()

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	sessions := wizardservice.New(wizardservice.Params{
		Log:     zap.NewNop(),
		Clock:   clock.NewFakeClock(time.Now()),
		Store:   snapshot.NewMemoryStore(),
		Catalog: wizardservice.NewStaticCatalog(),
	})
	svc := New(Params{
		Cfg: config.Config{
			BaseDomain:       "sites.smallbiznis.app",
			JurisdictionHint: "US",
			DNSTargetIP:      "76.76.21.21",
			DNSTargetHost:    "edge.smallbiznis.app",
		},
		Log:      zap.NewNop(),
		Search:   search,
		Sessions: sessions,
	})
	return svc, sessions, tenantctx.WithTenantID(context.Background(), node.Generate())
}

func TestSearchSanitizesFirstEntryOnly(t *testing.T) {
	search := &searchStub{}
	svc, _, ctx := setup(t, search)

	resp, err := svc.Search(ctx, domain.SearchRequest{Seed: "Bob's Plumbing!"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if resp.Seed != "bobsplumbing" {
		t.Fatalf("expected sanitized seed, got %q", resp.Seed)
	}
	if search.lastSeed != "bobsplumbing" {
		t.Fatalf("expected sanitized seed sent to provider, got %q", search.lastSeed)
	}

	// Subsequent entries arrive pre-sanitized and pass through verbatim.
	if _, err := svc.Search(ctx, domain.SearchRequest{Seed: "bobsplumbing2", Sanitized: true}); err != nil {
		t.Fatalf("search: %v", err)
	}
	if search.lastSeed != "bobsplumbing2" {
		t.Fatalf("expected verbatim seed, got %q", search.lastSeed)
	}
}

func TestSearchEmptySeedIsNoOp(t *testing.T) {
	search := &searchStub{}
	svc, _, ctx := setup(t, search)

	resp, err := svc.Search(ctx, domain.SearchRequest{Seed: "!!!"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(resp.Suggestions) != 0 || search.calls != 0 {
		t.Fatalf("expected no collaborator call for empty seed, got %d calls", search.calls)
	}
}

func TestSearchOrdersAvailableFirst(t *testing.T) {
	search := &searchStub{suggestions: []domainsearch.Suggestion{
		{DomainName: "taken1.com", Available: false},
		{DomainName: "open1.com", Available: true},
		{DomainName: "taken2.com", Available: false},
		{DomainName: "open2.com", Available: true},
	}}
	svc, _, ctx := setup(t, search)

	resp, err := svc.Search(ctx, domain.SearchRequest{Seed: "open"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	var names []string
	for _, sg := range resp.Suggestions {
		names = append(names, sg.DomainName)
	}
	want := "open1.com,open2.com,taken1.com,taken2.com"
	if got := strings.Join(names, ","); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestSearchTruncatesToDisplayCap(t *testing.T) {
	search := &searchStub{}
	for i := 0; i < 20; i++ {
		search.suggestions = append(search.suggestions, domainsearch.Suggestion{
			DomainName: "name.com",
			Available:  i%2 == 0,
		})
	}
	svc, _, ctx := setup(t, search)

	resp, err := svc.Search(ctx, domain.SearchRequest{Seed: "name"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(resp.Suggestions) != displayCap {
		t.Fatalf("expected %d suggestions, got %d", displayCap, len(resp.Suggestions))
	}
}

func TestSearchProviderErrorSurfaced(t *testing.T) {
	search := &searchStub{err: domainsearch.ErrUnavailable}
	svc, _, ctx := setup(t, search)

	if _, err := svc.Search(ctx, domain.SearchRequest{Seed: "anything"}); !errors.Is(err, domainsearch.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestSelectExistingValidation(t *testing.T) {
	svc, sessions, ctx := setup(t, &searchStub{})
	session, _ := sessions.Start(ctx)

	for _, bad := range []string{"", "ab", "nodots"} {
		if _, err := svc.SelectExisting(ctx, session.ID, bad); err != domain.ErrInvalidDomain {
			t.Errorf("SelectExisting(%q): expected ErrInvalidDomain, got %v", bad, err)
		}
	}

	got, err := svc.SelectExisting(ctx, session.ID, "My-Shop.com")
	if err != nil {
		t.Fatalf("select existing: %v", err)
	}
	if got.Data.Domain == nil || got.Data.Domain.Type != "existing" || got.Data.Domain.DomainName != "my-shop.com" {
		t.Fatalf("unexpected selection: %+v", got.Data.Domain)
	}
	if got.Data.Domain.Price != 0 {
		t.Fatalf("expected zero price for existing domain, got %v", got.Data.Domain.Price)
	}
}

func TestSelectSubdomainFromBusinessName(t *testing.T) {
	svc, sessions, ctx := setup(t, &searchStub{})
	session, _ := sessions.Start(ctx)

	if _, err := sessions.Mutate(ctx, session.ID, wizarddomain.DataPatch{
		Profile: &wizarddomain.ProfilePatch{Name: strptr("Bob's Painting Co!!")},
	}); err != nil {
		t.Fatalf("mutate: %v", err)
	}

	got, err := svc.SelectSubdomain(ctx, session.ID)
	if err != nil {
		t.Fatalf("select subdomain: %v", err)
	}
	if got.Data.Domain == nil || got.Data.Domain.DomainName != "bobs-painting-co.sites.smallbiznis.app" {
		t.Fatalf("unexpected selection: %+v", got.Data.Domain)
	}
	if got.Data.Domain.Type != "subdomain" || got.Data.Domain.Price != 0 {
		t.Fatalf("unexpected selection metadata: %+v", got.Data.Domain)
	}
}

func TestSelectSubdomainAlwaysSucceeds(t *testing.T) {
	svc, sessions, ctx := setup(t, &searchStub{})
	session, _ := sessions.Start(ctx)

	// No business name at all: the flow still yields a usable subdomain.
	got, err := svc.SelectSubdomain(ctx, session.ID)
	if err != nil {
		t.Fatalf("select subdomain: %v", err)
	}
	if got.Data.Domain == nil || !strings.HasSuffix(got.Data.Domain.DomainName, ".sites.smallbiznis.app") {
		t.Fatalf("unexpected selection: %+v", got.Data.Domain)
	}
	label := strings.TrimSuffix(got.Data.Domain.DomainName, ".sites.smallbiznis.app")
	if label == "" || strings.HasSuffix(label, "-") {
		t.Fatalf("unusable label %q", label)
	}
}

func TestDeriveSlugCapsLength(t *testing.T) {
	long := "The Extremely Long Business Name Of Greater Springfield County"
	label := DeriveSlug(long)
	if len(label) > 30 {
		t.Fatalf("expected cap at 30, got %d", len(label))
	}
	if strings.HasSuffix(label, "-") || strings.HasPrefix(label, "-") {
		t.Fatalf("expected trimmed hyphens, got %q", label)
	}
}

func TestModeSwitchClearsPriorSelection(t *testing.T) {
	svc, sessions, ctx := setup(t, &searchStub{})
	session, _ := sessions.Start(ctx)

	if _, err := svc.SelectExisting(ctx, session.ID, "owned.com"); err != nil {
		t.Fatalf("select existing: %v", err)
	}
	got, err := svc.SelectNew(ctx, session.ID, domainsearch.Suggestion{
		DomainName: "fresh.com",
		Available:  true,
		Price:      12.99,
	})
	if err != nil {
		t.Fatalf("select new: %v", err)
	}
	if got.Data.Domain.Type != "new" || got.Data.Domain.DomainName != "fresh.com" {
		t.Fatalf("expected new selection to replace existing, got %+v", got.Data.Domain)
	}
}

func TestSelectNewRequiresAvailability(t *testing.T) {
	svc, sessions, ctx := setup(t, &searchStub{})
	session, _ := sessions.Start(ctx)

	if _, err := svc.SelectNew(ctx, session.ID, domainsearch.Suggestion{DomainName: "taken.com"}); err != domain.ErrDomainUnavailable {
		t.Fatalf("expected ErrDomainUnavailable, got %v", err)
	}
}

func TestInstructions(t *testing.T) {
	svc, _, ctx := setup(t, &searchStub{})
	instr := svc.Instructions(ctx)
	if instr.ARecordTarget != "76.76.21.21" || instr.CNAMETarget != "edge.smallbiznis.app" {
		t.Fatalf("unexpected instructions: %+v", instr)
	}
}
