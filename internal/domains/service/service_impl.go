package service

import (
	"context"
	"strings"

	"github.com/gosimple/slug"
	"github.com/smallbiznis/sitekit/internal/config"
	"github.com/smallbiznis/sitekit/internal/domains/domain"
	"github.com/smallbiznis/sitekit/internal/providers/domainsearch"
	wizarddomain "github.com/smallbiznis/sitekit/internal/wizard/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// displayCap bounds how many suggestions the picker shows.
const displayCap = 12

// maxSlugLen caps the derived subdomain label.
const maxSlugLen = 30

type Params struct {
	fx.In

	Cfg      config.Config
	Log      *zap.Logger
	Search   domainsearch.Provider
	Sessions wizarddomain.Service
}

type Service struct {
	cfg      config.Config
	log      *zap.Logger
	search   domainsearch.Provider
	sessions wizarddomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		cfg:      p.Cfg,
		log:      p.Log.Named("domains.service"),
		search:   p.Search,
		sessions: p.Sessions,
	}
}

func (s *Service) Search(ctx context.Context, req domain.SearchRequest) (domain.SearchResponse, error) {
	seed := req.Seed
	if !req.Sanitized {
		seed = SanitizeSeed(seed)
	}
	if seed == "" {
		// Empty term is a no-op: no collaborator call, no error.
		return domain.SearchResponse{Seed: seed}, nil
	}

	suggestions, err := s.search.Search(ctx, domainsearch.SearchRequest{
		Seed:             seed,
		JurisdictionHint: s.cfg.JurisdictionHint,
	})
	if err != nil {
		return domain.SearchResponse{}, err
	}

	return domain.SearchResponse{
		Seed:        seed,
		Suggestions: orderForDisplay(suggestions),
	}, nil
}

func (s *Service) SelectNew(ctx context.Context, sessionID string, suggestion domainsearch.Suggestion) (wizarddomain.Session, error) {
	name := strings.ToLower(strings.TrimSpace(suggestion.DomainName))
	if name == "" {
		return wizarddomain.Session{}, domain.ErrInvalidDomain
	}
	if !suggestion.Available {
		return wizarddomain.Session{}, domain.ErrDomainUnavailable
	}

	return s.applySelection(ctx, sessionID, wizarddomain.DomainSelection{
		Type:         "new",
		DomainName:   name,
		Price:        suggestion.Price,
		RenewalPrice: suggestion.RenewalPrice,
		Premium:      suggestion.Premium,
	})
}

func (s *Service) SelectExisting(ctx context.Context, sessionID, domainName string) (wizarddomain.Session, error) {
	name := strings.ToLower(strings.TrimSpace(domainName))
	if len(name) < 3 || !strings.Contains(name, ".") {
		return wizarddomain.Session{}, domain.ErrInvalidDomain
	}

	return s.applySelection(ctx, sessionID, wizarddomain.DomainSelection{
		Type:       "existing",
		DomainName: name,
	})
}

func (s *Service) SelectSubdomain(ctx context.Context, sessionID string) (wizarddomain.Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return wizarddomain.Session{}, err
	}

	label := DeriveSlug(session.Data.Profile.Name)
	if label == "" {
		// No usable business name yet; this flow still must succeed.
		label = "site-" + strings.ToLower(sessionID)
		if len(label) > maxSlugLen {
			label = strings.TrimRight(label[:maxSlugLen], "-")
		}
	}

	return s.applySelection(ctx, sessionID, wizarddomain.DomainSelection{
		Type:       "subdomain",
		DomainName: label + "." + s.cfg.BaseDomain,
	})
}

func (s *Service) Instructions(ctx context.Context) domain.DNSInstructions {
	return domain.DNSInstructions{
		ARecordTarget: s.cfg.DNSTargetIP,
		CNAMETarget:   s.cfg.DNSTargetHost,
		Note:          "Create an A record for the apex pointing at the IP, and a CNAME for www pointing at the host. Propagation can take up to 48 hours.",
	}
}

// applySelection replaces any prior selection: a session holds at most one, across
// all three flows.
func (s *Service) applySelection(ctx context.Context, sessionID string, selection wizarddomain.DomainSelection) (wizarddomain.Session, error) {
	return s.sessions.Mutate(ctx, sessionID, wizarddomain.DataPatch{
		ClearDomain: true,
		Domain:      &selection,
	})
}

// SanitizeSeed lowercases and strips non-alphanumerics. Applied once, when
// the seed is first entered; afterwards the seed is taken verbatim.
func SanitizeSeed(seed string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(seed) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DeriveSlug turns a business name into a subdomain label: lowercase,
// non-alphanumeric runs collapsed to single hyphens, trimmed, capped without
// leaving a trailing hyphen. Apostrophes are dropped outright so "Bob's"
// yields bobs, not bob-s.
func DeriveSlug(name string) string {
	cleaned := strings.NewReplacer("'", "", "’", "").Replace(name)
	label := slug.Make(cleaned)
	if len(label) > maxSlugLen {
		label = strings.TrimRight(label[:maxSlugLen], "-")
	}
	return label
}

// orderForDisplay puts available names first, keeps provider order within
// each group, and truncates to the display cap.
func orderForDisplay(suggestions []domainsearch.Suggestion) []domainsearch.Suggestion {
	ordered := make([]domainsearch.Suggestion, 0, len(suggestions))
	for _, sg := range suggestions {
		if sg.Available {
			ordered = append(ordered, sg)
		}
	}
	for _, sg := range suggestions {
		if !sg.Available {
			ordered = append(ordered, sg)
		}
	}
	if len(ordered) > displayCap {
		ordered = ordered[:displayCap]
	}
	return ordered
}
