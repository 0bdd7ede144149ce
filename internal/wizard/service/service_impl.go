package service

import (
	"context"
	"strings"
	"sync"

	"github.com/smallbiznis/sitekit/internal/clock"
	sitedomain "github.com/smallbiznis/sitekit/internal/site/domain"
	"github.com/smallbiznis/sitekit/internal/tenantctx"
	"github.com/smallbiznis/sitekit/internal/wizard/domain"
	"github.com/smallbiznis/sitekit/internal/wizard/snapshot"
	"github.com/smallbiznis/sitekit/pkg/telemetry/correlation"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Clock   clock.Clock
	Store   snapshot.Store
	Catalog domain.ServiceCatalog
}

type Service struct {
	log     *zap.Logger
	clock   clock.Clock
	store   snapshot.Store
	catalog domain.ServiceCatalog

	mu       sync.Mutex
	sessions map[string]*domain.Session
}

func New(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("wizard.service"),
		clock:    p.Clock,
		store:    p.Store,
		catalog:  p.Catalog,
		sessions: make(map[string]*domain.Session),
	}
}

func (s *Service) Start(ctx context.Context) (domain.Session, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return domain.Session{}, sitedomain.ErrInvalidTenant
	}

	session := domain.Session{
		ID:             correlation.NewID(),
		TenantID:       tenantID,
		CurrentStep:    domain.MinStep,
		MaxStepReached: domain.MinStep,
		UpdatedAt:      s.clock.Now(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = &session
	s.mu.Unlock()

	s.persist(ctx, &session)
	return session, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Session, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	return *session, nil
}

// Advance validates the current step and moves forward only on success. A
// failed validation returns the message and leaves both step and data alone.
func (s *Service) Advance(ctx context.Context, id string) (domain.AdvanceResult, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return domain.AdvanceResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if msg := validateStep(session.CurrentStep, session.Data); msg != "" {
		return domain.AdvanceResult{OK: false, Message: msg, Session: *session}, nil
	}

	if session.CurrentStep < domain.MaxStep {
		session.CurrentStep++
	}
	if session.CurrentStep > session.MaxStepReached {
		session.MaxStepReached = session.CurrentStep
	}
	session.UpdatedAt = s.clock.Now()

	s.persist(ctx, session)
	return domain.AdvanceResult{OK: true, Session: *session}, nil
}

func (s *Service) Retreat(ctx context.Context, id string) (domain.Session, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if session.CurrentStep > domain.MinStep {
		session.CurrentStep--
	}
	session.UpdatedAt = s.clock.Now()

	s.persist(ctx, session)
	return *session, nil
}

func (s *Service) JumpTo(ctx context.Context, id string, step int) (domain.Session, error) {
	if step < domain.MinStep || step > domain.MaxStep {
		return domain.Session{}, domain.ErrStepOutOfRange
	}

	session, err := s.load(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if step > session.MaxStepReached {
		return domain.Session{}, domain.ErrStepNotReached
	}
	session.CurrentStep = step
	session.UpdatedAt = s.clock.Now()

	s.persist(ctx, session)
	return *session, nil
}

// Mutate merges the patch and synchronously persists the full snapshot before
// returning, so an abrupt termination right after a mutation loses nothing.
func (s *Service) Mutate(ctx context.Context, id string, patch domain.DataPatch) (domain.Session, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	applyPatch(&session.Data, patch)
	session.UpdatedAt = s.clock.Now()

	s.persist(ctx, session)
	return *session, nil
}

// Prefill runs at most once per session. Each field copies independently and
// only into a still-empty wizard field, so a partially populated source is
// safe.
func (s *Service) Prefill(ctx context.Context, id string, source domain.SourceProfile) (domain.Session, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if session.Prefilled {
		return *session, nil
	}
	session.Prefilled = true

	if session.Data.Trade == "" {
		session.Data.Trade = TradeForIndustry(source.Industry)
	}
	if session.Data.Profile.Name == "" {
		session.Data.Profile.Name = strings.TrimSpace(source.Name)
	}
	if session.Data.Profile.Phone == "" {
		session.Data.Profile.Phone = strings.TrimSpace(source.Phone)
	}
	if session.Data.Profile.Email == "" {
		session.Data.Profile.Email = strings.TrimSpace(source.Email)
	}
	if session.Data.Profile.ServiceArea == "" {
		session.Data.Profile.ServiceArea = strings.TrimSpace(source.ServiceArea)
	}
	if len(session.Data.Profile.Services) == 0 && session.Data.Trade != "" {
		services, err := s.catalog.Services(ctx, session.Data.Trade)
		if err != nil {
			s.log.Warn("service catalog unavailable during prefill",
				zap.String("session_id", id),
				zap.Error(err),
			)
		} else {
			session.Data.Profile.Services = services
		}
	}
	session.UpdatedAt = s.clock.Now()

	s.persist(ctx, session)
	return *session, nil
}

func (s *Service) Reset(ctx context.Context, id string) (domain.Session, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session.CurrentStep = domain.MinStep
	session.MaxStepReached = domain.MinStep
	session.Data = domain.Data{}
	session.Prefilled = false
	session.UpdatedAt = s.clock.Now()

	s.persist(ctx, session)
	return *session, nil
}

func (s *Service) Clear(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	if err := s.store.Clear(ctx, id); err != nil {
		s.log.Warn("failed to clear wizard snapshot",
			zap.String("session_id", id),
			zap.Error(err),
		)
	}
	return nil
}

// load returns the in-memory session, hydrating from the snapshot store when
// this process has no copy (restart recovery).
func (s *Service) load(ctx context.Context, id string) (*domain.Session, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrSessionNotFound
	}

	s.mu.Lock()
	session, ok := s.sessions[id]
	s.mu.Unlock()
	if ok {
		return session, nil
	}

	snap, err := s.store.Load(ctx, id)
	if err != nil {
		if err == snapshot.ErrNotFound {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	restored := domain.SessionFromSnapshot(id, snap)
	s.mu.Lock()
	s.sessions[id] = &restored
	s.mu.Unlock()
	return &restored, nil
}

// persist writes the snapshot synchronously. Storage failures are logged and
// swallowed: the session continues in memory rather than blocking the tenant.
func (s *Service) persist(ctx context.Context, session *domain.Session) {
	if err := s.store.Save(ctx, session.ID, session.Snapshot()); err != nil {
		s.log.Warn("wizard snapshot persist failed, continuing in-memory",
			zap.String("session_id", session.ID),
			zap.Error(err),
		)
	}
}

// validateStep returns a human-readable message when the step's gate fails,
// empty string when it passes.
func validateStep(step int, data domain.Data) string {
	switch step {
	case domain.StepTrade:
		if strings.TrimSpace(data.Trade) == "" {
			return "Choose your trade to continue."
		}
	case domain.StepTemplate:
		if strings.TrimSpace(data.TemplateID) == "" {
			return "Pick a template to continue."
		}
	case domain.StepProfile:
		if len(strings.TrimSpace(data.Profile.Name)) < 2 {
			return "Business name must be at least 2 characters."
		}
		if digitCount(data.Profile.Phone) < 10 {
			return "Phone number must have at least 10 digits."
		}
		if len(data.Profile.Services) == 0 {
			return "Add at least one service you offer."
		}
	case domain.StepDomain:
		if data.Domain == nil {
			return "Choose a domain option to continue."
		}
	}
	// Design and review steps accept defaults; launch is gated by the
	// explicit confirmation flag, not by this validator.
	return ""
}

func digitCount(phone string) int {
	count := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			count++
		}
	}
	return count
}

func applyPatch(data *domain.Data, patch domain.DataPatch) {
	if patch.Trade != nil {
		data.Trade = strings.TrimSpace(*patch.Trade)
	}
	if patch.TemplateID != nil {
		data.TemplateID = strings.TrimSpace(*patch.TemplateID)
	}
	if patch.Profile != nil {
		applyProfilePatch(&data.Profile, *patch.Profile)
	}
	if patch.ClearDomain {
		data.Domain = nil
	}
	if patch.Domain != nil {
		selected := *patch.Domain
		data.Domain = &selected
	}
	if patch.SearchSeed != nil {
		data.SearchSeed = *patch.SearchSeed
	}
	if patch.Appearance != nil {
		applyAppearancePatch(&data.Appearance, *patch.Appearance)
	}
	if patch.Confirmed != nil {
		data.Confirmed = *patch.Confirmed
	}
}

func applyProfilePatch(profile *domain.BusinessProfile, patch domain.ProfilePatch) {
	if patch.Name != nil {
		profile.Name = *patch.Name
	}
	if patch.Phone != nil {
		profile.Phone = *patch.Phone
	}
	if patch.Email != nil {
		profile.Email = *patch.Email
	}
	if patch.ServiceArea != nil {
		profile.ServiceArea = *patch.ServiceArea
	}
	if patch.Services != nil {
		profile.Services = append([]string(nil), (*patch.Services)...)
	}
}

func applyAppearancePatch(appearance *domain.Appearance, patch domain.AppearancePatch) {
	if patch.PrimaryColor != nil {
		appearance.PrimaryColor = *patch.PrimaryColor
	}
	if patch.SecondaryColor != nil {
		appearance.SecondaryColor = *patch.SecondaryColor
	}
	if patch.HeadingColor != nil {
		appearance.HeadingColor = *patch.HeadingColor
	}
	if patch.BodyColor != nil {
		appearance.BodyColor = *patch.BodyColor
	}
	if patch.HeadingFont != nil {
		appearance.HeadingFont = *patch.HeadingFont
	}
	if patch.BodyFont != nil {
		appearance.BodyFont = *patch.BodyFont
	}
	if patch.HeroImage != nil {
		appearance.HeroImage = *patch.HeroImage
	}
	if patch.GalleryImages != nil {
		appearance.GalleryImages = append([]string(nil), (*patch.GalleryImages)...)
	}
	if patch.EnabledSections != nil {
		appearance.EnabledSections = append([]string(nil), (*patch.EnabledSections)...)
	}
	if patch.Tagline != nil {
		appearance.Tagline = *patch.Tagline
	}
	if patch.About != nil {
		appearance.About = *patch.About
	}
}
