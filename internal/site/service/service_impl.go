package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/sitekit/internal/clock"
	"github.com/smallbiznis/sitekit/internal/render"
	"github.com/smallbiznis/sitekit/internal/site/domain"
	templatedomain "github.com/smallbiznis/sitekit/internal/template/domain"
	"github.com/smallbiznis/sitekit/internal/tenantctx"
	dbpkg "github.com/smallbiznis/sitekit/pkg/db"
	"github.com/smallbiznis/sitekit/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        domain.Repository
	TemplateSvc templatedomain.Service
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        domain.Repository
	templateSvc templatedomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("site.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		templateSvc: p.TemplateSvc,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateSiteRequest) (domain.Site, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return domain.Site{}, domain.ErrInvalidTenant
	}

	templateID, err := snowflake.ParseString(strings.TrimSpace(req.TemplateID))
	if err != nil {
		return domain.Site{}, domain.ErrInvalidTemplate
	}

	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if slug == "" {
		return domain.Site{}, domain.ErrInvalidSlug
	}

	status := req.Status
	if status == "" {
		status = domain.StatusDraft
	}

	contentJSON, err := json.Marshal(req.Content)
	if err != nil {
		return domain.Site{}, err
	}

	steps := datatypes.JSONMap{}
	for _, key := range domain.PublishStepKeys() {
		steps[key] = req.Steps[key]
	}

	now := s.clock.Now()
	site := domain.Site{
		ID:           s.genID.Generate(),
		TenantID:     tenantID,
		TemplateID:   templateID,
		Status:       status,
		Slug:         slug,
		CustomDomain: strings.ToLower(strings.TrimSpace(req.CustomDomain)),
		DomainType:   req.DomainType,
		SiteContent:  datatypes.JSON(contentJSON),
		PublishSteps: steps,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if status == domain.StatusLive {
		site.PublishedAt = &now
		site.PublishSteps = domain.AllSteps(true)
	}

	if err := s.repo.Insert(ctx, s.db, &site); err != nil {
		if dbpkg.IsDuplicateKeyErr(err) {
			return domain.Site{}, domain.ErrSlugTaken
		}
		return domain.Site{}, err
	}

	return site, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Site, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return domain.Site{}, domain.ErrInvalidTenant
	}
	parsed, err := parseID(id)
	if err != nil {
		return domain.Site{}, err
	}

	site, err := s.repo.FindByID(ctx, s.db, tenantID, parsed)
	if err != nil {
		return domain.Site{}, err
	}
	if site == nil {
		return domain.Site{}, domain.ErrNotFound
	}
	return *site, nil
}

func (s *Service) GetByHost(ctx context.Context, host string) (domain.Site, error) {
	site, err := s.repo.FindByHost(ctx, s.db, host)
	if err != nil {
		return domain.Site{}, err
	}
	if site == nil {
		return domain.Site{}, domain.ErrNotFound
	}
	return *site, nil
}

func (s *Service) List(ctx context.Context, req domain.ListSitesRequest) (domain.ListSitesResponse, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return domain.ListSitesResponse{}, domain.ErrInvalidTenant
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, tenantID, domain.ListSiteFilter{
		Status: domain.Status(strings.TrimSpace(req.Status)),
	}, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListSitesResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(site *domain.Site) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        site.ID.String(),
			CreatedAt: site.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	sites := make([]domain.Site, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		sites = append(sites, *item)
	}

	resp := domain.ListSitesResponse{Sites: sites}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

// ApplyStatus enforces the state machine and the monotonic flag merge, then
// persists the site with a refreshed updated_at. updated_at is the liveness
// signal the stuck-site sweep keys off, so every phase transition must touch it.
func (s *Service) ApplyStatus(ctx context.Context, site *domain.Site, update domain.StatusUpdate) error {
	if site == nil {
		return domain.ErrNotFound
	}

	if update.Status != "" && update.Status != site.Status {
		if !domain.CanTransition(site.Status, update.Status) {
			return domain.ErrInvalidTransition
		}
		site.Status = update.Status
	}

	if update.Steps != nil {
		site.PublishSteps = domain.MergeSteps(site.PublishSteps, update.Steps)
	}
	if update.ErrorMessage != "" {
		site.ErrorMessage = update.ErrorMessage
	}
	if update.NeedsReview {
		site.NeedsReview = true
	}
	if update.PublishedAt != nil {
		site.PublishedAt = update.PublishedAt
	}
	if site.Status == domain.StatusLive {
		site.PublishSteps = domain.AllSteps(true)
		if site.PublishedAt == nil {
			now := s.clock.Now()
			site.PublishedAt = &now
		}
	}
	site.UpdatedAt = s.clock.Now()

	return s.repo.Update(ctx, s.db, site)
}

func (s *Service) UpdateContent(ctx context.Context, id string, content render.SiteContent) (domain.Site, error) {
	site, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Site{}, err
	}

	contentJSON, err := json.Marshal(content)
	if err != nil {
		return domain.Site{}, err
	}
	site.SiteContent = datatypes.JSON(contentJSON)
	site.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, &site); err != nil {
		return domain.Site{}, err
	}
	return site, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	site, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if site.Status == domain.StatusBuilding {
		return domain.ErrInvalidTransition
	}
	return s.repo.Delete(ctx, s.db, site.TenantID, site.ID)
}

func (s *Service) Preview(ctx context.Context, id string) (render.Model, error) {
	site, err := s.GetByID(ctx, id)
	if err != nil {
		return render.Model{}, err
	}
	return s.resolve(ctx, site)
}

func (s *Service) ResolveByHost(ctx context.Context, host string) (render.Model, error) {
	site, err := s.GetByHost(ctx, host)
	if err != nil {
		return render.Model{}, err
	}
	if site.Status != domain.StatusLive {
		return render.Model{}, domain.ErrNotLive
	}
	return s.resolve(ctx, site)
}

func (s *Service) resolve(ctx context.Context, site domain.Site) (render.Model, error) {
	content, err := site.Content()
	if err != nil {
		s.log.Warn("malformed site content, resolving from template only",
			zap.String("site_id", site.ID.String()),
			zap.Error(err),
		)
		content = render.SiteContent{}
	}

	tpl, err := s.templateSvc.GetByID(ctx, site.TemplateID.String())
	if err != nil && err != templatedomain.ErrNotFound {
		return render.Model{}, err
	}

	return render.Resolve(content, tpl.RenderDefaults()), nil
}

func parseID(id string) (snowflake.ID, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return 0, domain.ErrInvalidID
	}
	parsed, err := snowflake.ParseString(trimmed)
	if err != nil {
		return 0, domain.ErrInvalidID
	}
	return parsed, nil
}
