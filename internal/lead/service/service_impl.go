package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/sitekit/internal/clock"
	"github.com/smallbiznis/sitekit/internal/lead/domain"
	sitedomain "github.com/smallbiznis/sitekit/internal/site/domain"
	"github.com/smallbiznis/sitekit/internal/tenantctx"
	"github.com/smallbiznis/sitekit/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	SiteSvc sitedomain.Service
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	siteSvc sitedomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("lead.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		siteSvc: p.SiteSvc,
	}
}

func (s *Service) Capture(ctx context.Context, req domain.CaptureLeadRequest) (domain.Lead, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Lead{}, domain.ErrInvalidName
	}
	phone := strings.TrimSpace(req.Phone)
	email := strings.TrimSpace(req.Email)
	if phone == "" && email == "" {
		return domain.Lead{}, domain.ErrNoContact
	}

	site, err := s.siteSvc.GetByHost(ctx, req.Host)
	if err != nil {
		return domain.Lead{}, err
	}
	if site.Status != sitedomain.StatusLive {
		return domain.Lead{}, sitedomain.ErrNotLive
	}

	lead := domain.Lead{
		ID:        s.genID.Generate(),
		TenantID:  site.TenantID,
		SiteID:    site.ID,
		Name:      name,
		Phone:     phone,
		Email:     email,
		Message:   strings.TrimSpace(req.Message),
		CreatedAt: s.clock.Now(),
	}

	if err := s.repo.Insert(ctx, s.db, &lead); err != nil {
		return domain.Lead{}, err
	}

	s.log.Info("lead captured",
		zap.String("site_id", site.ID.String()),
		zap.String("lead_id", lead.ID.String()),
	)
	return lead, nil
}

func (s *Service) List(ctx context.Context, req domain.ListLeadsRequest) (domain.ListLeadsResponse, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return domain.ListLeadsResponse{}, sitedomain.ErrInvalidTenant
	}

	var filter domain.ListLeadFilter
	if siteID := strings.TrimSpace(req.SiteID); siteID != "" {
		parsed, err := snowflake.ParseString(siteID)
		if err != nil {
			return domain.ListLeadsResponse{}, domain.ErrInvalidSiteID
		}
		filter.SiteID = parsed
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, tenantID, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListLeadsResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(lead *domain.Lead) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        lead.ID.String(),
			CreatedAt: lead.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	leads := make([]domain.Lead, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		leads = append(leads, *item)
	}

	resp := domain.ListLeadsResponse{Leads: leads}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}
