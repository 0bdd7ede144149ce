package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/sitekit/internal/cache"
	"github.com/smallbiznis/sitekit/internal/template/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Templates are immutable after seeding, so a generous cache TTL is safe.
const templateCacheTTL = 10 * time.Minute

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	byID  cache.Cache[string, domain.Template]
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("template.service"),
		repo: p.Repo,
		byID: cache.NewTTLCache[string, domain.Template](),
	}
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Template, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return domain.Template{}, domain.ErrInvalidID
	}
	parsed, err := snowflake.ParseString(trimmed)
	if err != nil {
		return domain.Template{}, domain.ErrInvalidID
	}

	if cached, ok := s.byID.Get(trimmed); ok {
		return cached, nil
	}

	template, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Template{}, err
	}
	if template == nil {
		return domain.Template{}, domain.ErrNotFound
	}

	s.byID.Set(trimmed, *template, templateCacheTTL)
	return *template, nil
}

func (s *Service) List(ctx context.Context, req domain.ListTemplatesRequest) ([]domain.Template, error) {
	items, err := s.repo.List(ctx, s.db, strings.ToLower(strings.TrimSpace(req.Trade)))
	if err != nil {
		return nil, err
	}

	templates := make([]domain.Template, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		templates = append(templates, *item)
	}
	return templates, nil
}
