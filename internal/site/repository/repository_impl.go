package repository

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/sitekit/internal/site/domain"
	"github.com/smallbiznis/sitekit/pkg/db/option"
	"github.com/smallbiznis/sitekit/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, site *domain.Site) error {
	return db.WithContext(ctx).Create(site).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*domain.Site, error) {
	var site domain.Site
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Take(&site).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &site, nil
}

func (r *repo) FindByIDAny(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Site, error) {
	var site domain.Site
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Take(&site).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &site, nil
}

func (r *repo) FindByHost(ctx context.Context, db *gorm.DB, host string) (*domain.Site, error) {
	trimmed := strings.ToLower(strings.TrimSpace(host))
	if trimmed == "" {
		return nil, nil
	}

	var site domain.Site
	err := db.WithContext(ctx).
		Where("custom_domain = ? OR slug = ?", trimmed, trimmed).
		Take(&site).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &site, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter domain.ListSiteFilter, page pagination.Pagination) ([]*domain.Site, error) {
	var sites []*domain.Site
	stmt := db.WithContext(ctx).
		Model(&domain.Site{}).
		Where("tenant_id = ?", tenantID)
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&sites).Error
	if err != nil {
		return nil, err
	}
	return sites, nil
}

func (r *repo) ListBuildingOlderThan(ctx context.Context, db *gorm.DB, cutoff time.Time, limit int) ([]*domain.Site, error) {
	if limit <= 0 {
		limit = 50
	}
	var sites []*domain.Site
	err := db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", domain.StatusBuilding, cutoff).
		Order("updated_at asc").
		Limit(limit).
		Find(&sites).Error
	if err != nil {
		return nil, err
	}
	return sites, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, site *domain.Site) error {
	return db.WithContext(ctx).Save(site).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&domain.Site{}).Error
}
