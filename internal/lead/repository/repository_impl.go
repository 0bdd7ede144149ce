package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/sitekit/internal/lead/domain"
	"github.com/smallbiznis/sitekit/pkg/db/option"
	"github.com/smallbiznis/sitekit/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, lead *domain.Lead) error {
	return db.WithContext(ctx).Create(lead).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter domain.ListLeadFilter, page pagination.Pagination) ([]*domain.Lead, error) {
	var leads []*domain.Lead
	stmt := db.WithContext(ctx).
		Model(&domain.Lead{}).
		Where("tenant_id = ?", tenantID)
	if filter.SiteID != 0 {
		stmt = stmt.Where("site_id = ?", filter.SiteID)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&leads).Error
	if err != nil {
		return nil, err
	}
	return leads, nil
}
