package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/sitekit/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, lead *Lead) error
	List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter ListLeadFilter, page pagination.Pagination) ([]*Lead, error)
}

type ListLeadFilter struct {
	SiteID snowflake.ID
}
