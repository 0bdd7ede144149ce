package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/sitekit/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListSiteFilter struct {
	Status Status
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, site *Site) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*Site, error)
	// FindByIDAny looks a site up without tenant scoping; reserved for the
	// reconciliation sweep, never exposed through a handler.
	FindByIDAny(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Site, error)
	FindByHost(ctx context.Context, db *gorm.DB, host string) (*Site, error)
	List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter ListSiteFilter, page pagination.Pagination) ([]*Site, error)
	ListBuildingOlderThan(ctx context.Context, db *gorm.DB, cutoff time.Time, limit int) ([]*Site, error)
	Update(ctx context.Context, db *gorm.DB, site *Site) error
	Delete(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) error
}
