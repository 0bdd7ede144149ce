package option

import (
	"github.com/smallbiznis/sitekit/pkg/db/pagination"
	"gorm.io/gorm"
)

// Option mutates a gorm statement before execution.
type Option interface {
	Apply(stmt *gorm.DB) *gorm.DB
}

type paginationOption struct {
	page pagination.Pagination
}

// ApplyPagination turns a cursor page request into query conditions. The
// query fetches one extra row so callers can detect a next page.
func ApplyPagination(page pagination.Pagination) Option {
	return paginationOption{page: page}
}

func (o paginationOption) Apply(stmt *gorm.DB) *gorm.DB {
	size := o.page.PageSize
	if size <= 0 {
		size = 10
	}
	stmt = stmt.Limit(size + 1)

	if o.page.PageToken == "" {
		return stmt
	}
	cursor, err := pagination.DecodeCursor(o.page.PageToken)
	if err != nil || cursor == nil {
		return stmt
	}
	if cursor.CreatedAt != "" && cursor.ID != "" {
		stmt = stmt.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}
	return stmt
}
