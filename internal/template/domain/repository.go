package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, template *Template) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Template, error)
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*Template, error)
	List(ctx context.Context, db *gorm.DB, trade string) ([]*Template, error)
}
