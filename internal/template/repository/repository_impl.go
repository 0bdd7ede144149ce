package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/sitekit/internal/template/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, template *domain.Template) error {
	return db.WithContext(ctx).Create(template).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Template, error) {
	var template domain.Template
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Take(&template).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &template, nil
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, code string) (*domain.Template, error) {
	var template domain.Template
	err := db.WithContext(ctx).
		Where("code = ?", code).
		Take(&template).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &template, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, trade string) ([]*domain.Template, error) {
	var templates []*domain.Template
	stmt := db.WithContext(ctx).Model(&domain.Template{})
	if trade != "" {
		stmt = stmt.Where("trade = ?", trade)
	}
	err := stmt.Order("name asc").Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}
