package domain

import (
	"context"
	"errors"
)

type ListTemplatesRequest struct {
	Trade string
}

type Service interface {
	GetByID(ctx context.Context, id string) (Template, error)
	List(ctx context.Context, req ListTemplatesRequest) ([]Template, error)
}

var (
	ErrInvalidID = errors.New("invalid_template_id")
	ErrNotFound  = errors.New("template_not_found")
)
