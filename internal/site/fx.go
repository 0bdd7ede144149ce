package site

import (
	"github.com/smallbiznis/sitekit/internal/site/repository"
	"github.com/smallbiznis/sitekit/internal/site/service"
	"go.uber.org/fx"
)

var Module = fx.Module("site.service",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
