package template

import (
	"github.com/smallbiznis/sitekit/internal/template/repository"
	"github.com/smallbiznis/sitekit/internal/template/service"
	"go.uber.org/fx"
)

var Module = fx.Module("template.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
