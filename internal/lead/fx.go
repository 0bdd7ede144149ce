package lead

import (
	"github.com/smallbiznis/sitekit/internal/lead/repository"
	"github.com/smallbiznis/sitekit/internal/lead/service"
	"go.uber.org/fx"
)

var Module = fx.Module("lead.service",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
