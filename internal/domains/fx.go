package domains

import (
	"github.com/smallbiznis/sitekit/internal/domains/service"
	"go.uber.org/fx"
)

var Module = fx.Module("domains.service",
	fx.Provide(
		service.New,
	),
)
