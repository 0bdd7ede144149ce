package wizard

import (
	"github.com/smallbiznis/sitekit/internal/wizard/service"
	"github.com/smallbiznis/sitekit/internal/wizard/snapshot"
	"go.uber.org/fx"
)

var Module = fx.Module("wizard.service",
	fx.Provide(
		snapshot.Provide,
		service.NewStaticCatalog,
		service.New,
	),
)
