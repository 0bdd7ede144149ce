package publish

import (
	"context"

	"github.com/smallbiznis/sitekit/internal/publish/domain"
	"github.com/smallbiznis/sitekit/internal/publish/service"
	"go.uber.org/fx"
)

var Module = fx.Module("publish.orchestrator",
	fx.Provide(
		service.New,
	),
	fx.Invoke(registerShutdown),
)

func registerShutdown(lc fx.Lifecycle, orch domain.Orchestrator) {
	impl, ok := orch.(*service.Orchestrator)
	if !ok {
		return
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			impl.Shutdown()
			return nil
		},
	})
}
