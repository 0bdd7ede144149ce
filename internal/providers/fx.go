package providers

import (
	"github.com/smallbiznis/sitekit/internal/providers/deployer"
	"github.com/smallbiznis/sitekit/internal/providers/domainsearch"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	domainsearch.Module,
	deployer.Module,
)
