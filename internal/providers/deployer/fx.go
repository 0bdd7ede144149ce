package deployer

import (
	"github.com/smallbiznis/sitekit/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("providers.deployer",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config, log *zap.Logger) Provider {
	if cfg.DeployerURL == "" {
		log.Warn("deployer not configured, launches run against the in-process fake")
		return &Fake{
			ProvisionResp: ProvisionResponse{Accepted: true, Status: "building", Steps: map[string]bool{"domain_registered": true}},
			StatusQueue: []StatusResponse{
				{Status: "building", Steps: map[string]bool{"domain_registered": true, "dns_configured": true, "site_generated": true}},
				{Status: "live", Steps: map[string]bool{"domain_registered": true, "dns_configured": true, "site_generated": true, "deployed": true, "live": true}},
			},
		}
	}

	creds := NewOAuthCredentials(cfg.DeployerTokenURL, cfg.DeployerClientID, cfg.DeployerClientSecret)
	return NewHTTP(Config{BaseURL: cfg.DeployerURL}, creds, log)
}
