package domainsearch

import (
	"context"

	"github.com/smallbiznis/sitekit/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("providers.domainsearch",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config, log *zap.Logger) Provider {
	if cfg.DomainSearchURL == "" {
		log.Warn("domain search provider not configured, search flow disabled")
		return &NoOpProvider{}
	}
	return NewHTTP(Config{
		BaseURL: cfg.DomainSearchURL,
		APIKey:  cfg.DomainSearchAPIKey,
	}, log)
}

// NoOpProvider reports the collaborator as unavailable. Subdomain and
// existing-domain flows still work without it.
type NoOpProvider struct{}

func (p *NoOpProvider) Search(ctx context.Context, req SearchRequest) ([]Suggestion, error) {
	return nil, ErrUnavailable
}
