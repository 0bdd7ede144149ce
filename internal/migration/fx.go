package migration

import (
	"github.com/smallbiznis/sitekit/internal/config"
	leaddomain "github.com/smallbiznis/sitekit/internal/lead/domain"
	"github.com/smallbiznis/sitekit/internal/seed"
	sitedomain "github.com/smallbiznis/sitekit/internal/site/domain"
	templatedomain "github.com/smallbiznis/sitekit/internal/template/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, catalog config.CatalogConfig) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// Non-postgres targets are for local development only.
			if err := conn.AutoMigrate(
				&templatedomain.Template{},
				&sitedomain.Site{},
				&leaddomain.Lead{},
			); err != nil {
				return err
			}
		}

		return seed.EnsureTemplates(conn, catalog)
	}),
)
