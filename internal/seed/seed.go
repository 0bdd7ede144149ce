package seed

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/sitekit/internal/config"
	templatedomain "github.com/smallbiznis/sitekit/internal/template/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EnsureTemplates installs the template catalog on first boot. Existing rows
// are matched by code and left untouched so operator edits survive restarts.
func EnsureTemplates(db *gorm.DB, catalog config.CatalogConfig) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, tpl := range catalog.Templates {
			if err := ensureTemplateTx(ctx, tx, node, tpl); err != nil {
				return err
			}
		}
		return nil
	})
}

func ensureTemplateTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, tpl config.TemplateSeed) error {
	code := strings.TrimSpace(tpl.Code)

	var existing templatedomain.Template
	err := tx.WithContext(ctx).Where("code = ?", code).Take(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	record := templatedomain.Template{
		ID:             node.Generate(),
		Code:           code,
		Name:           tpl.Name,
		Trade:          tpl.Trade,
		PrimaryColor:   tpl.PrimaryColor,
		SecondaryColor: tpl.SecondaryColor,
		HeadingFont:    tpl.HeadingFont,
		BodyFont:       tpl.BodyFont,
		Layout:         tpl.Layout,
		Tagline:        tpl.Tagline,
		AboutCopy:      tpl.AboutCopy,
		Sections:       datatypes.JSONSlice[string](tpl.Sections),
	}
	return tx.WithContext(ctx).Create(&record).Error
}
