package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/sitekit/internal/render"
	"gorm.io/datatypes"
)

// Template is an immutable set of default visual and content values keyed by
// trade category. The core never mutates templates after seeding.
type Template struct {
	ID             snowflake.ID                `gorm:"primaryKey" json:"id"`
	Code           string                      `gorm:"not null;uniqueIndex" json:"code"`
	Name           string                      `gorm:"not null" json:"name"`
	Trade          string                      `gorm:"not null;index" json:"trade"`
	PrimaryColor   string                      `json:"primary_color"`
	SecondaryColor string                      `json:"secondary_color"`
	HeadingFont    string                      `json:"heading_font"`
	BodyFont       string                      `json:"body_font"`
	Layout         string                      `json:"layout"`
	Tagline        string                      `json:"tagline"`
	AboutCopy      string                      `json:"about_copy"`
	Sections       datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"sections"`
	CreatedAt      time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// RenderDefaults projects the template onto the resolver's input shape.
func (t Template) RenderDefaults() render.TemplateDefaults {
	return render.TemplateDefaults{
		PrimaryColor:   t.PrimaryColor,
		SecondaryColor: t.SecondaryColor,
		HeadingFont:    t.HeadingFont,
		BodyFont:       t.BodyFont,
		Layout:         t.Layout,
		Tagline:        t.Tagline,
		About:          t.AboutCopy,
		Sections:       []string(t.Sections),
	}
}
