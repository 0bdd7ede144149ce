package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Lead is a contact-form submission captured on a published site.
type Lead struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID snowflake.ID `gorm:"not null;index" json:"tenant_id"`
	SiteID   snowflake.ID `gorm:"not null;index" json:"site_id"`

	Name    string `gorm:"not null" json:"name"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Message string `json:"message,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime:false" json:"created_at"`
}
