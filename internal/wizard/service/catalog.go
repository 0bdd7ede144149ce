package service

import (
	"context"
	"strings"

	"github.com/smallbiznis/sitekit/internal/wizard/domain"
)

// industryTrades maps the external business-profile classifier onto the
// wizard's trade vocabulary. Unknown industries map to general.
var industryTrades = map[string]string{
	"plumber":            "plumbing",
	"plumbing":           "plumbing",
	"electrician":        "electrical",
	"electrical":         "electrical",
	"painter":            "painting",
	"painting":           "painting",
	"landscaper":         "landscaping",
	"landscaping":        "landscaping",
	"lawn_care":          "landscaping",
	"hvac":               "hvac",
	"heating_cooling":    "hvac",
	"roofer":             "roofing",
	"roofing":            "roofing",
	"cleaner":            "cleaning",
	"cleaning":           "cleaning",
	"janitorial":         "cleaning",
	"handyman":           "general",
	"general_contractor": "general",
}

func TradeForIndustry(industry string) string {
	key := strings.ToLower(strings.TrimSpace(industry))
	if key == "" {
		return ""
	}
	if trade, ok := industryTrades[key]; ok {
		return trade
	}
	return "general"
}

// starterServices seeds a new tenant's services list per trade when no
// recorded catalog exists yet.
var starterServices = map[string][]string{
	"plumbing":    {"Drain cleaning", "Water heater repair", "Leak repair", "Fixture installation"},
	"electrical":  {"Panel upgrades", "Lighting installation", "Outlet repair", "EV charger installation"},
	"painting":    {"Interior painting", "Exterior painting", "Cabinet refinishing"},
	"landscaping": {"Lawn maintenance", "Garden design", "Irrigation installation", "Tree trimming"},
	"hvac":        {"AC repair", "Furnace installation", "Duct cleaning", "Seasonal tune-ups"},
	"roofing":     {"Roof repair", "Full replacement", "Gutter installation", "Storm damage inspection"},
	"cleaning":    {"Residential cleaning", "Commercial cleaning", "Move-out cleaning"},
	"general":     {"Home repairs", "Remodeling", "Installations"},
}

type staticCatalog struct{}

// NewStaticCatalog serves per-trade starter services. Tenants with a recorded
// catalog get it from the profile source instead.
func NewStaticCatalog() domain.ServiceCatalog {
	return staticCatalog{}
}

func (staticCatalog) Services(ctx context.Context, trade string) ([]string, error) {
	services, ok := starterServices[strings.ToLower(strings.TrimSpace(trade))]
	if !ok {
		return starterServices["general"], nil
	}
	return append([]string(nil), services...), nil
}
