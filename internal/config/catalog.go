package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// TemplateSeed describes one trade template installed on first boot. Operators
// can override the built-in catalog with a sitekit.yml next to the binary or
// under /etc/sitekit.
type TemplateSeed struct {
	Code           string   `mapstructure:"code"`
	Name           string   `mapstructure:"name"`
	Trade          string   `mapstructure:"trade"`
	PrimaryColor   string   `mapstructure:"primaryColor"`
	SecondaryColor string   `mapstructure:"secondaryColor"`
	HeadingFont    string   `mapstructure:"headingFont"`
	BodyFont       string   `mapstructure:"bodyFont"`
	Layout         string   `mapstructure:"layout"`
	Tagline        string   `mapstructure:"tagline"`
	AboutCopy      string   `mapstructure:"aboutCopy"`
	Sections       []string `mapstructure:"sections"`
}

type CatalogConfig struct {
	Templates []TemplateSeed `mapstructure:"templates"`
}

func DefaultCatalogConfig() CatalogConfig {
	return CatalogConfig{
		Templates: []TemplateSeed{
			{Code: "plumbing-classic", Name: "Classic Plumbing", Trade: "plumbing", PrimaryColor: "#1a1a2e", SecondaryColor: "#0f3460", HeadingFont: "Inter", BodyFont: "Inter", Layout: "classic", Tagline: "Reliable plumbing, done right", AboutCopy: "Family-owned and serving the area for years.", Sections: []string{"hero", "services", "gallery", "about", "contact"}},
			{Code: "electrical-bold", Name: "Bold Electrical", Trade: "electrical", PrimaryColor: "#16213e", SecondaryColor: "#e94560", HeadingFont: "Inter", BodyFont: "Inter", Layout: "bold", Tagline: "Licensed electricians you can trust", AboutCopy: "Certified, insured, and on time.", Sections: []string{"hero", "services", "about", "contact"}},
			{Code: "painting-fresh", Name: "Fresh Painting", Trade: "painting", PrimaryColor: "#1a1a2e", SecondaryColor: "#f07b3f", HeadingFont: "Inter", BodyFont: "Inter", Layout: "classic", Tagline: "A fresh coat changes everything", AboutCopy: "Interior and exterior painting with care.", Sections: []string{"hero", "services", "gallery", "contact"}},
			{Code: "landscaping-green", Name: "Green Landscaping", Trade: "landscaping", PrimaryColor: "#1b4332", SecondaryColor: "#95d5b2", HeadingFont: "Inter", BodyFont: "Inter", Layout: "classic", Tagline: "Your yard, at its best", AboutCopy: "Design, build, and maintain outdoor spaces.", Sections: []string{"hero", "services", "gallery", "about", "contact"}},
			{Code: "hvac-steady", Name: "Steady HVAC", Trade: "hvac", PrimaryColor: "#14213d", SecondaryColor: "#fca311", HeadingFont: "Inter", BodyFont: "Inter", Layout: "classic", Tagline: "Comfort in every season", AboutCopy: "Heating and cooling service around the clock.", Sections: []string{"hero", "services", "about", "contact"}},
			{Code: "roofing-strong", Name: "Strong Roofing", Trade: "roofing", PrimaryColor: "#1a1a2e", SecondaryColor: "#4f772d", HeadingFont: "Inter", BodyFont: "Inter", Layout: "bold", Tagline: "Protection that lasts", AboutCopy: "Repairs and full replacements, guaranteed.", Sections: []string{"hero", "services", "gallery", "contact"}},
			{Code: "cleaning-bright", Name: "Bright Cleaning", Trade: "cleaning", PrimaryColor: "#22223b", SecondaryColor: "#9a8c98", HeadingFont: "Inter", BodyFont: "Inter", Layout: "classic", Tagline: "Spotless, every time", AboutCopy: "Residential and commercial cleaning.", Sections: []string{"hero", "services", "about", "contact"}},
			{Code: "general-handy", Name: "Handy General", Trade: "general", PrimaryColor: "#1a1a2e", SecondaryColor: "#0f3460", HeadingFont: "Inter", BodyFont: "Inter", Layout: "classic", Tagline: "No job too small", AboutCopy: "General contracting and handyman work.", Sections: []string{"hero", "services", "gallery", "about", "contact"}},
		},
	}
}

// LoadCatalogConfig reads the template catalog, falling back to the built-in
// set when no config file is present.
func LoadCatalogConfig() (CatalogConfig, error) {
	v := viper.New()

	v.SetConfigName("sitekit")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/sitekit/config")
	v.AddConfigPath("/etc/sitekit")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SITEKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return CatalogConfig{}, err
		}
		return DefaultCatalogConfig(), nil
	}

	var cfg CatalogConfig
	if err := v.UnmarshalKey("catalog", &cfg); err != nil {
		return CatalogConfig{}, err
	}
	if len(cfg.Templates) == 0 {
		return DefaultCatalogConfig(), nil
	}
	if err := validateCatalogConfig(cfg); err != nil {
		return CatalogConfig{}, err
	}
	return cfg, nil
}

func validateCatalogConfig(cfg CatalogConfig) error {
	seen := map[string]bool{}
	for _, tpl := range cfg.Templates {
		code := strings.TrimSpace(tpl.Code)
		if code == "" {
			return errors.New("catalog template missing code")
		}
		if seen[code] {
			return errors.New("catalog template code duplicated: " + code)
		}
		seen[code] = true
		if strings.TrimSpace(tpl.Trade) == "" {
			return errors.New("catalog template missing trade: " + code)
		}
	}
	return nil
}
