package render

import "strings"

// Platform fallbacks, applied when neither the site content nor the template
// carries a value. These are part of the render contract: changing one changes
// every site that relies on the fallback.
const (
	DefaultPrimaryColor   = "#1a1a2e"
	DefaultSecondaryColor = "#0f3460"
	DefaultBodyColor      = "#333333"
	DefaultFont           = "Inter"
	DefaultLayout         = "classic"
	DefaultTagline        = "Quality service you can count on"
)

// DefaultSections is the section set rendered when neither layer names one.
func DefaultSections() []string {
	return []string{"hero", "services", "gallery", "about", "contact"}
}

// Resolve merges the three content layers into one render model. It is a pure
// function: the same (content, template) pair always yields the same model,
// wherever it is evaluated. Per field the first non-empty value wins, in order
// site content, template, platform default.
func Resolve(content SiteContent, tpl TemplateDefaults) Model {
	model := Model{
		PrimaryColor:   firstNonEmpty(content.Colors.Primary, tpl.PrimaryColor, DefaultPrimaryColor),
		SecondaryColor: firstNonEmpty(content.Colors.Secondary, tpl.SecondaryColor, DefaultSecondaryColor),
		HeadingColor:   firstNonEmpty(content.Colors.Heading, tpl.PrimaryColor, DefaultPrimaryColor),
		BodyColor:      firstNonEmpty(content.Colors.Body, tpl.SecondaryColor, DefaultBodyColor),
		HeadingFont:    firstNonEmpty(content.Fonts.Heading, tpl.HeadingFont, DefaultFont),
		BodyFont:       firstNonEmpty(content.Fonts.Body, tpl.BodyFont, DefaultFont),
		Layout:         firstNonEmpty(tpl.Layout, DefaultLayout),
		Tagline:        firstNonEmpty(content.Tagline, tpl.Tagline, DefaultTagline),
		About:          firstNonEmpty(content.About, tpl.About),
		Sections:       firstNonEmptySlice(content.Sections, tpl.Sections, DefaultSections()),

		BusinessName: content.BusinessName,
		Phone:        content.Phone,
		Email:        content.Email,
		ServiceArea:  content.ServiceArea,
		Services:     content.Services,

		HeroImage:     content.HeroImage,
		GalleryImages: content.GalleryImages,
	}

	// Text colors are rendered on the lightest background the renderer uses
	// (white); unreadable values are substituted deterministically.
	model.HeadingColor = EnsureReadable(model.HeadingColor)
	model.BodyColor = EnsureReadable(model.BodyColor)

	return model
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstNonEmptySlice(values ...[]string) []string {
	for _, v := range values {
		if len(v) > 0 {
			return v
		}
	}
	return nil
}
