package render

// SiteContent is the tenant-editable override layer persisted on a site.
// Every field is optional; absent fields fall through to the template and
// then to the platform defaults.
type SiteContent struct {
	Colors   ContentColors `json:"colors,omitempty"`
	Fonts    ContentFonts  `json:"fonts,omitempty"`
	Tagline  string        `json:"tagline,omitempty"`
	About    string        `json:"about,omitempty"`
	Sections []string      `json:"sections,omitempty"`

	BusinessName string   `json:"business_name,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	Email        string   `json:"email,omitempty"`
	ServiceArea  string   `json:"service_area,omitempty"`
	Services     []string `json:"services,omitempty"`

	HeroImage     string   `json:"hero_image,omitempty"`
	GalleryImages []string `json:"gallery_images,omitempty"`
}

type ContentColors struct {
	Primary   string `json:"primary,omitempty"`
	Secondary string `json:"secondary,omitempty"`
	Heading   string `json:"heading,omitempty"`
	Body      string `json:"body,omitempty"`
}

type ContentFonts struct {
	Heading string `json:"heading,omitempty"`
	Body    string `json:"body,omitempty"`
}

// TemplateDefaults is the slice of a template the resolver consumes. Keeping
// it local to this package keeps the resolver free of storage concerns.
type TemplateDefaults struct {
	PrimaryColor   string
	SecondaryColor string
	HeadingFont    string
	BodyFont       string
	Layout         string
	Tagline        string
	About          string
	Sections       []string
}

// Model is the fully resolved set of values a renderer consumes. Preview and
// the public site are both rendered from this exact structure.
type Model struct {
	PrimaryColor   string   `json:"primary_color"`
	SecondaryColor string   `json:"secondary_color"`
	HeadingColor   string   `json:"heading_color"`
	BodyColor      string   `json:"body_color"`
	HeadingFont    string   `json:"heading_font"`
	BodyFont       string   `json:"body_font"`
	Layout         string   `json:"layout"`
	Tagline        string   `json:"tagline"`
	About          string   `json:"about"`
	Sections       []string `json:"sections"`

	BusinessName string   `json:"business_name"`
	Phone        string   `json:"phone"`
	Email        string   `json:"email"`
	ServiceArea  string   `json:"service_area"`
	Services     []string `json:"services"`

	HeroImage     string   `json:"hero_image,omitempty"`
	GalleryImages []string `json:"gallery_images,omitempty"`
}
