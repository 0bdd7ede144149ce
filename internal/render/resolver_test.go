package render

import (
	"reflect"
	"testing"
)

func classicTemplate() TemplateDefaults {
	return TemplateDefaults{
		PrimaryColor:   "#1a1a2e",
		SecondaryColor: "#0f3460",
		HeadingFont:    "Inter",
		BodyFont:       "Inter",
		Layout:         "classic",
		Tagline:        "Reliable plumbing, done right",
		About:          "Family-owned and serving the area for years.",
		Sections:       []string{"hero", "services", "gallery", "about", "contact"},
	}
}

func TestResolveEmptyContentFallsThroughToTemplate(t *testing.T) {
	tpl := classicTemplate()
	model := Resolve(SiteContent{}, tpl)

	if model.HeadingColor != "#1a1a2e" {
		t.Fatalf("expected heading color from template primary, got %q", model.HeadingColor)
	}
	if model.PrimaryColor != tpl.PrimaryColor {
		t.Fatalf("expected primary %q, got %q", tpl.PrimaryColor, model.PrimaryColor)
	}
	if model.Tagline != tpl.Tagline {
		t.Fatalf("expected tagline %q, got %q", tpl.Tagline, model.Tagline)
	}
	if !reflect.DeepEqual(model.Sections, tpl.Sections) {
		t.Fatalf("expected sections %v, got %v", tpl.Sections, model.Sections)
	}
}

func TestResolveContentWinsOverTemplate(t *testing.T) {
	content := SiteContent{
		Colors:   ContentColors{Primary: "#222222", Heading: "#111111"},
		Fonts:    ContentFonts{Heading: "Poppins"},
		Tagline:  "We fix it fast",
		Sections: []string{"hero", "contact"},
	}
	model := Resolve(content, classicTemplate())

	if model.PrimaryColor != "#222222" {
		t.Fatalf("expected content primary to win, got %q", model.PrimaryColor)
	}
	if model.HeadingColor != "#111111" {
		t.Fatalf("expected content heading to win, got %q", model.HeadingColor)
	}
	if model.HeadingFont != "Poppins" {
		t.Fatalf("expected content heading font to win, got %q", model.HeadingFont)
	}
	if model.BodyFont != "Inter" {
		t.Fatalf("expected template body font, got %q", model.BodyFont)
	}
	if model.Tagline != "We fix it fast" {
		t.Fatalf("expected content tagline, got %q", model.Tagline)
	}
	if !reflect.DeepEqual(model.Sections, []string{"hero", "contact"}) {
		t.Fatalf("expected content sections, got %v", model.Sections)
	}
}

func TestResolvePlatformDefaultsWhenBothLayersEmpty(t *testing.T) {
	model := Resolve(SiteContent{}, TemplateDefaults{})

	if model.PrimaryColor != DefaultPrimaryColor {
		t.Fatalf("expected default primary %q, got %q", DefaultPrimaryColor, model.PrimaryColor)
	}
	if model.HeadingFont != DefaultFont || model.BodyFont != DefaultFont {
		t.Fatalf("expected default fonts, got %q / %q", model.HeadingFont, model.BodyFont)
	}
	if model.Layout != DefaultLayout {
		t.Fatalf("expected default layout, got %q", model.Layout)
	}
	if !reflect.DeepEqual(model.Sections, DefaultSections()) {
		t.Fatalf("expected default sections, got %v", model.Sections)
	}
}

func TestResolveIsPure(t *testing.T) {
	content := SiteContent{Colors: ContentColors{Heading: "#cccccc"}}
	tpl := classicTemplate()

	first := Resolve(content, tpl)
	second := Resolve(content, tpl)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical models, got %+v vs %+v", first, second)
	}

	// Inputs must not be mutated by resolution.
	if content.Colors.Heading != "#cccccc" {
		t.Fatalf("content mutated: %+v", content)
	}
}

func TestResolveAdjustsUnreadableHeadingColor(t *testing.T) {
	content := SiteContent{Colors: ContentColors{Heading: "#eeeeee"}}
	model := Resolve(content, classicTemplate())

	if model.HeadingColor == "#eeeeee" {
		t.Fatalf("expected unreadable heading color to be adjusted")
	}
	ratio, ok := ContrastAgainstWhite(model.HeadingColor)
	if !ok {
		t.Fatalf("adjusted color %q is not parseable", model.HeadingColor)
	}
	if ratio < minContrastRatio {
		t.Fatalf("adjusted color %q still unreadable (ratio %.2f)", model.HeadingColor, ratio)
	}
}

func TestResolveKeepsReadableHeadingColor(t *testing.T) {
	// #1a1a2e passes the contrast check against white; no adjustment applies.
	model := Resolve(SiteContent{}, TemplateDefaults{PrimaryColor: "#1a1a2e"})
	if model.HeadingColor != "#1a1a2e" {
		t.Fatalf("expected heading color untouched, got %q", model.HeadingColor)
	}
}
