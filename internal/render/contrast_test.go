package render

import "testing"

func TestContrastAgainstWhite(t *testing.T) {
	cases := []struct {
		color    string
		readable bool
	}{
		{"#000000", true},
		{"#1a1a2e", true},
		{"#333333", true},
		{"#ffffff", false},
		{"#eeeeee", false},
		{"#ffd700", false},
	}
	for _, tc := range cases {
		ratio, ok := ContrastAgainstWhite(tc.color)
		if !ok {
			t.Fatalf("%s: expected parseable color", tc.color)
		}
		if got := ratio >= minContrastRatio; got != tc.readable {
			t.Fatalf("%s: expected readable=%v, ratio %.2f", tc.color, tc.readable, ratio)
		}
	}
}

func TestEnsureReadableIsDeterministic(t *testing.T) {
	first := EnsureReadable("#fafafa")
	second := EnsureReadable("#fafafa")
	if first != second {
		t.Fatalf("adjustment not deterministic: %q vs %q", first, second)
	}
	if first == "#fafafa" {
		t.Fatalf("expected adjustment for near-white color")
	}
}

func TestEnsureReadableShortHexAndMalformed(t *testing.T) {
	if got := EnsureReadable("#000"); got != "#000" {
		t.Fatalf("readable short hex should pass through, got %q", got)
	}
	if got := EnsureReadable("not-a-color"); got != "not-a-color" {
		t.Fatalf("malformed color should pass through, got %q", got)
	}
	if got := EnsureReadable(""); got != "" {
		t.Fatalf("empty color should pass through, got %q", got)
	}
}
