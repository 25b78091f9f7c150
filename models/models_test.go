package models

import "testing"

func TestParseSupportLabel(t *testing.T) {
	cases := []struct {
		in   string
		want SupportLabel
	}{
		{"SUPPORTS", Supports},
		{"supports", Supports},
		{" Supports ", Supports},
		{"CONTRADICTS", Contradicts},
		{"PARTIALLY SUPPORTS", PartiallySupports},
		{"PARTIALLY_SUPPORTS", PartiallySupports},
		{"maybe?", PartiallySupports},
		{"", PartiallySupports},
	}
	for _, c := range cases {
		if got := ParseSupportLabel(c.in); got != c.want {
			t.Fatalf("ParseSupportLabel(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestClamp01(t *testing.T) {
	if got := Clamp01(1.05); got != 1.0 {
		t.Fatalf("expected 1.0, got %v", got)
	}
	if got := Clamp01(-0.05); got != 0.0 {
		t.Fatalf("expected 0.0, got %v", got)
	}
	if got := Clamp01(0.45); got != 0.45 {
		t.Fatalf("expected 0.45, got %v", got)
	}
}
