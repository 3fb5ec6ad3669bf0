package domain

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Crescent Bakers", "crescent-bakers"},
		{"punctuation and diacritics", "Joe's Café!!", "joes-cafe"},
		{"whitespace runs", "  Mega   Mart \t Lahore ", "mega-mart-lahore"},
		{"hyphen runs", "al--noor --- traders", "al-noor-traders"},
		{"digits kept", "7-Eleven 24h", "7-eleven-24h"},
		{"symbols only", "@#$%", ""},
		{"already a slug", "united-bank", "united-bank"},
		{"trailing punctuation", "Sons & Co.", "sons-co"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Slugify(tc.in); got != tc.want {
				t.Fatalf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	in := "Qureshi Brothers Hardware"
	first := Slugify(in)
	for i := 0; i < 5; i++ {
		if got := Slugify(in); got != first {
			t.Fatalf("Slugify not deterministic: %q then %q", first, got)
		}
	}
}

func TestSlugifyAlphabet(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	inputs := []string{
		"Ali & Sons (Pvt) Ltd.",
		"Grünewald Imports",
		"水道橋 Trading",
		"  A  ",
	}
	for _, in := range inputs {
		got := Slugify(in)
		if got == "" {
			continue
		}
		if !valid.MatchString(got) {
			t.Errorf("Slugify(%q) = %q, not a clean slug", in, got)
		}
	}
}

func TestSlugifyCapsLength(t *testing.T) {
	long := strings.Repeat("warehouse ", 40)
	got := Slugify(long)
	if len(got) > MaxSlugLength {
		t.Fatalf("slug length %d exceeds cap %d", len(got), MaxSlugLength)
	}
	if strings.HasSuffix(got, "-") {
		t.Fatalf("capped slug %q ends with a hyphen", got)
	}
}

func TestFallbackSlug(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	if got, want := FallbackSlug(at), "business-1700000000000"; got != want {
		t.Fatalf("FallbackSlug = %q, want %q", got, want)
	}
}

func TestSuffixedSlug(t *testing.T) {
	if got, want := SuffixedSlug("mega-mart", 2), "mega-mart-2"; got != want {
		t.Fatalf("SuffixedSlug = %q, want %q", got, want)
	}
}
