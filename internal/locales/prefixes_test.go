package locales

import (
	"errors"
	"maps"
	"testing"
)

func TestPrefixRegistryAutoDerivesFromNames(t *testing.T) {
	t.Parallel()

	topology := Compose([]Locale{{Name: "en"}, {Name: "fr-ca"}}, "en")
	registry, err := NewPrefixRegistry(topology, PrefixConfig{Auto: true})
	if err != nil {
		t.Fatalf("NewPrefixRegistry() error = %v", err)
	}

	want := map[string]string{"en": "/en", "fr-ca": "/fr-ca"}
	if got := registry.Map(); !maps.Equal(got, want) {
		t.Fatalf("prefixes = %v, want %v", got, want)
	}

	prefix, ok := registry.Prefix("fr-ca-draft")
	if !ok || prefix != "/fr-ca" {
		t.Fatalf("draft should share the live prefix, got %q", prefix)
	}
}

func TestPrefixRegistryAutoRejectsNonSlugNames(t *testing.T) {
	t.Parallel()

	topology := Compose([]Locale{{Name: "en"}, {Name: "fr-ca"}, {Name: "FR"}}, "en")
	_, err := NewPrefixRegistry(topology, PrefixConfig{Auto: true})
	if !errors.Is(err, ErrLocaleNotSlug) {
		t.Fatalf("expected ErrLocaleNotSlug, got %v", err)
	}
}

func TestPrefixRegistryAutoRejectsDuplicates(t *testing.T) {
	t.Parallel()

	topology := Compose([]Locale{{Name: "en"}, {Name: "en"}}, "en")
	_, err := NewPrefixRegistry(topology, PrefixConfig{Auto: true})
	if !errors.Is(err, ErrDuplicateLocale) {
		t.Fatalf("expected ErrDuplicateLocale, got %v", err)
	}
}

func TestPrefixRegistryExplicit(t *testing.T) {
	t.Parallel()

	topology := Compose([]Locale{{Name: "en"}, {Name: "fr"}}, "en")

	cases := []struct {
		name     string
		explicit map[string]string
		want     map[string]string
		err      error
	}{
		{
			name:     "valid prefixes are copied",
			explicit: map[string]string{"en": "/english", "fr": "/francais"},
			want:     map[string]string{"en": "/english", "fr": "/francais"},
		},
		{
			name:     "missing leading slash is normalized",
			explicit: map[string]string{"en": "en"},
			want:     map[string]string{"en": "/en"},
		},
		{
			name:     "internal slash is rejected",
			explicit: map[string]string{"en": "/en/us"},
			err:      ErrPrefixInvalid,
		},
		{
			name:     "empty prefix is rejected",
			explicit: map[string]string{"en": ""},
			err:      ErrPrefixInvalid,
		},
		{
			name:     "unknown locale is rejected",
			explicit: map[string]string{"de": "/de"},
			err:      ErrPrefixUnknownLocale,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			registry, err := NewPrefixRegistry(topology, PrefixConfig{Explicit: tc.explicit})
			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Fatalf("expected %v, got %v", tc.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if got := registry.Map(); !maps.Equal(got, tc.want) {
				t.Fatalf("prefixes = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPrefixRegistryEmptyWhenUnconfigured(t *testing.T) {
	t.Parallel()

	registry, err := NewPrefixRegistry(Compose(nil, ""), PrefixConfig{})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !registry.Empty() {
		t.Fatalf("expected empty registry, got %v", registry.Map())
	}
	if _, ok := registry.Prefix("default"); ok {
		t.Fatalf("expected no prefix")
	}
}

func TestPrefixRegistryLocaleForPath(t *testing.T) {
	t.Parallel()

	topology := Compose([]Locale{{Name: "en"}, {Name: "fr"}}, "en")
	registry, err := NewPrefixRegistry(topology, PrefixConfig{Auto: true})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if locale, ok := registry.LocaleForPath("/fr/about"); !ok || locale != "fr" {
		t.Fatalf("expected fr, got %q (%v)", locale, ok)
	}
	if _, ok := registry.LocaleForPath("/de/about"); ok {
		t.Fatalf("unexpected match for unknown prefix")
	}
	if _, ok := registry.LocaleForPath("fr"); ok {
		t.Fatalf("relative paths never match")
	}
}

func TestFirstSegment(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":           "",
		"/":          "",
		"/en":        "en",
		"/en/about":  "en",
		"about/page": "",
	}
	for in, want := range cases {
		if got := FirstSegment(in); got != want {
			t.Fatalf("FirstSegment(%q) = %q, want %q", in, got, want)
		}
	}
}
