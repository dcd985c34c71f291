package locales

import (
	"slices"
	"testing"

	"github.com/google/uuid"
)

func sampleTree() []Locale {
	return []Locale{
		{
			Name:  "en",
			Label: "English",
			Children: []Locale{
				{Name: "en-gb", Label: "British English"},
				{Name: "en-internal", Label: "Internal", Private: true},
			},
		},
		{Name: "fr", Label: "French"},
	}
}

func TestComposeDefaultsToSingleLocale(t *testing.T) {
	t.Parallel()

	topology := Compose(nil, "")

	if got := topology.Names(); !slices.Equal(got, []string{"default", "default-draft"}) {
		t.Fatalf("unexpected names %v", got)
	}
	if topology.DefaultLocale() != "default" {
		t.Fatalf("expected default locale, got %q", topology.DefaultLocale())
	}
	if topology.Localized() {
		t.Fatalf("single locale tree should not be localized")
	}
	l, ok := topology.Get("default")
	if !ok || l.Label != "Workflow" {
		t.Fatalf("unexpected default locale %+v", l)
	}
}

func TestComposePairsEveryLocaleWithDraft(t *testing.T) {
	t.Parallel()

	topology := Compose(sampleTree(), "en")
	all := topology.Locales()

	live := 0
	for name, l := range all {
		if IsDraft(name) {
			if _, ok := all[Liveify(name)]; !ok {
				t.Fatalf("draft %s has no live counterpart", name)
			}
			continue
		}
		live++
		draft, ok := all[name+DraftSuffix]
		if !ok {
			t.Fatalf("live locale %s lacks a draft", name)
		}
		if !draft.Private {
			t.Fatalf("draft %s must be private", draft.Name)
		}
		if draft.Label != l.Label {
			t.Fatalf("draft %s label %q, want %q", draft.Name, draft.Label, l.Label)
		}
		if len(draft.Children) != 0 {
			t.Fatalf("draft %s must not carry children", draft.Name)
		}
		if draft.ID == uuid.Nil || draft.ID == l.ID {
			t.Fatalf("draft %s needs its own id", draft.Name)
		}
	}
	if live != 4 || len(all) != 8 {
		t.Fatalf("expected 4 live and 8 total locales, got %d/%d", live, len(all))
	}
	if !topology.Localized() {
		t.Fatalf("multi-locale tree should be localized")
	}
}

func TestComposeNeverDraftsADraft(t *testing.T) {
	t.Parallel()

	topology := Compose(sampleTree(), "en")
	for _, name := range topology.Names() {
		if IsDraft(Liveify(name)) {
			t.Fatalf("found re-drafted locale %s", name)
		}
	}
}

func TestComposeOrderKeepsDraftNextToLive(t *testing.T) {
	t.Parallel()

	topology := Compose(sampleTree(), "en")
	want := []string{
		"en", "en-draft",
		"en-gb", "en-gb-draft",
		"en-internal", "en-internal-draft",
		"fr", "fr-draft",
	}
	if got := topology.Names(); !slices.Equal(got, want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
	if got := topology.LiveNames(); !slices.Equal(got, []string{"en", "en-gb", "en-internal", "fr"}) {
		t.Fatalf("live names = %v", got)
	}
}

func TestComposeKeepsFlattenedChildren(t *testing.T) {
	t.Parallel()

	topology := Compose(sampleTree(), "en")
	en, ok := topology.Get("en")
	if !ok || len(en.Children) != 2 {
		t.Fatalf("expected en to keep its children, got %+v", en)
	}
	nested := topology.Nested()
	if len(nested) != 2 || nested[0].Name != "en" {
		t.Fatalf("nested tree not preserved: %+v", nested)
	}
}

func TestComposeOverwritesDuplicates(t *testing.T) {
	t.Parallel()

	topology := Compose([]Locale{
		{Name: "en", Label: "First"},
		{Name: "en", Label: "Second"},
	}, "")

	en, _ := topology.Get("en")
	if en.Label != "Second" {
		t.Fatalf("expected later entry to win, got %q", en.Label)
	}
	if dupes := topology.Duplicates(); !slices.Equal(dupes, []string{"en"}) {
		t.Fatalf("duplicates = %v", dupes)
	}
	if topology.Localized() {
		t.Fatalf("a single distinct name should not be localized")
	}
}

func TestComposeIsolatedFromInput(t *testing.T) {
	t.Parallel()

	tree := sampleTree()
	topology := Compose(tree, "en")
	tree[0].Children[0].Label = "mutated"

	gb, _ := topology.Get("en-gb")
	if gb.Label != "British English" {
		t.Fatalf("topology must not share memory with the input tree")
	}
}

func TestDraftHelpers(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		live  string
		draft string
	}{
		{name: "en", live: "en", draft: "en-draft"},
		{name: "en-draft", live: "en", draft: "en-draft"},
		{name: "fr-ca", live: "fr-ca", draft: "fr-ca-draft"},
	}
	for _, tc := range cases {
		if got := Liveify(tc.name); got != tc.live {
			t.Fatalf("Liveify(%q) = %q", tc.name, got)
		}
		if got := Draftify(tc.name); got != tc.draft {
			t.Fatalf("Draftify(%q) = %q", tc.name, got)
		}
	}
}
