package locales

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/goliatone/go-slug"
)

var (
	// ErrLocaleNotSlug indicates auto prefixing found a locale name that is not a slug.
	ErrLocaleNotSlug = errors.New("locales: locale names must be slugs when prefixes are derived automatically")
	// ErrDuplicateLocale indicates auto prefixing found a locale name configured twice.
	ErrDuplicateLocale = errors.New("locales: duplicate locale name")
	// ErrPrefixUnknownLocale indicates an explicit prefix references a locale that is not configured.
	ErrPrefixUnknownLocale = errors.New("locales: prefix references an unknown locale")
	// ErrPrefixInvalid indicates an explicit prefix is not "/" followed by non-slash characters.
	ErrPrefixInvalid = errors.New("locales: prefix must be / followed by non-slash characters only")
)

var prefixPattern = regexp.MustCompile(`^/[^/]+$`)

// PrefixConfig selects how URL prefixes are built. Auto derives them from
// locale names; Explicit maps locale names to prefixes. Auto wins when both
// are set.
type PrefixConfig struct {
	Auto     bool
	Explicit map[string]string
}

// PrefixRegistry maps live locale names to their URL path prefix. Like the
// topology it is immutable after construction.
type PrefixRegistry struct {
	prefixes map[string]string
}

// NewPrefixRegistry validates the prefix configuration against the topology.
// Any error returned is a fatal configuration error.
func NewPrefixRegistry(topology *Topology, cfg PrefixConfig) (*PrefixRegistry, error) {
	registry := &PrefixRegistry{prefixes: map[string]string{}}

	switch {
	case cfg.Auto:
		if dupes := topology.Duplicates(); len(dupes) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateLocale, dupes[0])
		}
		for _, name := range topology.Names() {
			if !isSlug(name) {
				return nil, fmt.Errorf("%w: %q", ErrLocaleNotSlug, name)
			}
			live := Liveify(name)
			registry.prefixes[live] = "/" + live
		}
	case len(cfg.Explicit) > 0:
		names := slices.Sorted(maps.Keys(cfg.Explicit))
		for _, name := range names {
			if !topology.Has(name) {
				return nil, fmt.Errorf("%w: %q", ErrPrefixUnknownLocale, name)
			}
			prefix := normalizePrefix(cfg.Explicit[name])
			if !prefixPattern.MatchString(prefix) {
				return nil, fmt.Errorf("%w: %q", ErrPrefixInvalid, cfg.Explicit[name])
			}
			registry.prefixes[name] = prefix
		}
	}

	return registry, nil
}

// Prefix returns the prefix registered for the live form of locale.
func (r *PrefixRegistry) Prefix(locale string) (string, bool) {
	if r == nil || locale == "" {
		return "", false
	}
	prefix, ok := r.prefixes[Liveify(locale)]
	if !ok || prefix == "" {
		return "", false
	}
	return prefix, true
}

// LocaleForPath returns the live locale whose prefix is the first segment of
// path.
func (r *PrefixRegistry) LocaleForPath(path string) (string, bool) {
	if r == nil {
		return "", false
	}
	segment := FirstSegment(path)
	if segment == "" {
		return "", false
	}
	for _, name := range slices.Sorted(maps.Keys(r.prefixes)) {
		if r.prefixes[name] == "/"+segment {
			return Liveify(name), true
		}
	}
	return "", false
}

// Map returns a copy of the registered prefixes.
func (r *PrefixRegistry) Map() map[string]string {
	if r == nil {
		return map[string]string{}
	}
	return maps.Clone(r.prefixes)
}

// Empty reports whether no prefixing is configured.
func (r *PrefixRegistry) Empty() bool {
	return r == nil || len(r.prefixes) == 0
}

// FirstSegment returns the first path component of an absolute path, or ""
// when path is not absolute or has no component.
func FirstSegment(path string) string {
	if !strings.HasPrefix(path, "/") {
		return ""
	}
	rest := path[1:]
	if idx := strings.IndexByte(rest, '/'); idx >= 0 {
		rest = rest[:idx]
	}
	return rest
}

// normalizePrefix accepts prefixes written without the leading slash.
func normalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return ""
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return prefix
}

func isSlug(name string) bool {
	normalized, err := slug.Normalize(name)
	if err != nil {
		return false
	}
	return normalized == name
}
