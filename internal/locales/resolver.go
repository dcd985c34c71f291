package locales

import (
	"maps"
	"net"
	"slices"
	"strings"
)

// Resolver guesses the locale of an incoming request. Hostnames are checked
// first, then the URL prefix, then the hint carried by the session. When
// nothing matches the default locale is used.
type Resolver struct {
	topology  *Topology
	prefixes  *PrefixRegistry
	hostnames map[string]string
}

// NewResolver builds a resolver. hostnames maps locale names to hostnames.
// A hostname shared by several locales belongs to the first of them in
// sorted order; the others are dropped.
func NewResolver(topology *Topology, prefixes *PrefixRegistry, hostnames map[string]string) *Resolver {
	byHost := make(map[string]string, len(hostnames))
	for _, locale := range slices.Sorted(maps.Keys(hostnames)) {
		host := strings.ToLower(strings.TrimSpace(hostnames[locale]))
		if host == "" || !topology.Has(locale) {
			continue
		}
		if _, taken := byHost[host]; taken {
			continue
		}
		byHost[host] = locale
	}
	return &Resolver{
		topology:  topology,
		prefixes:  prefixes,
		hostnames: byHost,
	}
}

// Resolve returns the locale for host and path, falling back to hint and
// then to the default locale.
func (r *Resolver) Resolve(host, path, hint string) string {
	if locale, ok := r.byHost(host); ok {
		return locale
	}
	if locale, ok := r.prefixes.LocaleForPath(path); ok {
		return locale
	}
	if hint != "" && r.topology.Has(hint) {
		return hint
	}
	return r.topology.DefaultLocale()
}

// Hostnames returns the locale to hostname map.
func (r *Resolver) Hostnames() map[string]string {
	out := make(map[string]string, len(r.hostnames))
	for host, locale := range r.hostnames {
		out[locale] = host
	}
	return out
}

// HostFor returns the hostname configured for the live form of locale.
func (r *Resolver) HostFor(locale string) (string, bool) {
	hosts := r.Hostnames()
	host, ok := hosts[Liveify(locale)]
	if !ok {
		host, ok = hosts[locale]
	}
	return host, ok
}

func (r *Resolver) byHost(host string) (string, bool) {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return "", false
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	locale, ok := r.hostnames[host]
	return locale, ok
}
