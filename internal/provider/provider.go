package provider

import (
	"fmt"
	"strings"
)

// Provider is a tenant brand bound to a domain. A deployment whose hostname
// contains the domain runs in branded-domain mode for that provider.
type Provider struct {
	ID     string `mapstructure:"id" yaml:"id" json:"id"`
	Domain string `mapstructure:"domain" yaml:"domain" json:"domain"`
}

// Theme is the presentation state handed to page rendering. It replaces the
// process-wide theme service: callers thread it explicitly.
type Theme struct {
	ID       string `json:"id"`
	IsDomain bool   `json:"isDomain"`
}

// Resolve returns the first provider whose domain is contained in hostname.
// Order matters when domains overlap; see Validate.
func Resolve(hostname string, providers []Provider) (Provider, bool) {
	for _, p := range providers {
		if p.Domain == "" {
			continue
		}
		if strings.Contains(hostname, p.Domain) {
			return p, true
		}
	}
	return Provider{}, false
}

// ThemeFor derives the theme for a resolution result. The zero Theme is the
// multi-tenant default.
func ThemeFor(p Provider, ok bool) Theme {
	if !ok {
		return Theme{}
	}
	return Theme{ID: p.ID, IsDomain: true}
}

// Validate reports configuration problems: blank fields, duplicate ids, and
// domains that overlap so that list order decides resolution.
func Validate(providers []Provider) []string {
	var warnings []string
	seen := make(map[string]int, len(providers))
	for i, p := range providers {
		if p.ID == "" {
			warnings = append(warnings, fmt.Sprintf("provider #%d has no id", i))
		}
		if p.Domain == "" {
			warnings = append(warnings, fmt.Sprintf("provider %q has no domain and will never match", p.ID))
		}
		if j, dup := seen[p.ID]; dup && p.ID != "" {
			warnings = append(warnings, fmt.Sprintf("provider id %q repeated at #%d and #%d", p.ID, j, i))
		} else {
			seen[p.ID] = i
		}
	}
	for i := range providers {
		for j := i + 1; j < len(providers); j++ {
			a, b := providers[i], providers[j]
			if a.Domain == "" || b.Domain == "" {
				continue
			}
			if strings.Contains(a.Domain, b.Domain) || strings.Contains(b.Domain, a.Domain) {
				warnings = append(warnings, fmt.Sprintf("domains %q (%s) and %q (%s) overlap; %s wins", a.Domain, a.ID, b.Domain, b.ID, a.ID))
			}
		}
	}
	return warnings
}
