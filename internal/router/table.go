// Package router builds the route tree for a deployment and recognizes
// request paths against it.
package router

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/preprints/internal/provider"
)

// Route names.
const (
	Index           = "index"
	Submit          = "submit"
	Discover        = "discover"
	Content         = "content"
	Forbidden       = "forbidden"
	PageNotFound    = "page-not-found"
	Provider        = "provider"
	ProviderIndex   = "provider.index"
	ProviderContent = "provider.content"
	ProviderDisc    = "provider.discover"
	ProviderSubmit  = "provider.submit"
)

// Mode says which route tree is installed.
type Mode int

const (
	// Nested is the multi-tenant tree rooted at /preprints.
	Nested Mode = iota
	// Flat is the branded-domain tree.
	Flat
)

func (m Mode) String() string {
	if m == Flat {
		return "flat"
	}
	return "nested"
}

// Route is one node of the installed tree. Path is the pattern as declared;
// children of a nested route have their patterns expanded to full paths.
type Route struct {
	Name     string
	Path     string
	Children []Route
}

type segKind int

const (
	segStar segKind = iota + 1
	segDynamic
	segStatic
)

type segment struct {
	kind segKind
	text string
}

type entry struct {
	name     string
	path     string
	segments []segment
}

// Table is an immutable route tree built once at boot.
type Table struct {
	mode    Mode
	routes  []Route
	entries []entry
}

// Build installs the flat tree when a provider resolved and the nested tree
// otherwise. The two trees differ in shape, so the choice is made here rather
// than by parameterizing one tree.
func Build(_ provider.Provider, resolved bool) *Table {
	if resolved {
		return newTable(Flat, []Route{
			{Name: Index, Path: "/"},
			{Name: Submit, Path: "/submit"},
			{Name: Discover, Path: "/discover"},
			{Name: Content, Path: "/:preprint_id"},
			{Name: Forbidden, Path: "/forbidden"},
			{Name: PageNotFound, Path: "/*bad_url"},
		})
	}
	return newTable(Nested, []Route{
		{Name: Index, Path: "preprints"},
		{Name: Submit, Path: "preprints/submit"},
		{Name: Discover, Path: "preprints/discover"},
		{Name: Provider, Path: "preprints/:slug", Children: []Route{
			{Name: ProviderIndex, Path: "preprints/:slug"},
			{Name: ProviderContent, Path: "preprints/:slug/:preprint_id"},
			{Name: ProviderDisc, Path: "preprints/:slug/discover"},
			{Name: ProviderSubmit, Path: "preprints/:slug/submit"},
		}},
		{Name: Content, Path: "/:preprint_id"},
		{Name: PageNotFound, Path: "preprints/page-not-found"},
		{Name: Forbidden, Path: "/forbidden"},
		{Name: PageNotFound, Path: "/*bad_url"},
	})
}

func newTable(mode Mode, routes []Route) *Table {
	t := &Table{mode: mode, routes: routes}
	var add func(rs []Route)
	add = func(rs []Route) {
		for _, r := range rs {
			if len(r.Children) > 0 {
				add(r.Children)
				continue
			}
			t.entries = append(t.entries, entry{name: r.Name, path: r.Path, segments: parse(r.Path)})
		}
	}
	add(routes)
	return t
}

func parse(pattern string) []segment {
	var segs []segment
	for _, s := range split(pattern) {
		switch {
		case strings.HasPrefix(s, ":"):
			segs = append(segs, segment{kind: segDynamic, text: s[1:]})
		case strings.HasPrefix(s, "*"):
			segs = append(segs, segment{kind: segStar, text: s[1:]})
		default:
			segs = append(segs, segment{kind: segStatic, text: s})
		}
	}
	return segs
}

func split(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// Mode reports which tree is installed.
func (t *Table) Mode() Mode { return t.mode }

// Routes returns the declared tree.
func (t *Table) Routes() []Route { return t.routes }

// Paths lists every declared pattern in registration order, parents before
// their children.
func (t *Table) Paths() []string {
	var out []string
	var walk func(rs []Route)
	walk = func(rs []Route) {
		for _, r := range rs {
			if len(r.Children) > 0 {
				out = append(out, r.Path)
				for _, c := range r.Children {
					if c.Path != r.Path {
						out = append(out, c.Path)
					}
				}
				continue
			}
			out = append(out, r.Path)
		}
	}
	walk(t.routes)
	return out
}

// Match is the result of recognizing a path.
type Match struct {
	Name   string
	Path   string
	Params map[string]string
}

// Param returns a named parameter or "".
func (m Match) Param(name string) string { return m.Params[name] }

// Recognize finds the most specific route for path. Static segments beat
// dynamic ones, which beat the star segment; ties go to the route declared
// first. The star segment also matches the empty remainder, so every path
// is recognized by a built table.
func (t *Table) Recognize(path string) (Match, bool) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	parts := split(path)
	var (
		best      *entry
		bestRank  []segKind
		bestParam map[string]string
	)
	for i := range t.entries {
		e := &t.entries[i]
		params, rank, ok := e.match(parts)
		if !ok {
			continue
		}
		if best == nil || moreSpecific(rank, bestRank) {
			best, bestRank, bestParam = e, rank, params
		}
	}
	if best == nil {
		return Match{}, false
	}
	return Match{Name: best.name, Path: best.path, Params: bestParam}, true
}

func (e *entry) match(parts []string) (map[string]string, []segKind, bool) {
	params := map[string]string{}
	rank := make([]segKind, 0, len(e.segments))
	i := 0
	for _, s := range e.segments {
		switch s.kind {
		case segStar:
			params[s.text] = strings.Join(parts[i:], "/")
			rank = append(rank, segStar)
			return params, rank, true
		case segDynamic:
			if i >= len(parts) || parts[i] == "" {
				return nil, nil, false
			}
			params[s.text] = parts[i]
		case segStatic:
			if i >= len(parts) || parts[i] != s.text {
				return nil, nil, false
			}
		}
		rank = append(rank, s.kind)
		i++
	}
	if i != len(parts) {
		return nil, nil, false
	}
	return params, rank, true
}

func moreSpecific(a, b []segKind) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] > b[i]
		}
	}
	switch {
	case len(a) == len(b):
		return false
	case len(a) > len(b):
		return len(b) > 0 && b[len(b)-1] == segStar
	default:
		return len(a) == 0 || a[len(a)-1] != segStar
	}
}

// Generate builds a URL path for a named route. Missing parameters are an
// error; the catch-all is never generated.
func (t *Table) Generate(name string, params map[string]string) (string, error) {
	for _, e := range t.entries {
		if e.name != name {
			continue
		}
		var b strings.Builder
		star := false
		for _, s := range e.segments {
			b.WriteByte('/')
			switch s.kind {
			case segStatic:
				b.WriteString(s.text)
			case segDynamic:
				v := params[s.text]
				if v == "" {
					return "", fmt.Errorf("route %s: missing param %q", name, s.text)
				}
				b.WriteString(v)
			case segStar:
				star = true
			}
		}
		if star {
			continue
		}
		if b.Len() == 0 {
			return "/", nil
		}
		return b.String(), nil
	}
	return "", fmt.Errorf("route %s: not installed", name)
}
