package matching

import (
	"path"
	"strings"

	"github.com/elemstage/elemstage/matching/option"
	"github.com/gobwas/glob"
)

// Manager evaluates gitignore-style inclusion/exclusion rules against
// source locations before they are partitioned.
type Manager struct {
	options    *option.Options
	inclusions []rule
	exclusions []rule
}

type rule struct {
	negate bool
	match  func(path string) bool
}

// New creates a matching manager with the given options.
func New(opts ...option.Option) *Manager {
	options := option.NewOptions(opts...)
	m := &Manager{options: options}
	for _, pattern := range options.Inclusions {
		if r, ok := compileRule(pattern); ok {
			m.inclusions = append(m.inclusions, r)
		}
	}
	for _, pattern := range options.Exclusions {
		if r, ok := compileRule(pattern); ok {
			m.exclusions = append(m.exclusions, r)
		}
	}
	return m
}

// IsExcluded reports whether a location should be skipped. Exclusion rules
// apply in order with the last matching rule winning, so a negated pattern
// can re-include a previously excluded path.
func (m *Manager) IsExcluded(location string, size int) bool {
	if m.options.MaxFileSize > 0 && size > m.options.MaxFileSize {
		return true
	}
	normalized := normalizePath(location)

	if len(m.inclusions) > 0 {
		included := false
		for _, r := range m.inclusions {
			if r.match(normalized) {
				included = true
				break
			}
		}
		if !included {
			return true
		}
	}

	excluded := false
	for _, r := range m.exclusions {
		if r.match(normalized) {
			excluded = !r.negate
		}
	}
	return excluded
}

func compileRule(pattern string) (rule, bool) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" || strings.HasPrefix(pattern, "#") {
		return rule{}, false
	}
	r := rule{}
	if strings.HasPrefix(pattern, "!") {
		r.negate = true
		pattern = pattern[1:]
	}

	switch {
	case strings.HasSuffix(pattern, "/"):
		// directory segment pattern, matches anywhere in the path
		segment := strings.Trim(pattern, "/")
		r.match = func(p string) bool {
			return strings.Contains("/"+p+"/", "/"+segment+"/")
		}
	case strings.HasPrefix(pattern, "/"):
		// anchored at the source root
		anchored := strings.TrimPrefix(pattern, "/")
		g, err := glob.Compile(anchored, '/')
		if err != nil {
			return rule{}, false
		}
		r.match = func(p string) bool {
			return g.Match(p) || strings.HasPrefix(p, anchored+"/")
		}
	case strings.Contains(pattern, "**"):
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return rule{}, false
		}
		nested, err := glob.Compile("**/"+pattern, '/')
		if err != nil {
			return rule{}, false
		}
		r.match = func(p string) bool {
			return g.Match(p) || nested.Match(p)
		}
	case strings.Contains(pattern, "/"):
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return rule{}, false
		}
		r.match = func(p string) bool {
			return g.Match(p)
		}
	default:
		// basename pattern, also matches a directory segment of the same name
		g, err := glob.Compile(pattern)
		if err != nil {
			return rule{}, false
		}
		segment := pattern
		hasWildcard := strings.ContainsAny(pattern, "*?[")
		r.match = func(p string) bool {
			if g.Match(path.Base(p)) {
				return true
			}
			if !hasWildcard {
				return strings.Contains("/"+p+"/", "/"+segment+"/")
			}
			return false
		}
	}
	return r, true
}

// normalizePath strips URL schemes, bucket/host components, windows volume
// prefixes and leading separators so patterns see root relative slash paths.
func normalizePath(location string) string {
	p := strings.ReplaceAll(location, `\`, "/")
	if i := strings.Index(p, "://"); i >= 0 {
		p = p[i+3:]
		if j := strings.Index(p, "/"); j >= 0 {
			p = p[j+1:]
		} else {
			p = ""
		}
	}
	if len(p) >= 2 && p[1] == ':' {
		p = p[2:]
	}
	return strings.TrimLeft(p, "/")
}
