package naming

import (
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
)

// Matcher applies an input regular expression to relative paths. A nil
// Matcher, or one compiled from an empty pattern, matches every path and
// captures nothing.
type Matcher struct {
	re    *regexp.Regexp
	names []string
}

// CompileMatcher compiles pattern. Named groups use the (?P<name>...) or
// (?<name>...) syntax.
func CompileMatcher(pattern string) (*Matcher, error) {
	if pattern == "" {
		return &Matcher{}, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("input regex %q: %w", pattern, err)
	}
	return &Matcher{re: re, names: re.SubexpNames()[1:]}, nil
}

// Match searches relPath (any substring may match) and returns the captures.
// The path is normalized to forward slashes first so patterns are portable.
func (m *Matcher) Match(relPath string) (Captures, bool) {
	if m == nil || m.re == nil {
		return Captures{}, true
	}
	subject := filepath.ToSlash(relPath)
	loc := m.re.FindStringSubmatchIndex(subject)
	if loc == nil {
		return Captures{}, false
	}
	caps := Captures{
		Positional: make([]Value, 0, len(m.names)),
		Named:      make(map[string]Value),
	}
	for i, name := range m.names {
		start, end := loc[2*(i+1)], loc[2*(i+1)+1]
		text := ""
		if start >= 0 {
			text = subject[start:end]
		}
		value := CaptureValue(text)
		caps.Positional = append(caps.Positional, value)
		if name != "" {
			caps.Named[name] = value
		}
	}
	return caps, true
}

// GroupCount returns the number of capture groups, named and unnamed.
func (m *Matcher) GroupCount() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

// HasGroup reports whether the pattern declares a group called name.
func (m *Matcher) HasGroup(name string) bool {
	if m == nil || name == "" {
		return false
	}
	return slices.Contains(m.names, name)
}

// String returns the source pattern.
func (m *Matcher) String() string {
	if m == nil || m.re == nil {
		return ""
	}
	return m.re.String()
}
