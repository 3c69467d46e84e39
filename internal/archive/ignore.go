package archive

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// IgnoreSpec decides which paths under a source directory Build should
// skip, based on gitignore-flavored glob patterns read from a
// `.warpignore` file at the root of that directory. Patterns are
// gitignore-style: a leading `!` negates an earlier match, a trailing `/`
// restricts the pattern to directories, and a pattern with no slash
// matches at any depth.
type IgnoreSpec struct {
	patterns []ignorePattern
}

type ignorePattern struct {
	negated       bool
	directoryOnly bool
	matchLeaf     bool
	pattern       string
}

// ParseIgnoreSpec parses the lines of a `.warpignore` file. Blank lines
// and lines starting with `#` are skipped.
func ParseIgnoreSpec(lines []string) (*IgnoreSpec, error) {
	spec := &IgnoreSpec{}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		p, err := newIgnorePattern(line)
		if err != nil {
			return nil, &BuildError{Context: "parsing .warpignore pattern", Err: err}
		}

		spec.patterns = append(spec.patterns, p)
	}

	return spec, nil
}

func newIgnorePattern(raw string) (ignorePattern, error) {
	negated := false
	if strings.HasPrefix(raw, "!") {
		negated = true
		raw = raw[1:]
	}

	directoryOnly := false
	if strings.HasSuffix(raw, "/") {
		directoryOnly = true
		raw = strings.TrimSuffix(raw, "/")
	}

	absolute := strings.HasPrefix(raw, "/")
	raw = strings.TrimPrefix(raw, "/")

	if _, err := doublestar.Match(raw, "a"); err != nil {
		return ignorePattern{}, err
	}

	return ignorePattern{
		negated:       negated,
		directoryOnly: directoryOnly,
		matchLeaf:     !absolute && !strings.Contains(raw, "/"),
		pattern:       raw,
	}, nil
}

func (p ignorePattern) matches(relPath string, isDir bool) bool {
	if p.directoryOnly && !isDir {
		return false
	}

	if match, _ := doublestar.Match(p.pattern, relPath); match {
		return true
	}

	if p.matchLeaf && relPath != "" {
		if match, _ := doublestar.Match(p.pattern, path.Base(relPath)); match {
			return true
		}
	}

	return false
}

// Ignore reports whether relPath (slash-separated, relative to the
// packed directory's root) should be excluded from the archive. Later
// patterns take precedence, so a negated pattern can re-include a file
// excluded by an earlier one.
func (s *IgnoreSpec) Ignore(relPath string, isDir bool) bool {
	if s == nil {
		return false
	}

	ignored := false

	for _, p := range s.patterns {
		if p.matches(relPath, isDir) {
			ignored = !p.negated
		}
	}

	return ignored
}
