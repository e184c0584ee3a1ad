// Package pathfilter decides which project paths the move tool may touch.
package pathfilter

import (
	"regexp"
	"strings"

	"github.com/taigrr/filemove-mcp/internal/types"
)

// DefaultIgnoredPatterns are always denied, whatever the configuration adds.
var DefaultIgnoredPatterns = []string{
	"**/.git/**",
}

// PathFilter denies paths matching any of its glob patterns.
type PathFilter struct {
	patterns []string
	compiled []*regexp.Regexp
}

// New creates a PathFilter from the defaults plus config.IgnoredPatterns.
func New(config *types.PathFilterConfig) *PathFilter {
	patterns := append([]string{}, DefaultIgnoredPatterns...)
	if config != nil {
		for _, p := range config.IgnoredPatterns {
			if p = strings.TrimSpace(p); p != "" {
				patterns = append(patterns, p)
			}
		}
	}

	pf := &PathFilter{}
	for _, p := range patterns {
		re, err := globToRegexp(p)
		if err != nil {
			continue
		}
		pf.patterns = append(pf.patterns, p)
		pf.compiled = append(pf.compiled, re)
	}
	return pf
}

// globToRegexp converts a glob pattern to an anchored regex.
// ** matches anything, * a run of non-slash characters, ? a single non-slash character.
// A leading **/ or an inner /**/ also matches zero directories, so **/*.lock covers x.lock.
func globToRegexp(pattern string) (*regexp.Regexp, error) {
	normalized := strings.ReplaceAll(pattern, "\\", "/")
	prefix := "^"
	if rest, ok := strings.CutPrefix(normalized, "**/"); ok {
		prefix, normalized = "^(?:.*/)?", rest
	}
	expr := regexp.QuoteMeta(normalized)

	expr = strings.ReplaceAll(expr, `/\*\*/`, "/(?:.*/)?")
	expr = strings.ReplaceAll(expr, `\*\*`, ".*")
	expr = strings.ReplaceAll(expr, `\*`, "[^/]*")
	expr = strings.ReplaceAll(expr, `\?`, "[^/]")

	return regexp.Compile(prefix + expr + "$")
}

// IsAllowed reports whether the root-relative path is outside every denied pattern.
// A directory is denied when its contents are, so ".git" is caught by "**/.git/**".
func (pf *PathFilter) IsAllowed(path string) bool {
	normalized := strings.TrimPrefix(strings.ReplaceAll(path, "\\", "/"), "./")
	asDir := strings.TrimSuffix(normalized, "/") + "/"

	for _, re := range pf.compiled {
		if re.MatchString(normalized) || re.MatchString(asDir) {
			return false
		}
	}
	return true
}

// Patterns returns the effective deny list.
func (pf *PathFilter) Patterns() []string {
	return append([]string(nil), pf.patterns...)
}
