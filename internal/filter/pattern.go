package filter

import (
	"path"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern is an rsync-style glob compiled for slash-separated
// relative paths.
type compiledPattern struct {
	globs    []glob.Glob
	original string
	anchored bool // leading / or an inner /: matched against the whole relative path
	dirOnly  bool // trailing /: matches directories only
}

// compilePattern compiles an rsync-style pattern. "*" and "?" stop at "/",
// "**" crosses it, and "[!x]" negates a class.
func compilePattern(pattern string) (*compiledPattern, error) {
	cp := &compiledPattern{original: pattern}

	if strings.HasSuffix(pattern, "/") {
		cp.dirOnly = true
		pattern = strings.TrimSuffix(pattern, "/")
	}

	if strings.HasPrefix(pattern, "/") {
		cp.anchored = true
		pattern = strings.TrimPrefix(pattern, "/")
	} else if strings.Contains(pattern, "/") {
		cp.anchored = true
	}

	variants := []string{pattern}
	// A leading "**/" also matches zero directories.
	if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
		variants = append(variants, rest)
	}

	for _, v := range variants {
		g, err := glob.Compile(v, '/')
		if err != nil {
			return nil, err
		}
		cp.globs = append(cp.globs, g)
	}
	return cp, nil
}

// match tests whether a slash-separated relative path matches this pattern.
func (cp *compiledPattern) match(relPath string, isDir bool) bool {
	if cp.dirOnly && !isDir {
		return false
	}
	subject := relPath
	if !cp.anchored && !strings.Contains(cp.original, "**") {
		subject = path.Base(relPath)
	}
	for _, g := range cp.globs {
		if g.Match(subject) {
			return true
		}
	}
	return false
}

func (cp *compiledPattern) String() string { return cp.original }
