// Package glsltio loads one or more GLSL source files into a single
// translation unit, resolving `#include` directives along the way. This is
// driver-level plumbing: the glsl package's parser has no notion of
// includes (GLSLT's core treats a translation unit as already fully
// expanded), so the expansion happens here, one file at a time, before any
// file's declarations reach the parser's caller.
package glsltio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glslt-go/glslt/glsl"
)

// ErrEmptyInput reports that loading produced no declarations at all. It is
// a driver-level warning, not one of the core's closed error kinds: a
// caller may choose to proceed with an empty translation unit instead of
// failing.
var ErrEmptyInput = errors.New("glsltio: empty input")

// UnresolvedIncludeError fires when an #include directive's target cannot
// be found in the including file's directory or any of the system include
// paths.
type UnresolvedIncludeError struct {
	Path string
}

func (e *UnresolvedIncludeError) Error() string {
	return fmt.Sprintf("unresolved include: %q", e.Path)
}

// LoadFiles parses paths in order, inlining every #include it finds
// (recursively, with cycle/duplicate suppression by canonical path), and
// concatenates the result into one translation unit.
func LoadFiles(paths []string, includeDirs []string) (*glsl.TranslationUnit, error) {
	l := &loader{includeDirs: includeDirs, seen: make(map[string]bool)}

	var decls []glsl.ExternalDecl
	for _, p := range paths {
		ds, err := l.loadFile(p)
		if err != nil {
			return nil, err
		}
		decls = append(decls, ds...)
	}

	tu := &glsl.TranslationUnit{Decls: decls}
	if len(decls) == 0 {
		return tu, ErrEmptyInput
	}
	return tu, nil
}

type loader struct {
	includeDirs []string
	seen        map[string]bool // canonical path -> already loaded
}

func (l *loader) loadFile(path string) ([]glsl.ExternalDecl, error) {
	canon, err := canonicalize(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	l.seen[canon] = true

	src, err := os.ReadFile(canon)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	tu, err := glsl.ParseTranslationUnit(string(src), path)
	if err != nil {
		return nil, err
	}

	baseDir := filepath.Dir(canon)

	var out []glsl.ExternalDecl
	for _, d := range tu.Decls {
		pp, ok := d.(*glsl.Preprocessor)
		if !ok {
			out = append(out, d)
			continue
		}
		raw, ok := pp.Directive.(*glsl.RawDirective)
		if !ok || raw.Name != "include" {
			out = append(out, d)
			continue
		}

		incPath, system := parseIncludeTarget(raw.Rest)
		resolved, found := l.resolveInclude(incPath, system, baseDir)
		if !found {
			return nil, &UnresolvedIncludeError{Path: incPath}
		}
		if l.seen[resolved] {
			continue
		}
		included, err := l.loadFile(resolved)
		if err != nil {
			return nil, err
		}
		out = append(out, included...)
	}
	return out, nil
}

// resolveInclude searches, in order: for a quoted ("...") include, the
// including file's own directory first, then every -I directory; for an
// angle-bracket (<...>) include, only the -I directories.
func (l *loader) resolveInclude(path string, system bool, baseDir string) (string, bool) {
	var dirs []string
	if !system {
		dirs = append(dirs, baseDir)
	}
	dirs = append(dirs, l.includeDirs...)

	for _, dir := range dirs {
		candidate := filepath.Join(dir, path)
		if canon, err := canonicalize(candidate); err == nil {
			if _, statErr := os.Stat(canon); statErr == nil {
				return canon, true
			}
		}
	}
	return "", false
}

func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real, nil
	}
	return abs, nil
}

// parseIncludeTarget splits a RawDirective's Rest ("<foo.glsl>" or
// "\"foo.glsl\"") into its path and whether it used the system (angle
// bracket) form.
func parseIncludeTarget(rest string) (path string, system bool) {
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, "<") {
		if end := strings.IndexByte(rest, '>'); end > 0 {
			return rest[1:end], true
		}
	}
	if strings.HasPrefix(rest, `"`) {
		if end := strings.IndexByte(rest[1:], '"'); end >= 0 {
			return rest[1 : 1+end], false
		}
	}
	return rest, false
}
