package glsltio_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/glslt-go/glslt/glsl"
	"github.com/glslt-go/glslt/internal/glsltio"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", p, err)
	}
	return p
}

func sprint(t *testing.T, tu *glsl.TranslationUnit) string {
	t.Helper()
	return glsl.Sprint(tu)
}

// TestLoadFilesResolvesQuotedIncludeFromOwnDirectory covers the common case:
// a quoted include with its target sitting right next to the including
// file, with no -I directories involved at all.
func TestLoadFilesResolvesQuotedIncludeFromOwnDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "helper.glsl", "float helperFn() { return 1.0; }\n")
	main := writeFile(t, dir, "main.glsl", `#include "helper.glsl"
void main() { float x = helperFn(); }
`)

	tu, err := glsltio.LoadFiles([]string{main}, nil)
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}

	got := sprint(t, tu)
	idxHelper := strings.Index(got, "helperFn")
	idxMain := strings.Index(got, "void main(")
	if idxHelper < 0 || idxMain < 0 {
		t.Fatalf("missing expected declarations in:\n%s", got)
	}
	if idxHelper > idxMain {
		t.Errorf("included declaration should be inlined before the including file's own content, got:\n%s", got)
	}
}

// TestLoadFilesQuotedSearchOrderPrefersOwnDirectory covers §-relevant search
// order: a quoted include checks the including file's own directory before
// any -I directory, even when a same-named file also exists on the
// include path.
func TestLoadFilesQuotedSearchOrderPrefersOwnDirectory(t *testing.T) {
	baseDir := t.TempDir()
	includeDir := t.TempDir()

	writeFile(t, baseDir, "helper.glsl", "float VALUE() { return 1.0; }\n")
	writeFile(t, includeDir, "helper.glsl", "float VALUE() { return 2.0; }\n")
	main := writeFile(t, baseDir, "main.glsl", `#include "helper.glsl"
void main() {}
`)

	tu, err := glsltio.LoadFiles([]string{main}, []string{includeDir})
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}

	got := sprint(t, tu)
	if !strings.Contains(got, "return 1.0;") {
		t.Errorf("quoted include should resolve against the including file's own directory first, got:\n%s", got)
	}
	if strings.Contains(got, "return 2.0;") {
		t.Errorf("quoted include must not fall through to an -I directory when the own directory has a match, got:\n%s", got)
	}
}

// TestLoadFilesAngleIncludeSkipsOwnDirectory covers the other half of the
// search-order rule: an angle-bracket include never checks the including
// file's own directory, even when a matching file sits right there.
func TestLoadFilesAngleIncludeSkipsOwnDirectory(t *testing.T) {
	baseDir := t.TempDir()
	writeFile(t, baseDir, "helper.glsl", "float VALUE() { return 1.0; }\n")
	main := writeFile(t, baseDir, "main.glsl", `#include <helper.glsl>
void main() {}
`)

	_, err := glsltio.LoadFiles([]string{main}, nil)
	var unresolved *glsltio.UnresolvedIncludeError
	if !errors.As(err, &unresolved) {
		t.Fatalf("got err %v, want *UnresolvedIncludeError since angle includes never search the including file's own directory", err)
	}
	if unresolved.Path != "helper.glsl" {
		t.Errorf("got Path %q, want %q", unresolved.Path, "helper.glsl")
	}

	includeDir := t.TempDir()
	writeFile(t, includeDir, "helper.glsl", "float VALUE() { return 2.0; }\n")
	tu, err := glsltio.LoadFiles([]string{main}, []string{includeDir})
	if err != nil {
		t.Fatalf("LoadFiles with -I set: %v", err)
	}
	got := sprint(t, tu)
	if !strings.Contains(got, "return 2.0;") {
		t.Errorf("angle include should resolve against an -I directory, got:\n%s", got)
	}
}

// TestLoadFilesDuplicateIncludeSuppressed covers dedup by canonical path: two
// files that both include a shared header must not pull its declarations in
// twice.
func TestLoadFilesDuplicateIncludeSuppressed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "common.glsl", "float shared() { return 0.0; }\n")
	a := writeFile(t, dir, "a.glsl", `#include "common.glsl"
float aFn() { return 1.0; }
`)
	b := writeFile(t, dir, "b.glsl", `#include "common.glsl"
float bFn() { return 2.0; }
`)

	tu, err := glsltio.LoadFiles([]string{a, b}, nil)
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}

	got := sprint(t, tu)
	if n := strings.Count(got, "shared()"); n != 1 {
		t.Errorf("shared() header declaration should be inlined exactly once across both includers, got %d occurrences in:\n%s", n, got)
	}
	if !strings.Contains(got, "aFn") || !strings.Contains(got, "bFn") {
		t.Errorf("both including files' own declarations should still be present, got:\n%s", got)
	}
}

// TestLoadFilesCycleSuppressed covers mutually-including files: the cycle
// must not recurse forever, and each file's own declarations still surface
// exactly once.
func TestLoadFilesCycleSuppressed(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.glsl", `#include "b.glsl"
float aFn() { return 1.0; }
`)
	writeFile(t, dir, "b.glsl", `#include "a.glsl"
float bFn() { return 2.0; }
`)

	tu, err := glsltio.LoadFiles([]string{a}, nil)
	if err != nil {
		t.Fatalf("LoadFiles should not fail on a mutual-include cycle: %v", err)
	}

	got := sprint(t, tu)
	if n := strings.Count(got, "aFn"); n != 1 {
		t.Errorf("aFn should appear exactly once despite the cycle, got %d occurrences in:\n%s", n, got)
	}
	if n := strings.Count(got, "bFn"); n != 1 {
		t.Errorf("bFn should appear exactly once despite the cycle, got %d occurrences in:\n%s", n, got)
	}
}

// TestLoadFilesUnresolvedInclude covers the failure path: an include whose
// target cannot be found anywhere in the search path.
func TestLoadFilesUnresolvedInclude(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "main.glsl", `#include "doesnotexist.glsl"
void main() {}
`)

	_, err := glsltio.LoadFiles([]string{main}, nil)
	var unresolved *glsltio.UnresolvedIncludeError
	if !errors.As(err, &unresolved) {
		t.Fatalf("got err %v (%T), want *UnresolvedIncludeError", err, err)
	}
	if unresolved.Path != "doesnotexist.glsl" {
		t.Errorf("got Path %q, want %q", unresolved.Path, "doesnotexist.glsl")
	}
}

// TestLoadFilesEmptyInputReportsErrEmptyInput covers a translation unit that
// ends up with no declarations at all: LoadFiles still returns the (empty)
// unit, paired with ErrEmptyInput so a caller can choose to proceed.
func TestLoadFilesEmptyInputReportsErrEmptyInput(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "main.glsl", "// nothing but a comment\n")

	tu, err := glsltio.LoadFiles([]string{main}, nil)
	if !errors.Is(err, glsltio.ErrEmptyInput) {
		t.Fatalf("got err %v, want ErrEmptyInput", err)
	}
	if tu == nil || len(tu.Decls) != 0 {
		t.Errorf("got non-empty translation unit %+v, want zero declarations alongside ErrEmptyInput", tu)
	}
}
