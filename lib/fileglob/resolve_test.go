// Copyright 2026 The Overweight Authors
// SPDX-License-Identifier: Apache-2.0

package fileglob

import (
	"os"
	"path/filepath"
	"testing"
)

// writeFile creates a file (and parent directories) under root.
func writeFile(t *testing.T, root, relative, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(relative))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", relative, err)
	}
}

func TestResolve_Literal(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.js", "console.log(1)")

	matches, err := Resolve("a.js", root)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].RelativePath != "a.js" {
		t.Errorf("RelativePath = %q, want a.js", matches[0].RelativePath)
	}
	if !filepath.IsAbs(matches[0].AbsolutePath) {
		t.Errorf("AbsolutePath %q is not absolute", matches[0].AbsolutePath)
	}
}

func TestResolve_LiteralMissing(t *testing.T) {
	root := t.TempDir()
	matches, err := Resolve("missing.js", root)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("got %d matches, want 0", len(matches))
	}
}

func TestResolve_Glob(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "dist/a.js", "aaa")
	writeFile(t, root, "dist/b.js", "bbb")
	writeFile(t, root, "dist/c.css", "ccc")
	writeFile(t, root, "dist/sub/d.js", "ddd")

	matches, err := Resolve("dist/*.js", root)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	// Walk order is lexical.
	if matches[0].RelativePath != "dist/a.js" || matches[1].RelativePath != "dist/b.js" {
		t.Errorf("matches = %q, %q; want dist/a.js, dist/b.js",
			matches[0].RelativePath, matches[1].RelativePath)
	}
}

func TestResolve_RecursiveGlob(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "dist/a.js", "aaa")
	writeFile(t, root, "dist/sub/d.js", "ddd")
	writeFile(t, root, "src/e.js", "eee")

	matches, err := Resolve("dist/**/*.js", root)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
}

func TestResolve_MatchesFilesOnly(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "dist/app.js/bundle.js", "nested")

	// "dist/*" matches the directory name dist/app.js, but only
	// files may be returned.
	matches, err := Resolve("dist/*", root)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("got %d matches, want 0 (directories excluded)", len(matches))
	}
}

func TestResolve_Dotfiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "dist/.hidden.js", "x")

	matches, err := Resolve("dist/*", root)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1 (dotfiles included)", len(matches))
	}
}

func TestResolve_MissingRoot(t *testing.T) {
	matches, err := Resolve("*.js", filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("got %d matches, want 0", len(matches))
	}
}
