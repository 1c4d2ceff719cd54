package ptypane

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExtractPathCandidateHome(t *testing.T) {
	home := t.TempDir()
	sub := filepath.Join(home, "proj")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, ok := extractPathCandidate("~/proj $ ", home)
	if !ok || got != sub {
		t.Fatalf("extractPathCandidate() = %q, %v; want %q, true", got, ok, sub)
	}
}

func TestExtractPathCandidateAbsolute(t *testing.T) {
	dir := t.TempDir()

	got, ok := extractPathCandidate("user@host:"+dir+"$ ", "")
	if !ok || got != dir {
		t.Fatalf("extractPathCandidate() = %q, %v; want %q, true", got, ok, dir)
	}
}

func TestExtractPathCandidateRejectsNonDirectory(t *testing.T) {
	got, ok := extractPathCandidate("/definitely/not/a/real/path/hopefully", "")
	if ok {
		t.Fatalf("expected no candidate, got %q", got)
	}
}

func TestExtractPathCandidateNoPathInLine(t *testing.T) {
	got, ok := extractPathCandidate("just some plain output with no path", "")
	if ok {
		t.Fatalf("expected no candidate, got %q", got)
	}
}

func TestPathDepth(t *testing.T) {
	cases := map[string]int{
		"/":        0,
		"":         0,
		"/a":       1,
		"/a/b":     2,
		"/a/b/c":   3,
		"/a/b/c/":  3,
		"a/b":      2,
	}
	for path, want := range cases {
		if got := pathDepth(path); got != want {
			t.Errorf("pathDepth(%q) = %d, want %d", path, got, want)
		}
	}
}

func TestApplyScrapeDebounce(t *testing.T) {
	home := t.TempDir()
	deep := filepath.Join(home, "a", "b")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	shallow := home

	p := &Pane{cwd: shallow}

	p.applyScrapeDebounce(deep)
	if p.cwd != deep {
		t.Fatalf("expected immediate adoption of deeper path, got %q", p.cwd)
	}
	if p.shallowRevertCount != 0 {
		t.Fatalf("expected counter reset after adoption, got %d", p.shallowRevertCount)
	}

	for i := 0; i < cwdRevertThreshold-1; i++ {
		p.applyScrapeDebounce(shallow)
		if p.cwd != deep {
			t.Fatalf("adopted shallower path too early at tick %d (cwd=%q)", i, p.cwd)
		}
	}

	p.applyScrapeDebounce(shallow)
	if p.cwd != shallow {
		t.Fatalf("expected adoption of shallower path after %d ticks, cwd=%q", cwdRevertThreshold, p.cwd)
	}
	if p.shallowRevertCount != 0 {
		t.Fatalf("expected counter reset after adoption, got %d", p.shallowRevertCount)
	}
}

func TestApplyScrapeDebounceSamePathResetsCounter(t *testing.T) {
	home := t.TempDir()
	p := &Pane{cwd: home, shallowRevertCount: 5}

	p.applyScrapeDebounce(home)

	if p.cwd != home {
		t.Fatalf("cwd should be unchanged, got %q", p.cwd)
	}
	if p.shallowRevertCount != 0 {
		t.Fatalf("same-path candidate should reset the counter, got %d", p.shallowRevertCount)
	}
}
