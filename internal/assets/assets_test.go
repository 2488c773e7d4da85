package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/objview/internal/engine/model"
	"github.com/Faultbox/objview/pkg/formats"
)

const triangleOBJ = `v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`

func writeOBJ(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeOBJ(t, t.TempDir(), "tri.obj", triangleOBJ)

	m := NewManager(nil)
	defer m.Close()

	mdl, err := m.Load(path, Options{Build: model.BuildOptions{RNG: model.NewSineRNG(1)}})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if mdl.Mesh.FaceCount != 1 {
		t.Errorf("expected 1 face, got %d", mdl.Mesh.FaceCount)
	}
	if len(mdl.Mesh.Positions) != 9 {
		t.Errorf("expected 9 position floats, got %d", len(mdl.Mesh.Positions))
	}
	if len(mdl.Diagnostics) != 0 {
		t.Errorf("expected no diagnostics, got %v", mdl.Diagnostics)
	}
	if mdl.Path != path {
		t.Errorf("expected path %s, got %s", path, mdl.Path)
	}
}

func TestLoadUsesCache(t *testing.T) {
	path := writeOBJ(t, t.TempDir(), "tri.obj", triangleOBJ)

	m := NewManager(nil)
	if _, err := m.Load(path, Options{}); err != nil {
		t.Fatalf("first Load failed: %v", err)
	}

	// Change the file on disk; the cached parse must still be used
	writeOBJ(t, filepath.Dir(path), "tri.obj", "")

	mdl, err := m.Load(path, Options{})
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if mdl.Mesh.FaceCount != 1 {
		t.Errorf("expected cached mesh with 1 face, got %d", mdl.Mesh.FaceCount)
	}

	hits, misses := m.Cache().Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %d/%d", hits, misses)
	}

	// After invalidation the empty file is read and fails to build
	m.Invalidate(path)
	if m.Cache().Len() != 0 {
		t.Errorf("expected empty cache after Invalidate, got %d", m.Cache().Len())
	}
	if _, err := m.Load(path, Options{}); !errors.Is(err, model.ErrEmptyVertices) {
		t.Errorf("expected ErrEmptyVertices after reload, got %v", err)
	}
}

func TestLoadCharsetIsPartOfKey(t *testing.T) {
	path := writeOBJ(t, t.TempDir(), "tri.obj", triangleOBJ)

	m := NewManager(nil)
	if _, err := m.Load(path, Options{Charset: "utf-8"}); err != nil {
		t.Fatalf("Load utf-8 failed: %v", err)
	}
	if _, err := m.Load(path, Options{Charset: "euc-kr"}); err != nil {
		t.Fatalf("Load euc-kr failed: %v", err)
	}
	if m.Cache().Len() != 2 {
		t.Errorf("expected 2 cache entries, got %d", m.Cache().Len())
	}
}

func TestResolveSearchDirs(t *testing.T) {
	low := t.TempDir()
	high := t.TempDir()
	writeOBJ(t, low, "shared.obj", triangleOBJ)
	writeOBJ(t, high, "shared.obj", triangleOBJ)
	writeOBJ(t, low, "only_low.obj", triangleOBJ)

	m := NewManager(nil)
	if err := m.AddSearchDir(low); err != nil {
		t.Fatalf("AddSearchDir failed: %v", err)
	}
	if err := m.AddSearchDir(high); err != nil {
		t.Fatalf("AddSearchDir failed: %v", err)
	}

	tests := []struct {
		name string
		want string
	}{
		{"shared.obj", filepath.Join(high, "shared.obj")},
		{"only_low.obj", filepath.Join(low, "only_low.obj")},
	}
	for _, tt := range tests {
		got, err := m.Resolve(tt.name)
		if err != nil {
			t.Errorf("Resolve(%s) failed: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Resolve(%s): expected %s, got %s", tt.name, tt.want, got)
		}
	}

	if _, err := m.Resolve("missing.obj"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveAbsolute(t *testing.T) {
	dir := t.TempDir()
	writeOBJ(t, dir, "tri.obj", triangleOBJ)

	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	cwd, _ := os.Getwd()

	m := NewManager(nil)
	got, err := m.Resolve("tri.obj")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("expected absolute path, got %s", got)
	}
	if want := filepath.Join(cwd, "tri.obj"); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}

	// Relative and absolute names share one cache entry
	if _, err := m.Load("tri.obj", Options{}); err != nil {
		t.Fatalf("relative Load failed: %v", err)
	}
	if _, err := m.Load(filepath.Join(cwd, "tri.obj"), Options{}); err != nil {
		t.Fatalf("absolute Load failed: %v", err)
	}
	if m.Cache().Len() != 1 {
		t.Errorf("expected 1 cache entry, got %d", m.Cache().Len())
	}
	hits, _ := m.Cache().Stats()
	if hits != 1 {
		t.Errorf("expected second Load to hit the cache, got %d hits", hits)
	}
}

func TestAddSearchDirRejectsFiles(t *testing.T) {
	path := writeOBJ(t, t.TempDir(), "tri.obj", triangleOBJ)

	m := NewManager(nil)
	if err := m.AddSearchDir(path); err == nil {
		t.Error("expected error adding a file as search dir, got nil")
	}
	if err := m.AddSearchDir(filepath.Join(path, "nope")); err == nil {
		t.Error("expected error adding a missing dir, got nil")
	}
}

func TestLoadNoFaces(t *testing.T) {
	path := writeOBJ(t, t.TempDir(), "points.obj", "v 0 0 0\nv 1 1 1\n")

	m := NewManager(nil)
	_, err := m.Load(path, Options{})
	if !errors.Is(err, model.ErrNoFaces) {
		t.Errorf("expected ErrNoFaces, got %v", err)
	}
}

func TestLoadLogsDiagnostics(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	path := writeOBJ(t, t.TempDir(), "bad.obj", triangleOBJ+"f 1 2 9\nv 1 x 2\n")

	m := NewManager(zap.New(core))
	mdl, err := m.Load(path, Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(mdl.Diagnostics) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(mdl.Diagnostics))
	}
	if got := logs.FilterMessage("skipped OBJ data").Len(); got != 2 {
		t.Errorf("expected 2 warnings, got %d", got)
	}

	entry := logs.All()[0]
	if entry.ContextMap()["kind"] != formats.OBJIndexOutOfRange.String() {
		t.Errorf("expected first warning kind IndexOutOfRange, got %v", entry.ContextMap()["kind"])
	}
	if entry.ContextMap()["line"] != int64(5) {
		t.Errorf("expected first warning on line 5, got %v", entry.ContextMap()["line"])
	}
}

func TestLogDiagnosticsSummary(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	var b strings.Builder
	b.WriteString(triangleOBJ)
	for i := 0; i < maxLoggedDiagnostics+5; i++ {
		fmt.Fprintf(&b, "f 1 2 %d\n", 100+i)
	}
	_, diags := formats.ParseOBJ(b.String())

	LogDiagnostics(zap.New(core), "many.obj", diags)

	if got := logs.FilterMessage("skipped OBJ data").Len(); got != maxLoggedDiagnostics {
		t.Errorf("expected %d individual warnings, got %d", maxLoggedDiagnostics, got)
	}
	summary := logs.FilterMessage("more OBJ diagnostics suppressed").All()
	if len(summary) != 1 {
		t.Fatalf("expected 1 summary line, got %d", len(summary))
	}
	if summary[0].ContextMap()["total"] != int64(maxLoggedDiagnostics+5) {
		t.Errorf("expected total %d, got %v", maxLoggedDiagnostics+5, summary[0].ContextMap()["total"])
	}
}

func TestCacheClear(t *testing.T) {
	c := NewCache()
	c.set("a|", &parsed{})
	c.get("a|")
	c.get("b|")

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d", c.Len())
	}
	hits, misses := c.Stats()
	if hits != 0 || misses != 0 {
		t.Errorf("expected reset stats, got %d/%d", hits, misses)
	}
}
