package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"muxkit/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestRunAllReportsDirectoriesAndBinaries(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkDir = filepath.Join(dir, "work")
	cfg.Paths.OutputDir = filepath.Join(dir, "out")
	cfg.Paths.LogDir = ""
	if err := os.MkdirAll(cfg.Paths.WorkDir, 0o755); err != nil {
		t.Fatal(err)
	}

	results := RunAll(context.Background(), &cfg)
	if len(results) != 5 {
		t.Fatalf("expected 5 results (2 dirs + 3 binaries), got %d", len(results))
	}
	if !results[0].Passed {
		t.Fatalf("expected work dir check to pass: %s", results[0].Detail)
	}
	if results[1].Passed {
		t.Fatal("expected missing output dir check to fail")
	}
	byName := map[string]Result{}
	for _, r := range results {
		byName[r.Name] = r
	}
	if _, ok := byName["ffprobe"]; !ok {
		t.Fatalf("expected ffprobe in results, got %+v", results)
	}
}

func TestRunAllNilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatalf("expected nil results for nil config, got %v", results)
	}
}

func TestRunAllOptionalBinaryPassesWhenMissing(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkDir = dir
	cfg.Paths.OutputDir = dir
	cfg.Paths.LogDir = ""
	cfg.Tools.AegisubCLI = "definitely-not-installed-anywhere"

	results := RunAll(context.Background(), &cfg)
	for _, r := range results {
		if r.Name == "aegisub-cli" {
			if !r.Passed {
				t.Fatalf("expected optional binary to pass with note, got %+v", r)
			}
			return
		}
	}
	t.Fatal("aegisub-cli result not found")
}
