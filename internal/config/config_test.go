package config

import (
	"os"
	"path/filepath"
	"testing"
)

// chdir switches the process into dir for the duration of the test and
// restores the previous working directory afterward.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(prev) })
}

func TestInitializeDefaultsWithNoConfigFile(t *testing.T) {
	chdir(t, t.TempDir())
	if err := Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	cfg := Get()
	if cfg.PageSize != DefaultPageSize {
		t.Fatalf("expected the default page size %d, got %d", DefaultPageSize, cfg.PageSize)
	}
	if cfg.DataDir != "./sqlcore-data" {
		t.Fatalf("expected the default data dir, got %q", cfg.DataDir)
	}
	if cfg.LogFile != filepath.Join(cfg.DataDir, "sqlcore.log") {
		t.Fatalf("expected log_file to fall back under data_dir, got %q", cfg.LogFile)
	}
}

func TestInitializeReadsConfigFileFromCwd(t *testing.T) {
	dir := t.TempDir()
	yaml := "data_dir: ./custom-data\npage_size: 8192\n"
	if err := os.WriteFile(filepath.Join(dir, "sqlcore.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	chdir(t, dir)

	if err := Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	cfg := Get()
	if cfg.DataDir != "./custom-data" {
		t.Fatalf("expected data_dir from sqlcore.yaml, got %q", cfg.DataDir)
	}
	if cfg.PageSize != 8192 {
		t.Fatalf("expected page_size from sqlcore.yaml, got %d", cfg.PageSize)
	}
}

func TestInitializeWalksUpToFindConfigFile(t *testing.T) {
	root := t.TempDir()
	yaml := "page_size: 1024\n"
	if err := os.WriteFile(filepath.Join(root, "sqlcore.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	chdir(t, nested)

	if err := Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if cfg := Get(); cfg.PageSize != 1024 {
		t.Fatalf("expected the walked-up-to config's page_size, got %d", cfg.PageSize)
	}
}
