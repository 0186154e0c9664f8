package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDecode(t *testing.T) {
	doc := `
max_depth: 50
prompt: "> "
history_size: 10
color: false
`
	cfg, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if cfg.MaxDepth != 50 || cfg.Prompt != "> " || cfg.HistorySize != 10 || cfg.Color {
		t.Errorf("values not decoded: %+v", cfg)
	}
	if cfg.Header != DefaultHeader {
		t.Errorf("header: want default %q, got %q", DefaultHeader, cfg.Header)
	}
}

func TestDecodeEmpty(t *testing.T) {
	cfg, err := Decode(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	def := Default()
	if *cfg != *def {
		t.Errorf("empty document should give the defaults: want %+v, got %+v", def, cfg)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []string{
		"unknown: 1",
		"max_depth: deep",
		"history_size: -1",
		"header: ''",
	}
	for _, doc := range tests {
		if _, err := Decode(strings.NewReader(doc)); err == nil {
			t.Errorf("%s: expected an error", doc)
		}
	}
	_, err := Decode(strings.NewReader("history_size: -1"))
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "machan.yml")
	if err := os.WriteFile(file, []byte("header: \"Eda!!\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvFile, "")
	cfg, err := Find("")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if cfg.Path != "" || cfg.Header != DefaultHeader {
		t.Errorf("no file should give the defaults, got %+v", cfg)
	}

	t.Setenv(EnvFile, file)
	cfg, err = Find("")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if cfg.Path != file || cfg.Header != "Eda!!" {
		t.Errorf("file from environment not loaded, got %+v", cfg)
	}

	if _, err := Find(filepath.Join(dir, "missing.yml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}
