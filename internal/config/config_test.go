package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.DefaultSection != "status" {
		t.Errorf("expected default section %q, got %q", "status", cfg.DefaultSection)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.UploadBase != "/hydra/libraries" {
		t.Errorf("expected default upload_base %q, got %q", "/hydra/libraries", cfg.UploadBase)
	}
	if cfg.RequestTimeout != 0 {
		t.Errorf("expected no request timeout by default, got %d", cfg.RequestTimeout)
	}

	want := map[string]string{
		"status":      "/hydra",
		"stagegroups": "/hydra/stagegroups",
		"libraries":   "/hydra/libraries",
		"documents":   "/hydra/documents",
	}
	for name, endpoint := range want {
		s, ok := cfg.Section(name)
		if !ok {
			t.Errorf("missing default section %q", name)
			continue
		}
		if s.Endpoint != endpoint {
			t.Errorf("section %q endpoint = %q, want %q", name, s.Endpoint, endpoint)
		}
	}
}

func TestDefaultConfigDoesNotShareSections(t *testing.T) {
	a := DefaultConfig()
	a.Sections[0].Endpoint = "/changed"
	b := DefaultConfig()
	if b.Sections[0].Endpoint == "/changed" {
		t.Error("DefaultConfig sections alias the package defaults")
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.hydradash.yml")

	original := DefaultConfig()
	original.BackendURL = "http://hydra.internal:9000"
	original.Port = 9191
	original.DefaultSection = "libraries"
	original.ArchivePatterns = []string{"**/*.jar"}

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.BackendURL != original.BackendURL {
		t.Errorf("backend_url: got %q, want %q", loaded.BackendURL, original.BackendURL)
	}
	if loaded.Port != original.Port {
		t.Errorf("port: got %d, want %d", loaded.Port, original.Port)
	}
	if loaded.DefaultSection != original.DefaultSection {
		t.Errorf("default_section: got %q, want %q", loaded.DefaultSection, original.DefaultSection)
	}
	if len(loaded.ArchivePatterns) != 1 || loaded.ArchivePatterns[0] != "**/*.jar" {
		t.Errorf("archive_patterns: got %v, want [**/*.jar]", loaded.ArchivePatterns)
	}
	if len(loaded.Sections) != len(original.Sections) {
		t.Fatalf("sections length: got %d, want %d", len(loaded.Sections), len(original.Sections))
	}
	for i, s := range loaded.Sections {
		if s != original.Sections[i] {
			t.Errorf("sections[%d]: got %+v, want %+v", i, s, original.Sections[i])
		}
	}
}

func TestLoadSectionsReplaceDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sections.yml")

	content := `sections:
  - name: status
    title: Status
    endpoint: /admin
  - name: documents
    title: Docs
    endpoint: /admin/documents
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d: %+v", len(cfg.Sections), cfg.Sections)
	}
	if cfg.Sections[0].Endpoint != "/admin" {
		t.Errorf("sections[0].endpoint = %q, want /admin", cfg.Sections[0].Endpoint)
	}
	if _, ok := cfg.Section("libraries"); ok {
		t.Error("default libraries section should have been replaced")
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.BackendURL != DefaultConfig().BackendURL {
		t.Errorf("expected default backend url, got %q", cfg.BackendURL)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("HYDRADASH_BACKEND_URL", "http://override:1234")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.BackendURL != "http://override:1234" {
		t.Errorf("env override failed: got %q", loaded.BackendURL)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("HYDRADASH_DEFAULT_SECTION=documents\n"), 0644); err != nil {
		t.Fatalf("writing env file: %v", err)
	}
	t.Setenv("HYDRADASH_DEFAULT_SECTION", "")
	os.Unsetenv("HYDRADASH_DEFAULT_SECTION")

	if err := LoadDotEnv(envPath); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}

	cfg, err := Load(filepath.Join(dir, "missing.yml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DefaultSection != "documents" {
		t.Errorf("default_section = %q, want documents", cfg.DefaultSection)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Errorf("missing env file should be ignored, got %v", err)
	}
	if err := LoadDotEnv(""); err != nil {
		t.Errorf("empty path should be ignored, got %v", err)
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty backend", func(c *Config) { c.BackendURL = "" }},
		{"relative backend", func(c *Config) { c.BackendURL = "/hydra" }},
		{"port out of range", func(c *Config) { c.Port = 70000 }},
		{"no sections", func(c *Config) { c.Sections = nil }},
		{"unnamed section", func(c *Config) { c.Sections = append(c.Sections, SectionConfig{Endpoint: "/x"}) }},
		{"duplicate section", func(c *Config) { c.Sections = append(c.Sections, SectionConfig{Name: "status"}) }},
		{"unknown default", func(c *Config) { c.DefaultSection = "nowhere" }},
		{"empty upload base", func(c *Config) { c.UploadBase = "" }},
		{"negative timeout", func(c *Config) { c.RequestTimeout = -1 }},
		{"negative history limit", func(c *Config) { c.HistoryLimit = -1 }},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" *.jar , *.zip ", []string{"*.jar", "*.zip"}},
		{"**/*.jar", []string{"**/*.jar"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		got := splitAndTrim(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("splitAndTrim(%q) len = %d, want %d", tt.input, len(got), len(tt.want))
			continue
		}
		for i, v := range got {
			if v != tt.want[i] {
				t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
			}
		}
	}
}
