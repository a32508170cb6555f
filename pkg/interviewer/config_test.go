package interviewer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "interviewer.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
vendors:
  stt:
    provider: mock
  tts:
    provider: mock
  llm:
    provider: mock
`

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Fatalf("unexpected logging defaults: %+v", cfg)
	}
	if cfg.Interview.HardLimitSeconds != 890 ||
		cfg.Interview.FinalWarnSeconds != 780 ||
		cfg.Interview.ConcludingSeconds != 600 {
		t.Fatalf("unexpected limit defaults: %+v", cfg.Interview)
	}
	if cfg.Interview.Voice != "aura-asteria-en" {
		t.Fatalf("unexpected voice default: %q", cfg.Interview.Voice)
	}
	if !cfg.Privacy.RedactPII {
		t.Fatalf("redaction should default on")
	}
	if cfg.Models.Preferred != "gpt-4o" {
		t.Fatalf("unexpected model default: %q", cfg.Models.Preferred)
	}
}

func TestLoadConfigEnvExpansion(t *testing.T) {
	t.Setenv("TEST_DG_KEY", "dg-secret")
	cfg, err := LoadConfig(writeConfig(t, `
vendors:
  stt:
    provider: deepgram
    settings:
      api_key: ${TEST_DG_KEY}
  tts:
    provider: mock
  llm:
    provider: mock
`))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got := cfg.Vendors.STT.Settings["api_key"]; got != "dg-secret" {
		t.Fatalf("env expansion failed: %v", got)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
vendors:
  tts:
    provider: mock
  llm:
    provider: mock
`))
	if err == nil || !strings.Contains(err.Error(), "vendors.stt.provider") {
		t.Fatalf("expected stt provider error, got %v", err)
	}

	_, err = LoadConfig(writeConfig(t, minimalConfig+`
interview:
  hard_limit_seconds: 500
`))
	if err == nil || !strings.Contains(err.Error(), "hard_limit_seconds") {
		t.Fatalf("expected limit ordering error, got %v", err)
	}
}

func TestEngineBuildsWithMocks(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	eng, err := NewEngine(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer eng.Close()

	if got := eng.Generator().Candidates(); len(got) == 0 {
		t.Fatalf("generator should carry the configured candidates")
	}
	sess := eng.NewSession()
	if sess == nil {
		t.Fatalf("NewSession returned nil")
	}
}

func TestRegistryUnknownProvider(t *testing.T) {
	r := NewProviderRegistry()
	RegisterDefaults(r)
	if _, err := r.BuildSTT("nope", nil); err == nil {
		t.Fatalf("unknown stt provider must fail")
	}
	if _, err := r.BuildTTS("nope", nil); err == nil {
		t.Fatalf("unknown tts provider must fail")
	}
	if _, err := r.BuildLLM(context.Background(), "nope", nil); err == nil {
		t.Fatalf("unknown llm provider must fail")
	}
}
