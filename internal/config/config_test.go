package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadJSONCAndPrecedence(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	work := t.TempDir()
	oldwd, _ := os.Getwd()
	if err := os.Chdir(work); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldwd) })

	globalDir := filepath.Join(home, ".nexus")
	if err := os.MkdirAll(globalDir, 0o755); err != nil {
		t.Fatal(err)
	}
	globalCfg := `{
  // global
  "provider": {"model": "global-model"},
  "voice": {"enabled": false}
}`
	if err := os.WriteFile(filepath.Join(globalDir, "config.json"), []byte(globalCfg), 0o644); err != nil {
		t.Fatal(err)
	}
	projectCfg := `{
  "provider": {"model": "project-model"},
  "voice": {"speech_rate": 1.1}
}`
	if err := os.WriteFile("nexus.config.json", []byte(projectCfg), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider.Model != "project-model" {
		t.Fatalf("model=%q", cfg.Provider.Model)
	}
	if cfg.Voice.Enabled {
		t.Fatal("voice.enabled expected false from global config")
	}
	if cfg.Voice.SpeechRate != 1.1 {
		t.Fatalf("voice.speech_rate=%v", cfg.Voice.SpeechRate)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("NEXUS_MODEL", "env-model")
	t.Setenv("NEXUS_API_KEY", "sk-env")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider.Model != "env-model" {
		t.Fatalf("model=%q", cfg.Provider.Model)
	}
	if cfg.Provider.APIKey != "sk-env" {
		t.Fatalf("api_key=%q", cfg.Provider.APIKey)
	}
}

func TestOpenAIKeyFallback(t *testing.T) {
	t.Setenv("NEXUS_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider.APIKey != "sk-openai" {
		t.Fatalf("api_key=%q", cfg.Provider.APIKey)
	}
}

func TestInvalidTimeoutRejected(t *testing.T) {
	t.Setenv("NEXUS_TIMEOUT_MS", "abc")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for invalid NEXUS_TIMEOUT_MS")
	}
}

func TestDefaultsFillGaps(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	work := t.TempDir()
	oldwd, _ := os.Getwd()
	if err := os.Chdir(work); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldwd) })

	if err := os.WriteFile("nexus.config.json", []byte(`{"voice":{"speech_model":""}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Voice.SpeechModel != "tts-1" {
		t.Fatalf("speech_model=%q", cfg.Voice.SpeechModel)
	}
	if cfg.Notifications.EventBuffer != 8 {
		t.Fatalf("event_buffer=%d", cfg.Notifications.EventBuffer)
	}
	if cfg.User.ID != "local" {
		t.Fatalf("user.id=%q", cfg.User.ID)
	}
}

func TestDBPath(t *testing.T) {
	cfg := Config{Storage: StorageConfig{BaseDir: "/data/nexus", DBFile: "nexus.db"}}
	if got := cfg.DBPath(); got != filepath.Join("/data/nexus", "nexus.db") {
		t.Fatalf("db path=%q", got)
	}
}
