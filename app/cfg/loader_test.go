package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}

	version := GetVersion()
	if version != "dev" && version != "unknown" {
		// This is fine, version could be set at build time
		t.Logf("Version: %s", version)
	}
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		Port:            "8080",
		APIAccessKey:    "test-key",
		DBPath:          ":memory:",
		RefreshInterval: 300,
		OllamaURL:       "http://localhost:11434",
		OllamaModel:     "deepseek-r1:latest",
		UserAgent:       "Test Agent",
		Timezone:        "Asia/Phnom_Penh",
		Debug:           true,
		Version:         "test-version",
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.APIAccessKey != "test-key" {
		t.Errorf("Expected API key 'test-key', got '%s'", cfg.APIAccessKey)
	}
	if cfg.DBPath != ":memory:" {
		t.Errorf("Expected DB path ':memory:', got '%s'", cfg.DBPath)
	}
	if cfg.RefreshInterval != 300 {
		t.Errorf("Expected refresh interval 300, got %d", cfg.RefreshInterval)
	}
	if cfg.OllamaURL != "http://localhost:11434" {
		t.Errorf("Expected Ollama URL 'http://localhost:11434', got '%s'", cfg.OllamaURL)
	}
	if cfg.OllamaModel != "deepseek-r1:latest" {
		t.Errorf("Expected model 'deepseek-r1:latest', got '%s'", cfg.OllamaModel)
	}
	if cfg.UserAgent != "Test Agent" {
		t.Errorf("Expected user agent 'Test Agent', got '%s'", cfg.UserAgent)
	}
	if !cfg.Debug {
		t.Errorf("Expected debug to be enabled")
	}
	if cfg.Version != "test-version" {
		t.Errorf("Expected version 'test-version', got '%s'", cfg.Version)
	}
}

func TestApplyTimezone(t *testing.T) {
	if err := applyTimezone("UTC"); err != nil {
		t.Errorf("Expected UTC to be a valid timezone: %v", err)
	}
	if err := applyTimezone("Not/AZone"); err == nil {
		t.Errorf("Expected an error for an invalid timezone")
	}
	if err := applyTimezone(""); err != nil {
		t.Errorf("Empty timezone must be a no-op: %v", err)
	}
}
