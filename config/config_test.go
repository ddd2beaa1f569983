package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))

	cfg := loadConfig()
	if cfg.Server.Port != "8080" || cfg.Server.Mode != "debug" {
		t.Errorf("unexpected server defaults: %+v", cfg.Server)
	}
	if cfg.Database.Type != "sqlite" {
		t.Errorf("unexpected database defaults: %+v", cfg.Database)
	}
	if cfg.Ollama.BaseURL != "http://localhost:11434" || cfg.Ollama.Model != "llama3.1:8b" {
		t.Errorf("unexpected ollama defaults: %+v", cfg.Ollama)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `server:
  port: "9090"
  mode: release
ollama:
  model: qwen2.5:7b
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)

	cfg := loadConfig()
	if cfg.Server.Port != "9090" || cfg.Server.Mode != "release" {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Ollama.Model != "qwen2.5:7b" {
		t.Errorf("unexpected model: %s", cfg.Ollama.Model)
	}
	// 文件没写的字段保持默认
	if cfg.Ollama.BaseURL != "http://localhost:11434" {
		t.Errorf("unexpected base url: %s", cfg.Ollama.BaseURL)
	}
}

// 环境变量优先级高于配置文件
func TestLoadConfigEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("ollama:\n  model: from-file\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("OLLAMA_MODEL_NAME", "from-env")
	t.Setenv("OLLAMA_BASE_URL", "http://model-host:11434")
	t.Setenv("DB_TYPE", "mysql")
	t.Setenv("DB_DSN", "user:pass@tcp(db:3306)/app")
	t.Setenv("DATA_DIR", "/var/lib/app")

	cfg := loadConfig()
	if cfg.Ollama.Model != "from-env" || cfg.Ollama.BaseURL != "http://model-host:11434" {
		t.Errorf("unexpected ollama config: %+v", cfg.Ollama)
	}
	if cfg.Database.Type != "mysql" || cfg.Database.DSN != "user:pass@tcp(db:3306)/app" {
		t.Errorf("unexpected database config: %+v", cfg.Database)
	}
	if cfg.Data.Dir != "/var/lib/app" {
		t.Errorf("unexpected data dir: %s", cfg.Data.Dir)
	}
}

func TestConfigSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")

	cfg := &Config{Server: ServerConfig{Port: "9999"}}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("CONFIG_PATH", path)
	loaded := loadConfig()
	if loaded.Server.Port != "9999" {
		t.Errorf("unexpected port after reload: %s", loaded.Server.Port)
	}
}
