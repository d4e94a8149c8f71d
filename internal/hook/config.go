package hook

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ExportDir         string   `yaml:"export_dir"`
	DebugLevels       []string `yaml:"debug_levels"`
	TruncateChars     int      `yaml:"truncate_chars"`
	ToolTruncateChars int      `yaml:"tool_truncate_chars"`
	IndexedNames      bool     `yaml:"indexed_names"`
}

func DefaultConfig() Config {
	return Config{
		ExportDir:         filepath.Join(".claude", "chat_history"),
		DebugLevels:       []string{"ERROR", "WARN"},
		TruncateChars:     3000,
		ToolTruncateChars: 2000,
	}
}

func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = filepath.Join(".claude", "chat_history")
	}
	if len(cfg.DebugLevels) == 0 {
		cfg.DebugLevels = []string{"ERROR", "WARN"}
	}
	if cfg.TruncateChars <= 0 {
		cfg.TruncateChars = 3000
	}
	if cfg.ToolTruncateChars <= 0 {
		cfg.ToolTruncateChars = 2000
	}
	return cfg, nil
}

// ApplyEnv layers CHAT_EXPORT_* environment overrides on top of the loaded
// config. Env wins over file, matching how the teacher of this layout
// resolves API settings in main.
func ApplyEnv(cfg Config) Config {
	if dir := strings.TrimSpace(os.Getenv("CHAT_EXPORT_DIR")); dir != "" {
		cfg.ExportDir = dir
	}
	if v := strings.TrimSpace(os.Getenv("CHAT_EXPORT_INDEXED")); v != "" {
		cfg.IndexedNames = v == "1" || strings.EqualFold(v, "true")
	}
	return cfg
}

// LevelSet converts the configured debug levels to a lookup set.
func (c Config) LevelSet() map[string]bool {
	set := make(map[string]bool, len(c.DebugLevels))
	for _, lvl := range c.DebugLevels {
		lvl = strings.ToUpper(strings.TrimSpace(lvl))
		if lvl != "" {
			set[lvl] = true
		}
	}
	return set
}

func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "chat-export", "config.yml")
}
