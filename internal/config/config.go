// Package config loads the application configuration from JSON files with
// comments allowed, layering project config and environment variables over
// built-in defaults.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type StorageConfig struct {
	// BaseDir 数据库与日志所在目录 / BaseDir holds the database and logs
	BaseDir     string  `json:"base_dir"`
	TotalBytes  int64   `json:"total_bytes"`
	LowSpacePct float64 `json:"low_space_pct"`
}

type NetworkConfig struct {
	TimeoutMS        int `json:"timeout_ms"`
	PromptTokenLimit int `json:"prompt_token_limit"`
}

type UIConfig struct {
	// Locale 为空时按环境变量探测 / empty Locale falls back to env detection
	Locale string `json:"locale"`
}

type Config struct {
	Storage StorageConfig `json:"storage"`
	Network NetworkConfig `json:"network"`
	UI      UIConfig      `json:"ui"`
}

type fileStorageConfig struct {
	BaseDir     *string  `json:"base_dir"`
	TotalBytes  *int64   `json:"total_bytes"`
	LowSpacePct *float64 `json:"low_space_pct"`
}

type fileNetworkConfig struct {
	TimeoutMS        *int `json:"timeout_ms"`
	PromptTokenLimit *int `json:"prompt_token_limit"`
}

type fileUIConfig struct {
	Locale *string `json:"locale"`
}

type fileConfig struct {
	Storage *fileStorageConfig `json:"storage"`
	Network *fileNetworkConfig `json:"network"`
	UI      *fileUIConfig      `json:"ui"`
}

func Default() Config {
	return Config{
		Storage: StorageConfig{
			BaseDir:     "~/.qac",
			TotalBytes:  5 * 1024 * 1024,
			LowSpacePct: 20,
		},
		Network: NetworkConfig{
			TimeoutMS:        30000,
			PromptTokenLimit: 4000,
		},
	}
}

func Load(path string) (Config, error) {
	cfg := Default()

	for _, globalPath := range globalConfigPaths() {
		if err := mergeFromFile(&cfg, globalPath); err != nil {
			return Config{}, err
		}
	}

	resolvedPath := strings.TrimSpace(path)
	if envPath := strings.TrimSpace(os.Getenv("QAC_CONFIG_PATH")); envPath != "" {
		resolvedPath = envPath
	}
	if resolvedPath == "" {
		resolvedPath = findProjectConfigPath()
	}
	if err := mergeFromFile(&cfg, resolvedPath); err != nil {
		return Config{}, err
	}

	if err := normalize(&cfg); err != nil {
		return Config{}, err
	}
	return applyEnv(cfg)
}

// DBPath 返回存储目录下数据库文件的绝对路径
// DBPath returns the absolute path of the database file under the storage dir
func (c Config) DBPath() (string, error) {
	base, err := expandPath(c.Storage.BaseDir)
	if err != nil {
		return "", fmt.Errorf("resolve storage dir: %w", err)
	}
	return filepath.Join(base, "qac.db"), nil
}

func globalConfigPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(home, ".qac", "config.json")}
}

func findProjectConfigPath() string {
	candidates := []string{
		"qac.config.json",
		".qac/config.json",
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

func mergeFromFile(cfg *Config, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}

	resolved, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("expand config path %q: %w", path, err)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %q: %w", resolved, err)
	}

	cleaned := stripJSONComments(data)
	var fileCfg fileConfig
	if err := json.Unmarshal(cleaned, &fileCfg); err != nil {
		return fmt.Errorf("parse config %q: %w", resolved, err)
	}
	applyFileConfig(cfg, fileCfg)
	return nil
}

func applyFileConfig(cfg *Config, fc fileConfig) {
	if fc.Storage != nil {
		if fc.Storage.BaseDir != nil && strings.TrimSpace(*fc.Storage.BaseDir) != "" {
			cfg.Storage.BaseDir = *fc.Storage.BaseDir
		}
		if fc.Storage.TotalBytes != nil && *fc.Storage.TotalBytes > 0 {
			cfg.Storage.TotalBytes = *fc.Storage.TotalBytes
		}
		if fc.Storage.LowSpacePct != nil && *fc.Storage.LowSpacePct > 0 {
			cfg.Storage.LowSpacePct = *fc.Storage.LowSpacePct
		}
	}
	if fc.Network != nil {
		if fc.Network.TimeoutMS != nil && *fc.Network.TimeoutMS > 0 {
			cfg.Network.TimeoutMS = *fc.Network.TimeoutMS
		}
		if fc.Network.PromptTokenLimit != nil && *fc.Network.PromptTokenLimit >= 0 {
			cfg.Network.PromptTokenLimit = *fc.Network.PromptTokenLimit
		}
	}
	if fc.UI != nil {
		if fc.UI.Locale != nil {
			cfg.UI.Locale = strings.TrimSpace(*fc.UI.Locale)
		}
	}
}

func normalize(cfg *Config) error {
	def := Default()
	if strings.TrimSpace(cfg.Storage.BaseDir) == "" {
		cfg.Storage.BaseDir = def.Storage.BaseDir
	}
	if cfg.Storage.TotalBytes <= 0 {
		cfg.Storage.TotalBytes = def.Storage.TotalBytes
	}
	if cfg.Storage.LowSpacePct <= 0 || cfg.Storage.LowSpacePct >= 100 {
		cfg.Storage.LowSpacePct = def.Storage.LowSpacePct
	}
	if cfg.Network.TimeoutMS <= 0 {
		cfg.Network.TimeoutMS = def.Network.TimeoutMS
	}
	if cfg.Network.PromptTokenLimit < 0 {
		cfg.Network.PromptTokenLimit = def.Network.PromptTokenLimit
	}
	return nil
}

func applyEnv(cfg Config) (Config, error) {
	if v := strings.TrimSpace(os.Getenv("QAC_BASE_DIR")); v != "" {
		cfg.Storage.BaseDir = v
	}
	if v := strings.TrimSpace(os.Getenv("QAC_TIMEOUT_MS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid QAC_TIMEOUT_MS: %q", v)
		}
		cfg.Network.TimeoutMS = n
	}
	if v := strings.TrimSpace(os.Getenv("QAC_LOCALE")); v != "" {
		cfg.UI.Locale = v
	}

	return cfg, normalize(&cfg)
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		if path == "~" {
			path = home
		} else {
			path = filepath.Join(home, strings.TrimPrefix(path, "~/"))
		}
	}
	return filepath.Abs(path)
}

func stripJSONComments(data []byte) []byte {
	const (
		stateNormal = iota
		stateString
		stateLineComment
		stateBlockComment
	)

	state := stateNormal
	escaped := false
	out := bytes.Buffer{}

	for i := 0; i < len(data); i++ {
		c := data[i]
		next := byte(0)
		if i+1 < len(data) {
			next = data[i+1]
		}

		switch state {
		case stateNormal:
			if c == '"' {
				state = stateString
				out.WriteByte(c)
				continue
			}
			if c == '/' && next == '/' {
				state = stateLineComment
				i++
				continue
			}
			if c == '/' && next == '*' {
				state = stateBlockComment
				i++
				continue
			}
			out.WriteByte(c)
		case stateString:
			out.WriteByte(c)
			if escaped {
				escaped = false
				continue
			}
			if c == '\\' {
				escaped = true
				continue
			}
			if c == '"' {
				state = stateNormal
			}
		case stateLineComment:
			if c == '\n' {
				state = stateNormal
				out.WriteByte(c)
			}
		case stateBlockComment:
			if c == '*' && next == '/' {
				state = stateNormal
				i++
			}
		}
	}

	return out.Bytes()
}
