package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything the dashboard needs to reach the hosted
// listings service. Password never comes from the config file; it is
// env-only so it cannot end up in dotfile backups.
type Config struct {
	ServiceURL     string
	AnonKey        string
	AllowAnonymous bool
	Email          string
	Password       string
	PageSize       int
	RefreshEvery   time.Duration
	LogFile        string
}

const (
	defaultConfigPath = "~/.config/raovat/config.toml"
	defaultServiceURL = "http://127.0.0.1:8000"
	defaultLogFile    = "~/.local/share/raovat/raovat.log"
	defaultPageSize   = 20
)

// Environment overrides. A .env file in the working directory is honored
// when present.
const (
	envServiceURL = "RAOVAT_SERVICE_URL"
	envAnonKey    = "RAOVAT_ANON_KEY"
	envEmail      = "RAOVAT_EMAIL"
	envPassword   = "RAOVAT_PASSWORD"
)

// Load locates and parses the raovat config, falling back to defaults when
// missing, then applies environment overrides on top.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		ServiceURL:     defaultServiceURL,
		AllowAnonymous: true,
		PageSize:       defaultPageSize,
		LogFile:        mustExpand(defaultLogFile),
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var parsed struct {
		ServiceURL     string `toml:"service_url"`
		AnonKey        string `toml:"anon_key"`
		AllowAnonymous *bool  `toml:"allow_anonymous"`
		Email          string `toml:"email"`
		PageSize       int    `toml:"page_size"`
		RefreshEvery   string `toml:"refresh_every"`
		LogFile        string `toml:"log_file"`
	}
	if err := toml.Unmarshal(raw, &parsed); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(parsed.ServiceURL); v != "" {
		cfg.ServiceURL = v
	}
	cfg.AnonKey = strings.TrimSpace(parsed.AnonKey)
	if parsed.AllowAnonymous != nil {
		cfg.AllowAnonymous = *parsed.AllowAnonymous
	}
	cfg.Email = strings.TrimSpace(parsed.Email)
	if parsed.PageSize != 0 {
		if parsed.PageSize < 0 {
			return Config{}, fmt.Errorf("page_size %d is negative", parsed.PageSize)
		}
		cfg.PageSize = parsed.PageSize
	}
	if v := strings.TrimSpace(parsed.RefreshEvery); v != "" {
		every, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse refresh_every: %w", err)
		}
		if every < 0 {
			return Config{}, fmt.Errorf("refresh_every %s is negative", every)
		}
		cfg.RefreshEvery = every
	}
	if v := strings.TrimSpace(parsed.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv layers environment values over the file. The password has no
// file counterpart at all.
func applyEnv(cfg *Config) {
	_ = godotenv.Load()
	if v := strings.TrimSpace(os.Getenv(envServiceURL)); v != "" {
		cfg.ServiceURL = v
	}
	if v := strings.TrimSpace(os.Getenv(envAnonKey)); v != "" {
		cfg.AnonKey = v
	}
	if v := strings.TrimSpace(os.Getenv(envEmail)); v != "" {
		cfg.Email = v
	}
	cfg.Password = os.Getenv(envPassword)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
