package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	EnvURL      = "KUMACTL_URL"
	EnvUsername = "KUMACTL_USERNAME"
	EnvPassword = "KUMACTL_PASSWORD"
	EnvInsecure = "KUMACTL_INSECURE"

	defaultTimeout = 30 * time.Second
)

type rootFlags struct {
	configPath string
	url        string
	username   string
	password   string
	timeout    time.Duration
	insecure   bool
	jsonOut    bool
	verbose    bool
}

type config struct {
	URL      string
	Username string
	Password string
	Insecure bool
	Timeout  time.Duration
}

type fileConfig struct {
	URL      string `toml:"url"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	Insecure bool   `toml:"insecure"`
	Timeout  string `toml:"timeout"`
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "kumactl.toml")
	}
	return filepath.Join(dir, "kumactl", "config.toml")
}

// resolveConfig layers the sources: flags win over environment variables,
// which win over the config file.
func resolveConfig(f rootFlags) (config, error) {
	cfg := config{Timeout: defaultTimeout}

	path := f.configPath
	explicit := path != ""
	if path == "" {
		path = defaultConfigPath()
	}

	if err := loadFileConfig(path, &cfg); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return config{}, err
		}
	}

	applyEnvOverrides(&cfg)

	if f.url != "" {
		cfg.URL = f.url
	}
	if f.username != "" {
		cfg.Username = f.username
	}
	if f.password != "" {
		cfg.Password = f.password
	}
	if f.timeout > 0 {
		cfg.Timeout = f.timeout
	}
	if f.insecure {
		cfg.Insecure = true
	}

	if strings.TrimSpace(cfg.URL) == "" {
		return config{}, errors.New("no server URL configured (use --url, " + EnvURL + " or a config file)")
	}

	return cfg, nil
}

func loadFileConfig(path string, cfg *config) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}

	if meta.IsDefined("url") {
		cfg.URL = strings.TrimSpace(raw.URL)
	}
	if meta.IsDefined("username") {
		cfg.Username = raw.Username
	}
	if meta.IsDefined("password") {
		cfg.Password = raw.Password
	}
	if meta.IsDefined("insecure") {
		cfg.Insecure = raw.Insecure
	}
	if meta.IsDefined("timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}

	return nil
}

func applyEnvOverrides(cfg *config) {
	if v := os.Getenv(EnvURL); v != "" {
		cfg.URL = v
	}
	if v := os.Getenv(EnvUsername); v != "" {
		cfg.Username = v
	}
	if v := os.Getenv(EnvPassword); v != "" {
		cfg.Password = v
	}
	if v := os.Getenv(EnvInsecure); v == "1" || strings.EqualFold(v, "true") {
		cfg.Insecure = true
	}
}
