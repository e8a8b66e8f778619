// Package yaml loads trickle configuration from YAML files. Keys that are
// absent keep the values from trickle.DefaultConfig.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fwojciec/trickle"
	"gopkg.in/yaml.v3"
)

type configFile struct {
	APIURL      string     `yaml:"api_url"`
	StreamURL   string     `yaml:"stream_url"`
	Routes      routesFile `yaml:"routes"`
	IdleTimeout string     `yaml:"idle_timeout"`
	LogPath     *string    `yaml:"log_path"`
	Theme       *themeFile `yaml:"theme"`
}

type routesFile struct {
	FunFact     string `yaml:"fun_fact"`
	MissingUser string `yaml:"missing_user"`
	User        string `yaml:"user"`
}

type themeFile struct {
	Text    *int `yaml:"text"`
	Error   *int `yaml:"error"`
	Success *int `yaml:"success"`
	Muted   *int `yaml:"muted"`
	Accent  *int `yaml:"accent"`
}

// Load reads the config file at path. A missing file yields the defaults.
func Load(path string) (trickle.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return trickle.DefaultConfig(), nil
		}
		return trickle.Config{}, fmt.Errorf("yaml: reading config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return trickle.Config{}, fmt.Errorf("yaml: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data onto the default config. Unknown keys are rejected.
func Parse(data []byte) (trickle.Config, error) {
	cfg := trickle.DefaultConfig()

	var f configFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return trickle.Config{}, fmt.Errorf("invalid YAML: %w", err)
	}

	setString(&cfg.APIURL, f.APIURL)
	setString(&cfg.StreamURL, f.StreamURL)
	setString(&cfg.Routes.FunFact, f.Routes.FunFact)
	setString(&cfg.Routes.MissingUser, f.Routes.MissingUser)
	setString(&cfg.Routes.User, f.Routes.User)

	if f.IdleTimeout != "" {
		d, err := time.ParseDuration(f.IdleTimeout)
		if err != nil {
			return trickle.Config{}, fmt.Errorf("idle_timeout: %w", err)
		}
		if d < 0 {
			return trickle.Config{}, fmt.Errorf("idle_timeout: must not be negative: %w", trickle.ErrValidation)
		}
		cfg.IdleTimeout = d
	}
	if f.LogPath != nil {
		cfg.LogPath = *f.LogPath
	}
	if f.Theme != nil {
		setInt(&cfg.Theme.Text, f.Theme.Text)
		setInt(&cfg.Theme.Error, f.Theme.Error)
		setInt(&cfg.Theme.Success, f.Theme.Success)
		setInt(&cfg.Theme.Muted, f.Theme.Muted)
		setInt(&cfg.Theme.Accent, f.Theme.Accent)
	}
	return cfg, nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
