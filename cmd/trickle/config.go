package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/trickle"
)

// overrides holds command-line values that take precedence over the config
// file and the environment. Zero values leave the lower layers alone.
type overrides struct {
	APIURL      string
	StreamURL   string
	IdleTimeout time.Duration
	LogPath     *string
}

// resolveConfig layers env values and overrides onto cfg. Env var values are
// passed in as parameters; env is only read in run().
func resolveConfig(cfg trickle.Config, apiEnv, streamEnv string, o overrides) (trickle.Config, error) {
	for _, layer := range []struct{ api, stream string }{
		{apiEnv, streamEnv},
		{o.APIURL, o.StreamURL},
	} {
		if layer.api != "" {
			cfg.APIURL = layer.api
		}
		if layer.stream != "" {
			cfg.StreamURL = layer.stream
		}
	}
	if o.IdleTimeout != 0 {
		cfg.IdleTimeout = o.IdleTimeout
	}
	if o.LogPath != nil {
		cfg.LogPath = *o.LogPath
	}

	if err := cfg.FunFactRequest().Validate(); err != nil {
		return trickle.Config{}, fmt.Errorf("stream URL %q: %w", cfg.StreamURL, err)
	}
	return cfg, nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".trickle", "config.yaml")
}
