// Command trickle streams a fun fact from the backend into the terminal.
//
// Usage:
//
//	trickle [flags]
//
// Flags:
//
//	-config string   Path to YAML config file (default: ~/.trickle/config.yaml)
//	-api string      API base URL (overrides config and TRICKLE_API_URL)
//	-stream string   Streaming base URL (overrides config and TRICKLE_STREAM_URL)
//	-timeout dur     Time allowed before the first message (default: 15s)
//	-log string      Log file path (overrides config; empty disables logging)
//	-v               Debug logging
//	-user string     Look up a user; streams the missing-user narrative if absent
//	-plain           Print the result to stdout instead of running the TUI
//	-token string    Bearer token for API calls (overrides TRICKLE_TOKEN)
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/fwojciec/trickle"
	bt "github.com/fwojciec/trickle/bubbletea"
	"github.com/fwojciec/trickle/rest"
	"github.com/fwojciec/trickle/websocket"
	"github.com/fwojciec/trickle/yaml"
	"go.uber.org/zap"
)

const placeholder = "Thinking of something interesting..."

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "trickle: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", defaultConfigPath(), "Path to YAML config file")
		apiURL     = flag.String("api", "", "API base URL (overrides config and TRICKLE_API_URL)")
		streamURL  = flag.String("stream", "", "Streaming base URL (overrides config and TRICKLE_STREAM_URL)")
		timeout    = flag.Duration("timeout", 0, "Time allowed before the first message (default 15s)")
		logPath    = flag.String("log", "", "Log file path (empty disables logging)")
		verbose    = flag.Bool("v", false, "Debug logging")
		username   = flag.String("user", "", "Look up a user; streams the missing-user narrative if absent")
		plain      = flag.Bool("plain", false, "Print the result to stdout instead of running the TUI")
		token      = flag.String("token", "", "Bearer token for API calls (overrides TRICKLE_TOKEN)")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fileCfg, err := yaml.Load(*configPath)
	if err != nil {
		return err
	}

	o := overrides{
		APIURL:      *apiURL,
		StreamURL:   *streamURL,
		IdleTimeout: *timeout,
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "log" {
			o.LogPath = logPath
		}
	})
	cfg, err := resolveConfig(fileCfg, os.Getenv("TRICKLE_API_URL"), os.Getenv("TRICKLE_STREAM_URL"), o)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogPath, *verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	bearer := *token
	if bearer == "" {
		bearer = os.Getenv("TRICKLE_TOKEN")
	}

	var dialOpts []websocket.Option
	dialOpts = append(dialOpts, websocket.WithLogger(logger.Named("websocket")))
	if bearer != "" {
		dialOpts = append(dialOpts, websocket.WithHeader(http.Header{
			"Authorization": []string{"Bearer " + bearer},
		}))
	}
	fetcher := trickle.NewFetcher(websocket.New(dialOpts...), trickle.NewBuffer())

	req := cfg.FunFactRequest()
	title := "Fun fact"
	if *username != "" {
		api := rest.New(cfg.APIURL, rest.WithToken(bearer), rest.WithLogger(logger.Named("rest")))
		profile, found, err := lookupUser(ctx, api, cfg.UserCall(*username))
		if err != nil {
			return err
		}
		if found {
			_, err := os.Stdout.Write(profile)
			return err
		}
		logger.Info("user not found", zap.String("username", *username))
		req = cfg.MissingUserRequest(*username)
		title = fmt.Sprintf("Who is %s?", *username)
	}

	if *plain {
		return streamPlain(ctx, fetcher, req, os.Stdout)
	}

	fetch := func(ctx context.Context, onEvent func(trickle.Event)) error {
		return fetcher.Fetch(ctx, req,
			trickle.WithEventHandler(onEvent),
			trickle.WithPlaceholder(placeholder),
		)
	}
	tuiModel := bt.New(fetch, fetcher.Buffer(), cfg.Theme, bt.WithTitle(title))
	if err := bt.Run(ctx, tuiModel); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	fetcher.Cancel()
	return nil
}
