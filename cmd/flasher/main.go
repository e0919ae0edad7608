package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/pflag"
	"libdb.so/flasher"
)

var (
	config  = "flasher.toml"
	verbose = false
	backend = ""
	draw    = false
	listen  = ""
)

func init() {
	pflag.StringVarP(&config, "config", "c", config, "configuration file")
	pflag.BoolVarP(&verbose, "verbose", "v", verbose, "verbose output")
	pflag.StringVarP(&backend, "backend", "b", backend, "override the configured backend (sim, serial, gpiocdev)")
	pflag.BoolVar(&draw, "draw", draw, "draw every simulated LED frame to stdout")
	pflag.StringVarP(&listen, "monitor", "m", listen, "serve the LED monitor websocket on this address")
}

func main() {
	pflag.Parse()

	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := readConfig()
	if err != nil {
		return err
	}

	if backend != "" {
		cfg.Backend = flasher.Backend(backend)
	}
	if listen != "" {
		cfg.Monitor.Listen = listen
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	d, err := flasher.NewDaemon(cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create daemon: %w", err)
	}

	if draw {
		d.DrawFrames(os.Stdout)
	}

	if err := d.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("daemon failed: %w", err)
	}

	return nil
}

// readConfig reads the configuration file. A missing file is only an error
// if it was asked for; otherwise the defaults are used.
func readConfig() (*flasher.Config, error) {
	f, err := os.Open(config)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !pflag.CommandLine.Changed("config") {
			return flasher.DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	return flasher.ParseConfig(f)
}
