// liuimed is the input-method daemon. It loads the character dictionary,
// registers the engine with IBus, and serves a control socket for liuctl.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"liuime/internal/config"
	"liuime/internal/lockfile"
	"liuime/internal/logging"
)

// Version is the daemon version reported over the control socket.
const Version = "0.1.0"

func main() {
	configPath := flag.String("config", config.ConfigPath(), "configuration file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("liuimed " + Version)
		return
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "liuimed: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, created, err := config.LoadOrCreate(configPath)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	defer logger.Close()
	logging.SetDefault(logger)

	if created {
		logger.Info("wrote default configuration", "path", configPath)
	}

	lockPath := filepath.Join(filepath.Dir(cfg.IPC.SocketPath), "liuimed.lock")
	lock, err := lockfile.Acquire(lockPath)
	if errors.Is(err, lockfile.ErrHeld) {
		return fmt.Errorf("another liuimed instance is running (lock %s)", lockPath)
	}
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer lock.Release()

	d, err := newDaemon(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.start(ctx); err != nil {
		d.stop()
		return err
	}
	logger.Info("liuimed started", "version", Version, "mode", cfg.Engine.StartupMode)

	loader := config.NewLoader(configPath)
	if _, err := loader.Load(); err == nil {
		loader.OnChange(d.applyConfig)
		if err := loader.Watch(); err != nil {
			logger.Warn("config watch unavailable", "error", err)
		} else {
			defer loader.Close()
			go func() {
				for err := range loader.Errors() {
					logger.Warn("config reload failed", "error", err)
				}
			}()
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("signal received", "signal", sig.String())
	case <-d.quitCh:
		logger.Info("quit requested")
	}

	cancel()
	d.stop()
	logger.Info("liuimed stopped")
	return nil
}

// newLogger builds the daemon logger from the validated config section.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.Logging.Format)
	if err != nil {
		return nil, err
	}

	lc := logging.DefaultConfig()
	lc.Level = level
	lc.Format = format
	lc.Output = cfg.Logging.Output
	if cfg.Logging.FilePath != "" {
		lc.FilePath = cfg.Logging.FilePath
	}
	return logging.New(lc)
}
