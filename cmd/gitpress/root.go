package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/gitpress/gitpress/pkg/config"
	"github.com/gitpress/gitpress/pkg/log"
	"github.com/gitpress/gitpress/pkg/server"
	"github.com/gitpress/gitpress/pkg/store"
)

var version = "dev"

var (
	// Flags
	configFile string
	debug      bool
)

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "optional YAML config file path")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags
func setupLogging() zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	return logger
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the article server",
		RunE: func(cmd *cobra.Command, args []string) error {
			zlog := setupLogging()
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx = zlog.WithContext(ctx)

			cfg, err := config.Load(ctx, configFile)
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}

			console := log.New(os.Stdout, zlog.GetLevel())
			console.Header("markdown articles from GitHub")
			if cfg.Remote.Enabled() {
				console.Infof("serving %s/%s (folder %q)", cfg.Remote.Owner, cfg.Remote.Repo, cfg.Remote.Folder)
			} else {
				console.Warning("GitHub integration disabled, serving bundled articles")
			}

			st := store.New(cfg)
			srv := server.New(st, console, zlog)

			console.Infof("listening on %s", cfg.Listen)
			if err := srv.Run(ctx, cfg.Listen); err != nil {
				return errors.Errorf("running server: %w", err)
			}
			console.Success("shut down cleanly")
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("gitpress " + version)
		},
	}
}
