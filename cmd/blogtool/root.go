package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenewheretics/blogtools/internal/blogapi"
	"github.com/thenewheretics/blogtools/internal/config"
	"github.com/thenewheretics/blogtools/internal/tools"
	"github.com/thenewheretics/blogtools/internal/weather"
)

// app is the state shared by every subcommand, built before each one runs.
type app struct {
	cfg      *config.Config
	registry *tools.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var configPath, envFile string

	root := &cobra.Command{
		Use:   "blogtool",
		Short: "Manage posts on The New Heretics blog",
		Long: `blogtool creates, lists, updates, publishes and deletes posts through the
blog publishing API. Each subcommand runs one tool and prints its result.

The API key is read from BLOG_API_KEY, API_KEY or NH_API_KEY, or from the
[blog] section of the config file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(configPath, envFile)
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml", "path to config file")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to a .env file with secrets")

	for _, spec := range toolCommands {
		root.AddCommand(newToolCmd(a, spec))
	}
	root.AddCommand(newRunCmd(a))
	root.AddCommand(newToolsCmd(a))
	root.AddCommand(newServeCmd(a))
	return root
}

// init loads configuration, sets up logging and builds the tool registry.
func (a *app) init(configPath, envFile string) error {
	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := setupLogger(cfg.Log); err != nil {
		return err
	}

	client := blogapi.NewClient(cfg.Blog.BaseURL,
		blogapi.WithAPIKey(cfg.Blog.APIKey),
		blogapi.WithTimeout(cfg.Blog.Timeout()),
		blogapi.WithPublicListing(cfg.Blog.PublicListing),
	)
	forecaster := weather.NewClient(cfg.Weather.BaseURL, cfg.Blog.Timeout())

	a.cfg = cfg
	a.registry = tools.Default(client, forecaster, cfg.Weather.Latitude, cfg.Weather.Longitude)
	return nil
}

// setupLogger installs the default slog logger. Logs go to stderr so stdout
// carries only tool results.
func setupLogger(cfg config.LogConfig) error {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}
