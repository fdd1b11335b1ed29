package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/stanza-ssg/stanza/internal/config"
	"github.com/stanza-ssg/stanza/internal/logfields"
	"github.com/stanza-ssg/stanza/internal/metrics"
	"github.com/stanza-ssg/stanza/internal/notify"
	"github.com/stanza-ssg/stanza/internal/serve"
	"github.com/stanza-ssg/stanza/internal/site"
)

// version is overridden at release time via -ldflags.
var version = "dev"

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"stanza.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Output string `short:"o" help:"Override the configured output directory"`
		Clean  bool   `help:"Remove the output directory before building"`
	} `cmd:"" help:"Build the site once and exit"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Check struct{} `cmd:"" help:"Validate documents, layouts, and internal links without building"`

	Serve struct {
		Port         int    `short:"p" help:"Override the configured preview port"`
		RebuildEvery string `help:"Rebuild on a fixed interval in addition to file watching (e.g. 15m)"`
	} `cmd:"" help:"Serve the site locally and rebuild on changes"`

	Version struct{} `cmd:"" help:"Print the version and exit"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	switch ctx.Command() {
	case "build":
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			slog.Error("Failed to load configuration", logfields.Error(err))
			os.Exit(1)
		}
		if CLI.Build.Output != "" {
			cfg.Output.Directory = CLI.Build.Output
		}
		if CLI.Build.Clean {
			cfg.Output.Clean = true
		}
		if err := runBuild(cfg); err != nil {
			slog.Error("Build failed", logfields.Error(err))
			os.Exit(1)
		}
	case "init":
		if err := runInit(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", logfields.Error(err))
			os.Exit(1)
		}
	case "check":
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			slog.Error("Failed to load configuration", logfields.Error(err))
			os.Exit(1)
		}
		if err := runCheck(cfg); err != nil {
			slog.Error("Check failed", logfields.Error(err))
			os.Exit(1)
		}
	case "serve":
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			slog.Error("Failed to load configuration", logfields.Error(err))
			os.Exit(1)
		}
		if CLI.Serve.Port != 0 {
			cfg.Serve.Port = CLI.Serve.Port
		}
		if CLI.Serve.RebuildEvery != "" {
			cfg.Serve.RebuildEvery = CLI.Serve.RebuildEvery
		}
		if err := runServe(cfg); err != nil {
			slog.Error("Serve failed", logfields.Error(err))
			os.Exit(1)
		}
	case "version":
		fmt.Println(version)
	}
}

func runBuild(cfg *config.Config) error {
	publisher, err := notify.New(cfg.Notifications.NATSURL, cfg.Notifications.Subject)
	if err != nil {
		slog.Warn("Build notifications unavailable", logfields.Error(err))
	}
	defer publisher.Close()

	builder := site.NewBuilder(cfg, site.WithPublisher(publisher))
	report, err := builder.Build(context.Background())
	if err != nil {
		return err
	}

	for _, issue := range report.Issues {
		fmt.Fprintf(os.Stderr, "%s: %s\n", issue.SourceID, issue.Message)
	}
	if report.Failed() {
		return fmt.Errorf("build finished with %d document issue(s)", len(report.Issues))
	}
	return nil
}

func runInit(configPath string, force bool) error {
	slog.Info("Initializing configuration", logfields.Path(configPath), slog.Bool("force", force))
	return config.Init(configPath, force)
}

func runCheck(cfg *config.Config) error {
	issues, err := site.NewBuilder(cfg).Check()
	if err != nil {
		return err
	}
	for _, issue := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s\n", issue.SourceID, issue.Message)
	}
	if len(issues) > 0 {
		return fmt.Errorf("%d issue(s) found", len(issues))
	}
	slog.Info("No issues found")
	return nil
}

func runServe(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := []site.Option{}
	serveOpts := []serve.Option{}
	if cfg.Serve.Metrics {
		recorder := metrics.NewPrometheusRecorder()
		opts = append(opts, site.WithRecorder(recorder))
		serveOpts = append(serveOpts, serve.WithMetricsHandler(recorder.Handler()))
	}

	builder := site.NewBuilder(cfg, opts...)
	return serve.New(cfg, builder, serveOpts...).Run(ctx)
}
