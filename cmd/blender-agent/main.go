// Package main runs the chat agent that drives a live Blender session
// through an LLM with tool calling.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/saofund/blender-agent/internal/agent"
	"github.com/saofund/blender-agent/internal/agent/adapter"
	"github.com/saofund/blender-agent/internal/blender"
	"github.com/saofund/blender-agent/internal/config"
	"github.com/saofund/blender-agent/internal/jobs"
	"github.com/saofund/blender-agent/internal/jobs/hyper3d"
	"github.com/saofund/blender-agent/internal/logging"
	"github.com/saofund/blender-agent/internal/provider"
	"github.com/saofund/blender-agent/internal/ui"
)

const defaultMaxTokens = 4096

type options struct {
	provider    string
	configPath  string
	host        string
	port        int
	temperature float64
	plain       bool
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.provider, "provider", "", "LLM provider to use (overrides config)")
	flag.StringVar(&opts.configPath, "config", "", "path to config file")
	flag.StringVar(&opts.host, "host", "", "Blender addon host (overrides config)")
	flag.IntVar(&opts.port, "port", 0, "Blender addon port (overrides config)")
	flag.Float64Var(&opts.temperature, "temperature", -1, "sampling temperature (overrides config)")
	flag.BoolVar(&opts.plain, "plain", false, "use the line-oriented console instead of the TUI")
	flag.Parse()
	return opts
}

func loadConfig(opts options) (*config.Config, error) {
	loader := config.NewLoader()
	if opts.configPath != "" {
		loader = loader.WithPath(opts.configPath)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}

	if opts.host != "" {
		cfg.Blender.Host = opts.host
	}
	if opts.port != 0 {
		cfg.Blender.Port = opts.port
	}
	if opts.temperature >= 0 {
		cfg.Agent.Temperature = opts.temperature
	}
	return cfg, nil
}

func blenderConfig(cfg *config.Config) blender.Config {
	return blender.Config{
		Host:            cfg.Blender.Host,
		Port:            cfg.Blender.Port,
		Timeout:         time.Duration(cfg.Blender.TimeoutSeconds) * time.Second,
		GenerateTimeout: time.Duration(cfg.Blender.GenerateTimeoutSeconds) * time.Second,
	}
}

func main() {
	opts := parseFlags()

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, opts options) error {
	logger := logging.New(cfg.Log, os.Stderr)

	client := blender.New(blenderConfig(cfg), logger)

	// Connectivity probe before anything else; a dead socket should fail
	// here with a clear message, not mid-conversation.
	if _, err := client.GetSceneInfo(ctx); err != nil {
		return fmt.Errorf("cannot reach the Blender addon at %s:%d (is Blender running with the addon enabled?): %w",
			cfg.Blender.Host, cfg.Blender.Port, err)
	}
	logger.Info("connected to Blender addon", "host", cfg.Blender.Host, "port", cfg.Blender.Port)

	var rodin jobs.Provider
	if cfg.Hyper3D.APIKey != "" {
		var err error
		rodin, err = hyper3d.NewProvider(hyper3d.Config{
			Mode:    cfg.Hyper3D.Mode,
			APIKey:  cfg.Hyper3D.APIKey,
			BaseURL: cfg.Hyper3D.BaseURL,
		})
		if err != nil {
			return fmt.Errorf("hyper3d: %w", err)
		}
	}

	llm, err := provider.New(ctx, cfg, opts.provider, logger)
	if err != nil {
		return err
	}

	deps := &adapter.Deps{
		Client: client,
		Poller: jobs.NewPoller(logger),
		Rodin:  rodin,
		Config: cfg,
		Logger: logger,
	}

	providerName, providerCfg := cfg.ActiveProvider(opts.provider)
	maxTokens := providerCfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	a := agent.New(llm, adapter.All(deps), agent.Options{
		MaxRounds:   cfg.Agent.MaxRounds,
		Temperature: cfg.Agent.Temperature,
		MaxTokens:   maxTokens,
		Logger:      logger,
	})
	logger.Info("agent ready", "provider", providerName, "model", providerCfg.Model)

	if opts.plain {
		console := ui.NewConsole(os.Stdin, os.Stdout, nil)
		return repl(ctx, a, console, providerName)
	}

	renderer, err := ui.NewGlamourRenderer(0)
	if err != nil {
		return fmt.Errorf("markdown renderer: %w", err)
	}
	tui := ui.NewTUI(renderer)

	replCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		defer tui.Quit()
		if err := repl(replCtx, a, tui, providerName); err != nil && replCtx.Err() == nil {
			tui.WriteMessage(fmt.Sprintf("Error: %v", err))
		}
	}()

	return tui.Start()
}

// repl drives the chat loop over any UserInterface until the user exits.
func repl(ctx context.Context, a *agent.Agent, userInterface ui.UserInterface, providerName string) error {
	userInterface.WriteMessage(fmt.Sprintf("Connected to Blender. Chatting via %s; type `exit` to quit.", providerName))

	for {
		input, err := userInterface.ReadInput(ctx, "You: ")
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		switch input {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		userInterface.WriteStatus("thinking", "Generating response...")
		answer, err := a.RunTurn(ctx, input)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			userInterface.WriteStatus("error", "Turn failed")
			userInterface.WriteMessage(fmt.Sprintf("Error: %v", err))
			continue
		}
		userInterface.WriteMessage(answer)
	}
}
