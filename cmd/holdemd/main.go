package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/cardroom/holdemd/internal/engine"
	"github.com/cardroom/holdemd/internal/server"
	"github.com/cardroom/holdemd/internal/table"
)

var CLI struct {
	Config     string `short:"c" long:"config" default:"holdemd.hcl" help:"Path to HCL configuration file"`
	Addr       string `short:"a" long:"addr" help:"Bind address (overrides config)"`
	LogLevel   string `short:"l" long:"log-level" help:"Log level (overrides config)"`
	AdminToken string `long:"admin-token" help:"Admin token for the god view (overrides config)"`
}

func main() {
	ctx := kong.Parse(&CLI)

	cfg, err := server.LoadConfig(CLI.Config)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		ctx.Exit(1)
	}

	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}
	if CLI.AdminToken != "" {
		cfg.Server.AdminToken = CLI.AdminToken
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		ctx.Exit(1)
	}

	logger := log.New(os.Stderr)
	switch cfg.Server.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	addr := cfg.ListenAddress()
	if CLI.Addr != "" {
		addr = CLI.Addr
	}

	logger.Info("starting holdemd", "addr", addr, "tables", len(cfg.Tables))

	registry := table.NewRegistry(logger, table.WithActionTimeout(cfg.Timeout()))

	// Pre-create tables from configuration
	for _, tc := range cfg.Tables {
		actor, err := registry.Create(engine.Config{
			SmallBlind: tc.SmallBlind,
			BigBlind:   tc.BigBlind,
			Ante:       tc.Ante,
			MaxSeats:   tc.MaxSeats,
		})
		if err != nil {
			logger.Error("failed to create table", "error", err, "table", tc.Name)
			ctx.Exit(1)
		}
		logger.Info("table ready", "name", tc.Name, "id", actor.ID,
			"stakes", fmt.Sprintf("%d/%d", tc.SmallBlind, tc.BigBlind))
	}

	srv := server.NewServer(addr, cfg.Server.AdminToken, registry, logger)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(runCtx); err != nil {
		logger.Error("server failed", "error", err)
		ctx.Exit(1)
	}
}
