// Command repbook-mcp serves the workout data layer to an MCP client over
// stdio. It shares the SQLite database with the repbook server; both go
// through the same whole-blob read/write cycle, so whichever process wrote
// last wins.
package main

import (
	"flag"
	"log/slog"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/repbook/internal/config"
	"github.com/meltforce/repbook/internal/mcp"
	"github.com/meltforce/repbook/internal/storage"
	"github.com/meltforce/repbook/internal/workout"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// stdout carries the MCP protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	kv, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		log.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer kv.Close()

	templates := workout.NewTemplateStore(kv)
	ledger := workout.NewLedger(kv, templates)

	s := mcp.New(templates, ledger, Version, log)
	log.Info("repbook-mcp serving on stdio", "version", Version)
	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
