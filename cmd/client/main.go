package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	httpapi "github.com/okonstantinov/wrench/internal/client/api"
	"github.com/okonstantinov/wrench/internal/client/auth"
	"github.com/okonstantinov/wrench/internal/client/cli"
	"github.com/okonstantinov/wrench/internal/client/config"
	"github.com/okonstantinov/wrench/internal/client/iocli"
	"github.com/okonstantinov/wrench/internal/client/netmon"
	"github.com/okonstantinov/wrench/internal/client/queue"
	"github.com/okonstantinov/wrench/internal/client/repository"
	"github.com/okonstantinov/wrench/internal/client/storage"
	"github.com/okonstantinov/wrench/internal/client/storage/boltdb"
	"github.com/okonstantinov/wrench/internal/client/storage/sqlite"
	"github.com/okonstantinov/wrench/internal/client/sync"
	"github.com/okonstantinov/wrench/internal/logging"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// clientStorage is the full set of local store facets plus lifecycle.
// Оба бэкенда (bolt и sqlite) реализуют его целиком.
type clientStorage interface {
	storage.EntityStorage
	storage.QueueStorage
	storage.SessionStorage
	Close() error
}

func main() {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "", "Server URL (overrides config)")
	dbPath := flag.String("db", "", "Path to local database (overrides config)")
	configPath := flag.String("config", "", "Path to config file")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage()
		os.Exit(1)
	}
	command := args[0]

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Флаги перекрывают конфиг
	if *serverURL != "" {
		cfg.Server.URL = *serverURL
	}
	if *dbPath != "" {
		cfg.Storage.Path = *dbPath
	}

	logger := logging.New(cfg.Logging.File, cfg.Logging.Level)

	// Ctrl+C корректно останавливает watch-режим и длинные прогоны
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	apiClient := httpapi.NewClient(cfg.Server.URL)

	authService := auth.NewService(apiClient, store, logger)
	apiClient.SetTokenFunc(authService.TokenFunc())

	monitor := netmon.New(
		netmon.ProbeFunc(func(ctx context.Context) bool {
			return apiClient.Ping(ctx) == nil
		}),
		cfg.Sync.Settle,
		cfg.Sync.PollInterval,
		logger,
	)

	q := queue.New(store, logger)

	io := iocli.NewStdio()
	notifier := sync.NewNotifier(cfg.Sync.NotifyWindow, func(message string) {
		io.Println(message)
	})

	reconciler := sync.NewReconciler(apiClient, store, q, notifier, logger, sync.Config{
		MaxRetries: cfg.Sync.MaxRetries,
		ItemDelay:  cfg.Sync.ItemDelay,
	})

	orders := repository.NewService(store, q, apiClient, monitor, logger)

	// Для one-shot команд достаточно одиночной сверки связи;
	// в watch-режиме периодический опрос ведет сам монитор
	if command != "watch" {
		if apiClient.Ping(ctx) != nil {
			monitor.HandleDisconnect()
		}
	}

	c := cli.New(io, authService, orders, reconciler, monitor, cfg)

	if err := c.Run(ctx, command, args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openStorage открывает локальное хранилище согласно конфигу.
func openStorage(ctx context.Context, cfg *config.Config) (clientStorage, error) {
	if dir := filepath.Dir(cfg.Storage.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	switch cfg.Storage.Backend {
	case "sqlite":
		return sqlite.New(ctx, cfg.Storage.Path)
	case "bolt", "":
		return boltdb.New(ctx, cfg.Storage.Path)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}

func printVersion() {
	fmt.Printf("Wrench Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
