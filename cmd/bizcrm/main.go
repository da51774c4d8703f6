package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"bizcrm/internal/config"
	"bizcrm/internal/logger"
	"bizcrm/internal/registry"
	"bizcrm/internal/storage"
	"bizcrm/internal/ui"
)

func main() {
	ctx := context.Background()

	cfgStore, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg := cfgStore.Config

	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat, cfg.LogPath)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()

	db, err := storage.Open(ctx, cfg.DBPath)
	if err != nil {
		zl.Error("open storage", zap.String("path", cfg.DBPath), zap.Error(err))
		log.Fatalf("open storage: %v", err)
	}
	defer db.Close()

	lookup := registry.NewClient(cfg.RegistryURL, cfgStore.RegistryTimeout(),
		registry.WithLimit(cfg.SearchLimit),
		registry.WithLogger(zl.Named("registry")),
	)

	zl.Info("starting",
		zap.String("workspace", cfg.Workspace),
		zap.String("db", cfg.DBPath),
		zap.String("registry", cfg.RegistryURL),
	)
	program := ui.NewProgram(ctx, ui.Deps{
		Store:  db,
		Config: cfgStore,
		Lookup: lookup,
		Log:    zl.Named("ui"),
	})
	if err := program.Start(); err != nil {
		zl.Error("program terminated", zap.Error(err))
		log.Println("program terminated:", err)
		os.Exit(1)
	}
}
