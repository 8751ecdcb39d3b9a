package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/krakowski/BombermanVR/internal/agent"
	"github.com/krakowski/BombermanVR/internal/config"
	"github.com/krakowski/BombermanVR/internal/engine"
	"github.com/krakowski/BombermanVR/internal/infrastructure/storage"
	"github.com/krakowski/BombermanVR/internal/server"
	"github.com/krakowski/BombermanVR/internal/version"
	"github.com/krakowski/BombermanVR/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	if err := config.Load(); err != nil {
		logger.Log.WithError(err).Fatal("Failed to load .env")
	}

	envSeed, err := config.Int32("ARENA_SEED", -1)
	if err != nil {
		logger.Log.WithError(err).Fatal("Invalid ARENA_SEED")
	}
	envCrates, err := config.Int32("ARENA_CRATES", -1)
	if err != nil {
		logger.Log.WithError(err).Fatal("Invalid ARENA_CRATES")
	}
	envAdmin, err := config.Bool("ARENA_ADMIN", false)
	if err != nil {
		logger.Log.WithError(err).Fatal("Invalid ARENA_ADMIN")
	}

	var (
		port    string
		mapName string
		mapsDir string
		seed    int
		crates  int
		bots    int
		admin   bool
	)
	flag.StringVar(&port, "port", config.String("ARENA_PORT", "8080"), "HTTP port")
	flag.StringVar(&mapName, "map", config.String("ARENA_MAP", storage.DefaultMap), "Map to play")
	flag.StringVar(&mapsDir, "maps", config.String("ARENA_MAPS_DIR", ""), "Directory with extra .map files")
	flag.IntVar(&seed, "seed", int(envSeed), "Seed of the first round (-1 for random)")
	flag.IntVar(&crates, "crates", int(envCrates), "Crate count of the first round (-1 for random)")
	flag.IntVar(&bots, "bots", 0, "Number of computer players to start")
	flag.BoolVar(&admin, "admin", envAdmin, "Accept admin commands such as REGENERATE")
	flag.Parse()

	logger.Log.Info("Starting arena server...")
	logger.Log.Info(version.String())

	// 1. Config
	cfg := engine.NewConfig()
	cfg.MapName = mapName
	cfg.AllowAdmin = admin
	if seed >= 0 {
		cfg.Seed = int32(seed)
		logger.Log.Infof("🎲 Using explicit seed: %d", seed)
	} else {
		logger.Log.Infof("🎲 Using random seed: %d", cfg.Seed)
	}
	if crates >= 0 {
		cfg.CrateCount = int32(crates)
	}

	maps := storage.WithDir(mapsDir)
	if names, err := maps.List(); err == nil {
		logger.Log.WithField("maps", names).Debug("Available maps")
	}

	// 2. Engine
	gameService, err := engine.NewService(cfg, maps)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to create arena")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	gameService.Start(ctx)

	for n := 1; n <= bots; n++ {
		bot, err := agent.NewBot(gameService, cfg.ReplicaConfig(), maps, fmt.Sprintf("Bot%d", n))
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to create bot")
		}
		go func() {
			if err := bot.Run(ctx); err != nil {
				logger.Log.WithError(err).Warn("Bot stopped")
			}
		}()
	}

	// 3. HTTP
	srv := server.New(gameService, port)
	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.WithError(err).Fatal("Server start error")
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down...")

	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Warn("Forced shutdown")
	}

	logger.Log.Info("Done.")
}
