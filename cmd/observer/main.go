package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/krakowski/BombermanVR/internal/agent"
	"github.com/krakowski/BombermanVR/internal/config"
	"github.com/krakowski/BombermanVR/internal/engine"
	"github.com/krakowski/BombermanVR/internal/infrastructure/storage"
	"github.com/krakowski/BombermanVR/pkg/api"
	"github.com/krakowski/BombermanVR/pkg/logger"
	"github.com/sirupsen/logrus"
)

func init() {
	logger.Init()
}

func main() {
	if err := config.Load(); err != nil {
		logger.Log.WithError(err).Fatal("Failed to load .env")
	}

	var (
		url     string
		name    string
		codec   string
		mapsDir string
	)
	flag.StringVar(&url, "url", config.String("ARENA_URL", "ws://localhost:8080/ws"), "Websocket endpoint")
	flag.StringVar(&name, "name", "Observer", "Player name to join with")
	flag.StringVar(&codec, "codec", "msgpack", "Downstream codec: json or msgpack")
	flag.StringVar(&mapsDir, "maps", config.String("ARENA_MAPS_DIR", ""), "Directory with extra .map files")
	flag.Parse()

	maps := storage.WithDir(mapsDir)

	// The server runs with default bomb and pool settings.
	obs, err := agent.NewObserver(url, name, api.ParseCodec(codec), engine.NewConfig().ReplicaConfig(), maps)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to create observer")
	}

	obs.OnMessage = func(msg api.ServerResponse) {
		r := obs.Replica
		switch msg.Type {
		case api.MsgState, api.MsgMap:
			logger.Log.WithFields(logrus.Fields{
				"map":    r.Map.Name,
				"round":  r.Map.Round,
				"seed":   r.Map.Seed,
				"crates": r.LiveCrates(),
			}).Info("Map")
		case api.MsgLeaderboard:
			for _, e := range r.Leaderboard {
				logger.Log.WithFields(logrus.Fields{
					"rank":     e.Rank,
					"survived": e.SurvivedMs,
					"winner":   e.Winner,
				}).Info(e.Name)
			}
		}
		for _, l := range msg.Logs {
			logger.Log.WithField("type", l.Type).Info(l.Text)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := obs.Run(ctx); err != nil {
		logger.Log.WithError(err).Fatal("Observer stopped")
	}
}
