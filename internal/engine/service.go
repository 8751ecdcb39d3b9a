package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/krakowski/BombermanVR/internal/domain"
	"github.com/krakowski/BombermanVR/internal/engine/handlers"
	"github.com/krakowski/BombermanVR/internal/engine/handlers/actions"
	"github.com/krakowski/BombermanVR/internal/engine/handlers/admin"
	"github.com/krakowski/BombermanVR/internal/network"
	"github.com/krakowski/BombermanVR/pkg/api"
	"github.com/krakowski/BombermanVR/pkg/logger"
	"github.com/sirupsen/logrus"
)

// MapSource loads map text by name.
type MapSource interface {
	Load(name string) (string, error)
}

// GameService is the entry point for the transport layer. It owns the hub
// and the arena instance and forwards everything to the instance loop.
type GameService struct {
	Hub   *network.Broadcaster
	Arena *Instance

	stopped <-chan struct{}
}

// NewService loads the configured map and builds the arena.
func NewService(cfg Config, maps MapSource) (*GameService, error) {
	text, err := maps.Load(cfg.MapName)
	if err != nil {
		return nil, fmt.Errorf("load map: %w", err)
	}

	hub := network.NewBroadcaster()
	arena, err := NewInstance(cfg, cfg.MapName, text, hub, DefaultHandlers())
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"instance": arena.Name,
		"map":      cfg.MapName,
		"seed":     cfg.Seed,
		"crates":   cfg.CrateCount,
	}).Info("Arena created")

	return &GameService{Hub: hub, Arena: arena}, nil
}

// DefaultHandlers is the command table of an arena.
func DefaultHandlers() map[domain.ActionType]handlers.HandlerFunc {
	return map[domain.ActionType]handlers.HandlerFunc{
		domain.ActionInit:       handlers.WithEmptyPayload(actions.HandleInit),
		domain.ActionMove:       handlers.RequireLiving(handlers.WithPayload(actions.HandleMove)),
		domain.ActionPlaceBomb:  handlers.RequireLiving(handlers.WithPayload(actions.HandlePlaceBomb)),
		domain.ActionRename:     handlers.WithPayload(actions.HandleRename),
		domain.ActionReady:      handlers.WithPayload(actions.HandleReady),
		domain.ActionRegenerate: handlers.WithPayload(admin.HandleRegenerate),
	}
}

// Start runs the arena loop until ctx is cancelled.
func (s *GameService) Start(ctx context.Context) {
	s.stopped = ctx.Done()
	go s.Arena.Run(ctx)
}

// ProcessCommand accepts a command from the outside world. The token must
// already be bound to the connection that sent it.
func (s *GameService) ProcessCommand(externalCmd api.ClientCommand) {
	actionType := domain.ParseAction(externalCmd.Action)
	if actionType == domain.ActionUnknown {
		logger.Log.WithField("action", externalCmd.Action).Warn("Unknown action")
		return
	}

	select {
	case s.Arena.CommandChan <- domain.InternalCommand{
		Action:  actionType,
		Token:   externalCmd.Token,
		Payload: externalCmd.Payload,
	}:
	case <-s.stopped:
	}
}

// Join seats the player for token and returns its entity ID. A token that
// is already playing gets its existing player back.
func (s *GameService) Join(ctx context.Context, token, name string) (domain.EntityID, error) {
	reply := make(chan domain.EntityID, 1)
	req := JoinRequest{Token: token, Name: strings.TrimSpace(name), Reply: reply}

	select {
	case s.Arena.JoinChan <- req:
	case <-ctx.Done():
		return 0, ctx.Err()
	}

	select {
	case id := <-reply:
		return id, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Leave removes the player for token.
func (s *GameService) Leave(token string) {
	select {
	case s.Arena.LeaveChan <- token:
	case <-s.stopped:
	}
}

// Inspect runs fn on the instance goroutine and waits for it. Commands
// queued before the call are applied first.
func (s *GameService) Inspect(ctx context.Context, fn func(*Instance)) error {
	done := make(chan struct{})
	wrapped := func(i *Instance) {
		fn(i)
		close(done)
	}

	select {
	case s.Arena.InspectChan <- wrapped:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
