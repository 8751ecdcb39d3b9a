package handlers

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/krakowski/BombermanVR/internal/domain"
)

// Errors returned by handlers for commands the arena refuses.
var (
	ErrSpectator    = errors.New("spectators cannot act")
	ErrOnCooldown   = errors.New("action on cooldown")
	ErrTooFar       = errors.New("target out of reach")
	ErrCellOccupied = errors.New("cell occupied")
	ErrRoundRunning = errors.New("round still running")
	ErrForbidden    = errors.New("command not allowed")
)

// Arena is what handlers may change beyond the actor and the world index.
// The game instance implements it.
type Arena interface {
	// SendState queues a full snapshot for the given player.
	SendState(id domain.EntityID)
	// SpawnBomb arms a bomb owned by owner at cell.
	SpawnBomb(owner *domain.Entity, cell domain.Position) (*domain.Entity, error)
	// Collect picks up whatever power-up waits at the actor's cell and
	// returns a log line, empty when there was nothing.
	Collect(actor *domain.Entity) string
	// RoundActive reports whether a round is being played.
	RoundActive() bool
	// Regenerate replaces the replicated map parameters.
	Regenerate(seed, crateCount int32)
}

// Rules are the tuning values handlers enforce.
type Rules struct {
	BombCooldown        time.Duration
	MoveCooldown        time.Duration
	InteractionDistance int
	SpeedBoost          float64
	AllowAdmin          bool
}

// Context passes the handler the state of the arena.
// Handlers mutate the actor and the world directly.
type Context struct {
	World *domain.World
	Actor *domain.Entity
	Arena Arena
	Rules Rules
}

// Result is what a command produced. Handlers never write to the game log
// themselves; they return the line.
type Result struct {
	Msg     string // log text
	MsgType string // INFO, COMBAT, ROUND, ERROR
}

// HandlerFunc is the contract for every command (MOVE, PLACE_BOMB, etc).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

func EmptyResult() Result {
	return Result{}
}

// Info is a shortcut for an INFO log line.
func Info(msg string) Result {
	return Result{Msg: msg, MsgType: "INFO"}
}
