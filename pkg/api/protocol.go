package api

import (
	"encoding/json"
)

// Message types sent by the server.
const (
	// MsgState is the full snapshot sent after login and on INIT.
	MsgState = "STATE"
	// MsgUpdate carries what changed during one tick.
	MsgUpdate = "UPDATE"
	// MsgMap announces new map parameters. Clients regenerate locally.
	MsgMap = "MAP"
	// MsgLeaderboard closes a round.
	MsgLeaderboard = "LEADERBOARD"
)

// --- SERVER -> CLIENT ---

// ServerResponse is the root object of every server message. Which fields
// are set depends on Type.
type ServerResponse struct {
	Type string `json:"type"`
	Tick int    `json:"tick"`

	// MyEntityID is the player the receiving client controls.
	MyEntityID string `json:"myEntityId,omitempty"`

	// Map is set on STATE and MAP. Only the seed and crate count matter for
	// generation; the rest is informational.
	Map *MapView `json:"map,omitempty"`

	// Spawns are pooled network objects that appeared (bombs, power-ups).
	// On STATE this is every live object.
	Spawns []SpawnView `json:"spawns,omitempty"`

	// Unspawns are network IDs that disappeared.
	Unspawns []uint32 `json:"unspawns,omitempty"`

	Players     []PlayerView       `json:"players,omitempty"`
	Leaderboard []LeaderboardEntry `json:"leaderboard,omitempty"`
	Logs        []LogEntry         `json:"logs,omitempty"`
}

// MapView identifies a generated map.
type MapView struct {
	Name       string `json:"name"`
	Seed       int32  `json:"seed"`
	CrateCount int32  `json:"crateCount"`
	Width      int    `json:"w"`
	Height     int    `json:"h"`
	Round      int    `json:"round"`

	// Destroyed lists crates already blown up, so late joiners can catch up.
	// Only sent with STATE.
	Destroyed []PositionView `json:"destroyed,omitempty"`
}

// PositionView is a grid coordinate.
type PositionView struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// SpawnView tells observers to materialize a pooled object.
type SpawnView struct {
	NetID  uint32       `json:"netId"`
	TypeID string       `json:"typeId"`
	Pos    PositionView `json:"pos"`
	Owner  string       `json:"owner,omitempty"`

	// ElapsedMs is how far a bomb's fuse has burnt, for late joiners.
	ElapsedMs int64 `json:"elapsedMs,omitempty"`
}

// PlayerView is the replicated state of one player.
type PlayerView struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Pos       PositionView `json:"pos"`
	HP        int          `json:"hp"`
	MaxHP     int          `json:"maxHp"`
	IsDead    bool         `json:"isDead"`
	Spectator bool         `json:"spectator"`
	Ready     bool         `json:"ready"`
	Boosted   bool         `json:"boosted,omitempty"`
}

// LeaderboardEntry is one line of the end-of-round table.
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	Name       string `json:"name"`
	SurvivedMs int64  `json:"survivedMs"`
	Winner     bool   `json:"winner,omitempty"`
}

// LogEntry is one line of the game log.
type LogEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Type      string `json:"type"`      // INFO, COMBAT, ROUND, ERROR
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

// --- CLIENT -> SERVER ---

// ClientCommand is the root object of every client message.
type ClientCommand struct {
	// Token identifies the session. Only read from the first (login) message.
	Token string `json:"token,omitempty"`

	Action string `json:"action"`

	// Payload depends on Action.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// --- Payloads ---

// DirectionPayload is used by MOVE.
type DirectionPayload struct {
	Dx int `json:"dx"`
	Dy int `json:"dy"`
}

// PositionPayload is used by PLACE_BOMB.
type PositionPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// RenamePayload is used by RENAME and may accompany the login message.
type RenamePayload struct {
	Name string `json:"name"`
}

// ReadyPayload is used by READY.
type ReadyPayload struct {
	Ready bool `json:"ready"`
}

// RegeneratePayload is used by the admin REGENERATE command.
type RegeneratePayload struct {
	Seed       int32 `json:"seed"`
	CrateCount int32 `json:"crateCount"`
}
