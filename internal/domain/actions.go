package domain

import "strings"

// ActionType is the internal numeric form of a client action.
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionInit
	ActionMove
	ActionPlaceBomb
	ActionReady
	ActionRename

	// ActionRegenerate is an admin command, only honoured when enabled.
	ActionRegenerate
)

var actionStringToCmd = map[string]ActionType{
	"INIT":       ActionInit,
	"MOVE":       ActionMove,
	"PLACE_BOMB": ActionPlaceBomb,
	"READY":      ActionReady,
	"RENAME":     ActionRename,
	"REGENERATE": ActionRegenerate,
}

var actionCmdToString = map[ActionType]string{
	ActionInit:       "INIT",
	ActionMove:       "MOVE",
	ActionPlaceBomb:  "PLACE_BOMB",
	ActionReady:      "READY",
	ActionRename:     "RENAME",
	ActionRegenerate: "REGENERATE",
}

// ParseAction converts a wire action name, case-insensitively.
func ParseAction(s string) ActionType {
	if val, ok := actionStringToCmd[strings.ToUpper(s)]; ok {
		return val
	}
	return ActionUnknown
}

func (a ActionType) String() string {
	if val, ok := actionCmdToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}
