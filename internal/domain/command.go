package domain

import "encoding/json"

// InternalCommand is a parsed client command on its way to the instance loop.
type InternalCommand struct {
	Action  ActionType
	Token   string // session token of the issuing player
	Payload json.RawMessage
}
