package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/krakowski/BombermanVR/internal/domain"
	"github.com/krakowski/BombermanVR/internal/engine"
	"github.com/krakowski/BombermanVR/pkg/api"
	"github.com/krakowski/BombermanVR/pkg/logger"
	"github.com/krakowski/BombermanVR/pkg/utils"
	"github.com/sirupsen/logrus"
)

// WebSocket settings
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	joinTimeout    = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client sits between one websocket and the game service.
type Client struct {
	Game     *engine.GameService
	Conn     *websocket.Conn
	Codec    api.Codec
	Token    string
	EntityID domain.EntityID

	updates chan api.ServerResponse
	log     *logrus.Entry
}

func NewClient(game *engine.GameService, conn *websocket.Conn, codec api.Codec) *Client {
	return &Client{
		Game:  game,
		Conn:  conn,
		Codec: codec,
		log:   logger.Log.WithField("remote", conn.RemoteAddr().String()),
	}
}

// readPump performs the login handshake and then forwards commands until
// the connection drops. It starts the writePump once the player is seated.
func (c *Client) readPump() {
	defer func() {
		if c.updates != nil {
			// A newer connection with the same token owns the player now.
			if c.Game.Hub.Unregister(c.EntityID, c.updates) {
				c.Game.Leave(c.Token)
			}
			c.log.WithField("entity_id", c.EntityID).Info("Client disconnected")
		}
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection")
		}
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// 1. Handshake: {"token": "...", "payload": {"name": "..."}}
	var login api.ClientCommand
	if err := c.Conn.ReadJSON(&login); err != nil {
		c.log.WithError(err).Warn("Handshake failed")
		return
	}

	c.Token = login.Token
	if !utils.IsValidID(c.Token) {
		c.Token = utils.GenerateID()
	}

	var hello api.RenamePayload
	if len(login.Payload) > 0 {
		if err := json.Unmarshal(login.Payload, &hello); err != nil {
			c.log.WithError(err).Debug("Ignoring malformed login payload")
		}
	}

	// 2. Seat the player.
	ctx, cancel := context.WithTimeout(context.Background(), joinTimeout)
	id, err := c.Game.Join(ctx, c.Token, hello.Name)
	cancel()
	if err != nil {
		c.log.WithError(err).Warn("Join failed")
		return
	}
	c.EntityID = id
	c.log = c.log.WithField("entity_id", id)
	c.log.WithField("codec", c.Codec).Info("Client logged in")

	// 3. Subscribe. The instance queued a STATE for us on join, and INIT
	// asks for another in case it went out before we registered.
	c.updates = c.Game.Hub.Register(id)
	go c.writePump(c.updates)
	c.Game.ProcessCommand(api.ClientCommand{Action: domain.ActionInit.String(), Token: c.Token})

	// 4. Command loop.
	for {
		var cmd api.ClientCommand
		if err := c.Conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Error("WS error")
			}
			return
		}
		cmd.Token = c.Token
		c.Game.ProcessCommand(cmd)
	}
}

// writePump sends hub messages in the client's codec and keeps the
// connection alive with pings.
func (c *Client) writePump(updates <-chan api.ServerResponse) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	frameType := websocket.TextMessage
	if c.Codec.Binary() {
		frameType = websocket.BinaryMessage
	}

	for {
		select {
		case message, ok := <-updates:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.log.WithError(err).Debug("write close message failed")
				}
				return
			}

			data, err := c.Codec.Encode(message)
			if err != nil {
				c.log.WithError(err).Error("encode failed")
				continue
			}
			if err := c.Conn.WriteMessage(frameType, data); err != nil {
				c.log.WithError(err).Debug("write message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
