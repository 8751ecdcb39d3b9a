package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/krakowski/BombermanVR/internal/replica"
	"github.com/krakowski/BombermanVR/pkg/api"
	"github.com/krakowski/BombermanVR/pkg/logger"
	"github.com/krakowski/BombermanVR/pkg/utils"
	"github.com/sirupsen/logrus"
)

// replicaStep is how often an observer advances its local fuses.
const replicaStep = 50 * time.Millisecond

// Observer connects to a server over websocket and mirrors the arena. The
// server seats it like any other player; it simply never moves.
type Observer struct {
	URL   string
	Name  string
	Token string
	Codec api.Codec

	Replica *replica.Replica

	// OnMessage, if set, runs after each message has been applied.
	OnMessage func(api.ServerResponse)

	log *logrus.Entry
}

func NewObserver(rawURL, name string, codec api.Codec, cfg replica.Config, maps replica.MapSource) (*Observer, error) {
	r, err := replica.New(cfg, maps)
	if err != nil {
		return nil, err
	}
	return &Observer{
		URL:     rawURL,
		Name:    name,
		Token:   utils.GenerateID(),
		Codec:   codec,
		Replica: r,
		log:     logger.Component("observer").WithField("url", rawURL),
	}, nil
}

// Run connects and consumes messages until ctx is cancelled or the server
// closes the connection.
func (o *Observer) Run(ctx context.Context) error {
	u, err := url.Parse(o.URL)
	if err != nil {
		return fmt.Errorf("observer url: %w", err)
	}
	q := u.Query()
	q.Set("codec", o.Codec.String())
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", u, err)
	}
	defer conn.Close()

	hello, err := json.Marshal(api.RenamePayload{Name: o.Name})
	if err != nil {
		return err
	}
	if err := conn.WriteJSON(api.ClientCommand{Token: o.Token, Payload: hello}); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	o.log.WithField("codec", o.Codec).Info("Observer connected")

	messages := make(chan api.ServerResponse, 64)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go o.read(conn, messages, readErr, done)

	ticker := time.NewTicker(replicaStep)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			if err := conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(time.Second)); err != nil {
				o.log.WithError(err).Debug("close frame failed")
			}
			return nil

		case err := <-readErr:
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err

		case msg := <-messages:
			if err := o.Replica.Apply(msg); err != nil {
				o.log.WithError(err).Warn("Failed to apply server message")
			}
			if o.OnMessage != nil {
				o.OnMessage(msg)
			}

		case now := <-ticker.C:
			o.Replica.Step(now.Sub(last))
			last = now
		}
	}
}

func (o *Observer) read(conn *websocket.Conn, out chan<- api.ServerResponse, errs chan<- error, done <-chan struct{}) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			errs <- err
			return
		}
		var msg api.ServerResponse
		if err := o.Codec.Decode(data, &msg); err != nil {
			o.log.WithError(err).Warn("Undecodable frame")
			continue
		}
		select {
		case out <- msg:
		case <-done:
			return
		}
	}
}
