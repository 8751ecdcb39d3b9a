package agent

import (
	"context"
	"io"
	"math/rand"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/krakowski/BombermanVR/internal/domain"
	"github.com/krakowski/BombermanVR/internal/engine"
	"github.com/krakowski/BombermanVR/internal/infrastructure/storage"
	"github.com/krakowski/BombermanVR/internal/replica"
	"github.com/krakowski/BombermanVR/internal/server"
	"github.com/krakowski/BombermanVR/pkg/api"
	"github.com/krakowski/BombermanVR/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.InitWithOutput(io.Discard)
	os.Exit(m.Run())
}

// zeroSource makes every random choice pick the first option.
type zeroSource struct{}

func (zeroSource) Int63() int64 { return 0 }
func (zeroSource) Seed(int64)   {}

type fakeMaps map[string]string

func (f fakeMaps) Load(name string) (string, error) {
	return f[name], nil
}

const me = "[player:2:1]"

func decidingBot(t *testing.T, text string, players []api.PlayerView, spawns ...api.SpawnView) *Bot {
	t.Helper()
	r, err := replica.New(replica.DefaultConfig(), fakeMaps{"m": text})
	require.NoError(t, err)
	if players != nil {
		require.NoError(t, r.Apply(api.ServerResponse{
			Type:       api.MsgState,
			MyEntityID: me,
			Map:        &api.MapView{Name: "m"},
			Players:    players,
			Spawns:     spawns,
		}))
	}
	return &Bot{Replica: r, rng: rand.New(zeroSource{})}
}

func TestDecide(t *testing.T) {
	const open = "BBBBB\nBP..B\nB.W.B\nBBBBB"
	const crate = "BBBBB\nBP.CB\nB.W.B\nBBBBB"
	alive := []api.PlayerView{{ID: me, Pos: api.PositionView{X: 1, Y: 1}, HP: 3, MaxHP: 3}}
	bomb := api.SpawnView{NetID: 1, TypeID: "bomb", Pos: api.PositionView{X: 2, Y: 1}}

	tests := []struct {
		name    string
		bot     func(t *testing.T) *Bot
		want    domain.ActionType
		payload any
		ok      bool
	}{
		{
			name: "not synced",
			bot:  func(t *testing.T) *Bot { return decidingBot(t, open, nil) },
		},
		{
			name: "spectator waits for the round to end",
			bot: func(t *testing.T) *Bot {
				return decidingBot(t, open, []api.PlayerView{{ID: me, Spectator: true}})
			},
		},
		{
			name: "spectator readies up after the round",
			bot: func(t *testing.T) *Bot {
				b := decidingBot(t, open, []api.PlayerView{{ID: me, Spectator: true}})
				b.Replica.Leaderboard = []api.LeaderboardEntry{{Rank: 1}}
				return b
			},
			want:    domain.ActionReady,
			payload: api.ReadyPayload{Ready: true},
			ok:      true,
		},
		{
			name:    "flees a blast line",
			bot:     func(t *testing.T) *Bot { return decidingBot(t, open, alive, bomb) },
			want:    domain.ActionMove,
			payload: api.DirectionPayload{Dx: 0, Dy: 1},
			ok:      true,
		},
		{
			name:    "bombs a crate",
			bot:     func(t *testing.T) *Bot { return decidingBot(t, crate, alive) },
			want:    domain.ActionPlaceBomb,
			payload: api.PositionPayload{X: 2, Y: 1},
			ok:      true,
		},
		{
			name:    "wanders",
			bot:     func(t *testing.T) *Bot { return decidingBot(t, open, alive) },
			want:    domain.ActionMove,
			payload: api.DirectionPayload{Dx: 1, Dy: 0},
			ok:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, payload, ok := tt.bot(t).Decide()
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			assert.Equal(t, tt.want, action)
			assert.Equal(t, tt.payload, payload)
		})
	}
}

func testConfig() engine.Config {
	cfg := engine.NewConfig()
	cfg.MapName = "duel"
	cfg.RngSeed = 1
	cfg.TickRate = 10 * time.Millisecond
	return cfg
}

func startService(t *testing.T, cfg engine.Config) *engine.GameService {
	t.Helper()
	svc, err := engine.NewService(cfg, storage.Builtin())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	svc.Start(ctx)
	return svc
}

func TestBotJoinsAndSyncs(t *testing.T) {
	cfg := testConfig()
	svc := startService(t, cfg)

	bot, err := NewBot(svc, cfg.ReplicaConfig(), storage.Builtin(), "Robo")
	require.NoError(t, err)
	bot.think = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- bot.Run(ctx) }()

	assert.Eventually(t, func() bool {
		var names []string
		err := svc.Inspect(context.Background(), func(i *engine.Instance) {
			for _, p := range i.PlayerDump() {
				names = append(names, p.Name)
			}
		})
		return err == nil && len(names) == 1 && names[0] == "Robo"
	}, 2*time.Second, 20*time.Millisecond)

	// Give the hub time to deliver the snapshot.
	time.Sleep(100 * time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	assert.True(t, bot.Replica.Synced())
	assert.Equal(t, bot.EntityID.String(), bot.Replica.MyEntityID)

	assert.Eventually(t, func() bool {
		var count int
		err := svc.Inspect(context.Background(), func(i *engine.Instance) { count = len(i.PlayerDump()) })
		return err == nil && count == 0
	}, 2*time.Second, 20*time.Millisecond, "the bot leaves on shutdown")
}

func TestObserverOverWebsocket(t *testing.T) {
	for _, codec := range []api.Codec{api.CodecJSON, api.CodecMsgpack} {
		t.Run(codec.String(), func(t *testing.T) {
			cfg := testConfig()
			svc := startService(t, cfg)
			ts := httptest.NewServer(server.New(svc, "0").Routes())
			defer ts.Close()

			wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
			obs, err := NewObserver(wsURL, "Watcher", codec, cfg.ReplicaConfig(), storage.Builtin())
			require.NoError(t, err)

			states := make(chan api.ServerResponse, 4)
			obs.OnMessage = func(msg api.ServerResponse) {
				if msg.Type == api.MsgState {
					select {
					case states <- msg:
					default:
					}
				}
			}

			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- obs.Run(ctx) }()

			var state api.ServerResponse
			select {
			case state = <-states:
			case <-time.After(3 * time.Second):
				t.Fatal("no snapshot received")
			}
			cancel()
			require.NoError(t, <-done)

			require.NotNil(t, state.Map)
			assert.Equal(t, "duel", state.Map.Name)
			assert.True(t, obs.Replica.Synced())
			assert.Equal(t, state.MyEntityID, obs.Replica.MyEntityID)
			assert.Equal(t, 9, obs.Replica.World.Grid.Width)

			p, ok := obs.Replica.Player(state.MyEntityID)
			require.True(t, ok)
			assert.Equal(t, "Watcher", p.Name)
		})
	}
}
