package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResponse() ServerResponse {
	return ServerResponse{
		Type: MsgState,
		Tick: 12,
		Map:  &MapView{Name: "arena", Seed: 42, CrateCount: 16, Width: 15, Height: 13},
		Spawns: []SpawnView{
			{NetID: 3, TypeID: "bomb", Pos: PositionView{X: 2, Y: 5}, ElapsedMs: 1500},
		},
		Unspawns: []uint32{1, 2},
		Players:  []PlayerView{{ID: "p1", Name: "CalmOtter", HP: 3, MaxHP: 3}},
	}
}

func TestParseCodec(t *testing.T) {
	assert.Equal(t, CodecMsgpack, ParseCodec("MsgPack"))
	assert.Equal(t, CodecJSON, ParseCodec(""))
	assert.Equal(t, CodecJSON, ParseCodec("protobuf"))
	assert.True(t, CodecMsgpack.Binary())
	assert.False(t, CodecJSON.Binary())
}

func TestCodecsAgree(t *testing.T) {
	want := sampleResponse()

	for _, codec := range []Codec{CodecJSON, CodecMsgpack} {
		t.Run(codec.String(), func(t *testing.T) {
			data, err := codec.Encode(want)
			require.NoError(t, err)

			var got ServerResponse
			require.NoError(t, codec.Decode(data, &got))
			assert.Equal(t, want, got)
		})
	}
}

func TestMsgpackIsSmaller(t *testing.T) {
	msg := sampleResponse()
	j, err := CodecJSON.Encode(msg)
	require.NoError(t, err)
	m, err := CodecMsgpack.Encode(msg)
	require.NoError(t, err)
	assert.Less(t, len(m), len(j))
}

func TestJSONFieldNames(t *testing.T) {
	data, err := CodecJSON.Encode(ServerResponse{Type: MsgMap, Map: &MapView{Seed: 7, CrateCount: 10}})
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "map")
	assert.NotContains(t, raw, "spawns", "empty slices are omitted")
	assert.JSONEq(t, `{"name":"","seed":7,"crateCount":10,"w":0,"h":0,"round":0}`, string(raw["map"]))
}

func TestValidators(t *testing.T) {
	tests := []struct {
		name    string
		payload Validator
		wantErr bool
	}{
		{"step", DirectionPayload{Dx: 1}, false},
		{"zero step", DirectionPayload{}, true},
		{"long step", DirectionPayload{Dx: 2}, true},
		{"position", PositionPayload{X: 3, Y: 4}, false},
		{"negative position", PositionPayload{X: -1}, true},
		{"name", RenamePayload{Name: "SleepyKoala"}, false},
		{"blank name", RenamePayload{Name: "   "}, true},
		{"long name", RenamePayload{Name: "ABCDEFGHIJKLMNOPQRSTUVWXYZ"}, true},
		{"regenerate", RegeneratePayload{Seed: 3, CrateCount: 12}, false},
		{"negative crates", RegeneratePayload{CrateCount: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
