package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec selects the wire format of server messages.
type Codec uint8

const (
	CodecJSON Codec = iota
	CodecMsgpack
)

// ParseCodec reads the ?codec= query value. Anything unknown is JSON.
func ParseCodec(s string) Codec {
	if strings.EqualFold(s, "msgpack") {
		return CodecMsgpack
	}
	return CodecJSON
}

func (c Codec) String() string {
	if c == CodecMsgpack {
		return "msgpack"
	}
	return "json"
}

// Binary reports whether frames must go out as binary websocket messages.
func (c Codec) Binary() bool {
	return c == CodecMsgpack
}

// Encode serializes msg. msgpack frames reuse the json tags so both formats
// share field names.
func (c Codec) Encode(msg ServerResponse) ([]byte, error) {
	if c != CodecMsgpack {
		return json.Marshal(msg)
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(msg); err != nil {
		return nil, fmt.Errorf("msgpack encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode is the inverse of Encode.
func (c Codec) Decode(data []byte, msg *ServerResponse) error {
	if c != CodecMsgpack {
		return json.Unmarshal(data, msg)
	}

	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	if err := dec.Decode(msg); err != nil {
		return fmt.Errorf("msgpack decode: %w", err)
	}
	return nil
}
