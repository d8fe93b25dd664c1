package apiconnect

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// Codec marshals messages as plain JSON. It replaces connect's default
// "json" codec, which only accepts protobuf messages.
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

// WithJSON registers Codec on a handler or client.
func WithJSON() connect.Option {
	return connect.WithCodec(Codec{})
}
