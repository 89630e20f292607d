package api

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// codecName replaces Connect's protobuf-JSON codec, so the messages in this
// package can stay plain Go structs.
const codecName = "json"

// Codec marshals messages as JSON with encoding/json.
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string { return codecName }

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	return json.Unmarshal(data, msg)
}

// WithCodec is the handler and client option every service in this package uses.
func WithCodec() connect.Option {
	return connect.WithCodec(Codec{})
}
