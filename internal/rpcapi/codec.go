package rpcapi

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// jsonCodec replaces grpc-go's default "proto" codec with one backed by
// encoding/json. grpc-go selects a codec purely by name
// (content-subtype ""  ->  codec name "proto"), so registering under that
// name here is enough for both NewServer and DialContext to pick it up
// without any other configuration.
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string { return "proto" }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
