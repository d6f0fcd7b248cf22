package queryrpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName is advertised in the gRPC content-subtype for this service;
// there is no published .proto for the query protocol, so messages are
// plain Go structs carried as JSON rather than generated protobuf.
const CodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
func (jsonCodec) Name() string { return CodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
