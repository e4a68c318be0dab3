package grpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// jsonCodec replaces grpc-go's default "proto" codec with plain JSON
// marshaling. The service's messages (internal/api/pb) are hand-written
// structs, not protoc-gen-go output with compiled descriptors, so the real
// protobuf wire codec has nothing to reflect over; registering under the
// name "proto" is what grpc-go's client and server negotiate by default
// when no content-subtype is set, so this requires no client-side changes.
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
func (jsonCodec) Name() string { return "proto" }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
