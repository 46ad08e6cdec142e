package cache

import (
	"github.com/vmihailenco/msgpack/v5"
)

// msgpackCodec encodes cache payloads with msgpack. Binary encoding keeps
// redis values compact and round-trips time.Time without locale concerns.
type msgpackCodec struct{}

// NewMsgpackCodec returns the default payload codec.
func NewMsgpackCodec() Codec {
	return msgpackCodec{}
}

func (msgpackCodec) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (msgpackCodec) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}
