package store

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Codec compresses blobs before they reach disk
type Codec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewCodec creates a zstd codec. Encode and Decode are safe for concurrent use.
func NewCodec() (*Codec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	return &Codec{enc: enc, dec: dec}, nil
}

func (c *Codec) Encode(b []byte) []byte {
	return c.enc.EncodeAll(b, make([]byte, 0, len(b)/2))
}

func (c *Codec) Decode(b []byte) ([]byte, error) {
	out, err := c.dec.DecodeAll(b, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	return out, nil
}

func (c *Codec) Close() {
	c.enc.Close()
	c.dec.Close()
}
