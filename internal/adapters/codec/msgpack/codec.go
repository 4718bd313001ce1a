// Package msgpack encodes command batches for the wire. A batch is a msgpack
// array of maps; each map opens with "$type" naming the instruction, followed
// by the parameters in construction order. The engine rejects unknown
// parameters, so the client never reorders or drops them.
package msgpack

import (
	"bytes"
	"fmt"

	msgpack "github.com/vmihailenco/msgpack/v5"

	"github.com/avass/simstep/internal/domain"
	"github.com/avass/simstep/internal/ports"
)

const typeKey = "$type"

type Encoder struct{}

var _ ports.BatchEncoder = Encoder{}

func (Encoder) EncodeBatch(commands []domain.Command) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)

	if err := enc.EncodeArrayLen(len(commands)); err != nil {
		return nil, fmt.Errorf("encode batch length: %w", err)
	}
	for i, c := range commands {
		if err := encodeCommand(enc, c); err != nil {
			return nil, fmt.Errorf("encode command %d (%s): %w", i, c.Type(), err)
		}
	}
	return buf.Bytes(), nil
}

func encodeCommand(enc *msgpack.Encoder, c domain.Command) error {
	params := c.Params()
	if err := enc.EncodeMapLen(len(params) + 1); err != nil {
		return err
	}
	if err := enc.EncodeString(typeKey); err != nil {
		return err
	}
	if err := enc.EncodeString(c.Type()); err != nil {
		return err
	}
	for _, p := range params {
		if err := enc.EncodeString(p.Name); err != nil {
			return err
		}
		if err := enc.Encode(p.Value); err != nil {
			return fmt.Errorf("parameter %q: %w", p.Name, err)
		}
	}
	return nil
}

// Decoded is one command read back from wire bytes. It exists for the engine
// side of the boundary: mock engines in tests decode what the client sent to
// assert order-preserving transmission.
type Decoded struct {
	Type   string
	Params []domain.Param
}

// DecodeBatch parses a wire-format command batch, preserving command and
// parameter order.
func DecodeBatch(wire []byte) ([]Decoded, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(wire))

	n, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, fmt.Errorf("decode batch length: %w", err)
	}
	out := make([]Decoded, 0, n)
	for i := 0; i < n; i++ {
		c, err := decodeCommand(dec)
		if err != nil {
			return nil, fmt.Errorf("decode command %d: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func decodeCommand(dec *msgpack.Decoder) (Decoded, error) {
	fields, err := dec.DecodeMapLen()
	if err != nil {
		return Decoded{}, err
	}
	var c Decoded
	for i := 0; i < fields; i++ {
		key, err := dec.DecodeString()
		if err != nil {
			return Decoded{}, err
		}
		if i == 0 {
			if key != typeKey {
				return Decoded{}, fmt.Errorf("command opens with %q, want %q", key, typeKey)
			}
			if c.Type, err = dec.DecodeString(); err != nil {
				return Decoded{}, err
			}
			continue
		}
		value, err := dec.DecodeInterface()
		if err != nil {
			return Decoded{}, fmt.Errorf("parameter %q: %w", key, err)
		}
		c.Params = append(c.Params, domain.Param{Name: key, Value: value})
	}
	return c, nil
}
