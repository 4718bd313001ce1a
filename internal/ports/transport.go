package ports

import (
	"context"

	"github.com/avass/simstep/internal/domain"
)

// Transport is the blocking request/response boundary to the engine. Exactly
// one response buffer is returned per request; there is no retry and no
// default timeout, because a simulation step may legitimately take an
// unbounded amount of wall time. A lost connection is fatal to the session.
type Transport interface {
	// Exchange sends one serialized command batch and blocks until the
	// engine's response batch arrives.
	Exchange(ctx context.Context, batch []byte) ([]byte, error)
	Close() error
}

// BatchEncoder serializes a command batch for transmission. Encoders must
// preserve command order and per-command parameter order.
type BatchEncoder interface {
	EncodeBatch(commands []domain.Command) ([]byte, error)
}
