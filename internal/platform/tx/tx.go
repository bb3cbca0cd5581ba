package tx

import "context"

// Manager wraps a write boundary. Implementations decide how writers are
// ordered against each other.
type Manager interface {
	Within(ctx context.Context, fn func(context.Context) error) error
}

// Serial admits one writer at a time. A waiting writer gives up when its
// context is cancelled.
type Serial struct {
	slot chan struct{}
}

func NewSerial() *Serial {
	return &Serial{slot: make(chan struct{}, 1)}
}

func (s *Serial) Within(ctx context.Context, fn func(context.Context) error) error {
	select {
	case s.slot <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-s.slot }()
	return fn(ctx)
}
