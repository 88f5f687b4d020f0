package sdk

import (
	"context"
	"sync"
)

// Ready is a one-shot completion future for Session Bootstrap.
// It resolves exactly once, with a principal or with nil, and every
// waiter observes the same outcome.
type Ready struct {
	once      sync.Once
	done      chan struct{}
	principal *Principal
}

// NewReady returns an unresolved future.
func NewReady() *Ready {
	return &Ready{done: make(chan struct{})}
}

// resolve completes the future. Only the first call has any effect.
func (r *Ready) resolve(p *Principal) bool {
	fired := false
	r.once.Do(func() {
		r.principal = p
		close(r.done)
		fired = true
	})
	return fired
}

// Done is closed once the bootstrap finished, successfully or not.
func (r *Ready) Done() <-chan struct{} {
	return r.done
}

// Fired reports whether the future already resolved.
func (r *Ready) Fired() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// Principal returns the resolved principal, or nil when unresolved or
// when the bootstrap found no session.
func (r *Ready) Principal() *Principal {
	if !r.Fired() {
		return nil
	}
	return r.principal
}

// Wait blocks until the future resolves or ctx ends.
func (r *Ready) Wait(ctx context.Context) (*Principal, error) {
	select {
	case <-r.done:
		return r.principal, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
