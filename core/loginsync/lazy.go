package loginsync

import (
	"context"
	"sync"
)

// OpenFunc builds a Dialer and returns the func releasing it.
type OpenFunc func(ctx context.Context) (Dialer, func(), error)

// LazyDialer defers building its backend to the first Authenticate call, so no
// connection is made for runs that stop before signing in.
type LazyDialer struct {
	open OpenFunc

	mu     sync.Mutex
	dialer Dialer
	close  func()
}

var _ Dialer = (*LazyDialer)(nil)

// NewLazyDialer creates a dialer that calls open once, on first use.
func NewLazyDialer(open OpenFunc) *LazyDialer {
	return &LazyDialer{open: open}
}

// Authenticate builds the backend if needed and signs in with it. A failed build
// is retried on the next call.
func (d *LazyDialer) Authenticate(ctx context.Context, username, password string) (Client, error) {
	d.mu.Lock()
	if d.dialer == nil {
		dialer, closeFn, err := d.open(ctx)
		if err != nil {
			d.mu.Unlock()
			return nil, err
		}
		d.dialer, d.close = dialer, closeFn
	}
	dialer := d.dialer
	d.mu.Unlock()

	return dialer.Authenticate(ctx, username, password)
}

// Opened reports whether the backend has been built.
func (d *LazyDialer) Opened() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dialer != nil
}

// Close releases the backend if it was built.
func (d *LazyDialer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.close != nil {
		d.close()
	}
	d.dialer, d.close = nil, nil
}
