// Package resource provides CRUD clients for the server's employee, role,
// and rating collections. Each client mirrors one server-side resource in an
// in-memory collection that is optimistically patched after every successful
// mutation; the collection is a cache, never the source of truth.
package resource

import (
	"context"
	"sync/atomic"

	"github.com/go-playground/validator/v10"

	"github.com/staffrate/staffrate/internal/gateway"
	"github.com/staffrate/staffrate/internal/notify"
)

// Caller is the gateway contract the clients depend on. Token handling lives
// entirely behind it.
type Caller interface {
	Do(ctx context.Context, req gateway.Request) ([]byte, error)
}

// Option configures the shared client behavior.
type Option func(*base)

// WithAuthRedirect installs the hook invoked when an operation fails with an
// authorization signature. The admin console points it at its login entry.
func WithAuthRedirect(redirect func()) Option {
	return func(b *base) {
		b.onAuthRedirect = redirect
	}
}

// base carries the pieces common to all resource clients.
type base struct {
	caller         Caller
	notifier       notify.Notifier
	onAuthRedirect func()
	validate       *validator.Validate
	loading        atomic.Bool
}

func (b *base) init(caller Caller, notifier notify.Notifier, opts ...Option) {
	if notifier == nil {
		notifier = notify.Discard{}
	}

	b.caller = caller
	b.notifier = notifier
	b.validate = validator.New()

	for _, opt := range opts {
		opt(b)
	}
}

// Loading reports whether an operation is in flight. Callers use it to
// disable concurrent submission from the same form.
func (b *base) Loading() bool {
	return b.loading.Load()
}

// begin flips the loading flag for the duration of an operation.
func (b *base) begin() func() {
	b.loading.Store(true)
	return func() {
		b.loading.Store(false)
	}
}

// fail notifies the operator and fires the auth redirect safety net before
// propagating the error.
func (b *base) fail(err error) error {
	b.notifier.Error("%s", err.Error())
	if gateway.IsAuthFailure(err) && b.onAuthRedirect != nil {
		b.onAuthRedirect()
	}
	return err
}
