package spinner

import (
	"context"
	"log/slog"

	"github.com/spindleui/spindle/toolkit/registry"
)

type Option func(*Behavior)

// WithLogger sets a custom logger for the Behavior instance.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Behavior) {
		b.logger = logger
	}
}

// WithLogHandler sets a custom log handler for the Behavior instance.
func WithLogHandler(handler slog.Handler) Option {
	return func(b *Behavior) {
		b.logger = slog.New(handler)
	}
}

// WithContext sets a custom parent context for the Behavior instance.
func WithContext(ctx context.Context) Option {
	return func(b *Behavior) {
		b.parentCtx = ctx
	}
}

// WithRegistry sets the class registry used to resolve by-name classes.
func WithRegistry(reg *registry.Registry) Option {
	return func(b *Behavior) {
		b.registry = reg
	}
}

// WithScheduler sets the scheduler the change trigger defers restarts to.
func WithScheduler(scheduler Scheduler) Option {
	return func(b *Behavior) {
		b.scheduler = scheduler
	}
}
