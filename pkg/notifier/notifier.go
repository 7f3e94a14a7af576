// Package notifier is the fire-and-forget side-channel informed after each
// committed transaction. Delivery is best-effort: a notifier must never
// block the ledger engine or influence an operation's outcome.
package notifier

import (
	"context"
	"log/slog"
	"sync"

	"github.com/amirasaad/pixbank/pkg/domain/account"
	"github.com/google/uuid"
)

// Event types emitted after a commit.
const (
	EventTransaction   = "transaction"
	EventBalanceUpdate = "balance_update"
)

// Event describes a committed money movement.
type Event struct {
	Type        string
	AccountIDs  []uuid.UUID
	Transaction *account.Transaction
}

// Notifier receives events after the ledger commits. Implementations must
// return quickly and must not propagate failures to the caller.
type Notifier interface {
	Notify(ctx context.Context, e Event)
}

// Handler consumes events delivered by the in-memory Bus.
type Handler func(ctx context.Context, e Event)

// Bus is an in-process Notifier fanning events out to registered handlers.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *slog.Logger
}

// NewBus creates an empty Bus.
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

// Subscribe registers a handler for the given event type.
func (b *Bus) Subscribe(eventType string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], h)
}

// Notify dispatches the event to every handler registered for its type.
// A panicking handler is recovered and logged; it never reaches the engine.
func (b *Bus) Notify(ctx context.Context, e Event) {
	b.mu.RLock()
	handlers := b.handlers[e.Type]
	b.mu.RUnlock()
	for _, h := range handlers {
		b.dispatch(ctx, h, e)
	}
}

func (b *Bus) dispatch(ctx context.Context, h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("notifier handler panicked", "event_type", e.Type, "panic", r)
		}
	}()
	h(ctx, e)
}

// LogHandler returns a handler that logs committed transactions; the
// default subscriber wired in by the app.
func LogHandler(logger *slog.Logger) Handler {
	return func(_ context.Context, e Event) {
		if e.Transaction == nil {
			return
		}
		logger.Info("transaction committed",
			"transaction_id", e.Transaction.ID,
			"type", e.Transaction.Type,
			"amount", e.Transaction.Amount,
		)
	}
}
