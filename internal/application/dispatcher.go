package application

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/shubhampopalghat/userbot/internal/ports"
)

// Trigger patterns are exact-anchor matches against incoming message text.
const (
	TriggerBan     = `^/Aban$`
	TriggerCleanup = `^#NexoUnion$`
	TriggerStatus  = `^\.a$`
	TriggerJoin    = `^\.join`
	TriggerLeave   = `^\.left`
)

// Dispatcher binds the five command triggers to the active session's
// incoming-message stream and blocks until the connection drops or the
// context is cancelled. Handlers for one session never run concurrently:
// each registration is wrapped in the session's execution lock.
type Dispatcher struct {
	cfg    Config
	clock  ports.Clock
	log    zerolog.Logger
	active atomic.Bool
}

func NewDispatcher(cfg Config, clock ports.Clock, log zerolog.Logger) *Dispatcher {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Dispatcher{cfg: cfg, clock: clock, log: log}
}

func (d *Dispatcher) IsActive() bool {
	return d.active.Load()
}

// Activate registers the triggers against entry's client and runs the
// listening loop. The active flag is cleared on any return path.
func (d *Dispatcher) Activate(ctx context.Context, entry *SessionEntry) error {
	h := &handlers{
		client:   entry.Client,
		cfg:      d.cfg,
		clock:    d.clock,
		log:      d.log.With().Str("account", string(entry.Name)).Logger(),
		isActive: d.IsActive,
	}

	d.register(entry, TriggerBan, h.banAll)
	d.register(entry, TriggerCleanup, h.cleanupServiceMessages)
	d.register(entry, TriggerStatus, h.activeStatus)
	d.register(entry, TriggerJoin, h.joinGroups)
	d.register(entry, TriggerLeave, h.leaveGroups)

	d.active.Store(true)
	defer d.active.Store(false)

	return entry.Client.Run(ctx)
}

// register wraps a handler in the per-session execution lock and a catch-all
// boundary: a failing handler replies with a generic error instead of
// crashing the dispatcher.
func (d *Dispatcher) register(entry *SessionEntry, pattern string, fn ports.MessageHandler) {
	entry.Client.OnMessage(pattern, func(ctx context.Context, event ports.MessageEvent) error {
		return entry.RunExclusive(func() error {
			if err := fn(ctx, event); err != nil {
				d.log.Error().Err(err).Str("pattern", pattern).Msg("handler failed")
				_, _ = event.Reply(ctx, "❌ Error: "+err.Error())
			}
			return nil
		})
	})
}
