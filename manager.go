package wlmonitors

import (
	"github.com/charmbracelet/log"

	"github.com/bnema/wlmonitors/internal/client"
	"github.com/bnema/wlmonitors/internal/logger"
	"github.com/bnema/wlmonitors/wire"
)

// DefaultChannelCapacity is the buffer size used for the internal fragment
// channel when no override is given.
const DefaultChannelCapacity = 16

// ErrUnsupported is returned by Connect when the compositor does not
// advertise zwlr_output_manager_v1.
var ErrUnsupported = wire.ErrUnsupported

// Option adjusts manager construction.
type Option func(*options)

type options struct {
	logger   *log.Logger
	capacity int
}

// WithLogger replaces the default logger.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithChannelCapacity overrides the internal fragment channel capacity.
func WithChannelCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// Manager owns a session against the compositor's output manager. All
// registry, store and dispatch state is confined to the goroutine that
// calls Run.
type Manager struct {
	log       *log.Logger
	transport wire.Transport
	actions   <-chan Action

	reg   *registry
	store *store
	pub   *publisher
	disp  *dispatcher
}

// Connect dials the Wayland display named by WAYLAND_DISPLAY (or the
// default socket) and binds the output manager global. State notifications
// are delivered on events; the caller submits work on actions and signals
// shutdown by closing it. Returns ErrUnsupported when the compositor lacks
// the protocol.
func Connect(events chan<- Event, actions <-chan Action, opts ...Option) (*Manager, error) {
	o := buildOptions(opts)
	conn, err := client.Dial(o.capacity, o.logger)
	if err != nil {
		return nil, err
	}
	return NewManager(conn, events, actions, opts...), nil
}

// NewManager wires a manager over an existing transport. Useful for tests
// and for applications that manage the Wayland connection themselves.
func NewManager(t wire.Transport, events chan<- Event, actions <-chan Action, opts ...Option) *Manager {
	o := buildOptions(opts)
	reg := newRegistry(o.logger)
	st := newStore()
	pub := newPublisher(events)
	return &Manager{
		log:       o.logger,
		transport: t,
		actions:   actions,
		reg:       reg,
		store:     st,
		pub:       pub,
		disp:      newDispatcher(o.logger, t, reg, st, pub),
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger:   logger.Default(),
		capacity: DefaultChannelCapacity,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Run processes protocol fragments and actions until the connection ends.
// It returns nil after a graceful shutdown (the compositor finished the
// manager, or Close was called) and the transport error otherwise. Run must
// be called exactly once; it is the goroutine all internal state lives on.
func (m *Manager) Run() error {
	fragments := m.transport.Events()
	actions := m.actions
	for {
		select {
		case ev, ok := <-fragments:
			if !ok {
				return nil
			}
			if done := m.handleWire(ev); done != nil {
				return done.Err
			}
		case a, ok := <-actions:
			if !ok {
				// Caller hung up. Stop accepting work but keep
				// draining the protocol until Close.
				actions = nil
				continue
			}
			m.disp.dispatch(a)
		}
	}
}

// handleWire folds one transport event into session state. Returns non-nil
// when the event was terminal.
func (m *Manager) handleWire(ev wire.Event) *wire.ConnectionClosed {
	switch e := ev.(type) {
	case wire.ConnectionClosed:
		if e.Err != nil {
			m.log.Error("connection lost", "error", e.Err)
		} else {
			m.log.Debug("connection closed")
		}
		return &e
	case wire.Done:
		m.reg.setSerial(e.Serial)
		changed := m.store.apply(m.reg.finalize())
		if !m.pub.initialSent {
			m.pub.initialState(m.store.snapshot())
			return nil
		}
		for _, mon := range changed {
			m.pub.changed(mon)
		}
	case wire.HeadFinished:
		if !m.reg.removeHead(e.Head) {
			return nil
		}
		if mon, ok := m.store.remove(e.Head); ok {
			m.pub.removed(mon.ID, mon.Name)
		}
	case wire.ConfigurationResult:
		m.disp.handleOutcome(e)
	default:
		m.reg.handleFragment(ev)
	}
	return nil
}

// Close tears down the transport. Run returns once the closure propagates
// through the fragment channel.
func (m *Manager) Close() error {
	return m.transport.Close()
}

// Inconsistencies reports how many protocol fragments were dropped because
// they referenced unknown objects. A non-zero count indicates a compositor
// bug or a lost message; the session keeps going regardless.
func (m *Manager) Inconsistencies() uint64 {
	return m.reg.dropped.Load()
}
