// Package client owns the Wayland connection: it binds the
// zwlr_output_manager_v1 global, runs the socket dispatch loop and
// translates protocol callbacks into typed wire fragments.
package client

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/bnema/wlturbo/wl"
	"github.com/charmbracelet/log"

	"github.com/bnema/wlmonitors/internal/protocols"
	"github.com/bnema/wlmonitors/wire"
)

// Conn is the live Wayland connection. It implements wire.Transport.
//
// A dedicated goroutine dispatches incoming messages and pushes fragments
// onto the event channel; it owns no shared state beyond the proxy maps.
// Requests (configuration transactions) may be sent from any goroutine:
// wlturbo locks its send and receive paths independently.
type Conn struct {
	log      *log.Logger
	display  *wl.Display
	registry *wl.Registry
	manager  *protocols.OutputManager

	events chan wire.Event
	done   chan struct{}
	once   sync.Once

	// finished flips when the compositor finishes the manager; the
	// dispatch loop turns it into a graceful ConnectionClosed.
	finished atomic.Bool

	// proxy maps, shared between the dispatch goroutine (writes) and
	// configuration builders (reads).
	mu          sync.Mutex
	heads       map[uint32]*protocols.OutputHead
	modes       map[uint32]*protocols.OutputMode
	modesByHead map[uint32][]uint32

	// registry globals, written during the initial roundtrip.
	gmu            sync.Mutex
	managerName    uint32
	managerVersion uint32
}

// Dial connects to the Wayland display (WAYLAND_DISPLAY or the default
// socket), binds the output manager and starts the dispatch loop. Returns
// wire.ErrUnsupported when the compositor lacks the protocol.
func Dial(capacity int, logger *log.Logger) (*Conn, error) {
	display, err := wl.Connect("")
	if err != nil {
		return nil, fmt.Errorf("connecting to wayland display: %w", err)
	}

	c := &Conn{
		log:         logger,
		display:     display,
		registry:    display.GetRegistry(),
		events:      make(chan wire.Event, capacity),
		done:        make(chan struct{}),
		heads:       make(map[uint32]*protocols.OutputHead),
		modes:       make(map[uint32]*protocols.OutputMode),
		modesByHead: make(map[uint32][]uint32),
	}

	// Registry listeners must be installed before the roundtrip that
	// announces the globals.
	c.registry.AddGlobalHandler(c)
	c.registry.AddGlobalRemoveHandler(c)
	if err := display.Roundtrip(); err != nil {
		_ = display.Context().Close()
		return nil, fmt.Errorf("initial roundtrip: %w", err)
	}

	c.gmu.Lock()
	name, version := c.managerName, c.managerVersion
	c.gmu.Unlock()
	if name == 0 {
		_ = display.Context().Close()
		return nil, wire.ErrUnsupported
	}
	if version > protocols.OutputManagerVersion {
		version = protocols.OutputManagerVersion
	}

	c.manager = protocols.NewOutputManager(display.Context())
	if err := c.registry.Bind(name, protocols.OutputManagerInterface, version, c.manager); err != nil {
		_ = display.Context().Close()
		return nil, fmt.Errorf("binding %s: %w", protocols.OutputManagerInterface, err)
	}
	c.manager.OnHead = c.handleHead
	c.manager.OnDone = func(serial uint32) { c.emit(wire.Done{Serial: serial}) }
	c.manager.OnFinished = func() { c.finished.Store(true) }

	c.log.Debug("bound output manager", "name", name, "version", version)
	go c.read()
	return c, nil
}

// HandleRegistryGlobal implements wl.RegistryGlobalHandler.
func (c *Conn) HandleRegistryGlobal(event wl.RegistryGlobalEvent) {
	if event.Interface != protocols.OutputManagerInterface {
		return
	}
	c.gmu.Lock()
	c.managerName = event.Name
	c.managerVersion = event.Version
	c.gmu.Unlock()
}

// HandleRegistryGlobalRemove implements wl.RegistryGlobalRemoveHandler.
func (c *Conn) HandleRegistryGlobalRemove(event wl.RegistryGlobalRemoveEvent) {
	c.gmu.Lock()
	if event.Name == c.managerName {
		c.managerName = 0
	}
	c.gmu.Unlock()
}

// read is the dispatch loop. It exits when the connection breaks, when the
// compositor finishes the manager, or when Close is called; the last event
// on the channel is always ConnectionClosed.
func (c *Conn) read() {
	defer close(c.events)
	for {
		if err := c.display.Dispatch(); err != nil {
			select {
			case <-c.done:
				// Local Close; the socket error is ours.
				c.emit(wire.ConnectionClosed{})
			default:
				c.emit(wire.ConnectionClosed{Err: fmt.Errorf("wayland dispatch: %w", err)})
			}
			return
		}
		if c.finished.Load() {
			c.emit(wire.ConnectionClosed{})
			return
		}
	}
}

// emit delivers a fragment in order, blocking until the core accepts it.
// Fragments are dropped once Close has been requested.
func (c *Conn) emit(ev wire.Event) {
	select {
	case c.events <- ev:
	case <-c.done:
	}
}

func (c *Conn) handleHead(head *protocols.OutputHead) {
	id := uint32(head.ID())

	c.mu.Lock()
	c.heads[id] = head
	c.mu.Unlock()

	c.emit(wire.HeadAdded{Head: id})

	head.OnName = func(name string) { c.emit(wire.HeadName{Head: id, Name: name}) }
	head.OnDescription = func(d string) { c.emit(wire.HeadDescription{Head: id, Description: d}) }
	head.OnPhysicalSize = func(w, h int32) { c.emit(wire.HeadPhysicalSize{Head: id, Width: w, Height: h}) }
	head.OnMake = func(m string) { c.emit(wire.HeadMake{Head: id, Make: m}) }
	head.OnModel = func(m string) { c.emit(wire.HeadModel{Head: id, Model: m}) }
	head.OnSerial = func(s string) { c.emit(wire.HeadSerialNumber{Head: id, SerialNumber: s}) }
	head.OnEnabled = func(enabled bool) { c.emit(wire.HeadEnabled{Head: id, Enabled: enabled}) }
	head.OnPosition = func(x, y int32) { c.emit(wire.HeadPosition{Head: id, X: x, Y: y}) }
	head.OnScale = func(s float64) { c.emit(wire.HeadScale{Head: id, Scale: s}) }
	head.OnTransform = func(t int32) { c.emit(wire.HeadTransform{Head: id, Transform: t}) }
	head.OnCurrentMode = func(modeID uint32) { c.emit(wire.HeadCurrentMode{Head: id, Mode: modeID}) }
	head.OnMode = func(mode *protocols.OutputMode) { c.handleMode(id, mode) }
	head.OnFinished = func() {
		c.mu.Lock()
		delete(c.heads, id)
		for _, mid := range c.modesByHead[id] {
			delete(c.modes, mid)
		}
		delete(c.modesByHead, id)
		c.mu.Unlock()
		c.emit(wire.HeadFinished{Head: id})
	}
}

func (c *Conn) handleMode(headID uint32, mode *protocols.OutputMode) {
	id := uint32(mode.ID())

	c.mu.Lock()
	c.modes[id] = mode
	c.modesByHead[headID] = append(c.modesByHead[headID], id)
	c.mu.Unlock()

	c.emit(wire.ModeAdded{Head: headID, Mode: id})

	mode.OnSize = func(w, h int32) { c.emit(wire.ModeSize{Mode: id, Width: w, Height: h}) }
	mode.OnRefresh = func(mhz int32) { c.emit(wire.ModeRefresh{Mode: id, Millihertz: mhz}) }
	mode.OnPreferred = func() { c.emit(wire.ModePreferred{Mode: id}) }
	mode.OnFinished = func() {
		c.mu.Lock()
		delete(c.modes, id)
		owned := c.modesByHead[headID]
		for i, m := range owned {
			if m == id {
				c.modesByHead[headID] = append(owned[:i], owned[i+1:]...)
				break
			}
		}
		c.mu.Unlock()
		c.emit(wire.ModeFinished{Mode: id})
	}
}

func (c *Conn) headProxy(id uint32) (*protocols.OutputHead, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	head, ok := c.heads[id]
	if !ok {
		return nil, fmt.Errorf("unknown head %d", id)
	}
	return head, nil
}

func (c *Conn) modeProxy(id uint32) (*protocols.OutputMode, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	mode, ok := c.modes[id]
	if !ok {
		return nil, fmt.Errorf("unknown mode %d", id)
	}
	return mode, nil
}

// Events implements wire.Transport.
func (c *Conn) Events() <-chan wire.Event {
	return c.events
}

// CreateConfiguration implements wire.Transport.
func (c *Conn) CreateConfiguration(serial uint32) (wire.Configuration, error) {
	cfg, err := c.manager.CreateConfiguration(serial)
	if err != nil {
		return nil, fmt.Errorf("create_configuration: %w", err)
	}
	id := uint32(cfg.ID())
	cfg.OnSucceeded = func() {
		c.emit(wire.ConfigurationResult{Configuration: id, Result: wire.ConfigSucceeded})
	}
	cfg.OnFailed = func() {
		c.emit(wire.ConfigurationResult{Configuration: id, Result: wire.ConfigFailed})
	}
	cfg.OnCancelled = func() {
		c.emit(wire.ConfigurationResult{Configuration: id, Result: wire.ConfigCancelled})
	}
	return &configuration{conn: c, cfg: cfg, id: id}, nil
}

// Close implements wire.Transport. Safe to call more than once.
func (c *Conn) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		if c.manager != nil {
			_ = c.manager.Stop()
			_ = c.manager.Destroy()
		}
		err = c.display.Context().Close()
	})
	return err
}

// configuration adapts the protocol proxy to wire.Configuration, resolving
// object IDs back to proxies.
type configuration struct {
	conn *Conn
	cfg  *protocols.OutputConfiguration
	id   uint32
}

func (cf *configuration) ID() uint32 { return cf.id }

func (cf *configuration) EnableHead(head uint32) (wire.ConfigurationHead, error) {
	proxy, err := cf.conn.headProxy(head)
	if err != nil {
		return nil, err
	}
	ch, err := cf.cfg.EnableHead(proxy)
	if err != nil {
		return nil, err
	}
	return &configurationHead{conn: cf.conn, head: ch}, nil
}

func (cf *configuration) DisableHead(head uint32) error {
	proxy, err := cf.conn.headProxy(head)
	if err != nil {
		return err
	}
	return cf.cfg.DisableHead(proxy)
}

func (cf *configuration) Apply() error { return cf.cfg.Apply() }

func (cf *configuration) Destroy() error { return cf.cfg.Destroy() }

type configurationHead struct {
	conn *Conn
	head *protocols.OutputConfigurationHead
}

func (ch *configurationHead) SetMode(mode uint32) error {
	proxy, err := ch.conn.modeProxy(mode)
	if err != nil {
		return err
	}
	return ch.head.SetMode(proxy)
}

func (ch *configurationHead) SetPosition(x, y int32) error {
	return ch.head.SetPosition(x, y)
}

func (ch *configurationHead) SetTransform(transform int32) error {
	return ch.head.SetTransform(transform)
}

func (ch *configurationHead) SetScale(scale float64) error {
	return ch.head.SetScale(scale)
}
