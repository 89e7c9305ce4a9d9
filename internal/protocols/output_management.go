// Package protocols contains hand-written proxies for the
// wlr-output-management-unstable-v1 protocol family on top of wlturbo.
package protocols

import (
	"github.com/bnema/wlturbo/wl"
)

// Protocol interface names
const (
	OutputManagerInterface           = "zwlr_output_manager_v1"
	OutputHeadInterface              = "zwlr_output_head_v1"
	OutputModeInterface              = "zwlr_output_mode_v1"
	OutputConfigurationInterface     = "zwlr_output_configuration_v1"
	OutputConfigurationHeadInterface = "zwlr_output_configuration_head_v1"
)

// OutputManagerVersion is the highest protocol version these proxies speak.
const OutputManagerVersion = 4

// OutputManager is the zwlr_output_manager_v1 proxy. Event handlers are
// plain function fields; they run on the display dispatch goroutine.
type OutputManager struct {
	wl.BaseProxy

	// OnHead is called with the newly registered head proxy before any of
	// its property events arrive.
	OnHead     func(head *OutputHead)
	OnDone     func(serial uint32)
	OnFinished func()
}

// NewOutputManager creates an unbound output manager proxy. Bind it through
// the registry before use.
func NewOutputManager(ctx *wl.Context) *OutputManager {
	manager := &OutputManager{}
	manager.SetContext(ctx)
	return manager
}

// CreateConfiguration creates a configuration transaction against serial.
func (m *OutputManager) CreateConfiguration(serial uint32) (*OutputConfiguration, error) {
	config := &OutputConfiguration{}
	config.SetContext(m.Context())
	config.SetID(m.Context().AllocateID())
	m.Context().Register(config)

	// Opcode 0: create_configuration
	const opcode = 0
	if err := m.Context().SendRequest(m, opcode, config, serial); err != nil {
		m.Context().Unregister(config)
		return nil, err
	}
	return config, nil
}

// Stop asks the compositor to stop sending events. The compositor answers
// with a finished event.
func (m *OutputManager) Stop() error {
	// Opcode 1: stop
	const opcode = 1
	return m.Context().SendRequest(m, opcode)
}

// Destroy unregisters the proxy. The protocol has no destructor request.
func (m *OutputManager) Destroy() error {
	m.Context().Unregister(m)
	return nil
}

// Dispatch handles incoming manager events.
func (m *OutputManager) Dispatch(event *wl.Event) {
	switch event.Opcode {
	case 0: // head
		headID := event.Uint32()
		head := &OutputHead{}
		head.SetContext(m.Context())
		head.SetID(headID)
		m.Context().Register(head)
		if m.OnHead != nil {
			m.OnHead(head)
		}
	case 1: // done
		serial := event.Uint32()
		if m.OnDone != nil {
			m.OnDone(serial)
		}
	case 2: // finished
		if m.OnFinished != nil {
			m.OnFinished()
		}
		m.Context().Unregister(m)
	}
}

// OutputHead is the zwlr_output_head_v1 proxy.
type OutputHead struct {
	wl.BaseProxy

	OnName         func(name string)
	OnDescription  func(description string)
	OnPhysicalSize func(width, height int32)
	// OnMode is called with the newly registered mode proxy.
	OnMode        func(mode *OutputMode)
	OnEnabled     func(enabled bool)
	OnCurrentMode func(modeID uint32)
	OnPosition    func(x, y int32)
	OnTransform   func(transform int32)
	OnScale       func(scale float64)
	OnMake        func(make string)
	OnModel       func(model string)
	OnSerial      func(serialNumber string)
	OnFinished    func()
}

// Release releases the head (since version 3).
func (h *OutputHead) Release() error {
	// Opcode 0: release
	const opcode = 0
	err := h.Context().SendRequest(h, opcode)
	h.Context().Unregister(h)
	return err
}

// Dispatch handles incoming head events.
func (h *OutputHead) Dispatch(event *wl.Event) {
	switch event.Opcode {
	case 0: // name
		if h.OnName != nil {
			h.OnName(event.String())
		}
	case 1: // description
		if h.OnDescription != nil {
			h.OnDescription(event.String())
		}
	case 2: // physical_size
		width := event.Int32()
		height := event.Int32()
		if h.OnPhysicalSize != nil {
			h.OnPhysicalSize(width, height)
		}
	case 3: // mode
		proxy := event.NewID()
		mode := &OutputMode{}
		mode.SetContext(h.Context())
		mode.SetID(proxy.ID())
		h.Context().Register(mode)
		if h.OnMode != nil {
			h.OnMode(mode)
		}
	case 4: // enabled
		enabled := event.Int32()
		if h.OnEnabled != nil {
			h.OnEnabled(enabled != 0)
		}
	case 5: // current_mode
		modeID := event.Uint32()
		if h.OnCurrentMode != nil {
			h.OnCurrentMode(modeID)
		}
	case 6: // position
		x := event.Int32()
		y := event.Int32()
		if h.OnPosition != nil {
			h.OnPosition(x, y)
		}
	case 7: // transform
		if h.OnTransform != nil {
			h.OnTransform(event.Int32())
		}
	case 8: // scale
		raw := event.Uint32()
		if raw > 0x7FFFFFFF {
			return // not a valid wl_fixed
		}
		if h.OnScale != nil {
			h.OnScale(float64(wl.Fixed(raw)) / 256.0)
		}
	case 9: // finished
		if h.OnFinished != nil {
			h.OnFinished()
		}
		h.Context().Unregister(h)
	case 10: // make (since version 2)
		if h.OnMake != nil {
			h.OnMake(event.String())
		}
	case 11: // model (since version 2)
		if h.OnModel != nil {
			h.OnModel(event.String())
		}
	case 12: // serial_number (since version 2)
		if h.OnSerial != nil {
			h.OnSerial(event.String())
		}
	case 13: // adaptive_sync (since version 4)
		// Not surfaced.
		_ = event.Uint32()
	}
}

// OutputMode is the zwlr_output_mode_v1 proxy.
type OutputMode struct {
	wl.BaseProxy

	OnSize func(width, height int32)
	// OnRefresh reports the vertical refresh rate in millihertz.
	OnRefresh   func(millihertz int32)
	OnPreferred func()
	OnFinished  func()
}

// Release releases the mode (since version 3).
func (m *OutputMode) Release() error {
	// Opcode 0: release
	const opcode = 0
	err := m.Context().SendRequest(m, opcode)
	m.Context().Unregister(m)
	return err
}

// Dispatch handles incoming mode events.
func (m *OutputMode) Dispatch(event *wl.Event) {
	switch event.Opcode {
	case 0: // size
		width := event.Int32()
		height := event.Int32()
		if m.OnSize != nil {
			m.OnSize(width, height)
		}
	case 1: // refresh
		if m.OnRefresh != nil {
			m.OnRefresh(event.Int32())
		}
	case 2: // preferred
		if m.OnPreferred != nil {
			m.OnPreferred()
		}
	case 3: // finished
		if m.OnFinished != nil {
			m.OnFinished()
		}
		m.Context().Unregister(m)
	}
}

// OutputConfiguration is the zwlr_output_configuration_v1 proxy. Exactly one
// of the three outcome handlers fires per applied or tested configuration.
type OutputConfiguration struct {
	wl.BaseProxy

	OnSucceeded func()
	OnFailed    func()
	OnCancelled func()
}

// EnableHead marks head enabled in the transaction and returns the handle
// carrying its desired state.
func (c *OutputConfiguration) EnableHead(head *OutputHead) (*OutputConfigurationHead, error) {
	configHead := &OutputConfigurationHead{}
	configHead.SetContext(c.Context())
	configHead.SetID(c.Context().AllocateID())
	c.Context().Register(configHead)

	// Opcode 0: enable_head
	const opcode = 0
	if err := c.Context().SendRequest(c, opcode, configHead, head); err != nil {
		c.Context().Unregister(configHead)
		return nil, err
	}
	return configHead, nil
}

// DisableHead marks head disabled in the transaction.
func (c *OutputConfiguration) DisableHead(head *OutputHead) error {
	// Opcode 1: disable_head
	const opcode = 1
	return c.Context().SendRequest(c, opcode, head)
}

// Apply asks the compositor to apply the transaction.
func (c *OutputConfiguration) Apply() error {
	// Opcode 2: apply
	const opcode = 2
	return c.Context().SendRequest(c, opcode)
}

// Test asks the compositor to validate the transaction without applying it.
func (c *OutputConfiguration) Test() error {
	// Opcode 3: test
	const opcode = 3
	return c.Context().SendRequest(c, opcode)
}

// Destroy destroys the configuration object.
func (c *OutputConfiguration) Destroy() error {
	// Opcode 4: destroy
	const opcode = 4
	err := c.Context().SendRequest(c, opcode)
	c.Context().Unregister(c)
	return err
}

// Dispatch handles incoming configuration events.
func (c *OutputConfiguration) Dispatch(event *wl.Event) {
	switch event.Opcode {
	case 0: // succeeded
		if c.OnSucceeded != nil {
			c.OnSucceeded()
		}
	case 1: // failed
		if c.OnFailed != nil {
			c.OnFailed()
		}
	case 2: // cancelled
		if c.OnCancelled != nil {
			c.OnCancelled()
		}
	}
}

// OutputConfigurationHead is the zwlr_output_configuration_head_v1 proxy.
// Write-only: it has no events.
type OutputConfigurationHead struct {
	wl.BaseProxy
}

// SetMode selects one of the head's advertised modes.
func (h *OutputConfigurationHead) SetMode(mode *OutputMode) error {
	// Opcode 0: set_mode
	const opcode = 0
	return h.Context().SendRequest(h, opcode, mode)
}

// SetCustomMode selects a mode not advertised by the head. Refresh is in
// millihertz; zero means unspecified.
func (h *OutputConfigurationHead) SetCustomMode(width, height, refresh int32) error {
	// Opcode 1: set_custom_mode
	const opcode = 1
	return h.Context().SendRequest(h, opcode, width, height, refresh)
}

// SetPosition places the head in the global compositor space.
func (h *OutputConfigurationHead) SetPosition(x, y int32) error {
	// Opcode 2: set_position
	const opcode = 2
	return h.Context().SendRequest(h, opcode, x, y)
}

// SetTransform sets the head transform.
func (h *OutputConfigurationHead) SetTransform(transform int32) error {
	// Opcode 3: set_transform
	const opcode = 3
	return h.Context().SendRequest(h, opcode, transform)
}

// SetScale sets the head scale factor.
func (h *OutputConfigurationHead) SetScale(scale float64) error {
	// Opcode 4: set_scale
	const opcode = 4
	return h.Context().SendRequest(h, opcode, wl.Fixed(scale*256.0))
}

// Dispatch handles incoming events (the configuration head has none).
func (h *OutputConfigurationHead) Dispatch(_ *wl.Event) {
}
