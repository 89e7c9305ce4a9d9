// Package wire defines the boundary between the wlmonitors core and the
// Wayland connection that feeds it.
//
// The connection side parses zwlr_output_management_v1 events into the typed
// fragment values below and delivers them, in protocol order, over a bounded
// channel. Values here carry raw protocol units (millihertz refresh rates,
// wl_output transform integers); the core converts them into its own model.
package wire

import "errors"

// ErrUnsupported is returned when the compositor does not advertise the
// zwlr_output_manager_v1 global.
var ErrUnsupported = errors.New("compositor does not support zwlr_output_management_v1")

// Event is one parsed protocol fragment. A sequence of fragments is only a
// consistent whole once a Done event arrives.
type Event interface{ wireEvent() }

// HeadAdded announces a new head object. Property fragments for it follow.
type HeadAdded struct{ Head uint32 }

// HeadName carries the head's connector name (e.g. "DP-1").
type HeadName struct {
	Head uint32
	Name string
}

// HeadDescription carries the human-readable description.
type HeadDescription struct {
	Head        uint32
	Description string
}

// HeadPhysicalSize carries the physical dimensions in millimeters.
type HeadPhysicalSize struct {
	Head          uint32
	Width, Height int32
}

// HeadMake carries the manufacturer string.
type HeadMake struct {
	Head uint32
	Make string
}

// HeadModel carries the model string.
type HeadModel struct {
	Head  uint32
	Model string
}

// HeadSerialNumber carries the serial number string.
type HeadSerialNumber struct {
	Head         uint32
	SerialNumber string
}

// HeadEnabled carries the enabled state.
type HeadEnabled struct {
	Head    uint32
	Enabled bool
}

// HeadPosition carries the position in the global compositor space.
type HeadPosition struct {
	Head uint32
	X, Y int32
}

// HeadScale carries the scale factor, already converted from wl_fixed.
type HeadScale struct {
	Head  uint32
	Scale float64
}

// HeadTransform carries the raw wl_output transform value (0..7).
type HeadTransform struct {
	Head      uint32
	Transform int32
}

// HeadCurrentMode references the mode object currently active on the head.
type HeadCurrentMode struct{ Head, Mode uint32 }

// HeadFinished means the compositor destroyed the head object. All of the
// head's modes are gone with it.
type HeadFinished struct{ Head uint32 }

// ModeAdded announces a new mode object belonging to Head.
type ModeAdded struct{ Head, Mode uint32 }

// ModeSize carries the mode resolution in pixels.
type ModeSize struct {
	Mode          uint32
	Width, Height int32
}

// ModeRefresh carries the vertical refresh rate in millihertz, as the
// protocol transmits it.
type ModeRefresh struct {
	Mode       uint32
	Millihertz int32
}

// ModePreferred marks the mode as preferred by the compositor.
type ModePreferred struct{ Mode uint32 }

// ModeFinished means the compositor destroyed the mode object.
type ModeFinished struct{ Mode uint32 }

/// Done terminates a batch: every fragment since the previous Done now forms
// one consistent update. Serial must be used for the next configuration.
type Done struct{ Serial uint32 }

// ConfigResult is the compositor's verdict on an applied configuration.
type ConfigResult int

const (
	ConfigSucceeded ConfigResult = iota
	ConfigFailed
	ConfigCancelled
)

// ConfigurationResult reports the outcome of the configuration object
// identified by Configuration.
type ConfigurationResult struct {
	Configuration uint32
	Result        ConfigResult
}

// ConnectionClosed is the terminal event. Err is nil when the compositor
// shut the manager down gracefully. The event channel is closed after it.
type ConnectionClosed struct{ Err error }

func (HeadAdded) wireEvent()           {}
func (HeadName) wireEvent()            {}
func (HeadDescription) wireEvent()     {}
func (HeadPhysicalSize) wireEvent()    {}
func (HeadMake) wireEvent()            {}
func (HeadModel) wireEvent()           {}
func (HeadSerialNumber) wireEvent()    {}
func (HeadEnabled) wireEvent()         {}
func (HeadPosition) wireEvent()        {}
func (HeadScale) wireEvent()           {}
func (HeadTransform) wireEvent()       {}
func (HeadCurrentMode) wireEvent()     {}
func (HeadFinished) wireEvent()        {}
func (ModeAdded) wireEvent()           {}
func (ModeSize) wireEvent()            {}
func (ModeRefresh) wireEvent()         {}
func (ModePreferred) wireEvent()       {}
func (ModeFinished) wireEvent()        {}
func (Done) wireEvent()                {}
func (ConfigurationResult) wireEvent() {}
func (ConnectionClosed) wireEvent()    {}

// Transport is the protocol connection as the core sees it: an ordered
// stream of fragments in, configuration transactions out.
type Transport interface {
	// Events returns the fragment channel. It is closed after a
	// ConnectionClosed event has been delivered.
	Events() <-chan Event

	// CreateConfiguration starts a new configuration transaction against
	// the given manager serial. The eventual outcome arrives as a
	// ConfigurationResult on the event channel.
	CreateConfiguration(serial uint32) (Configuration, error)

	// Close tears the connection down. Safe to call more than once.
	Close() error
}

// Configuration is one pending configuration transaction. Heads not added
// to it keep their current state.
type Configuration interface {
	// ID identifies this transaction in ConfigurationResult events.
	ID() uint32

	// EnableHead includes the head in the transaction as enabled. The
	// returned handle must be fully specified before Apply.
	EnableHead(head uint32) (ConfigurationHead, error)

	// DisableHead includes the head in the transaction as disabled.
	DisableHead(head uint32) error

	// Apply submits the transaction to the compositor.
	Apply() error

	// Destroy releases the transaction object.
	Destroy() error
}

// ConfigurationHead sets the desired state of one enabled head.
type ConfigurationHead interface {
	SetMode(mode uint32) error
	SetPosition(x, y int32) error
	SetTransform(transform int32) error
	SetScale(scale float64) error
}
