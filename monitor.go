package wlmonitors

import "fmt"

// Transform represents an output rotation/flip, mirroring wl_output.transform.
type Transform int32

// Transform values. Rotations are counter-clockwise, per the protocol.
const (
	TransformNormal Transform = iota
	Transform90
	Transform180
	Transform270
	TransformFlipped
	TransformFlipped90
	TransformFlipped180
	TransformFlipped270
)

// String returns the canonical lowercase name, e.g. "flipped-90".
func (t Transform) String() string {
	switch t {
	case TransformNormal:
		return "normal"
	case Transform90:
		return "90"
	case Transform180:
		return "180"
	case Transform270:
		return "270"
	case TransformFlipped:
		return "flipped"
	case TransformFlipped90:
		return "flipped-90"
	case TransformFlipped180:
		return "flipped-180"
	case TransformFlipped270:
		return "flipped-270"
	default:
		return "unknown"
	}
}

// ParseTransform parses the names produced by Transform.String.
func ParseTransform(s string) (Transform, error) {
	for t := TransformNormal; t <= TransformFlipped270; t++ {
		if t.String() == s {
			return t, nil
		}
	}
	return TransformNormal, fmt.Errorf("invalid transform %q", s)
}

// Position is an offset in the global compositor coordinate space.
type Position struct {
	X int32
	Y int32
}

// Resolution is a size in pixels.
type Resolution struct {
	Width  int32
	Height int32
}

// Size is a physical size in millimeters.
type Size struct {
	Width  int32
	Height int32
}

// Mode is one resolution/refresh-rate combination offered by a monitor.
type Mode struct {
	// ID is the protocol object identifier of the mode. Unique for the
	// lifetime of the connection.
	ID uint32
	// Width and Height in pixels.
	Width  int32
	Height int32
	// RefreshHz is the vertical refresh rate in hertz. The protocol
	// transmits millihertz; conversion rounds half up, so a 59940 mHz
	// mode is reported (and matched) as 60 Hz.
	RefreshHz int32
	// Preferred is set when the compositor marks this mode preferred.
	// Advisory: nothing guarantees at most one per monitor.
	Preferred bool
	// Current is set on the mode presently active, if the monitor is
	// enabled.
	Current bool
}

// ModeSpec names a mode by its triple, as used in actions.
type ModeSpec struct {
	Width     int32
	Height    int32
	RefreshHz int32
}

func (s ModeSpec) matches(m Mode) bool {
	return m.Width == s.Width && m.Height == s.Height && m.RefreshHz == s.RefreshHz
}

// Monitor is an immutable snapshot of one connected display output.
// Snapshots are replaced wholesale on each update batch, never mutated.
type Monitor struct {
	// ID is the protocol object identifier of the head. Stable for the
	// lifetime of the connection, not across reconnections.
	ID uint32
	// Name is the connector name, e.g. "DP-1". Stable for a physical
	// port across reconnections, best-effort unique.
	Name         string
	Description  string
	Make         string
	Model        string
	SerialNumber string

	Enabled bool
	// Resolution of the current mode; zero when disabled or unknown.
	Resolution   Resolution
	Position     Position
	PhysicalSize Size
	Scale        float64
	Transform    Transform

	// CurrentMode is the object ID of the active mode, 0 when none.
	CurrentMode uint32
	// Modes in the order the compositor advertised them.
	Modes []Mode
}

// Mode returns the monitor's mode with the given object ID.
func (m Monitor) Mode(id uint32) (Mode, bool) {
	for _, md := range m.Modes {
		if md.ID == id {
			return md, true
		}
	}
	return Mode{}, false
}

// PreferredMode returns the first mode the compositor marked preferred.
func (m Monitor) PreferredMode() (Mode, bool) {
	for _, md := range m.Modes {
		if md.Preferred {
			return md, true
		}
	}
	return Mode{}, false
}
