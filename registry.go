package wlmonitors

import (
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/bnema/wlmonitors/wire"
)

// headScratch accumulates property fragments for one head between done
// terminators. Only finalize turns it into an exposed Monitor.
type headScratch struct {
	name         string
	description  string
	mk           string
	model        string
	serialNumber string

	enabled      bool
	position     Position
	physicalSize Size
	scale        float64
	transform    Transform
	currentMode  uint32

	// modes in announcement order, by object ID.
	modes []uint32
}

// modeScratch accumulates property fragments for one mode object.
type modeScratch struct {
	width     int32
	height    int32
	refreshHz int32
	preferred bool
}

// registry is the scratch side of the protocol state: it absorbs fragments
// as they arrive and produces consistent Monitor snapshots only when a done
// terminator closes the batch. Not safe for concurrent use; the manager's
// run loop is its only caller.
type registry struct {
	log *log.Logger

	heads map[uint32]*headScratch
	// order preserves head announcement order so snapshots and change
	// notifications are deterministic.
	order []uint32

	modes map[uint32]*modeScratch
	// modeOwner maps a mode object back to the head that announced it,
	// for removal cascades and ownership checks.
	modeOwner map[uint32]uint32

	serial     uint32
	haveSerial bool

	// dropped counts fragments referencing unknown objects. Atomic so
	// Manager.Inconsistencies can read it from any goroutine.
	dropped atomic.Uint64
}

func newRegistry(logger *log.Logger) *registry {
	return &registry{
		log:       logger,
		heads:     make(map[uint32]*headScratch),
		modes:     make(map[uint32]*modeScratch),
		modeOwner: make(map[uint32]uint32),
	}
}

func (r *registry) head(id uint32) (*headScratch, bool) {
	h, ok := r.heads[id]
	return h, ok
}

func (r *registry) mode(id uint32) (*modeScratch, bool) {
	m, ok := r.modes[id]
	return m, ok
}

// drop records a fragment that referenced an object the registry does not
// know. The session continues; the fragment is discarded.
func (r *registry) drop(what string, id uint32) {
	r.dropped.Add(1)
	r.log.Debug("dropping fragment for unknown object", "fragment", what, "object", id)
}

// handleFragment folds one protocol fragment into scratch state. Done,
// HeadFinished and ConfigurationResult are not fragments and must be handled
// by the caller before this point.
func (r *registry) handleFragment(ev wire.Event) {
	switch f := ev.(type) {
	case wire.HeadAdded:
		if _, ok := r.heads[f.Head]; ok {
			r.drop("head-added (duplicate)", f.Head)
			return
		}
		r.heads[f.Head] = &headScratch{scale: 1.0}
		r.order = append(r.order, f.Head)
	case wire.HeadName:
		if h, ok := r.head(f.Head); ok {
			h.name = f.Name
		} else {
			r.drop("head-name", f.Head)
		}
	case wire.HeadDescription:
		if h, ok := r.head(f.Head); ok {
			h.description = f.Description
		} else {
			r.drop("head-description", f.Head)
		}
	case wire.HeadPhysicalSize:
		if h, ok := r.head(f.Head); ok {
			h.physicalSize = Size{Width: f.Width, Height: f.Height}
		} else {
			r.drop("head-physical-size", f.Head)
		}
	case wire.HeadMake:
		if h, ok := r.head(f.Head); ok {
			h.mk = f.Make
		} else {
			r.drop("head-make", f.Head)
		}
	case wire.HeadModel:
		if h, ok := r.head(f.Head); ok {
			h.model = f.Model
		} else {
			r.drop("head-model", f.Head)
		}
	case wire.HeadSerialNumber:
		if h, ok := r.head(f.Head); ok {
			h.serialNumber = f.SerialNumber
		} else {
			r.drop("head-serial-number", f.Head)
		}
	case wire.HeadEnabled:
		if h, ok := r.head(f.Head); ok {
			h.enabled = f.Enabled
			if !f.Enabled {
				h.currentMode = 0
			}
		} else {
			r.drop("head-enabled", f.Head)
		}
	case wire.HeadPosition:
		if h, ok := r.head(f.Head); ok {
			h.position = Position{X: f.X, Y: f.Y}
		} else {
			r.drop("head-position", f.Head)
		}
	case wire.HeadScale:
		if h, ok := r.head(f.Head); ok {
			h.scale = f.Scale
		} else {
			r.drop("head-scale", f.Head)
		}
	case wire.HeadTransform:
		if h, ok := r.head(f.Head); ok {
			h.transform = Transform(f.Transform)
		} else {
			r.drop("head-transform", f.Head)
		}
	case wire.HeadCurrentMode:
		h, ok := r.head(f.Head)
		if !ok {
			r.drop("head-current-mode", f.Head)
			return
		}
		if owner, ok := r.modeOwner[f.Mode]; !ok || owner != f.Head {
			r.drop("head-current-mode (foreign mode)", f.Mode)
			return
		}
		h.currentMode = f.Mode
	case wire.ModeAdded:
		h, ok := r.head(f.Head)
		if !ok {
			r.drop("mode-added", f.Head)
			return
		}
		if _, ok := r.modes[f.Mode]; ok {
			r.drop("mode-added (duplicate)", f.Mode)
			return
		}
		r.modes[f.Mode] = &modeScratch{}
		r.modeOwner[f.Mode] = f.Head
		h.modes = append(h.modes, f.Mode)
	case wire.ModeSize:
		if m, ok := r.mode(f.Mode); ok {
			m.width, m.height = f.Width, f.Height
		} else {
			r.drop("mode-size", f.Mode)
		}
	case wire.ModeRefresh:
		if m, ok := r.mode(f.Mode); ok {
			m.refreshHz = hertz(f.Millihertz)
		} else {
			r.drop("mode-refresh", f.Mode)
		}
	case wire.ModePreferred:
		if m, ok := r.mode(f.Mode); ok {
			m.preferred = true
		} else {
			r.drop("mode-preferred", f.Mode)
		}
	case wire.ModeFinished:
		r.removeMode(f.Mode)
	default:
		r.log.Debug("unhandled wire event", "event", ev)
	}
}

// hertz converts a protocol millihertz refresh rate to whole hertz,
// rounding half up so 59940 becomes 60.
func hertz(millihertz int32) int32 {
	return (millihertz + 500) / 1000
}

// removeMode detaches a mode from its owning head and forgets it.
func (r *registry) removeMode(id uint32) {
	owner, ok := r.modeOwner[id]
	if !ok {
		r.drop("mode-finished", id)
		return
	}
	delete(r.modes, id)
	delete(r.modeOwner, id)
	if h, ok := r.heads[owner]; ok {
		for i, m := range h.modes {
			if m == id {
				h.modes = append(h.modes[:i], h.modes[i+1:]...)
				break
			}
		}
		if h.currentMode == id {
			h.currentMode = 0
		}
	}
}

// removeHead forgets a head and every mode it owns. Returns false when the
// head was unknown.
func (r *registry) removeHead(id uint32) bool {
	h, ok := r.heads[id]
	if !ok {
		r.drop("head-finished", id)
		return false
	}
	for _, m := range h.modes {
		delete(r.modes, m)
		delete(r.modeOwner, m)
	}
	delete(r.heads, id)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// setSerial records the serial carried by a done terminator.
func (r *registry) setSerial(serial uint32) {
	r.serial = serial
	r.haveSerial = true
}

// finalize materializes a consistent Monitor snapshot for every known head,
// in announcement order. Called on a done terminator; the store's diff
// decides which of these actually changed.
func (r *registry) finalize() []Monitor {
	out := make([]Monitor, 0, len(r.order))
	for _, id := range r.order {
		h := r.heads[id]
		mon := Monitor{
			ID:           id,
			Name:         h.name,
			Description:  h.description,
			Make:         h.mk,
			Model:        h.model,
			SerialNumber: h.serialNumber,
			Enabled:      h.enabled,
			Position:     h.position,
			PhysicalSize: h.physicalSize,
			Scale:        h.scale,
			Transform:    h.transform,
			CurrentMode:  h.currentMode,
		}
		if len(h.modes) > 0 {
			mon.Modes = make([]Mode, 0, len(h.modes))
			for _, mid := range h.modes {
				ms := r.modes[mid]
				mon.Modes = append(mon.Modes, Mode{
					ID:        mid,
					Width:     ms.width,
					Height:    ms.height,
					RefreshHz: ms.refreshHz,
					Preferred: ms.preferred,
					Current:   mid == h.currentMode,
				})
			}
		}
		if h.enabled {
			if cur, ok := mon.Mode(h.currentMode); ok {
				mon.Resolution = Resolution{Width: cur.Width, Height: cur.Height}
			}
		}
		out = append(out, mon)
	}
	return out
}
