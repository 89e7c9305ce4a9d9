package wlmonitors

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"

	"github.com/bnema/wlmonitors/wire"
)

// pendingConfig is a configuration transaction whose verdict from the
// compositor has not arrived yet.
type pendingConfig struct {
	kind ActionKind
	cfg  wire.Configuration
}

// dispatcher turns actions into configuration transactions and matches the
// compositor's asynchronous verdicts back to them. It never blocks waiting
// for an outcome: transactions stay in pending until their result event
// arrives.
type dispatcher struct {
	log       *log.Logger
	transport wire.Transport
	reg       *registry
	store     *store
	pub       *publisher

	// pending transactions keyed by configuration object ID.
	pending map[uint32]pendingConfig
}

func newDispatcher(logger *log.Logger, t wire.Transport, reg *registry, st *store, pub *publisher) *dispatcher {
	return &dispatcher{
		log:       logger,
		transport: t,
		reg:       reg,
		store:     st,
		pub:       pub,
		pending:   make(map[uint32]pendingConfig),
	}
}

// dispatch validates one action against committed state and, if it holds,
// submits a configuration covering exactly the targeted head. Every failure
// path surfaces as an ActionFailedEvent; none of them ends the session.
func (d *dispatcher) dispatch(a Action) {
	mon, ok := d.store.byName(a.Target())
	if !ok {
		d.fail(a.Kind(), fmt.Sprintf("monitor %q not found", a.Target()))
		return
	}

	switch act := a.(type) {
	case ToggleAction:
		d.toggle(mon, act)
	case SwitchModeAction:
		d.switchMode(mon, act)
	case SetScaleAction:
		d.setScale(mon, act)
	case SetTransformAction:
		d.setTransform(mon, act)
	default:
		d.fail(a.Kind(), fmt.Sprintf("unsupported action for monitor %q", a.Target()))
	}
}

func (d *dispatcher) fail(kind ActionKind, reason string) {
	d.log.Debug("action failed", "action", kind, "reason", reason)
	d.pub.actionFailed(kind, reason)
}

func (d *dispatcher) toggle(mon Monitor, act ToggleAction) {
	if mon.Enabled {
		cfg, ok := d.begin(ActionToggle)
		if !ok {
			return
		}
		// Remember the running mode so a later enable restores it. Only
		// once a transaction exists: a failed dispatch must not mutate
		// the memory.
		d.store.recordLastMode(mon)
		if err := cfg.DisableHead(mon.ID); err != nil {
			d.abort(cfg, ActionToggle, err)
			return
		}
		d.submit(cfg, ActionToggle)
		return
	}

	modeID, ok := d.resolveMode(mon, act.Mode)
	if !ok {
		d.fail(ActionToggle, fmt.Sprintf("no valid mode available for monitor %q", mon.Name))
		return
	}
	cfg, ok := d.begin(ActionToggle)
	if !ok {
		return
	}
	if err := d.enableWith(cfg, mon, modeID, mon.Scale, mon.Transform); err != nil {
		d.abort(cfg, ActionToggle, err)
		return
	}
	d.submit(cfg, ActionToggle)
}

// resolveMode picks the mode to enable a monitor with, in fixed priority
// order: an explicit spec matching an advertised mode exactly, then the last
// used mode if still advertised, then the preferred mode, then the first
// advertised one. A non-matching explicit spec falls through rather than
// failing; only a monitor with no modes at all resolves to nothing.
func (d *dispatcher) resolveMode(mon Monitor, spec *ModeSpec) (uint32, bool) {
	if spec != nil {
		for _, m := range mon.Modes {
			if spec.matches(m) {
				return m.ID, true
			}
		}
	}
	if last, ok := d.store.lastModeFor(mon.ID); ok {
		if _, still := mon.Mode(last); still {
			return last, true
		}
	}
	if pref, ok := mon.PreferredMode(); ok {
		return pref.ID, true
	}
	if len(mon.Modes) > 0 {
		return mon.Modes[0].ID, true
	}
	return 0, false
}

func (d *dispatcher) switchMode(mon Monitor, act SwitchModeAction) {
	if !mon.Enabled {
		d.fail(ActionSwitchMode, fmt.Sprintf("monitor %q is disabled, cannot switch mode", mon.Name))
		return
	}
	var modeID uint32
	for _, m := range mon.Modes {
		if act.Mode.matches(m) {
			modeID = m.ID
			break
		}
	}
	if modeID == 0 {
		d.fail(ActionSwitchMode, fmt.Sprintf("no matching mode %dx%d@%dHz for monitor %q",
			act.Mode.Width, act.Mode.Height, act.Mode.RefreshHz, mon.Name))
		return
	}
	cfg, ok := d.begin(ActionSwitchMode)
	if !ok {
		return
	}
	if err := d.enableWith(cfg, mon, modeID, mon.Scale, mon.Transform); err != nil {
		d.abort(cfg, ActionSwitchMode, err)
		return
	}
	d.submit(cfg, ActionSwitchMode)
}

func (d *dispatcher) setScale(mon Monitor, act SetScaleAction) {
	if act.Scale <= 0 || math.IsInf(act.Scale, 0) || math.IsNaN(act.Scale) {
		d.fail(ActionSetScale, fmt.Sprintf("invalid scale %v: must be finite and > 0", act.Scale))
		return
	}
	if !mon.Enabled {
		d.fail(ActionSetScale, fmt.Sprintf("monitor %q is disabled, cannot set scale", mon.Name))
		return
	}
	cfg, ok := d.begin(ActionSetScale)
	if !ok {
		return
	}
	if err := d.enableWith(cfg, mon, mon.CurrentMode, act.Scale, mon.Transform); err != nil {
		d.abort(cfg, ActionSetScale, err)
		return
	}
	d.submit(cfg, ActionSetScale)
}

func (d *dispatcher) setTransform(mon Monitor, act SetTransformAction) {
	if !mon.Enabled {
		d.fail(ActionSetTransform, fmt.Sprintf("monitor %q is disabled, cannot set transform", mon.Name))
		return
	}
	cfg, ok := d.begin(ActionSetTransform)
	if !ok {
		return
	}
	if err := d.enableWith(cfg, mon, mon.CurrentMode, mon.Scale, act.Transform); err != nil {
		d.abort(cfg, ActionSetTransform, err)
		return
	}
	d.submit(cfg, ActionSetTransform)
}

// begin opens a configuration transaction against the latest serial.
func (d *dispatcher) begin(kind ActionKind) (wire.Configuration, bool) {
	if !d.reg.haveSerial {
		d.fail(kind, "no configuration serial received yet")
		return nil, false
	}
	cfg, err := d.transport.CreateConfiguration(d.reg.serial)
	if err != nil {
		d.fail(kind, fmt.Sprintf("create configuration: %v", err))
		return nil, false
	}
	return cfg, true
}

// enableWith states the complete desired state of one enabled head. An
// enabled head in a transaction must be fully specified, so untouched
// properties are re-stated from the committed snapshot.
func (d *dispatcher) enableWith(cfg wire.Configuration, mon Monitor, modeID uint32, scale float64, transform Transform) error {
	ch, err := cfg.EnableHead(mon.ID)
	if err != nil {
		return err
	}
	if modeID != 0 {
		if err := ch.SetMode(modeID); err != nil {
			return err
		}
	}
	if err := ch.SetPosition(mon.Position.X, mon.Position.Y); err != nil {
		return err
	}
	if err := ch.SetTransform(int32(transform)); err != nil {
		return err
	}
	return ch.SetScale(scale)
}

func (d *dispatcher) abort(cfg wire.Configuration, kind ActionKind, err error) {
	if derr := cfg.Destroy(); derr != nil {
		d.log.Debug("destroying aborted configuration", "error", derr)
	}
	d.fail(kind, fmt.Sprintf("configuration request: %v", err))
}

func (d *dispatcher) submit(cfg wire.Configuration, kind ActionKind) {
	if err := cfg.Apply(); err != nil {
		d.abort(cfg, kind, err)
		return
	}
	d.pending[cfg.ID()] = pendingConfig{kind: kind, cfg: cfg}
}

// handleOutcome matches a compositor verdict to its pending transaction.
// Success needs no event of its own: the resulting state change arrives as
// a normal update batch.
func (d *dispatcher) handleOutcome(res wire.ConfigurationResult) {
	p, ok := d.pending[res.Configuration]
	if !ok {
		d.log.Debug("verdict for unknown configuration", "configuration", res.Configuration)
		return
	}
	delete(d.pending, res.Configuration)
	if err := p.cfg.Destroy(); err != nil {
		d.log.Debug("destroying settled configuration", "error", err)
	}
	switch res.Result {
	case wire.ConfigSucceeded:
		d.log.Debug("configuration succeeded", "action", p.kind)
	case wire.ConfigFailed:
		d.fail(p.kind, "compositor rejected the configuration")
	case wire.ConfigCancelled:
		d.fail(p.kind, "configuration cancelled: serial outdated")
	}
}
