package wlmonitors

// Action is a requested state change, submitted on the manager's action
// channel. Monitors are addressed by connector name.
type Action interface {
	Kind() ActionKind
	// Target is the connector name of the monitor the action applies to.
	Target() string
}

// ToggleAction disables an enabled monitor or enables a disabled one. When
// enabling, Mode optionally pins the mode to use; when nil the mode is
// resolved automatically (last used, then preferred, then first available).
type ToggleAction struct {
	Name string
	Mode *ModeSpec
}

// SwitchModeAction changes the mode of an enabled monitor. The spec must
// match an advertised mode exactly.
type SwitchModeAction struct {
	Name string
	Mode ModeSpec
}

// SetScaleAction changes the scale factor of an enabled monitor. Scale must
// be finite and greater than zero.
type SetScaleAction struct {
	Name  string
	Scale float64
}

// SetTransformAction changes the transform of an enabled monitor.
type SetTransformAction struct {
	Name      string
	Transform Transform
}

func (a ToggleAction) Kind() ActionKind { return ActionToggle }
func (a ToggleAction) Target() string   { return a.Name }

func (a SwitchModeAction) Kind() ActionKind { return ActionSwitchMode }
func (a SwitchModeAction) Target() string   { return a.Name }

func (a SetScaleAction) Kind() ActionKind { return ActionSetScale }
func (a SetScaleAction) Target() string   { return a.Name }

func (a SetTransformAction) Kind() ActionKind { return ActionSetTransform }
func (a SetTransformAction) Target() string   { return a.Name }
