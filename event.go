package wlmonitors

// ActionKind categorizes actions for failure reporting.
type ActionKind int

const (
	ActionToggle ActionKind = iota
	ActionSwitchMode
	ActionSetScale
	ActionSetTransform
)

func (k ActionKind) String() string {
	switch k {
	case ActionToggle:
		return "toggle"
	case ActionSwitchMode:
		return "switch-mode"
	case ActionSetScale:
		return "set-scale"
	case ActionSetTransform:
		return "set-transform"
	default:
		return "unknown"
	}
}

// Event is a state notification delivered on the manager's event channel.
// Exactly one of InitialStateEvent, ChangedEvent, RemovedEvent or
// ActionFailedEvent.
type Event interface{ monitorEvent() }

// InitialStateEvent carries the complete monitor set after the first
// consistent snapshot of the session. Sent exactly once.
type InitialStateEvent struct {
	Monitors []Monitor
}

// ChangedEvent carries the new snapshot of a monitor that appeared or whose
// observable state changed. One event per monitor, in compositor
// announcement order.
type ChangedEvent struct {
	Monitor Monitor
}

// RemovedEvent reports a disconnected monitor.
type RemovedEvent struct {
	ID   uint32
	Name string
}

// ActionFailedEvent reports that an action could not be carried out, either
// because validation rejected it or because the compositor refused the
// resulting configuration.
type ActionFailedEvent struct {
	Action ActionKind
	Reason string
}

func (InitialStateEvent) monitorEvent() {}
func (ChangedEvent) monitorEvent()      {}
func (RemovedEvent) monitorEvent()      {}
func (ActionFailedEvent) monitorEvent() {}
