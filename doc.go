// Package wlmonitors watches and reconfigures display outputs through the
// wlr-output-management-unstable-v1 Wayland protocol, as implemented by
// wlroots compositors (Sway, Hyprland, Niri, ...).
//
// The package maintains a live model of every connected monitor and exposes
// it through a channel of events: one InitialStateEvent once the first
// consistent snapshot arrives, then ChangedEvent/RemovedEvent as the
// compositor reports updates. Changes are requested by sending actions
// (toggle, switch mode, set scale, set transform) on a second channel;
// actions that cannot be carried out surface as ActionFailedEvent rather
// than errors.
//
//	events := make(chan wlmonitors.Event, 16)
//	actions := make(chan wlmonitors.Action, 16)
//	mgr, err := wlmonitors.Connect(events, actions)
//	if err != nil {
//		// handle err (wlmonitors.ErrUnsupported when the compositor
//		// lacks the protocol)
//	}
//	go func() {
//		for ev := range events {
//			// react to state changes
//		}
//	}()
//	actions <- wlmonitors.ToggleAction{Name: "DP-1"}
//	err = mgr.Run() // blocks until the connection ends
//
// Monitor snapshots are immutable values; mutating a received Monitor has no
// effect on the session.
package wlmonitors
