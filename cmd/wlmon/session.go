package main

import (
	"fmt"
	"time"

	"github.com/bnema/wlmonitors"
	"github.com/bnema/wlmonitors/internal/config"
)

// session bundles a connected manager with its channels and the goroutine
// running its loop.
type session struct {
	mgr     *wlmonitors.Manager
	events  chan wlmonitors.Event
	actions chan wlmonitors.Action
	runErr  chan error
}

func dial() (*session, error) {
	capacity := config.Get().Events.ChannelCapacity
	events := make(chan wlmonitors.Event, capacity)
	actions := make(chan wlmonitors.Action, capacity)

	mgr, err := wlmonitors.Connect(events, actions,
		wlmonitors.WithChannelCapacity(capacity))
	if err != nil {
		return nil, err
	}

	s := &session{
		mgr:     mgr,
		events:  events,
		actions: actions,
		runErr:  make(chan error, 1),
	}
	go func() {
		s.runErr <- mgr.Run()
	}()
	return s, nil
}

func actionTimeout() time.Duration {
	return time.Duration(config.Get().Events.ActionTimeout) * time.Second
}

// waitInitial blocks until the first consistent snapshot arrives.
func (s *session) waitInitial() ([]wlmonitors.Monitor, error) {
	deadline := time.After(actionTimeout())
	for {
		select {
		case ev, ok := <-s.events:
			if !ok {
				return nil, fmt.Errorf("connection closed before initial state")
			}
			if init, isInit := ev.(wlmonitors.InitialStateEvent); isInit {
				return init.Monitors, nil
			}
		case <-deadline:
			return nil, fmt.Errorf("timed out waiting for initial state")
		}
	}
}

// runAction submits one action and waits until the targeted monitor reports
// a change or the action fails. The wait is bounded by the configured
// action timeout; the library itself never times out.
func (s *session) runAction(a wlmonitors.Action) (wlmonitors.Monitor, error) {
	s.actions <- a
	deadline := time.After(actionTimeout())
	for {
		select {
		case ev, ok := <-s.events:
			if !ok {
				return wlmonitors.Monitor{}, fmt.Errorf("connection closed")
			}
			switch e := ev.(type) {
			case wlmonitors.ActionFailedEvent:
				return wlmonitors.Monitor{}, fmt.Errorf("%s", e.Reason)
			case wlmonitors.ChangedEvent:
				if e.Monitor.Name == a.Target() {
					return e.Monitor, nil
				}
			}
		case <-deadline:
			return wlmonitors.Monitor{}, fmt.Errorf("timed out waiting for the compositor")
		}
	}
}

// close shuts the session down, draining events so the manager loop can
// finish publishing.
func (s *session) close() {
	_ = s.mgr.Close()
	for {
		select {
		case <-s.events:
		case <-s.runErr:
			return
		}
	}
}
