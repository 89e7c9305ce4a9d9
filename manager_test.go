package wlmonitors

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/wlmonitors/wire"
)

// waitEvent blocks for the next published event, bounded so a broken run
// loop fails the test instead of hanging it.
func waitEvent(t *testing.T, events chan Event) Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for an event")
		return nil
	}
}

func waitRunErr(t *testing.T, runErr chan error) error {
	t.Helper()
	select {
	case err := <-runErr:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for Run to return")
		return nil
	}
}

// startManager runs a manager over a fake transport in a goroutine.
func startManager(t *testing.T, actions <-chan Action) (*Manager, *fakeTransport, chan Event, chan error) {
	t.Helper()
	events := make(chan Event, 256)
	ft := newFakeTransport()
	m := NewManager(ft, events, actions, WithLogger(testLogger()))
	runErr := make(chan error, 1)
	go func() { runErr <- m.Run() }()
	return m, ft, events, runErr
}

// pushSeed emits the standard two-monitor batch on the transport channel.
func pushSeed(ft *fakeTransport) {
	for _, f := range []wire.Event{
		wire.HeadAdded{Head: 10},
		wire.HeadName{Head: 10, Name: "DP-1"},
		wire.ModeAdded{Head: 10, Mode: 21},
		wire.ModeSize{Mode: 21, Width: 1920, Height: 1080},
		wire.ModeRefresh{Mode: 21, Millihertz: 60000},
		wire.ModePreferred{Mode: 21},
		wire.ModeAdded{Head: 10, Mode: 22},
		wire.ModeSize{Mode: 22, Width: 2560, Height: 1440},
		wire.ModeRefresh{Mode: 22, Millihertz: 144000},
		wire.HeadEnabled{Head: 10, Enabled: true},
		wire.HeadCurrentMode{Head: 10, Mode: 21},
		wire.HeadScale{Head: 10, Scale: 1.0},

		wire.HeadAdded{Head: 30},
		wire.HeadName{Head: 30, Name: "HDMI-A-1"},
		wire.ModeAdded{Head: 30, Mode: 41},
		wire.ModeSize{Mode: 41, Width: 1920, Height: 1080},
		wire.ModeRefresh{Mode: 41, Millihertz: 60000},
		wire.HeadEnabled{Head: 30, Enabled: false},

		wire.Done{Serial: 1},
	} {
		ft.events <- f
	}
}

func TestManagerInitialSnapshotOnce(t *testing.T) {
	_, ft, events, runErr := startManager(t, nil)
	pushSeed(ft)

	ev := waitEvent(t, events)
	initial, ok := ev.(InitialStateEvent)
	require.True(t, ok, "expected InitialStateEvent, got %T", ev)
	require.Len(t, initial.Monitors, 2)
	assert.Equal(t, "DP-1", initial.Monitors[0].Name)
	assert.Equal(t, "HDMI-A-1", initial.Monitors[1].Name)

	// An unchanged batch produces nothing; a real change produces exactly
	// one ChangedEvent for the affected monitor, never a second snapshot.
	ft.events <- wire.Done{Serial: 2}
	ft.events <- wire.HeadScale{Head: 10, Scale: 2.0}
	ft.events <- wire.Done{Serial: 3}

	ev = waitEvent(t, events)
	changed, ok := ev.(ChangedEvent)
	require.True(t, ok, "expected ChangedEvent, got %T", ev)
	assert.Equal(t, "DP-1", changed.Monitor.Name)
	assert.Equal(t, 2.0, changed.Monitor.Scale)

	_ = ft.Close()
	assert.NoError(t, waitRunErr(t, runErr))
}

func TestManagerRemoval(t *testing.T) {
	_, ft, events, runErr := startManager(t, nil)
	pushSeed(ft)
	waitEvent(t, events) // initial

	ft.events <- wire.HeadFinished{Head: 30}

	ev := waitEvent(t, events)
	removed, ok := ev.(RemovedEvent)
	require.True(t, ok, "expected RemovedEvent, got %T", ev)
	assert.Equal(t, uint32(30), removed.ID)
	assert.Equal(t, "HDMI-A-1", removed.Name)

	// The next batch no longer carries the removed monitor.
	ft.events <- wire.Done{Serial: 2}
	ft.events <- wire.HeadScale{Head: 10, Scale: 3.0}
	ft.events <- wire.Done{Serial: 3}
	ev = waitEvent(t, events)
	changed := ev.(ChangedEvent)
	assert.Equal(t, "DP-1", changed.Monitor.Name)

	_ = ft.Close()
	assert.NoError(t, waitRunErr(t, runErr))
}

func TestManagerRemovalBeforeInitialSnapshot(t *testing.T) {
	_, ft, events, runErr := startManager(t, nil)

	ft.events <- wire.HeadAdded{Head: 10}
	ft.events <- wire.HeadName{Head: 10, Name: "DP-1"}
	ft.events <- wire.HeadFinished{Head: 10}
	ft.events <- wire.Done{Serial: 1}

	ev := waitEvent(t, events)
	initial, ok := ev.(InitialStateEvent)
	require.True(t, ok, "expected InitialStateEvent, got %T", ev)
	assert.Empty(t, initial.Monitors, "head removed mid-batch never becomes visible")

	_ = ft.Close()
	assert.NoError(t, waitRunErr(t, runErr))
}

func TestManagerActionRoundtrip(t *testing.T) {
	actions := make(chan Action, 16)
	_, ft, events, runErr := startManager(t, actions)
	pushSeed(ft)
	waitEvent(t, events) // initial

	actions <- SwitchModeAction{
		Name: "DP-1",
		Mode: ModeSpec{Width: 2560, Height: 1440, RefreshHz: 144},
	}

	require.Eventually(t, func() bool {
		cfg := ft.lastConfig()
		return cfg != nil && cfg.applied
	}, 2*time.Second, 5*time.Millisecond, "action never reached the transport")

	cfg := ft.lastConfig()
	head := cfg.enabled[10]
	require.NotNil(t, head)
	require.NotNil(t, head.mode)
	assert.Equal(t, uint32(22), *head.mode)

	// The compositor accepts and reports the new state.
	ft.events <- wire.ConfigurationResult{Configuration: cfg.id, Result: wire.ConfigSucceeded}
	ft.events <- wire.HeadCurrentMode{Head: 10, Mode: 22}
	ft.events <- wire.Done{Serial: 2}

	ev := waitEvent(t, events)
	changed, ok := ev.(ChangedEvent)
	require.True(t, ok, "expected ChangedEvent, got %T", ev)
	assert.Equal(t, uint32(22), changed.Monitor.CurrentMode)
	assert.Equal(t, Resolution{Width: 2560, Height: 1440}, changed.Monitor.Resolution)

	_ = ft.Close()
	assert.NoError(t, waitRunErr(t, runErr))
}

func TestManagerClosedActionChannel(t *testing.T) {
	actions := make(chan Action)
	_, ft, events, runErr := startManager(t, actions)
	pushSeed(ft)
	waitEvent(t, events)

	// Closing the action channel stops work intake but not the protocol.
	close(actions)
	ft.events <- wire.HeadScale{Head: 10, Scale: 2.0}
	ft.events <- wire.Done{Serial: 2}

	ev := waitEvent(t, events)
	_, ok := ev.(ChangedEvent)
	assert.True(t, ok, "expected ChangedEvent, got %T", ev)

	_ = ft.Close()
	assert.NoError(t, waitRunErr(t, runErr))
}

func TestManagerRunReturnsTransportError(t *testing.T) {
	_, ft, _, runErr := startManager(t, nil)

	boom := errors.New("connection reset")
	ft.events <- wire.ConnectionClosed{Err: boom}
	close(ft.events)

	assert.ErrorIs(t, waitRunErr(t, runErr), boom)
}

func TestManagerGracefulFinish(t *testing.T) {
	_, ft, _, runErr := startManager(t, nil)

	ft.events <- wire.ConnectionClosed{}
	close(ft.events)

	assert.NoError(t, waitRunErr(t, runErr))
}

func TestManagerInconsistencies(t *testing.T) {
	m, ft, events, runErr := startManager(t, nil)
	pushSeed(ft)
	waitEvent(t, events)

	ft.events <- wire.HeadScale{Head: 77, Scale: 1.0}
	ft.events <- wire.ModeRefresh{Mode: 88, Millihertz: 60000}
	ft.events <- wire.Done{Serial: 2}

	require.Eventually(t, func() bool {
		return m.Inconsistencies() == 2
	}, 2*time.Second, 5*time.Millisecond)

	_ = ft.Close()
	assert.NoError(t, waitRunErr(t, runErr))
}
