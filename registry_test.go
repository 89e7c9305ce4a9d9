package wlmonitors

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/bnema/wlmonitors/wire"
)

func testLogger() *log.Logger {
	l := log.New(io.Discard)
	l.SetLevel(log.FatalLevel)
	return l
}

// feed pushes a sequence of fragments through the registry.
func feed(r *registry, fragments ...wire.Event) {
	for _, f := range fragments {
		r.handleFragment(f)
	}
}

func TestRegistryFinalize(t *testing.T) {
	r := newRegistry(testLogger())

	feed(r,
		wire.HeadAdded{Head: 10},
		wire.HeadName{Head: 10, Name: "DP-1"},
		wire.HeadDescription{Head: 10, Description: "Dell U2720Q"},
		wire.HeadPhysicalSize{Head: 10, Width: 600, Height: 340},
		wire.ModeAdded{Head: 10, Mode: 21},
		wire.ModeSize{Mode: 21, Width: 3840, Height: 2160},
		wire.ModeRefresh{Mode: 21, Millihertz: 59940},
		wire.ModePreferred{Mode: 21},
		wire.ModeAdded{Head: 10, Mode: 22},
		wire.ModeSize{Mode: 22, Width: 1920, Height: 1080},
		wire.ModeRefresh{Mode: 22, Millihertz: 60000},
		wire.HeadEnabled{Head: 10, Enabled: true},
		wire.HeadCurrentMode{Head: 10, Mode: 21},
		wire.HeadPosition{Head: 10, X: 0, Y: 0},
		wire.HeadScale{Head: 10, Scale: 1.5},
		wire.HeadTransform{Head: 10, Transform: 1},
	)
	r.setSerial(7)

	monitors := r.finalize()
	if len(monitors) != 1 {
		t.Fatalf("expected 1 monitor, got %d", len(monitors))
	}
	mon := monitors[0]

	if mon.Name != "DP-1" || mon.ID != 10 {
		t.Errorf("unexpected identity: %+v", mon)
	}
	if !mon.Enabled {
		t.Error("expected monitor enabled")
	}
	if mon.Resolution != (Resolution{Width: 3840, Height: 2160}) {
		t.Errorf("unexpected resolution: %+v", mon.Resolution)
	}
	if mon.PhysicalSize != (Size{Width: 600, Height: 340}) {
		t.Errorf("unexpected physical size: %+v", mon.PhysicalSize)
	}
	if mon.Scale != 1.5 {
		t.Errorf("unexpected scale: %v", mon.Scale)
	}
	if mon.Transform != Transform90 {
		t.Errorf("unexpected transform: %v", mon.Transform)
	}
	if len(mon.Modes) != 2 {
		t.Fatalf("expected 2 modes, got %d", len(mon.Modes))
	}
	// 59940 mHz rounds to 60 Hz.
	if mon.Modes[0].RefreshHz != 60 || !mon.Modes[0].Preferred || !mon.Modes[0].Current {
		t.Errorf("unexpected first mode: %+v", mon.Modes[0])
	}
	if mon.Modes[1].RefreshHz != 60 || mon.Modes[1].Current {
		t.Errorf("unexpected second mode: %+v", mon.Modes[1])
	}
	if !r.haveSerial || r.serial != 7 {
		t.Errorf("serial not recorded: have=%v serial=%d", r.haveSerial, r.serial)
	}
}

func TestHertzConversion(t *testing.T) {
	tests := []struct {
		millihertz int32
		want       int32
	}{
		{60000, 60},
		{59940, 60},
		{59400, 59},
		{143912, 144},
		{144500, 145},
		{0, 0},
	}
	for _, tt := range tests {
		if got := hertz(tt.millihertz); got != tt.want {
			t.Errorf("hertz(%d) = %d, want %d", tt.millihertz, got, tt.want)
		}
	}
}

func TestRegistryDefaultScale(t *testing.T) {
	r := newRegistry(testLogger())
	feed(r,
		wire.HeadAdded{Head: 1},
		wire.HeadName{Head: 1, Name: "eDP-1"},
	)
	monitors := r.finalize()
	if monitors[0].Scale != 1.0 {
		t.Errorf("expected default scale 1.0, got %v", monitors[0].Scale)
	}
}

func TestRegistryDisableClearsCurrentMode(t *testing.T) {
	r := newRegistry(testLogger())
	feed(r,
		wire.HeadAdded{Head: 1},
		wire.ModeAdded{Head: 1, Mode: 2},
		wire.ModeSize{Mode: 2, Width: 1920, Height: 1080},
		wire.HeadEnabled{Head: 1, Enabled: true},
		wire.HeadCurrentMode{Head: 1, Mode: 2},
		wire.HeadEnabled{Head: 1, Enabled: false},
	)
	mon := r.finalize()[0]
	if mon.CurrentMode != 0 {
		t.Errorf("expected current mode cleared on disable, got %d", mon.CurrentMode)
	}
	if mon.Resolution != (Resolution{}) {
		t.Errorf("expected zero resolution for disabled monitor, got %+v", mon.Resolution)
	}
}

func TestRegistryRemoveHeadCascade(t *testing.T) {
	r := newRegistry(testLogger())
	feed(r,
		wire.HeadAdded{Head: 1},
		wire.ModeAdded{Head: 1, Mode: 2},
		wire.ModeAdded{Head: 1, Mode: 3},
		wire.HeadAdded{Head: 4},
		wire.ModeAdded{Head: 4, Mode: 5},
	)

	if !r.removeHead(1) {
		t.Fatal("removeHead returned false for known head")
	}
	if len(r.heads) != 1 || len(r.modes) != 1 {
		t.Errorf("cascade incomplete: %d heads, %d modes", len(r.heads), len(r.modes))
	}

	// Late fragments for removed objects are dropped and counted, not fatal.
	before := r.dropped.Load()
	feed(r,
		wire.ModeSize{Mode: 2, Width: 1, Height: 1},
		wire.HeadScale{Head: 1, Scale: 2.0},
	)
	if got := r.dropped.Load() - before; got != 2 {
		t.Errorf("expected 2 dropped fragments, got %d", got)
	}

	monitors := r.finalize()
	if len(monitors) != 1 || monitors[0].ID != 4 {
		t.Errorf("unexpected survivors: %+v", monitors)
	}
}

func TestRegistryForeignCurrentModeDropped(t *testing.T) {
	r := newRegistry(testLogger())
	feed(r,
		wire.HeadAdded{Head: 1},
		wire.HeadAdded{Head: 2},
		wire.ModeAdded{Head: 2, Mode: 9},
		// Mode 9 belongs to head 2, not head 1.
		wire.HeadCurrentMode{Head: 1, Mode: 9},
	)
	if r.dropped.Load() != 1 {
		t.Errorf("expected 1 dropped fragment, got %d", r.dropped.Load())
	}
	if r.heads[1].currentMode != 0 {
		t.Error("foreign current mode was accepted")
	}
}

func TestRegistryModeFinished(t *testing.T) {
	r := newRegistry(testLogger())
	feed(r,
		wire.HeadAdded{Head: 1},
		wire.ModeAdded{Head: 1, Mode: 2},
		wire.ModeAdded{Head: 1, Mode: 3},
		wire.HeadEnabled{Head: 1, Enabled: true},
		wire.HeadCurrentMode{Head: 1, Mode: 2},
		wire.ModeFinished{Mode: 2},
	)
	mon := r.finalize()[0]
	if len(mon.Modes) != 1 || mon.Modes[0].ID != 3 {
		t.Errorf("unexpected modes after removal: %+v", mon.Modes)
	}
	if mon.CurrentMode != 0 {
		t.Errorf("current mode should be cleared when its mode goes away, got %d", mon.CurrentMode)
	}
}

func TestRegistryFinalizeIsRepeatable(t *testing.T) {
	r := newRegistry(testLogger())
	feed(r,
		wire.HeadAdded{Head: 1},
		wire.HeadName{Head: 1, Name: "DP-1"},
	)
	first := r.finalize()
	second := r.finalize()
	if len(first) != len(second) || first[0].Name != second[0].Name {
		t.Error("finalize is not stable across calls without new fragments")
	}
}
