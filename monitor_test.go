package wlmonitors

import "testing"

func TestTransformRoundTrip(t *testing.T) {
	for tr := TransformNormal; tr <= TransformFlipped270; tr++ {
		parsed, err := ParseTransform(tr.String())
		if err != nil {
			t.Fatalf("ParseTransform(%q): %v", tr.String(), err)
		}
		if parsed != tr {
			t.Errorf("round trip %v -> %q -> %v", tr, tr.String(), parsed)
		}
	}
}

func TestParseTransformInvalid(t *testing.T) {
	for _, s := range []string{"", "45", "flipped-45", "unknown", "NORMAL"} {
		if _, err := ParseTransform(s); err == nil {
			t.Errorf("ParseTransform(%q) accepted invalid input", s)
		}
	}
}

func TestTransformUnknownString(t *testing.T) {
	if got := Transform(42).String(); got != "unknown" {
		t.Errorf("Transform(42).String() = %q", got)
	}
}

func TestMonitorModeLookup(t *testing.T) {
	mon := Monitor{
		Modes: []Mode{
			{ID: 1, Width: 1920, Height: 1080, RefreshHz: 60},
			{ID: 2, Width: 2560, Height: 1440, RefreshHz: 144, Preferred: true},
		},
	}

	if m, ok := mon.Mode(2); !ok || m.Width != 2560 {
		t.Errorf("Mode(2) = %+v, %v", m, ok)
	}
	if _, ok := mon.Mode(3); ok {
		t.Error("Mode(3) found a mode that does not exist")
	}
	if m, ok := mon.PreferredMode(); !ok || m.ID != 2 {
		t.Errorf("PreferredMode = %+v, %v", m, ok)
	}

	none := Monitor{}
	if _, ok := none.PreferredMode(); ok {
		t.Error("PreferredMode on empty monitor reported success")
	}
}

func TestModeSpecMatches(t *testing.T) {
	mode := Mode{ID: 1, Width: 1920, Height: 1080, RefreshHz: 60}
	tests := []struct {
		spec ModeSpec
		want bool
	}{
		{ModeSpec{1920, 1080, 60}, true},
		{ModeSpec{1920, 1080, 59}, false},
		{ModeSpec{1920, 1200, 60}, false},
		{ModeSpec{1080, 1920, 60}, false},
	}
	for _, tt := range tests {
		if got := tt.spec.matches(mode); got != tt.want {
			t.Errorf("%+v matches = %v, want %v", tt.spec, got, tt.want)
		}
	}
}
