package main

import (
	"testing"

	"github.com/bnema/wlmonitors"
)

func TestParseModeSpec(t *testing.T) {
	tests := []struct {
		input   string
		want    wlmonitors.ModeSpec
		wantErr bool
	}{
		{"1920x1080@60", wlmonitors.ModeSpec{Width: 1920, Height: 1080, RefreshHz: 60}, false},
		{"2560x1440@144Hz", wlmonitors.ModeSpec{Width: 2560, Height: 1440, RefreshHz: 144}, false},
		{"3840x2160@120HZ", wlmonitors.ModeSpec{Width: 3840, Height: 2160, RefreshHz: 120}, false},
		{"1920x1080", wlmonitors.ModeSpec{}, true},
		{"1920@60", wlmonitors.ModeSpec{}, true},
		{"x1080@60", wlmonitors.ModeSpec{}, true},
		{"1920x1080@", wlmonitors.ModeSpec{}, true},
		{"1920x1080@sixty", wlmonitors.ModeSpec{}, true},
		{"-1920x1080@60", wlmonitors.ModeSpec{}, true},
		{"1920x1080@0", wlmonitors.ModeSpec{}, true},
		{"", wlmonitors.ModeSpec{}, true},
	}
	for _, tt := range tests {
		got, err := parseModeSpec(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseModeSpec(%q) accepted invalid input", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseModeSpec(%q): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseModeSpec(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}
