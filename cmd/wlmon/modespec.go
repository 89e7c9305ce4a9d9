package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bnema/wlmonitors"
)

// parseModeSpec parses "1920x1080@60" (a trailing "Hz" is accepted) into a
// mode triple.
func parseModeSpec(s string) (wlmonitors.ModeSpec, error) {
	var spec wlmonitors.ModeSpec

	res, refresh, ok := strings.Cut(s, "@")
	if !ok {
		return spec, fmt.Errorf("invalid mode %q: expected WIDTHxHEIGHT@REFRESH", s)
	}
	w, h, ok := strings.Cut(res, "x")
	if !ok {
		return spec, fmt.Errorf("invalid mode %q: expected WIDTHxHEIGHT@REFRESH", s)
	}

	width, err := strconv.ParseInt(w, 10, 32)
	if err != nil || width <= 0 {
		return spec, fmt.Errorf("invalid mode width %q", w)
	}
	height, err := strconv.ParseInt(h, 10, 32)
	if err != nil || height <= 0 {
		return spec, fmt.Errorf("invalid mode height %q", h)
	}
	refresh = strings.TrimSuffix(strings.ToLower(refresh), "hz")
	hz, err := strconv.ParseInt(refresh, 10, 32)
	if err != nil || hz <= 0 {
		return spec, fmt.Errorf("invalid refresh rate %q", refresh)
	}

	spec.Width = int32(width)
	spec.Height = int32(height)
	spec.RefreshHz = int32(hz)
	return spec, nil
}
