package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bnema/wlmonitors"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle NAME [MODE]",
	Short: "Enable or disable a monitor",
	Long: `Disable an enabled monitor, or enable a disabled one. When enabling, the
optional MODE (e.g. 1920x1080@60) pins the mode; otherwise the last used
mode is restored, falling back to the preferred mode.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		action := wlmonitors.ToggleAction{Name: args[0]}
		if len(args) == 2 {
			spec, err := parseModeSpec(args[1])
			if err != nil {
				return err
			}
			action.Mode = &spec
		}
		return apply(action)
	},
}

var modeCmd = &cobra.Command{
	Use:   "mode NAME MODE",
	Short: "Switch a monitor's mode",
	Long:  `Switch an enabled monitor to the given mode, e.g. "wlmon mode DP-1 2560x1440@144".`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := parseModeSpec(args[1])
		if err != nil {
			return err
		}
		return apply(wlmonitors.SwitchModeAction{Name: args[0], Mode: spec})
	},
}

var scaleCmd = &cobra.Command{
	Use:   "scale NAME FACTOR",
	Short: "Set a monitor's scale factor",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		factor, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid scale %q", args[1])
		}
		return apply(wlmonitors.SetScaleAction{Name: args[0], Scale: factor})
	},
}

var transformCmd = &cobra.Command{
	Use:   "transform NAME TRANSFORM",
	Short: "Set a monitor's transform",
	Long:  `Set the monitor transform: normal, 90, 180, 270, flipped, flipped-90, flipped-180 or flipped-270.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		transform, err := wlmonitors.ParseTransform(args[1])
		if err != nil {
			return err
		}
		return apply(wlmonitors.SetTransformAction{Name: args[0], Transform: transform})
	},
}

// apply runs one action end to end: connect, wait for the initial snapshot,
// submit, report the outcome.
func apply(action wlmonitors.Action) error {
	s, err := dial()
	if err != nil {
		return err
	}
	defer s.close()

	if _, err := s.waitInitial(); err != nil {
		return err
	}

	mon, err := s.runAction(action)
	if err != nil {
		return err
	}
	fmt.Println(describeMonitor(mon))
	return nil
}
