package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/wlmonitors"
)

// MonitorList is the JSON output shape of the list command
type MonitorList struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// MonitorInfo describes one monitor in JSON output
type MonitorInfo struct {
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	Make         string     `json:"make,omitempty"`
	Model        string     `json:"model,omitempty"`
	SerialNumber string     `json:"serial_number,omitempty"`
	Enabled      bool       `json:"enabled"`
	Width        int32      `json:"width"`
	Height       int32      `json:"height"`
	X            int32      `json:"x"`
	Y            int32      `json:"y"`
	Scale        float64    `json:"scale"`
	Transform    string     `json:"transform"`
	Modes        []ModeInfo `json:"modes"`
}

// ModeInfo describes one advertised mode in JSON output
type ModeInfo struct {
	Width     int32 `json:"width"`
	Height    int32 `json:"height"`
	RefreshHz int32 `json:"refresh_hz"`
	Preferred bool  `json:"preferred,omitempty"`
	Current   bool  `json:"current,omitempty"`
}

var jsonOutput bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show connected monitors",
	Long:  `Display the connected monitors, their modes and current configuration.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := dial()
	if err != nil {
		return err
	}
	defer s.close()

	monitors, err := s.waitInitial()
	if err != nil {
		return err
	}

	if jsonOutput {
		out := MonitorList{Monitors: make([]MonitorInfo, len(monitors))}
		for i, mon := range monitors {
			out.Monitors[i] = toMonitorInfo(mon)
		}
		return json.NewEncoder(os.Stdout).Encode(out)
	}

	if len(monitors) == 0 {
		fmt.Println("No monitors detected")
		return nil
	}

	fmt.Printf("Detected %d monitor(s):\n\n", len(monitors))
	for _, mon := range monitors {
		printMonitor(mon)
	}
	return nil
}

func toMonitorInfo(mon wlmonitors.Monitor) MonitorInfo {
	info := MonitorInfo{
		Name:         mon.Name,
		Description:  mon.Description,
		Make:         mon.Make,
		Model:        mon.Model,
		SerialNumber: mon.SerialNumber,
		Enabled:      mon.Enabled,
		Width:        mon.Resolution.Width,
		Height:       mon.Resolution.Height,
		X:            mon.Position.X,
		Y:            mon.Position.Y,
		Scale:        mon.Scale,
		Transform:    mon.Transform.String(),
		Modes:        make([]ModeInfo, len(mon.Modes)),
	}
	for i, m := range mon.Modes {
		info.Modes[i] = ModeInfo{
			Width:     m.Width,
			Height:    m.Height,
			RefreshHz: m.RefreshHz,
			Preferred: m.Preferred,
			Current:   m.Current,
		}
	}
	return info
}

func printMonitor(mon wlmonitors.Monitor) {
	fmt.Printf("%s:\n", mon.Name)
	if mon.Description != "" {
		fmt.Printf("  Description: %s\n", mon.Description)
	}
	if !mon.Enabled {
		fmt.Printf("  Status:      disabled\n")
	} else {
		fmt.Printf("  Status:      enabled\n")
		fmt.Printf("  Resolution:  %dx%d\n", mon.Resolution.Width, mon.Resolution.Height)
		fmt.Printf("  Position:    (%d, %d)\n", mon.Position.X, mon.Position.Y)
		if mon.Scale != 1.0 {
			fmt.Printf("  Scale:       %.2fx\n", mon.Scale)
		}
		if mon.Transform != wlmonitors.TransformNormal {
			fmt.Printf("  Transform:   %s\n", mon.Transform)
		}
	}
	if len(mon.Modes) > 0 {
		fmt.Printf("  Modes:\n")
		for _, m := range mon.Modes {
			marker := ""
			if m.Current {
				marker += " (current)"
			}
			if m.Preferred {
				marker += " (preferred)"
			}
			fmt.Printf("    %dx%d@%dHz%s\n", m.Width, m.Height, m.RefreshHz, marker)
		}
	}
	fmt.Println()
}
