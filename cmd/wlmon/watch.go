package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/wlmonitors"
	"github.com/bnema/wlmonitors/internal/ui"
)

var plainOutput bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch monitor changes live",
	Long:  `Follow monitor connect/disconnect and configuration changes as they happen.`,
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&plainOutput, "plain", false, "Line-based output instead of the interactive view")
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := dial()
	if err != nil {
		return err
	}
	defer s.close()

	if plainOutput {
		return watchPlain(s)
	}

	model := ui.NewWatchModel(s.events)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// watchPlain prints one line per event until the connection ends or the
// process is interrupted.
func watchPlain(s *session) error {
	for ev := range s.events {
		switch e := ev.(type) {
		case wlmonitors.InitialStateEvent:
			fmt.Printf("connected: %d monitor(s)\n", len(e.Monitors))
			for _, mon := range e.Monitors {
				fmt.Printf("  %s\n", describeMonitor(mon))
			}
		case wlmonitors.ChangedEvent:
			fmt.Printf("changed: %s\n", describeMonitor(e.Monitor))
		case wlmonitors.RemovedEvent:
			fmt.Printf("removed: %s\n", e.Name)
		case wlmonitors.ActionFailedEvent:
			fmt.Printf("action %s failed: %s\n", e.Action, e.Reason)
		}
	}
	return nil
}

func describeMonitor(mon wlmonitors.Monitor) string {
	if !mon.Enabled {
		return fmt.Sprintf("%s disabled", mon.Name)
	}
	return fmt.Sprintf("%s %dx%d at %d,%d scale %.2f transform %s",
		mon.Name,
		mon.Resolution.Width, mon.Resolution.Height,
		mon.Position.X, mon.Position.Y,
		mon.Scale, mon.Transform)
}
