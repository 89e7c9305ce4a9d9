package main

import (
	"github.com/spf13/cobra"

	"github.com/bnema/wlmonitors/internal/config"
	"github.com/bnema/wlmonitors/internal/logger"
)

var (
	// Version is set during build
	Version = "0.1.0-dev"

	configPath string

	rootCmd = &cobra.Command{
		Use:   "wlmon",
		Short: "wlmon - Wayland output management",
		Long: `wlmon inspects and reconfigures display outputs on wlroots compositors
(Sway, Hyprland, Niri, ...) through the wlr-output-management protocol.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				config.SetConfigPath(configPath)
			}
			if err := config.Init(); err != nil {
				return err
			}
			if level := config.Get().Logging.LogLevel; level != "" {
				logger.SetLevel(level)
			}
			return nil
		},
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(modeCmd)
	rootCmd.AddCommand(scaleCmd)
	rootCmd.AddCommand(transformCmd)
}
