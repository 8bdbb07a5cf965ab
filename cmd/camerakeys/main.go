// Package main is the entry point for the Camera Keys reference client.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := loadOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	rootCmd := rootCmd(opts)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func rootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "camerakeys",
		Short: "Camera Keys in a simulated game client",
		Long: `Camera Keys drives camera zoom and compass facing from hotkeys and
locks the chat box until Enter is pressed.

Running camerakeys with no subcommand starts a terminal stand-in for the
game client with the plugin installed. Keys the terminal cannot send
(mouse clicks, widget toggles) are mapped to function keys.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClient(cmd.Context(), opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", opts.ConfigPath, "settings file (TOML)")
	flags.StringVar(&opts.ProfileDB, "profile-db", opts.ProfileDB, "profile database; overrides --config when set")
	flags.StringVarP(&opts.Profile, "profile", "p", opts.Profile, "profile name in the profile database")
	flags.StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&opts.LogFile, "log-file", opts.LogFile, "log file; logging is off when empty")

	local := cmd.Flags()
	local.DurationVar(&opts.Tick, "tick", opts.Tick, "client tick interval")
	local.DurationVar(&opts.HoldTimeout, "hold-timeout", opts.HoldTimeout, "time after the last key repeat before a key counts as released")
	local.StringVar(&opts.MetricsOut, "metrics-out", opts.MetricsOut, "write plugin metrics to this file on exit")

	cmd.PersistentPreRunE = func(*cobra.Command, []string) error {
		return opts.validate()
	}

	cmd.AddCommand(
		settingsCmd(opts),
		profileCmd(opts),
		versionCmd(),
	)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "camerakeys %s\n", version)
			fmt.Fprintf(out, "Commit: %s\n", commit)
			fmt.Fprintf(out, "Built: %s\n", date)
		},
	}
}
