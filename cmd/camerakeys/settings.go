package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/camerakeys/internal/config"
)

func settingsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change plugin settings",
	}
	cmd.AddCommand(
		settingsListCmd(opts),
		settingsSetCmd(opts),
		settingsUnsetCmd(opts),
	)
	return cmd
}

func settingsListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every setting with its current value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, logFile, err := opts.openLogger()
			if err != nil {
				return err
			}
			defer logFile.Close()

			store, err := openStore(cmd.Context(), opts, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			for _, p := range store.Problems() {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", p)
			}
			return printSettings(cmd.OutOrStdout(), store.Store)
		},
	}
}

func printSettings(w io.Writer, store *config.Store) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tVALUE\tTYPE\tDESCRIPTION")
	set := store.Values()
	for _, d := range config.Definitions() {
		value, ok := set[d.Key]
		if !ok {
			value = d.Default
		}
		if value == "" {
			value = "(unset)"
		}
		if !ok {
			value += " (default)"
		}
		kind := d.Kind.String()
		if len(d.Choices) > 0 {
			kind = strings.Join(d.Choices, "|")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Key, value, kind, d.Description)
	}
	return tw.Flush()
}

func settingsSetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Change a setting",
		Example: `  camerakeys settings set camerakeys.activationType Toggle
  camerakeys settings set camerakeys.northKey "shift+n"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context(), opts, nil)
			if err != nil {
				return err
			}
			defer store.Close()
			return store.Set(args[0], args[1], "cli")
		},
	}
}

func settingsUnsetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Return a setting to its default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context(), opts, nil)
			if err != nil {
				return err
			}
			defer store.Close()
			return store.Unset(args[0], "cli")
		},
	}
}
