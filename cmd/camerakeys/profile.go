package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/camerakeys/internal/config"
	"github.com/dshills/camerakeys/internal/config/loader"
	"github.com/dshills/camerakeys/internal/config/profile"
)

var errNoProfileDB = errors.New("no profile database (set --profile-db or CAMERAKEYS_PROFILE_DB)")

func profileCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage settings profiles in the profile database",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List profiles",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withProfileDB(cmd, opts, func(db *profile.DB) error {
					names, err := db.Names(cmd.Context())
					if err != nil {
						return err
					}
					for _, name := range names {
						marker := " "
						if name == opts.Profile {
							marker = "*"
						}
						fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, name)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "import FILE",
			Short: "Copy a settings file into the selected profile",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				values, err := loader.NewTOMLLoader(args[0]).Load()
				if err != nil {
					return err
				}
				store := config.NewStore(config.WithValues(values))
				for _, p := range store.Problems() {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", p)
				}
				return withProfileDB(cmd, opts, func(db *profile.DB) error {
					return db.Put(cmd.Context(), opts.Profile, values)
				})
			},
		},
		&cobra.Command{
			Use:   "export FILE",
			Short: "Write the selected profile to a settings file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withProfileDB(cmd, opts, func(db *profile.DB) error {
					values, err := db.Get(cmd.Context(), opts.Profile)
					if err != nil {
						return err
					}
					if values == nil {
						return fmt.Errorf("%w: %s", profile.ErrNotFound, opts.Profile)
					}
					return loader.NewTOMLLoader(args[0]).Save(values)
				})
			},
		},
		&cobra.Command{
			Use:   "delete NAME",
			Short: "Delete a profile",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withProfileDB(cmd, opts, func(db *profile.DB) error {
					return db.Delete(cmd.Context(), args[0])
				})
			},
		},
	)
	return cmd
}

func withProfileDB(cmd *cobra.Command, opts *options, fn func(*profile.DB) error) error {
	if opts.ProfileDB == "" {
		return errNoProfileDB
	}
	db, err := profile.Open(cmd.Context(), opts.ProfileDB)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}
