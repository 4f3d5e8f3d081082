package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramonehamilton/hooplog/internal/storage"
)

func (a *app) migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.withMigrations(func(mm *storage.MigrationManager) error {
					if err := mm.Up(); err != nil {
						return err
					}
					return a.printVersion(cmd, mm)
				})
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back migrations, all of them unless steps is given",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withMigrations(func(mm *storage.MigrationManager) error {
					if len(args) == 0 {
						if err := mm.Down(); err != nil {
							return err
						}
						return a.printVersion(cmd, mm)
					}
					steps, err := strconv.Atoi(args[0])
					if err != nil || steps <= 0 {
						return fmt.Errorf("invalid steps %q", args[0])
					}
					if err := mm.Steps(-steps); err != nil {
						return err
					}
					return a.printVersion(cmd, mm)
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.withMigrations(func(mm *storage.MigrationManager) error {
					return a.printVersion(cmd, mm)
				})
			},
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Set the schema version without migrating, to recover a dirty database",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				version, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid version %q", args[0])
				}
				return a.withMigrations(func(mm *storage.MigrationManager) error {
					if err := mm.Force(version); err != nil {
						return err
					}
					return a.printVersion(cmd, mm)
				})
			},
		},
	)
	return cmd
}

func (a *app) withMigrations(fn func(*storage.MigrationManager) error) error {
	svc, err := a.openStorage(false)
	if err != nil {
		return err
	}
	defer a.closeQuietly(svc)

	mm, err := storage.NewMigrationManager(svc.DB().Conn())
	if err != nil {
		return err
	}
	defer func() {
		if err := mm.Close(); err != nil {
			a.logger.Warn("failed to close migration source", zap.Error(err))
		}
	}()
	return fn(mm)
}

func (a *app) printVersion(cmd *cobra.Command, mm *storage.MigrationManager) error {
	version, dirty, err := mm.Version()
	if err != nil {
		return err
	}
	if dirty {
		fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty)\n", version)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
	return nil
}
