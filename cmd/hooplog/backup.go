package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramonehamilton/hooplog/internal/storage"
)

func (a *app) backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create, list, verify, restore and prune database backups",
		Long: `Backups are consistent copies of the database taken with VACUUM INTO.
With [backup] encrypt = true they are sealed with AES-GCM under a key derived
from $` + passphraseEnv + `.`,
	}

	var keep int
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest backups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withBackups(func(_ *storage.DB, bm *storage.BackupManager) error {
				removed, err := bm.Prune(keep)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d backups\n", removed)
				return nil
			})
		},
	}
	prune.Flags().IntVar(&keep, "keep", 7, "number of backups to keep")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "create [name]",
			Short: "Back up the database now",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				name := ""
				if len(args) == 1 {
					name = args[0]
				}
				return a.withBackups(func(_ *storage.DB, bm *storage.BackupManager) error {
					path, err := bm.Backup(cmd.Context(), name)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), path)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List backups, newest first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.withBackups(func(_ *storage.DB, bm *storage.BackupManager) error {
					backups, err := bm.ListBackups()
					if err != nil {
						return err
					}
					if len(backups) == 0 {
						fmt.Fprintf(cmd.OutOrStdout(), "no backups in %s\n", bm.Dir())
						return nil
					}
					t := table.New().
						Border(lipgloss.NormalBorder()).
						Headers("Name", "Size", "Taken", "Encrypted")
					for _, b := range backups {
						t.Row(b.Name, humanize.Bytes(uint64(b.Size)), humanize.Time(b.ModTime), strconv.FormatBool(b.Encrypted))
					}
					fmt.Fprintln(cmd.OutOrStdout(), t.Render())
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "verify <backup>",
			Short: "Check that a backup opens and passes an integrity check",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withBackups(func(_ *storage.DB, bm *storage.BackupManager) error {
					if err := bm.VerifyBackup(cmd.Context(), args[0]); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", args[0])
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "restore <backup>",
			Short: "Replace the database with a backup",
			Long: `Replaces the database file with the backup. The current file is kept
beside it with an .old.<timestamp> suffix. Stop "hooplog serve" first.`,
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withBackups(func(db *storage.DB, bm *storage.BackupManager) error {
					path := db.Path()
					if err := db.Close(); err != nil {
						return fmt.Errorf("failed to close database before restore: %w", err)
					}
					if err := bm.Restore(cmd.Context(), args[0], path); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "restored %s from %s\n", path, args[0])
					return nil
				})
			},
		},
		prune,
	)
	return cmd
}

func (a *app) withBackups(fn func(*storage.DB, *storage.BackupManager) error) error {
	svc, err := a.openStorage(true)
	if err != nil {
		return err
	}
	defer a.closeQuietly(svc)

	bm, err := a.backupManager(svc.DB())
	if err != nil {
		return err
	}
	if err := fn(svc.DB(), bm); err != nil {
		return err
	}
	a.logger.Debug("backup command finished", zap.String("dir", bm.Dir()))
	return nil
}
