package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/hooplog/internal/export"
	"github.com/ramonehamilton/hooplog/internal/gui"
	"github.com/ramonehamilton/hooplog/internal/version"
)

func (a *app) exportCmd() *cobra.Command {
	var (
		email     string
		format    string
		output    string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:       "export <events|sheets|goals>",
		Short:     "Export a player's events, sheets or goals as CSV or JSON",
		Long:      `Writes to --output, or to stdout when --output is "-".`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(export.KindEvents), string(export.KindSheets), string(export.KindGoals)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := export.ParseKind(args[0])
			if err != nil {
				return err
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			svc, err := a.openStorage(true)
			if err != nil {
				return err
			}
			defer a.closeQuietly(svc)

			services, err := a.playerServices(ctx, svc, email)
			if err != nil {
				return err
			}
			facade := gui.NewExportFacade(services)

			if output == "-" {
				return facade.Export(ctx, cmd.OutOrStdout(), kind, f)
			}
			path, err := facade.ExportFile(ctx, output, overwrite, kind, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "exported %s to %s\n", kind, path)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "player", "", "email of the player to export")
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", `output file, "-" for stdout (default hooplog_<kind>_<time>.<format>)`)
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace an existing output file")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the hooplog version",
		Args:  cobra.NoArgs,
		// Needs no config or database.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = io.WriteString(cmd.OutOrStdout(), version.String()+"\n")
		},
	}
}
