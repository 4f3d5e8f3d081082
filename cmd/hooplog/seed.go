package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/hooplog/internal/seed"
)

func (a *app) seedCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "seed <fixture.yaml>",
		Short: "Load players, events, sheets and goals from a YAML fixture",
		Long: `Registers the fixture's players and stores their journal. Players whose
email is already registered are reused. --reset, or "reset: true" in the
fixture, empties every table first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			ctx := cmd.Context()

			svc, err := a.openStorage(true)
			if err != nil {
				return err
			}
			defer a.closeQuietly(svc)

			if reset {
				if err := svc.ClearAll(ctx); err != nil {
					return err
				}
			}

			loader := seed.NewLoader(svc, a.authenticator(svc), time.Local, a.logger.Named("seed"))
			result, err := loader.LoadFile(ctx, args[0])
			if err != nil {
				return err
			}

			a.logger.Debug("seed finished", since(start))
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d players, %d events, %d sheets, %d goals\n",
				result.Players, result.Events, result.Sheets, result.Goals)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "clear every table before loading")
	return cmd
}
