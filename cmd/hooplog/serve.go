package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ramonehamilton/hooplog/internal/api"
	"github.com/ramonehamilton/hooplog/internal/auth"
	"github.com/ramonehamilton/hooplog/internal/events"
	"github.com/ramonehamilton/hooplog/internal/metrics"
	"github.com/ramonehamilton/hooplog/internal/storage"
)

func (a *app) serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serves the JSON API, chart pages, live change stream and metrics.

Scheduled backups and the external change watcher run alongside the server
when enabled in the config. Stops on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.API.Port = port
			}
			return a.runServe(cmd)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "API server port (overrides the config)")
	return cmd
}

func (a *app) runServe(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.serve(ctx)
}

// serve runs the API and its background jobs until ctx ends.
func (a *app) serve(ctx context.Context) error {
	svc, err := a.openStorage(true)
	if err != nil {
		return err
	}
	defer a.closeQuietly(svc)

	recorder := metrics.NewRecorder()
	dispatcher := svc.Dispatcher()
	dispatcher.Register(recorder.Observer())
	dispatcher.Register(events.NewLoggingObserver(a.logger.Named("changes")))

	server := api.NewServer(&api.Config{
		Port:           a.cfg.API.Port,
		AllowedOrigins: a.cfg.API.AllowedOrigins,
		Location:       time.Local,
		Charts:         a.chartConfig(),
	}, api.Deps{
		Services: a.services(svc),
		Sessions: auth.NewSessionStore(a.cfg.GetSessionTTL()),
		Metrics:  recorder,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Run(gctx) })

	if a.cfg.Backup.Enabled {
		manager, err := a.backupManager(svc.DB())
		if err != nil {
			return err
		}
		scheduler := storage.NewBackupScheduler(manager, &storage.SchedulerConfig{
			Interval: a.cfg.GetBackupInterval(),
			Keep:     a.cfg.Backup.Keep,
		})
		if err := recorder.RegisterGauge("backup", "completed", "Backups taken since start.", func() float64 {
			return float64(scheduler.Status().BackupCount)
		}); err != nil {
			a.logger.Warn("failed to register backup gauge", zap.Error(err))
		}
		g.Go(func() error { return ignoreCanceled(scheduler.Run(gctx)) })
	}

	if a.cfg.Watch.Enabled {
		watcher, err := storage.NewChangeWatcher(svc.DB(), dispatcher, a.cfg.GetWatchDebounce())
		if err != nil {
			return err
		}
		g.Go(func() error { return watcher.Run(gctx) })
	}

	a.logger.Info("hooplog serving",
		zap.Int("port", a.cfg.API.Port),
		zap.String("database", svc.DB().Path()),
		zap.Bool("backups", a.cfg.Backup.Enabled),
		zap.Bool("watch", a.cfg.Watch.Enabled))

	if err := g.Wait(); err != nil {
		return err
	}
	a.logger.Info("hooplog stopped")
	return nil
}
