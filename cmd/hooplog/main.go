// Command hooplog runs the basketball journal: its HTTP API, maintenance
// tasks and terminal reports.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramonehamilton/hooplog/internal/auth"
	"github.com/ramonehamilton/hooplog/internal/charts"
	"github.com/ramonehamilton/hooplog/internal/config"
	"github.com/ramonehamilton/hooplog/internal/gui"
	"github.com/ramonehamilton/hooplog/internal/logging"
	"github.com/ramonehamilton/hooplog/internal/storage"
	"github.com/ramonehamilton/hooplog/internal/version"
)

// passphraseEnv holds the backup encryption passphrase.
const passphraseEnv = "HOOPLOG_BACKUP_PASSPHRASE"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries what every subcommand needs once the root has run.
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "hooplog",
		Short: "Basketball performance journal",
		Long: `hooplog keeps a player's matches, training sessions, per-game stat
sheets and goals in a local SQLite database.

Run "hooplog serve" to start the HTTP API.`,
		Version:           version.String(),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ~/.hooplog/config.toml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		a.serveCmd(),
		a.migrateCmd(),
		a.seedCmd(),
		a.summaryCmd(),
		a.chartCmd(),
		a.backupCmd(),
		a.exportCmd(),
		a.serviceCmd(),
		versionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadFrom(a.configPath)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level := a.cfg.Log.Level
	if a.verbose {
		level = "debug"
	}
	a.logger, err = logging.New(level, a.cfg.Log.Development)
	return err
}

// openStorage opens the configured database, creating its directory.
func (a *app) openStorage(migrate bool) (*storage.Service, error) {
	path, err := a.cfg.DatabasePath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dbConfig := storage.DefaultConfig(path)
	dbConfig.JournalMode = a.cfg.Database.JournalMode
	dbConfig.BusyTimeout = a.cfg.GetBusyTimeout()
	dbConfig.AutoMigrate = migrate
	dbConfig.Logger = a.logger.Named("storage")

	db, err := storage.Open(dbConfig)
	if err != nil {
		return nil, err
	}
	return storage.NewService(db, nil), nil
}

func (a *app) authenticator(svc *storage.Service) *auth.Authenticator {
	limiter := auth.NewLoginLimiter(a.cfg.API.LoginsPerMinute, a.cfg.API.LoginBurst)
	return auth.NewAuthenticator(svc.Players(), limiter, a.logger.Named("auth"))
}

func (a *app) services(svc *storage.Service) *gui.Services {
	return &gui.Services{
		Storage: svc,
		Auth:    a.authenticator(svc),
		Logger:  a.logger.Named("gui"),
	}
}

var errUnknownPlayer = errors.New("no player registered with that email")

// playerServices scopes services to the player registered with email.
func (a *app) playerServices(ctx context.Context, svc *storage.Service, email string) (*gui.Services, error) {
	if email == "" {
		return nil, errors.New("--player is required")
	}
	player, err := svc.Players().GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if player == nil {
		return nil, fmt.Errorf("%w: %s", errUnknownPlayer, email)
	}
	return a.services(svc).WithSession(auth.NewSession(player)), nil
}

func (a *app) chartConfig() charts.ChartConfig {
	config := charts.DefaultChartConfig()
	config.Theme = a.cfg.Charts.Theme
	config.Width = a.cfg.Charts.Width
	config.Height = a.cfg.Charts.Height
	return config
}

func (a *app) backupManager(db *storage.DB) (*storage.BackupManager, error) {
	var encryption *storage.EncryptionConfig
	if a.cfg.Backup.Encrypt {
		passphrase := os.Getenv(passphraseEnv)
		if passphrase == "" {
			return nil, fmt.Errorf("backup encryption is enabled but %s is not set", passphraseEnv)
		}
		encryption = storage.DefaultEncryptionConfig(passphrase)
	}
	return storage.NewBackupManager(db, a.cfg.Backup.Dir, encryption), nil
}

// closeQuietly logs a failed close instead of masking the command's error.
func (a *app) closeQuietly(svc *storage.Service) {
	if err := svc.Close(); err != nil {
		a.logger.Warn("failed to close database", zap.Error(err))
	}
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func since(start time.Time) zap.Field {
	return zap.Duration("took", time.Since(start).Round(time.Millisecond))
}
