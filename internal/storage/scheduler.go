package storage

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SchedulerConfig holds configuration for the backup scheduler.
type SchedulerConfig struct {
	// Interval is how often to run backups.
	Interval time.Duration

	// Keep is how many backups to retain after each run. 0 keeps all.
	Keep int

	// StartImmediately runs a backup as soon as Run starts.
	StartImmediately bool

	// OnBackupComplete is called after each backup attempt.
	OnBackupComplete func(backupPath string, err error)
}

// DefaultSchedulerConfig returns a scheduler config with daily backups.
func DefaultSchedulerConfig() *SchedulerConfig {
	return &SchedulerConfig{
		Interval: 24 * time.Hour,
		Keep:     7,
	}
}

// BackupScheduler runs periodic backups until its context ends.
type BackupScheduler struct {
	manager *BackupManager
	config  *SchedulerConfig
	logger  *zap.Logger

	mu           sync.RWMutex
	lastBackup   time.Time
	lastPath     string
	lastError    error
	backupCount  int
	failureCount int
}

// NewBackupScheduler creates a new backup scheduler.
func NewBackupScheduler(manager *BackupManager, config *SchedulerConfig) *BackupScheduler {
	if config == nil {
		config = DefaultSchedulerConfig()
	}
	return &BackupScheduler{
		manager: manager,
		config:  config,
		logger:  manager.logger.Named("scheduler"),
	}
}

// Run blocks, taking a backup every interval, until ctx is cancelled.
// It always returns ctx.Err().
func (s *BackupScheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	if s.config.StartImmediately {
		s.RunOnce(ctx)
	}

	for {
		select {
		case <-ticker.C:
			s.RunOnce(ctx)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// RunOnce takes one backup and prunes old ones.
func (s *BackupScheduler) RunOnce(ctx context.Context) {
	path, err := s.manager.Backup(ctx, "")
	if err == nil && s.config.Keep > 0 {
		if removed, pruneErr := s.manager.Prune(s.config.Keep); pruneErr != nil {
			s.logger.Warn("failed to prune backups", zap.Error(pruneErr))
		} else if removed > 0 {
			s.logger.Debug("pruned backups", zap.Int("removed", removed))
		}
	}

	s.mu.Lock()
	s.lastBackup = time.Now()
	s.lastPath = path
	s.lastError = err
	if err != nil {
		s.failureCount++
	} else {
		s.backupCount++
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("scheduled backup failed", zap.Error(err))
	}
	if s.config.OnBackupComplete != nil {
		s.config.OnBackupComplete(path, err)
	}
}

// SchedulerStatus contains information about the scheduler state.
type SchedulerStatus struct {
	Interval     time.Duration
	LastBackup   time.Time
	LastPath     string
	NextBackup   time.Time
	BackupCount  int
	FailureCount int
	LastError    error
}

// Status returns the current scheduler status.
func (s *BackupScheduler) Status() SchedulerStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var next time.Time
	if !s.lastBackup.IsZero() {
		next = s.lastBackup.Add(s.config.Interval)
	}
	return SchedulerStatus{
		Interval:     s.config.Interval,
		LastBackup:   s.lastBackup,
		LastPath:     s.lastPath,
		NextBackup:   next,
		BackupCount:  s.backupCount,
		FailureCount: s.failureCount,
		LastError:    s.lastError,
	}
}
