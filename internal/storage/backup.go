package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	backupExt          = ".db"
	encryptedBackupExt = ".db.enc"
)

// BackupManager copies the live database to a backup directory and restores
// from those copies.
type BackupManager struct {
	db         *DB
	dir        string
	encryption *EncryptionConfig
	logger     *zap.Logger
}

// NewBackupManager creates a backup manager for db. An empty dir selects a
// "backups" directory next to the database file. A non-nil encryption config
// encrypts every backup.
func NewBackupManager(db *DB, dir string, encryption *EncryptionConfig) *BackupManager {
	if dir == "" {
		dir = filepath.Join(filepath.Dir(db.Path()), "backups")
	}
	return &BackupManager{
		db:         db,
		dir:        dir,
		encryption: encryption,
		logger:     db.logger.Named("backup"),
	}
}

// Dir returns the backup directory.
func (bm *BackupManager) Dir() string {
	return bm.dir
}

// Backup writes a consistent copy of the database and returns its path.
// An empty name generates a timestamped one.
// VACUUM INTO takes no exclusive lock, so writers keep going during a backup.
func (bm *BackupManager) Backup(ctx context.Context, name string) (string, error) {
	if err := os.MkdirAll(bm.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	if name == "" {
		name = "hooplog_" + time.Now().Format("20060102_150405")
	}
	plainPath := filepath.Join(bm.dir, name+backupExt)
	if _, err := os.Stat(plainPath); err == nil {
		return "", fmt.Errorf("backup %s already exists", plainPath)
	}

	if _, err := bm.db.Conn().ExecContext(ctx, `VACUUM INTO ?`, plainPath); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	if err := verifyDatabase(ctx, plainPath); err != nil {
		_ = os.Remove(plainPath)
		return "", fmt.Errorf("backup verification failed: %w", err)
	}

	path := plainPath
	if bm.encryption != nil {
		path = filepath.Join(bm.dir, name+encryptedBackupExt)
		err := EncryptFile(plainPath, path, bm.encryption)
		_ = os.Remove(plainPath)
		if err != nil {
			return "", err
		}
	}

	bm.logger.Info("backup written",
		zap.String("path", path),
		zap.Bool("encrypted", bm.encryption != nil))
	return path, nil
}

// VerifyBackup checks that a backup opens as a HoopLog database.
// Encrypted backups are decrypted to a temporary file first.
func (bm *BackupManager) VerifyBackup(ctx context.Context, backupPath string) error {
	plainPath, cleanup, err := bm.plaintext(backupPath)
	if err != nil {
		return err
	}
	defer cleanup()
	return verifyDatabase(ctx, plainPath)
}

// Restore replaces the database file at dbPath with a backup. The database
// must be closed by the caller first. The previous file is kept beside it
// with an ".old.<timestamp>" suffix.
func (bm *BackupManager) Restore(ctx context.Context, backupPath, dbPath string) error {
	plainPath, cleanup, err := bm.plaintext(backupPath)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := verifyDatabase(ctx, plainPath); err != nil {
		return fmt.Errorf("backup verification failed: %w", err)
	}

	tempPath := dbPath + ".restore.tmp"
	if err := copyFile(plainPath, tempPath); err != nil {
		return err
	}

	if _, err := os.Stat(dbPath); err == nil {
		oldPath := dbPath + ".old." + time.Now().Format("20060102_150405")
		if err := os.Rename(dbPath, oldPath); err != nil {
			_ = os.Remove(tempPath)
			return fmt.Errorf("failed to move current database aside: %w", err)
		}
	}
	// Stale WAL files belong to the replaced database.
	_ = os.Remove(dbPath + "-wal")
	_ = os.Remove(dbPath + "-shm")

	if err := os.Rename(tempPath, dbPath); err != nil {
		return fmt.Errorf("failed to replace database with backup: %w", err)
	}

	bm.logger.Info("database restored", zap.String("from", backupPath), zap.String("to", dbPath))
	return nil
}

// BackupInfo contains information about a backup file.
type BackupInfo struct {
	Path      string
	Name      string
	Size      int64
	ModTime   time.Time
	Encrypted bool
	Checksum  string
}

// ListBackups returns the backups in the backup directory, newest first.
func (bm *BackupManager) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(bm.dir)
	if os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		name := entry.Name()
		encrypted := strings.HasSuffix(name, encryptedBackupExt)
		if entry.IsDir() || (!encrypted && filepath.Ext(name) != backupExt) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		path := filepath.Join(bm.dir, name)
		checksum, err := calculateChecksum(path)
		if err != nil {
			checksum = "unknown"
		}

		backups = append(backups, BackupInfo{
			Path:      path,
			Name:      name,
			Size:      info.Size(),
			ModTime:   info.ModTime(),
			Encrypted: encrypted,
			Checksum:  checksum,
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		if backups[i].ModTime.Equal(backups[j].ModTime) {
			return backups[i].Name > backups[j].Name
		}
		return backups[i].ModTime.After(backups[j].ModTime)
	})
	return backups, nil
}

// Prune deletes all but the keep newest backups and returns how many were removed.
// keep <= 0 keeps everything.
func (bm *BackupManager) Prune(keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}

	backups, err := bm.ListBackups()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, b := range backups[min(keep, len(backups)):] {
		if err := os.Remove(b.Path); err != nil {
			return removed, fmt.Errorf("failed to remove backup %s: %w", b.Name, err)
		}
		removed++
	}
	return removed, nil
}

// plaintext returns a path to an unencrypted copy of backupPath and a cleanup func.
func (bm *BackupManager) plaintext(backupPath string) (string, func(), error) {
	noop := func() {}

	encrypted, err := IsEncrypted(backupPath)
	if err != nil {
		return "", noop, fmt.Errorf("failed to read backup: %w", err)
	}
	if !encrypted {
		return backupPath, noop, nil
	}
	if bm.encryption == nil {
		return "", noop, fmt.Errorf("backup %s is encrypted and no passphrase is configured", filepath.Base(backupPath))
	}

	tmp, err := os.CreateTemp("", "hooplog-restore-*.db")
	if err != nil {
		return "", noop, fmt.Errorf("failed to create temporary file: %w", err)
	}
	_ = tmp.Close()
	cleanup := func() { _ = os.Remove(tmp.Name()) }

	if err := DecryptFile(backupPath, tmp.Name(), bm.encryption); err != nil {
		cleanup()
		return "", noop, err
	}
	return tmp.Name(), cleanup, nil
}

// verifyDatabase opens path read-only and checks integrity and schema.
func verifyDatabase(ctx context.Context, path string) error {
	conn, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open backup as database: %w", err)
	}
	defer func() { _ = conn.Close() }()

	var result string
	if err := conn.QueryRowContext(ctx, `PRAGMA integrity_check`).Scan(&result); err != nil {
		return fmt.Errorf("failed to check backup integrity: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("backup integrity check failed: %s", result)
	}

	var count int
	err = conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('events', 'performance_sheets', 'players', 'goals')`,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to read backup schema: %w", err)
	}
	if count != 4 {
		return fmt.Errorf("backup is missing HoopLog tables")
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}

// calculateChecksum calculates the SHA-256 checksum of a file.
func calculateChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	hash := sha256.New()
	if _, err := io.Copy(hash, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
