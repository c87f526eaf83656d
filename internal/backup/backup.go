// Package backup creates and restores snapshots of the NoteVault
// database using Badger's native backup stream format.
package backup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/notevault/notevault-server/internal/store"
)

// backupExt is the file extension for backup files.
const backupExt = ".notevault.bak"

// Service manages backup creation, listing, and restoration.
type Service struct {
	store     *store.Store
	backupDir string
	logger    *slog.Logger
}

// NewService creates a backup service writing to backupDir.
func NewService(s *store.Store, backupDir string, logger *slog.Logger) *Service {
	return &Service{
		store:     s,
		backupDir: backupDir,
		logger:    logger,
	}
}

// Result contains the outcome of a backup operation.
type Result struct {
	Path     string        `json:"path"`
	Size     int64         `json:"size"`
	Duration time.Duration `json:"duration"`
}

// Info describes an existing backup file.
type Info struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Create writes a full snapshot of the database to a timestamped file
// in the backup directory. If outputPath is non-empty it is used
// instead.
func (s *Service) Create(ctx context.Context, outputPath string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}

	if outputPath == "" {
		timestamp := time.Now().Format("2006-01-02-150405")
		outputPath = filepath.Join(s.backupDir, "backup-"+timestamp+backupExt)
	}

	s.logger.Info("creating backup", "output", outputPath)
	start := time.Now()

	// Write to a temp file first so a failed backup never leaves a
	// truncated file that List would report as valid.
	tmp, err := os.CreateTemp(filepath.Dir(outputPath), ".backup-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := s.store.Backup(tmp, 0); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("backup database: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("close backup file: %w", err)
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("finalize backup file: %w", err)
	}

	stat, err := os.Stat(outputPath)
	if err != nil {
		return nil, fmt.Errorf("stat backup file: %w", err)
	}

	result := &Result{
		Path:     outputPath,
		Size:     stat.Size(),
		Duration: time.Since(start),
	}

	s.logger.Info("backup complete",
		"path", result.Path,
		"size", result.Size,
		"duration", result.Duration)

	return result, nil
}

// List returns available backups in the backup directory, newest first.
func (s *Service) List() ([]Info, error) {
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	var backups []Info
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), backupExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Name:      entry.Name(),
			Path:      filepath.Join(s.backupDir, entry.Name()),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// Restore loads a backup file into the database. Keys in the backup
// overwrite existing keys; data created after the backup was taken is
// not removed.
func (s *Service) Restore(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open backup file: %w", err)
	}
	defer f.Close()

	s.logger.Info("restoring backup", "path", path)
	start := time.Now()

	if err := s.store.Restore(f); err != nil {
		return fmt.Errorf("restore database: %w", err)
	}

	s.logger.Info("restore complete", "path", path, "duration", time.Since(start))
	return nil
}

// Prune removes the oldest backups, keeping the newest keep files.
// Returns the number of files removed.
func (s *Service) Prune(keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	backups, err := s.List()
	if err != nil {
		return 0, err
	}
	if len(backups) <= keep {
		return 0, nil
	}

	removed := 0
	for _, b := range backups[keep:] {
		if err := os.Remove(b.Path); err != nil {
			s.logger.Warn("failed to remove old backup", "path", b.Path, "error", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		s.logger.Info("pruned old backups", "removed", removed, "kept", keep)
	}
	return removed, nil
}
