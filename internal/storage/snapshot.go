package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// SnapshotManager handles file-level backups of the case database, so a
// paralegal can roll back to the state before a bulk edit.
type SnapshotManager struct {
	db           *sql.DB
	dbPath       string
	snapshotsDir string
}

// SnapshotMetadata is persisted beside each snapshot file.
type SnapshotMetadata struct {
	CreatedAt     time.Time `json:"created_at"`
	ID            string    `json:"id"`
	Description   string    `json:"description"`
	FileSize      int64     `json:"file_size"`
	Records       int       `json:"records"`
	SchemaVersion int       `json:"schema_version"`
}

// Common errors.
var (
	ErrSnapshotNotFound  = errors.New("snapshot not found")
	ErrSnapshotCorrupted = errors.New("snapshot integrity check failed")
	ErrSnapshotExists    = errors.New("snapshot already exists")
)

// NewSnapshotManager creates a new snapshot manager.
func NewSnapshotManager(db *sql.DB, dbPath string) (*SnapshotManager, error) {
	snapshotsDir := filepath.Join(filepath.Dir(dbPath), "snapshots")

	if err := os.MkdirAll(snapshotsDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create snapshots directory: %w", err)
	}

	return &SnapshotManager{
		db:           db,
		dbPath:       dbPath,
		snapshotsDir: snapshotsDir,
	}, nil
}

// Create creates a new snapshot with the given tag and description.
func (sm *SnapshotManager) Create(ctx context.Context, tag, description string) (*SnapshotMetadata, error) {
	if tag == "" {
		tag = fmt.Sprintf("snapshot-%s", time.Now().Format("2006-01-02-1504"))
	}

	if err := validateTag(tag); err != nil {
		return nil, err
	}

	snapshotPath := filepath.Join(sm.snapshotsDir, tag+".db")
	if _, err := os.Stat(snapshotPath); err == nil {
		return nil, ErrSnapshotExists
	}

	var schemaVersion int
	if err := sm.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&schemaVersion); err != nil {
		return nil, fmt.Errorf("failed to get schema version: %w", err)
	}

	var records int
	if err := sm.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&records); err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}

	if err := sm.backupDatabase(ctx, snapshotPath); err != nil {
		return nil, fmt.Errorf("failed to back up database: %w", err)
	}

	info, err := os.Stat(snapshotPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat snapshot: %w", err)
	}

	metadata := SnapshotMetadata{
		ID:            tag,
		CreatedAt:     time.Now(),
		Description:   description,
		FileSize:      info.Size(),
		Records:       records,
		SchemaVersion: schemaVersion,
	}

	metadataPath := filepath.Join(sm.snapshotsDir, tag+".meta.json")
	if err := sm.saveMetadata(metadataPath, metadata); err != nil {
		if rmErr := os.Remove(snapshotPath); rmErr != nil {
			slog.Error("failed to remove snapshot file after metadata save failure", "error", rmErr)
		}
		return nil, fmt.Errorf("failed to save metadata: %w", err)
	}

	return &metadata, nil
}

// List returns all snapshots, newest first.
func (sm *SnapshotManager) List(_ context.Context) ([]SnapshotMetadata, error) {
	entries, err := os.ReadDir(sm.snapshotsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshots directory: %w", err)
	}

	snapshots := make([]SnapshotMetadata, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".meta.json") {
			continue
		}

		metadata, err := sm.loadMetadata(filepath.Join(sm.snapshotsDir, entry.Name()))
		if err != nil {
			// Skip corrupted metadata files
			continue
		}
		snapshots = append(snapshots, metadata)
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].CreatedAt.After(snapshots[j].CreatedAt)
	})

	return snapshots, nil
}

// Restore replaces the case database with a snapshot. The caller must reopen
// the store afterwards; the connection is closed here.
func (sm *SnapshotManager) Restore(_ context.Context, snapshotID string) error {
	if err := validateTag(snapshotID); err != nil {
		return err
	}

	snapshotPath := filepath.Join(sm.snapshotsDir, snapshotID+".db")
	metadataPath := filepath.Join(sm.snapshotsDir, snapshotID+".meta.json")

	if _, err := os.Stat(snapshotPath); err != nil {
		if os.IsNotExist(err) {
			return ErrSnapshotNotFound
		}
		return fmt.Errorf("failed to access snapshot: %w", err)
	}

	if _, err := sm.loadMetadata(metadataPath); err != nil {
		return fmt.Errorf("failed to load snapshot metadata: %w", err)
	}

	if err := sm.verifyIntegrity(snapshotPath); err != nil {
		return ErrSnapshotCorrupted
	}

	if err := sm.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	backupPath := sm.dbPath + ".restore-backup"
	if err := copyFile(sm.dbPath, backupPath); err != nil {
		return fmt.Errorf("failed to back up current database: %w", err)
	}

	if err := copyFile(snapshotPath, sm.dbPath); err != nil {
		if restoreErr := copyFile(backupPath, sm.dbPath); restoreErr != nil {
			slog.Error("failed to restore backup after snapshot restore failure", "error", restoreErr)
		}
		return fmt.Errorf("failed to restore snapshot: %w", err)
	}

	if err := os.Remove(backupPath); err != nil {
		slog.Error("failed to remove backup file", "error", err)
	}

	return nil
}

// Delete removes a snapshot and its metadata.
func (sm *SnapshotManager) Delete(_ context.Context, snapshotID string) error {
	if err := validateTag(snapshotID); err != nil {
		return err
	}

	snapshotPath := filepath.Join(sm.snapshotsDir, snapshotID+".db")
	metadataPath := filepath.Join(sm.snapshotsDir, snapshotID+".meta.json")

	if _, err := os.Stat(snapshotPath); err != nil {
		if os.IsNotExist(err) {
			return ErrSnapshotNotFound
		}
		return fmt.Errorf("failed to access snapshot: %w", err)
	}

	if err := os.Remove(snapshotPath); err != nil {
		return fmt.Errorf("failed to remove snapshot file: %w", err)
	}

	if err := os.Remove(metadataPath); err != nil {
		// Non-fatal: metadata might not exist
		slog.Debug("failed to remove metadata file", "error", err, "path", metadataPath)
	}

	return nil
}

func validateTag(tag string) error {
	if strings.Contains(tag, "/") || strings.Contains(tag, "\\") || strings.Contains(tag, "..") {
		return errors.New("invalid snapshot tag: cannot contain path separators")
	}
	return nil
}

func (sm *SnapshotManager) backupDatabase(ctx context.Context, destPath string) error {
	// Checkpoint the WAL first so the main file is current
	if _, err := sm.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("failed to checkpoint WAL: %w", err)
	}

	if strings.ContainsAny(destPath, `'";`) || strings.Contains(destPath, "..") {
		return fmt.Errorf("invalid destination path")
	}

	// VACUUM INTO gives an atomic, consistent copy (SQLite 3.27.0+)
	query := fmt.Sprintf("VACUUM INTO '%s'", destPath)
	if _, err := sm.db.ExecContext(ctx, query); err != nil {
		return copyFile(sm.dbPath, destPath)
	}

	return nil
}

func (sm *SnapshotManager) verifyIntegrity(path string) error {
	db, err := sql.Open("sqlite3", path+"?mode=ro")
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return err
	}
	if result != "ok" {
		return fmt.Errorf("integrity check returned %q", result)
	}
	return nil
}

func (sm *SnapshotManager) saveMetadata(path string, metadata SnapshotMetadata) error {
	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

func (sm *SnapshotManager) loadMetadata(path string) (SnapshotMetadata, error) {
	var metadata SnapshotMetadata
	data, err := os.ReadFile(path) // #nosec G304 - path is built from a validated tag
	if err != nil {
		return metadata, err
	}
	if err := json.Unmarshal(data, &metadata); err != nil {
		return metadata, err
	}
	return metadata, nil
}

func copyFile(src, dst string) error {
	if strings.Contains(src, "..") || strings.Contains(dst, "..") {
		return fmt.Errorf("invalid file paths")
	}

	tmpDst := dst + ".tmp"

	source, err := os.Open(filepath.Clean(src))
	if err != nil {
		return err
	}
	defer func() { _ = source.Close() }()

	destination, err := os.Create(tmpDst) // #nosec G304 - validated above
	if err != nil {
		return err
	}

	if _, err := io.Copy(destination, source); err != nil {
		_ = destination.Close()
		_ = os.Remove(tmpDst)
		return err
	}

	if err := destination.Close(); err != nil {
		_ = os.Remove(tmpDst)
		return err
	}

	return os.Rename(tmpDst, dst)
}
