// Package storage persists the task and project collections as whole JSON
// documents. Saves are atomic (temp file then rename); loads tolerate
// individual malformed records but fail on an unparsable document.
package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/seanmcc/taskbucket/internal/config"
	"github.com/seanmcc/taskbucket/internal/model"
	"github.com/seanmcc/taskbucket/internal/schema"
)

const backupsToKeep = 10

// StorageError reports an unreadable, unwritable, or fully unparsable
// store document. It is fatal for the operation that encountered it.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Store reads and writes the task bucket and project set. It is the sole
// writer of persisted state; callers own the in-memory collections it
// returns.
type Store struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New creates a store over the configured data files.
func New(cfg *config.Config, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{cfg: cfg, logger: logger}
}

// rawBucket mirrors the bucket document with undecoded task records so one
// malformed task does not abort the whole load.
type rawBucket struct {
	Tasks       []json.RawMessage `json:"tasks"`
	NextID      int               `json:"next_id"`
	LastUpdated string            `json:"last_updated"`
}

// LoadBucket reads the task collection. A missing file yields an empty
// bucket (first run). Records that fail to decode or validate are skipped
// with a warning; a document that cannot be parsed at all is a StorageError.
func (s *Store) LoadBucket() (*model.Bucket, error) {
	path := s.cfg.TaskBucketPath

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("task bucket not found, starting empty", "path", path)
			return model.NewBucket(), nil
		}
		return nil, &StorageError{Op: "read", Path: path, Err: err}
	}

	var raw rawBucket
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &StorageError{Op: "parse", Path: path, Err: err}
	}

	bucket := model.NewBucket()
	if raw.NextID > 0 {
		bucket.NextID = raw.NextID
	}
	bucket.LastUpdated = raw.LastUpdated

	for i, record := range raw.Tasks {
		var task model.Task
		if err := json.Unmarshal(record, &task); err != nil {
			s.logger.Warn("skipping malformed task record", "index", i, "error", err)
			continue
		}
		if err := schema.ValidateTask(&task); err != nil {
			s.logger.Warn("skipping invalid task record", "index", i, "id", task.ID, "error", err)
			continue
		}
		bucket.Tasks = append(bucket.Tasks, task)
	}

	s.logger.Debug("loaded task bucket", "tasks", len(bucket.Tasks), "path", path)
	return bucket, nil
}

// SaveBucket writes the full task collection atomically, creating a
// timestamped backup of the previous document first when enabled.
func (s *Store) SaveBucket(bucket *model.Bucket) error {
	path := s.cfg.TaskBucketPath
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &StorageError{Op: "mkdir", Path: path, Err: err}
	}

	if s.cfg.BackupEnabled && s.cfg.BackupDir != "" {
		if _, err := os.Stat(path); err == nil {
			s.createBackup(path)
		}
	}

	// Stamp before encoding, restore on failure: the in-memory snapshot
	// must never carry a timestamp the disk has not seen.
	prev := bucket.LastUpdated
	bucket.LastUpdated = time.Now().Format(time.RFC3339)

	data, err := json.MarshalIndent(bucket, "", "  ")
	if err != nil {
		bucket.LastUpdated = prev
		return &StorageError{Op: "encode", Path: path, Err: err}
	}

	if err := atomicWrite(path, data); err != nil {
		bucket.LastUpdated = prev
		return &StorageError{Op: "write", Path: path, Err: err}
	}

	s.logger.Info("saved task bucket", "tasks", len(bucket.Tasks), "path", path)
	return nil
}

// Reload re-reads the task collection from disk, picking up externally
// made changes. It is the caller's replacement snapshot.
func (s *Store) Reload() (*model.Bucket, error) {
	return s.LoadBucket()
}

// LoadProjects reads the project collection. Both the wrapped
// {"projects": {...}} layout and a bare top-level mapping are accepted.
func (s *Store) LoadProjects() (*model.ProjectSet, error) {
	path := s.cfg.ProjectsPath

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("projects file not found, starting empty", "path", path)
			return model.NewProjectSet(), nil
		}
		return nil, &StorageError{Op: "read", Path: path, Err: err}
	}

	var wrapper struct {
		Projects map[string]json.RawMessage `json:"projects"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, &StorageError{Op: "parse", Path: path, Err: err}
	}
	records := wrapper.Projects
	if records == nil {
		// Legacy layout: projects at the top level.
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, &StorageError{Op: "parse", Path: path, Err: err}
		}
	}

	set := model.NewProjectSet()
	for id, record := range records {
		var project model.Project
		if err := json.Unmarshal(record, &project); err != nil {
			s.logger.Warn("skipping malformed project record", "id", id, "error", err)
			continue
		}
		if project.ID == "" {
			project.ID = id
		}
		if project.Status == "" {
			project.Status = model.ProjectActive
		}
		if err := schema.ValidateProject(&project); err != nil {
			s.logger.Warn("skipping invalid project record", "id", id, "error", err)
			continue
		}
		set.Projects[id] = project
	}

	s.logger.Debug("loaded projects", "count", len(set.Projects), "path", path)
	return set, nil
}

// SaveProjects writes the full project collection atomically.
func (s *Store) SaveProjects(set *model.ProjectSet) error {
	path := s.cfg.ProjectsPath
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &StorageError{Op: "mkdir", Path: path, Err: err}
	}

	wrapper := struct {
		Projects map[string]model.Project `json:"projects"`
	}{Projects: set.Projects}

	data, err := json.MarshalIndent(wrapper, "", "  ")
	if err != nil {
		return &StorageError{Op: "encode", Path: path, Err: err}
	}

	if err := atomicWrite(path, data); err != nil {
		return &StorageError{Op: "write", Path: path, Err: err}
	}

	s.logger.Info("saved projects", "count", len(set.Projects), "path", path)
	return nil
}

// atomicWrite writes data to a temp file beside path and renames it into
// place. The previous document is untouched if any step fails.
func atomicWrite(path string, data []byte) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// createBackup copies the current bucket document into the backup
// directory with a timestamped name and prunes old backups. Backup
// failures are logged, never fatal.
func (s *Store) createBackup(path string) {
	if err := os.MkdirAll(s.cfg.BackupDir, 0755); err != nil {
		s.logger.Warn("failed to create backup directory", "error", err)
		return
	}

	stamp := time.Now().Format("20060102_150405")
	backupPath := filepath.Join(s.cfg.BackupDir, fmt.Sprintf("task-bucket.backup.%s.json", stamp))

	if err := copyFile(path, backupPath); err != nil {
		s.logger.Warn("failed to create backup", "error", err)
		return
	}
	s.logger.Debug("created backup", "path", backupPath)
	s.pruneBackups()
}

func (s *Store) pruneBackups() {
	pattern := filepath.Join(s.cfg.BackupDir, "task-bucket.backup.*.json")
	backups, err := filepath.Glob(pattern)
	if err != nil || len(backups) <= backupsToKeep {
		return
	}
	sort.Strings(backups)
	for _, old := range backups[:len(backups)-backupsToKeep] {
		if err := os.Remove(old); err == nil {
			s.logger.Debug("removed old backup", "path", old)
		}
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
