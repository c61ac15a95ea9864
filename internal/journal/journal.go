// Package journal appends one JSONL record per completed mutation to the
// data directory. It is an audit trail, not a store: nothing reads it back
// at runtime.
package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Entry is one journaled operation.
type Entry struct {
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
	Op        string    `json:"op"`
	Details   string    `json:"details"`
}

// Journal writes operation entries for one process session.
type Journal struct {
	path      string
	sessionID string
	file      *os.File
}

// Open creates or appends to the operations journal in dataDir. Each
// process gets a fresh session ID.
func Open(dataDir string) (*Journal, error) {
	logDir := filepath.Join(dataDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	path := filepath.Join(logDir, "operations.jsonl")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	return &Journal{
		path:      path,
		sessionID: uuid.New().String(),
		file:      file,
	}, nil
}

// Record appends an operation entry. Journal failures are returned but
// callers treat them as non-fatal.
func (j *Journal) Record(op, details string) error {
	entry := Entry{
		SessionID: j.sessionID,
		Timestamp: time.Now(),
		Op:        op,
		Details:   details,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = j.file.Write(append(data, '\n'))
	return err
}

// SessionID returns this process's journal session ID.
func (j *Journal) SessionID() string { return j.sessionID }

// Path returns the journal file path.
func (j *Journal) Path() string { return j.path }

// Close closes the journal file.
func (j *Journal) Close() error { return j.file.Close() }
