// Package testutil provides reusable fixtures for taskbucket tests.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/seanmcc/taskbucket/internal/config"
	"github.com/seanmcc/taskbucket/internal/model"
)

// Env is an isolated data directory for one test.
type Env struct {
	DataDir string
	Cfg     *config.Config
	t       *testing.T
}

// Setup creates an isolated data directory with backups disabled (tests
// that exercise backups enable them explicitly).
func Setup(t *testing.T) *Env {
	t.Helper()

	dataDir := t.TempDir()
	cfg := config.Default(dataDir)
	cfg.BackupEnabled = false

	return &Env{DataDir: dataDir, Cfg: cfg, t: t}
}

// Logger returns a logger that discards output. Tests asserting on log
// records build their own handler.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// WriteFile writes content under the data directory.
func (e *Env) WriteFile(name, content string) string {
	e.t.Helper()
	path := filepath.Join(e.DataDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		e.t.Fatalf("Failed to create directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		e.t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// SampleProjects returns a small project collection used across tests.
func SampleProjects() *model.ProjectSet {
	set := model.NewProjectSet()
	set.Projects["thesis"] = model.Project{
		ID:     "thesis",
		Name:   "PhD Thesis",
		Code:   "THES",
		Lab:    "NeuroLab",
		Status: model.ProjectActive,
	}
	set.Projects["consulting"] = model.Project{
		ID:     "consulting",
		Name:   "Consulting Work",
		Code:   "CONS",
		Lab:    "Acme Corp",
		Status: model.ProjectActive,
	}
	return set
}

// SampleTasks returns a mixed task collection used across query tests.
func SampleTasks() []model.Task {
	return []model.Task{
		{
			ID: 1, Description: "Write methods chapter", Project: "thesis",
			Status: model.StatusTodo, Priority: model.PriorityHigh,
			Type: model.TypeWork, Deadline: "2026-02-01", Created: "2026-01-01",
			Tags: []string{"writing", "deadline"},
		},
		{
			ID: 2, Description: "Review client dashboard", Project: "consulting",
			Status: model.StatusInProgress, Priority: model.PriorityMedium,
			Type: model.TypeWork, Deadline: "2026-01-20", Created: "2026-01-02",
			Tags: []string{"review"},
		},
		{
			ID: 3, Description: "File expense report", Project: "consulting",
			Status: model.StatusDone, Priority: model.PriorityLow,
			Type: model.TypePersonal, Created: "2026-01-03",
			Completed: "2026-01-10",
		},
		{
			ID: 4, Description: "Prepare lab meeting slides", Project: "thesis",
			Status: model.StatusTodo, Priority: model.PriorityMedium,
			Type: model.TypeWork, Created: "2026-01-04",
			Tags: []string{"writing", "slides"},
		},
	}
}
