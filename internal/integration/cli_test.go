//go:build integration

package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/seanmcc/taskbucket/internal/config"
)

// getTBBinary returns the path to the tb binary. Build it before running
// integration tests: go build -o bin/tb ./cmd/tb
func getTBBinary(t *testing.T) string {
	t.Helper()

	cwd, _ := os.Getwd()

	binPaths := []string{
		filepath.Join(cwd, "..", "..", "bin", "tb"),
		filepath.Join(cwd, "bin", "tb"),
	}
	for _, binPath := range binPaths {
		absPath, _ := filepath.Abs(binPath)
		if _, err := os.Stat(absPath); err == nil {
			return absPath
		}
	}
	if path, err := exec.LookPath("tb"); err == nil {
		return path
	}

	t.Fatal("tb binary not found. Build it with 'go build -o bin/tb ./cmd/tb' or ensure tb is in PATH")
	return ""
}

func runTB(t *testing.T, binary, dataDir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binary, args...)
	cmd.Env = append(os.Environ(), config.EnvDataDir+"="+dataDir)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func TestTaskLifecycle(t *testing.T) {
	binary := getTBBinary(t)
	dataDir := t.TempDir()

	t.Run("AddProject", func(t *testing.T) {
		output, err := runTB(t, binary, dataDir,
			"project", "add", "thesis", "--name", "PhD Thesis", "--code", "THES", "--lab", "NeuroLab")
		if err != nil {
			t.Fatalf("tb project add failed: %v\nOutput: %s", err, output)
		}
		if !strings.Contains(output, "thesis") {
			t.Errorf("Expected project ID in output, got: %s", output)
		}
	})

	t.Run("AddTask", func(t *testing.T) {
		output, err := runTB(t, binary, dataDir,
			"add", "Write methods chapter", "--project", "THES", "--priority", "high", "--deadline", "2026-02-01")
		if err != nil {
			t.Fatalf("tb add failed: %v\nOutput: %s", err, output)
		}
		if !strings.Contains(output, "#1") {
			t.Errorf("Expected task #1 in output, got: %s", output)
		}

		// The bucket document exists after the first write.
		if _, err := os.Stat(filepath.Join(dataDir, "task-bucket.json")); err != nil {
			t.Errorf("task-bucket.json not created: %v", err)
		}
	})

	t.Run("ListShowsTask", func(t *testing.T) {
		output, err := runTB(t, binary, dataDir, "list")
		if err != nil {
			t.Fatalf("tb list failed: %v\nOutput: %s", err, output)
		}
		if !strings.Contains(output, "Write methods chapter") {
			t.Errorf("Task missing from list: %s", output)
		}
	})

	t.Run("LogTime", func(t *testing.T) {
		output, err := runTB(t, binary, dataDir, "log-time", "1", "--hours", "2.5", "--description", "drafting")
		if err != nil {
			t.Fatalf("tb log-time failed: %v\nOutput: %s", err, output)
		}
	})

	t.Run("Report", func(t *testing.T) {
		output, err := runTB(t, binary, dataDir, "time-report")
		if err != nil {
			t.Fatalf("tb time-report failed: %v\nOutput: %s", err, output)
		}
		if !strings.Contains(output, "2.5") {
			t.Errorf("Logged hours missing from report: %s", output)
		}
	})

	t.Run("Complete", func(t *testing.T) {
		output, err := runTB(t, binary, dataDir, "complete", "1")
		if err != nil {
			t.Fatalf("tb complete failed: %v\nOutput: %s", err, output)
		}

		output, err = runTB(t, binary, dataDir, "list", "--status", "DONE")
		if err != nil {
			t.Fatalf("tb list --status DONE failed: %v\nOutput: %s", err, output)
		}
		if !strings.Contains(output, "Write methods chapter") {
			t.Errorf("Completed task missing from DONE list: %s", output)
		}
	})

	t.Run("DeleteRequiresConfirm", func(t *testing.T) {
		output, err := runTB(t, binary, dataDir, "delete", "1")
		if err == nil {
			t.Errorf("tb delete without --confirm should fail, got: %s", output)
		}

		output, err = runTB(t, binary, dataDir, "delete", "1", "--confirm")
		if err != nil {
			t.Fatalf("tb delete --confirm failed: %v\nOutput: %s", err, output)
		}

		output, err = runTB(t, binary, dataDir, "show", "1")
		if err == nil {
			t.Errorf("tb show on deleted task should fail, got: %s", output)
		}
	})
}

func TestUnknownProjectFails(t *testing.T) {
	binary := getTBBinary(t)
	dataDir := t.TempDir()

	output, err := runTB(t, binary, dataDir, "add", "orphan task", "--project", "nope")
	if err == nil {
		t.Errorf("Expected failure for unknown project, got: %s", output)
	}
	if !strings.Contains(output, "not found") {
		t.Errorf("Expected not-found message, got: %s", output)
	}
}
