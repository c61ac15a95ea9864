// Package claudemd mirrors task activations into a project's CLAUDE.md.
// It runs strictly after the task mutation has been saved; its failures
// are reported to the caller and never affect the task store.
package claudemd

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/seanmcc/taskbucket/internal/model"
)

// Section headings managed in CLAUDE.md.
const (
	UpcomingSection  = "### Upcoming Tasks"
	CompletedSection = "### Recent Completions"
)

// Sync implements the command layer's activation hook against CLAUDE.md
// files in project directories.
type Sync struct{}

// New creates a CLAUDE.md sync hook.
func New() *Sync { return &Sync{} }

func taskMarker(id int) string {
	return fmt.Sprintf("<!-- task-id: %d -->", id)
}

// claudePath locates a project's CLAUDE.md, which must already exist.
func claudePath(project *model.Project) (string, error) {
	if project == nil || project.Path == "" {
		return "", fmt.Errorf("project has no path configured")
	}
	path := filepath.Join(project.Path, "CLAUDE.md")
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("no CLAUDE.md found for project %s", project.ID)
	}
	return path, nil
}

// TaskActivated adds the task to the Upcoming Tasks section.
func (s *Sync) TaskActivated(task *model.Task, project *model.Project, mode string) error {
	path, err := claudePath(project)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	content := string(data)

	if strings.Contains(content, taskMarker(task.ID)) {
		return fmt.Errorf("task #%d already in CLAUDE.md", task.ID)
	}

	content = ensureSection(content, UpcomingSection)
	content = addToSection(content, UpcomingSection, formatEntry(task))

	return os.WriteFile(path, []byte(content), 0644)
}

// TaskCompleted moves the task from Upcoming Tasks to Recent Completions.
func (s *Sync) TaskCompleted(task *model.Task, project *model.Project) error {
	path, err := claudePath(project)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	content := string(data)

	content = removeFromSection(content, UpcomingSection, task.ID)
	content = ensureSection(content, CompletedSection)
	content = addToSection(content, CompletedSection, formatCompletedEntry(task))

	return os.WriteFile(path, []byte(content), 0644)
}

// TaskDeactivated removes the task from both managed sections.
func (s *Sync) TaskDeactivated(task *model.Task, project *model.Project) error {
	path, err := claudePath(project)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	content := string(data)

	content = removeFromSection(content, UpcomingSection, task.ID)
	content = removeFromSection(content, CompletedSection, task.ID)

	return os.WriteFile(path, []byte(content), 0644)
}

func formatEntry(task *model.Task) string {
	due := ""
	if task.Deadline != "" {
		due = fmt.Sprintf(" (Due: %s)", task.Deadline)
	}
	return fmt.Sprintf("%s\n- **#%d**: %s%s\n", taskMarker(task.ID), task.ID, task.Description, due)
}

func formatCompletedEntry(task *model.Task) string {
	completed := task.Completed
	if completed == "" {
		completed = task.Status
	}
	return fmt.Sprintf("%s\n- **#%d** ✓: %s (Completed: %s)\n", taskMarker(task.ID), task.ID, task.Description, completed)
}

// headingRe matches the start of any heading line, which terminates the
// preceding section's body.
var headingRe = regexp.MustCompile(`(?m)^### `)

func headingIndex(content, section string) int {
	re := regexp.MustCompile("(?m)^" + regexp.QuoteMeta(section) + "$")
	loc := re.FindStringIndex(content)
	if loc == nil {
		return -1
	}
	return loc[0]
}

// sectionBounds returns the offsets of a section's body: the text between
// the heading line and the next heading (or end of document).
func sectionBounds(content, section string) (int, int, bool) {
	idx := headingIndex(content, section)
	if idx < 0 {
		return 0, 0, false
	}
	start := idx + len(section)
	if start < len(content) && content[start] == '\n' {
		start++
	}
	end := len(content)
	if m := headingRe.FindStringIndex(content[start:]); m != nil {
		end = start + m[0]
	}
	return start, end, true
}

// ensureSection appends the section heading when it is not present, with a
// single blank line separating it from the previous content.
func ensureSection(content, section string) string {
	if headingIndex(content, section) >= 0 {
		return content
	}
	content = strings.TrimRight(content, "\n")
	if content == "" {
		return section + "\n"
	}
	return content + "\n\n" + section + "\n"
}

// addToSection appends an entry at the end of the section's body. The
// rewritten body keeps exactly one blank line after the heading and one
// before the next heading, so section boundaries stay well formed.
func addToSection(content, section, entry string) string {
	start, end, ok := sectionBounds(content, section)
	if !ok {
		return content
	}
	body := strings.Trim(content[start:end], "\n")
	if body != "" {
		body += "\n"
	}
	body += strings.TrimRight(entry, "\n") + "\n"
	return content[:start] + "\n" + body + "\n" + content[end:]
}

// removeFromSection deletes the entry carrying the task's marker from the
// section and renormalizes the blank-line delimiters around the body.
func removeFromSection(content, section string, taskID int) string {
	start, end, ok := sectionBounds(content, section)
	if !ok {
		return content
	}

	// Continuation lines stop at "-" (the next bullet) and "<" (the next
	// entry's marker comment).
	entryRe := regexp.MustCompile(regexp.QuoteMeta(taskMarker(taskID)) + `\n-[^\n]*(?:\n[^-<\n][^\n]*)*\n?`)
	body := entryRe.ReplaceAllString(content[start:end], "")
	body = strings.Trim(body, "\n")

	if body == "" {
		return content[:start] + "\n" + content[end:]
	}
	return content[:start] + "\n" + body + "\n\n" + content[end:]
}
