// Package schema validates task and project records before they are
// persisted or trusted after load. Validation is side-effect free: it
// reports the first offending field and constraint, never repairs data.
package schema

import (
	"fmt"
	"time"

	"github.com/seanmcc/taskbucket/internal/model"
)

// ValidationError names the offending field and the constraint violated.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func errf(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

var validStatuses = map[string]bool{
	model.StatusTodo:       true,
	model.StatusInProgress: true,
	model.StatusDone:       true,
	model.StatusBlocked:    true,
}

var validPriorities = map[string]bool{
	model.PriorityHigh:   true,
	model.PriorityMedium: true,
	model.PriorityLow:    true,
}

var validTypes = map[string]bool{
	model.TypeWork:     true,
	model.TypePersonal: true,
	model.TypeDaily:    true,
}

var validProjectStatuses = map[string]bool{
	model.ProjectActive:    true,
	model.ProjectPaused:    true,
	model.ProjectCompleted: true,
}

var validRecurrences = map[string]bool{
	"daily": true, "weekdays": true, "weekends": true, "custom": true,
}

// ValidStatus reports whether s is an allowed task status.
func ValidStatus(s string) bool { return validStatuses[s] }

// ValidPriority reports whether p is an allowed priority.
func ValidPriority(p string) bool { return validPriorities[p] }

// ValidTaskType reports whether t is an allowed task type.
func ValidTaskType(t string) bool { return validTypes[t] }

// ValidDate reports whether s is a well-formed YYYY-MM-DD date.
func ValidDate(s string) bool {
	_, err := time.Parse(model.DateLayout, s)
	return err == nil
}

// ValidTime reports whether s is a well-formed HH:MM time.
func ValidTime(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

// ValidateTask checks a task record against the schema. Optional fields may
// be empty; enum-typed fields must be in their declared sets; dates must
// parse; numeric fields must be non-negative.
func ValidateTask(t *model.Task) error {
	if t.Description == "" {
		return errf("description", "required and cannot be empty")
	}
	if t.Project == "" {
		return errf("project", "required")
	}
	if t.ID <= 0 {
		return errf("id", "must be a positive integer, got %d", t.ID)
	}
	if t.Status != "" && !validStatuses[t.Status] {
		return errf("status", "must be one of TODO, IN_PROGRESS, DONE, BLOCKED, got %q", t.Status)
	}
	if t.Priority != "" && !validPriorities[t.Priority] {
		return errf("priority", "must be one of high, medium, low, got %q", t.Priority)
	}
	if t.Type != "" && !validTypes[t.Type] {
		return errf("task_type", "must be one of work, personal, daily, got %q", t.Type)
	}
	if t.Recurrence != "" && !validRecurrences[t.Recurrence] {
		return errf("recurrence", "must be one of daily, weekdays, weekends, custom, got %q", t.Recurrence)
	}

	dates := map[string]string{
		"created":        t.Created,
		"deadline":       t.Deadline,
		"activated":      t.Activated,
		"completed":      t.Completed,
		"last_completed": t.LastCompleted,
	}
	for field, value := range dates {
		if value != "" && !ValidDate(value) {
			return errf(field, "must be YYYY-MM-DD, got %q", value)
		}
	}
	if t.TimeOfDay != "" && !ValidTime(t.TimeOfDay) {
		return errf("time_of_day", "must be HH:MM, got %q", t.TimeOfDay)
	}

	if t.TimeEstimate != nil && *t.TimeEstimate < 0 {
		return errf("time_estimate_hours", "must be non-negative, got %v", *t.TimeEstimate)
	}
	if t.TimeSpent < 0 {
		return errf("time_spent_hours", "must be non-negative, got %v", t.TimeSpent)
	}
	if t.StreakCount < 0 {
		return errf("streak_count", "must be non-negative, got %d", t.StreakCount)
	}

	for _, tag := range t.Tags {
		if tag == "" {
			return errf("tags", "tags cannot be empty strings")
		}
	}
	for i := range t.TimeLogs {
		if err := validateTimeLog(&t.TimeLogs[i], i); err != nil {
			return err
		}
	}
	return nil
}

func validateTimeLog(log *model.TimeLog, index int) error {
	field := fmt.Sprintf("time_logs[%d]", index)
	if log.Hours < 0 {
		return errf(field, "hours must be non-negative, got %v", log.Hours)
	}
	if log.Date != "" && !ValidDate(log.Date) {
		return errf(field, "date must be YYYY-MM-DD, got %q", log.Date)
	}
	if log.LoggedAt != "" {
		if _, err := time.Parse(time.RFC3339, log.LoggedAt); err != nil {
			return errf(field, "logged_at must be RFC3339, got %q", log.LoggedAt)
		}
	}
	return nil
}

// ValidateProject checks a project record against the schema.
func ValidateProject(p *model.Project) error {
	if p.ID == "" {
		return errf("id", "required")
	}
	if p.Name == "" {
		return errf("name", "required and cannot be empty")
	}
	if len(p.Code) < 4 || len(p.Code) > 5 {
		return errf("code", "must be 4-5 characters, got %q", p.Code)
	}
	if p.Status != "" && !validProjectStatuses[p.Status] {
		return errf("status", "must be one of active, paused, completed, got %q", p.Status)
	}
	if p.LastAccessed != "" && !ValidDate(p.LastAccessed) {
		return errf("last_accessed", "must be YYYY-MM-DD, got %q", p.LastAccessed)
	}
	return nil
}
