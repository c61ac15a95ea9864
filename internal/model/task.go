package model

import (
	"encoding/json"
	"time"
)

// Date layout used for all day-granularity fields (deadline, created,
// completed, time log dates). Lexical comparison of two dates in this
// layout matches chronological order.
const DateLayout = "2006-01-02"

// Task statuses
const (
	StatusTodo       = "TODO"
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
	StatusBlocked    = "BLOCKED"
)

// Task priorities
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Task types
const (
	TypeWork     = "work"
	TypePersonal = "personal"
	TypeDaily    = "daily"
)

// TimeLog records time spent on a task on a given day.
type TimeLog struct {
	Date        string  `json:"date"`
	Hours       float64 `json:"hours"`
	Description string  `json:"description"`
	LoggedAt    string  `json:"logged_at"`
}

// Task is a unit of trackable work. Dates are YYYY-MM-DD strings; empty
// string means unset. ClientOverride maps to the legacy employer_client
// field: when set it wins over the owning project's client, otherwise the
// client is inherited from the project.
type Task struct {
	ID             int       `json:"id"`
	Description    string    `json:"description"`
	Project        string    `json:"project"`
	Status         string    `json:"status"`
	Created        string    `json:"created"`
	Priority       string    `json:"priority"`
	Deadline       string    `json:"deadline,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	Activated      string    `json:"activated,omitempty"`
	Completed      string    `json:"completed,omitempty"`
	Type           string    `json:"task_type"`
	ClientOverride string    `json:"employer_client,omitempty"`
	TimeEstimate   *float64  `json:"time_estimate_hours,omitempty"`
	TimeSpent      float64   `json:"time_spent_hours"`
	TimeLogs       []TimeLog `json:"time_logs,omitempty"`
	Tags           []string  `json:"tags,omitempty"`

	// Daily task fields; stored and round-tripped, scheduling is up to callers.
	Recurrence     string `json:"recurrence,omitempty"`
	RecurrenceDays []int  `json:"recurrence_days,omitempty"`
	TimeOfDay      string `json:"time_of_day,omitempty"`
	StreakCount    int    `json:"streak_count,omitempty"`
	LastCompleted  string `json:"last_completed,omitempty"`

	// Extra holds fields present in the stored record that this version
	// does not know about. They survive load/save round-trips untouched.
	Extra map[string]json.RawMessage `json:"-"`
}

// taskKnownFields are the JSON keys owned by the Task struct. Anything else
// found in a stored record lands in Extra.
var taskKnownFields = map[string]bool{
	"id": true, "description": true, "project": true, "status": true,
	"created": true, "priority": true, "deadline": true, "notes": true,
	"activated": true, "completed": true, "task_type": true,
	"employer_client": true, "time_estimate_hours": true,
	"time_spent_hours": true, "time_logs": true, "tags": true,
	"recurrence": true, "recurrence_days": true, "time_of_day": true,
	"streak_count": true, "last_completed": true,
}

// UnmarshalJSON decodes a task record, stashing unknown fields in Extra.
func (t *Task) UnmarshalJSON(data []byte) error {
	type alias Task
	var known alias
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key := range raw {
		if taskKnownFields[key] {
			continue
		}
		if known.Extra == nil {
			known.Extra = make(map[string]json.RawMessage)
		}
		known.Extra[key] = raw[key]
	}

	*t = Task(known)
	return nil
}

// MarshalJSON encodes the task, merging preserved unknown fields back in.
func (t Task) MarshalJSON() ([]byte, error) {
	type alias Task
	data, err := json.Marshal(alias(t))
	if err != nil {
		return nil, err
	}
	if len(t.Extra) == 0 {
		return data, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for key, value := range t.Extra {
		if _, owned := merged[key]; owned {
			continue
		}
		merged[key] = value
	}
	return json.Marshal(merged)
}

// IsOverdue reports whether the deadline is strictly before today and the
// task is not done.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.Deadline == "" || t.Status == StatusDone {
		return false
	}
	return t.Deadline < now.Format(DateLayout)
}

// DaysUntilDeadline returns days remaining until the deadline, or false if
// there is no deadline or it has already passed.
func (t *Task) DaysUntilDeadline(now time.Time) (int, bool) {
	if t.Deadline == "" {
		return 0, false
	}
	today := now.Format(DateLayout)
	if t.Deadline < today {
		return 0, false
	}
	deadline, err := time.Parse(DateLayout, t.Deadline)
	if err != nil {
		return 0, false
	}
	day, _ := time.Parse(DateLayout, today)
	return int(deadline.Sub(day).Hours() / 24), true
}

// HasTag reports whether the task carries the given tag.
func (t *Task) HasTag(tag string) bool {
	for _, have := range t.Tags {
		if have == tag {
			return true
		}
	}
	return false
}

// priorityRank defines the priority ordinal: high sorts before medium
// sorts before low. Unknown priorities sort last.
var priorityRank = map[string]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

// PriorityRank returns the sort ordinal for a priority value.
func PriorityRank(priority string) int {
	if rank, ok := priorityRank[priority]; ok {
		return rank
	}
	return len(priorityRank)
}

// statusRank defines the status display ordering.
var statusRank = map[string]int{
	StatusInProgress: 0,
	StatusTodo:       1,
	StatusBlocked:    2,
	StatusDone:       3,
}

// StatusRank returns the sort ordinal for a status value.
func StatusRank(status string) int {
	if rank, ok := statusRank[status]; ok {
		return rank
	}
	return len(statusRank)
}
