// Package query provides pure filtering, sorting, searching, and
// aggregation over in-memory task collections. No function here mutates
// its input; results are fresh slices preserving relative order unless a
// sort is asked for.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/seanmcc/taskbucket/internal/model"
)

// Filter holds conjunctive predicates: a task matches when every set field
// matches. Zero values mean "no constraint".
type Filter struct {
	Status   string
	Project  string
	Type     string
	Priority string
	Client   string

	DeadlineBefore string // inclusive, YYYY-MM-DD
	DeadlineAfter  string // inclusive, YYYY-MM-DD

	TagsAny []string
	TagsAll []string

	Overdue       bool
	DueToday      bool
	DueThisWeek   bool
	DueWithinDays int // 0 = unset
}

// Apply returns the tasks satisfying the filter, preserving input order.
func Apply(tasks []model.Task, f Filter, now time.Time) []model.Task {
	result := make([]model.Task, 0, len(tasks))
	for i := range tasks {
		if matches(&tasks[i], &f, now) {
			result = append(result, tasks[i])
		}
	}
	return result
}

func matches(t *model.Task, f *Filter, now time.Time) bool {
	if f.Status != "" && t.Status != strings.ToUpper(f.Status) {
		return false
	}
	if f.Project != "" && !strings.EqualFold(t.Project, f.Project) {
		return false
	}
	if f.Type != "" && t.Type != strings.ToLower(f.Type) {
		return false
	}
	if f.Priority != "" && t.Priority != strings.ToLower(f.Priority) {
		return false
	}
	if f.Client != "" {
		if t.ClientOverride == "" || !strings.Contains(strings.ToLower(t.ClientOverride), strings.ToLower(f.Client)) {
			return false
		}
	}
	if f.DeadlineBefore != "" && (t.Deadline == "" || t.Deadline > f.DeadlineBefore) {
		return false
	}
	if f.DeadlineAfter != "" && (t.Deadline == "" || t.Deadline < f.DeadlineAfter) {
		return false
	}
	if len(f.TagsAny) > 0 && !hasAnyTag(t, f.TagsAny) {
		return false
	}
	if len(f.TagsAll) > 0 && !hasAllTags(t, f.TagsAll) {
		return false
	}

	today := now.Format(model.DateLayout)
	if f.Overdue && !t.IsOverdue(now) {
		return false
	}
	if f.DueToday && t.Deadline != today {
		return false
	}
	if f.DueThisWeek {
		start, end := weekBounds(now)
		if t.Deadline == "" || t.Deadline < start || t.Deadline > end {
			return false
		}
	}
	if f.DueWithinDays > 0 {
		end := now.AddDate(0, 0, f.DueWithinDays).Format(model.DateLayout)
		if t.Deadline == "" || t.Deadline < today || t.Deadline > end {
			return false
		}
	}
	return true
}

func hasAnyTag(t *model.Task, tags []string) bool {
	for _, tag := range tags {
		if t.HasTag(tag) {
			return true
		}
	}
	return false
}

func hasAllTags(t *model.Task, tags []string) bool {
	for _, tag := range tags {
		if !t.HasTag(tag) {
			return false
		}
	}
	return true
}

// weekBounds returns the Monday and Sunday of the week containing now.
func weekBounds(now time.Time) (string, string) {
	offset := (int(now.Weekday()) + 6) % 7 // Monday = 0
	start := now.AddDate(0, 0, -offset)
	end := start.AddDate(0, 0, 6)
	return start.Format(model.DateLayout), end.Format(model.DateLayout)
}

// DeadlineRange returns tasks whose deadline falls within [start, end].
func DeadlineRange(tasks []model.Task, start, end string) []model.Task {
	var result []model.Task
	for _, t := range tasks {
		if t.Deadline != "" && t.Deadline >= start && t.Deadline <= end {
			result = append(result, t)
		}
	}
	return result
}

// SortByDeadline orders tasks earliest-deadline first. Tasks without a
// deadline sort after all tasks with one. The sort is stable.
func SortByDeadline(tasks []model.Task) []model.Task {
	result := append([]model.Task(nil), tasks...)
	sort.SliceStable(result, func(i, j int) bool {
		di, dj := result[i].Deadline, result[j].Deadline
		if di == "" {
			return false
		}
		if dj == "" {
			return true
		}
		return di < dj
	})
	return result
}

// SortByPriority orders tasks high, medium, low. The sort is stable.
func SortByPriority(tasks []model.Task) []model.Task {
	result := append([]model.Task(nil), tasks...)
	sort.SliceStable(result, func(i, j int) bool {
		return model.PriorityRank(result[i].Priority) < model.PriorityRank(result[j].Priority)
	})
	return result
}

// SortByStatus orders tasks IN_PROGRESS, TODO, BLOCKED, DONE. The sort is
// stable.
func SortByStatus(tasks []model.Task) []model.Task {
	result := append([]model.Task(nil), tasks...)
	sort.SliceStable(result, func(i, j int) bool {
		return model.StatusRank(result[i].Status) < model.StatusRank(result[j].Status)
	})
	return result
}

// Search fields
const (
	FieldDescription = "description"
	FieldNotes       = "notes"
	FieldTags        = "tags"
	FieldClient      = "client"
)

// Search returns tasks whose description, notes, tags, or client contain
// the query, case-insensitively. A non-empty field restricts the match to
// that field.
func Search(tasks []model.Task, q string, field string) []model.Task {
	q = strings.ToLower(q)
	var result []model.Task
	for i := range tasks {
		if searchMatch(&tasks[i], q, field) {
			result = append(result, tasks[i])
		}
	}
	return result
}

func searchMatch(t *model.Task, q, field string) bool {
	any := field == ""
	if (any || field == FieldDescription) && strings.Contains(strings.ToLower(t.Description), q) {
		return true
	}
	if (any || field == FieldNotes) && t.Notes != "" && strings.Contains(strings.ToLower(t.Notes), q) {
		return true
	}
	if any || field == FieldTags {
		for _, tag := range t.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				return true
			}
		}
	}
	if (any || field == FieldClient) && t.ClientOverride != "" && strings.Contains(strings.ToLower(t.ClientOverride), q) {
		return true
	}
	return false
}

// GroupByProject groups tasks by project ID, preserving order within each
// group.
func GroupByProject(tasks []model.Task) map[string][]model.Task {
	groups := make(map[string][]model.Task)
	for _, t := range tasks {
		groups[t.Project] = append(groups[t.Project], t)
	}
	return groups
}

// GroupByStatus groups tasks by status, preserving order within each group.
func GroupByStatus(tasks []model.Task) map[string][]model.Task {
	groups := make(map[string][]model.Task)
	for _, t := range tasks {
		groups[t.Status] = append(groups[t.Status], t)
	}
	return groups
}
