package query

import (
	"sort"

	"github.com/seanmcc/taskbucket/internal/model"
)

// Grouping keys for time reports.
const (
	GroupProject = "project"
	GroupClient  = "client"
)

// ReportLine is one task's subtotal within a report group.
type ReportLine struct {
	TaskID      int     `json:"task_id"`
	Description string  `json:"description"`
	Hours       float64 `json:"hours"`
}

// ReportGroup subtotals the time logged against one project or client.
type ReportGroup struct {
	Key   string       `json:"key"`
	Hours float64      `json:"hours"`
	Lines []ReportLine `json:"lines"`
}

// Report aggregates time logs whose date falls within [Start, End].
type Report struct {
	Start   string        `json:"start"`
	End     string        `json:"end"`
	GroupBy string        `json:"group_by"`
	Total   float64       `json:"total_hours"`
	Groups  []ReportGroup `json:"groups"`
}

// TimeReport sums time-log hours in the inclusive [start, end] date range,
// grouped by project or client. Client grouping resolves through the
// task's project (override-wins-else-inherit); tasks whose client cannot
// be resolved land under "(unassigned)".
func TimeReport(tasks []model.Task, projects *model.ProjectSet, start, end, groupBy string) Report {
	if groupBy != GroupClient {
		groupBy = GroupProject
	}

	type taskTotal struct {
		line  ReportLine
		order int
	}
	groupTotals := make(map[string]map[int]*taskTotal)
	order := 0

	for i := range tasks {
		t := &tasks[i]
		var hours float64
		for _, log := range t.TimeLogs {
			if log.Date >= start && log.Date <= end {
				hours += log.Hours
			}
		}
		if hours == 0 {
			continue
		}

		key := t.Project
		if groupBy == GroupClient {
			key = projects.ClientFor(t)
			if key == "" {
				key = "(unassigned)"
			}
		}

		if groupTotals[key] == nil {
			groupTotals[key] = make(map[int]*taskTotal)
		}
		if existing, ok := groupTotals[key][t.ID]; ok {
			existing.line.Hours += hours
		} else {
			groupTotals[key][t.ID] = &taskTotal{
				line:  ReportLine{TaskID: t.ID, Description: t.Description, Hours: hours},
				order: order,
			}
			order++
		}
	}

	report := Report{Start: start, End: end, GroupBy: groupBy}
	keys := make([]string, 0, len(groupTotals))
	for key := range groupTotals {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		group := ReportGroup{Key: key}
		totals := make([]*taskTotal, 0, len(groupTotals[key]))
		for _, tt := range groupTotals[key] {
			totals = append(totals, tt)
		}
		sort.Slice(totals, func(i, j int) bool { return totals[i].order < totals[j].order })
		for _, tt := range totals {
			group.Lines = append(group.Lines, tt.line)
			group.Hours += tt.line.Hours
		}
		report.Groups = append(report.Groups, group)
		report.Total += group.Hours
	}
	return report
}
