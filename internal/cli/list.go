package cli

import (
	"github.com/spf13/cobra"

	"github.com/seanmcc/taskbucket/internal/command"
	"github.com/seanmcc/taskbucket/internal/query"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks with optional filtering",
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringP("status", "s", "", "Filter by status: TODO, IN_PROGRESS, DONE, BLOCKED")
	listCmd.Flags().StringP("project", "p", "", "Filter by project ID or code")
	listCmd.Flags().String("type", "", "Filter by task type")
	listCmd.Flags().String("priority", "", "Filter by priority")
	listCmd.Flags().String("deadline-before", "", "Deadline on or before this date (YYYY-MM-DD)")
	listCmd.Flags().StringSlice("tags", nil, "Match any of these tags")
	listCmd.Flags().StringSlice("all-tags", nil, "Match all of these tags")
	listCmd.Flags().Bool("overdue", false, "Only overdue tasks")
	listCmd.Flags().Bool("due-today", false, "Only tasks due today")
	listCmd.Flags().Bool("due-this-week", false, "Only tasks due this week (Mon-Sun)")
	listCmd.Flags().Int("due-next", 0, "Only tasks due in the next N days")
	listCmd.Flags().String("sort", "deadline", "Sort by: deadline, priority, status")
	listCmd.Flags().StringP("format", "f", formatTable, "Output format: table, simple, json, yaml")
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var f query.Filter
	f.Status, _ = cmd.Flags().GetString("status")
	f.Project, _ = cmd.Flags().GetString("project")
	f.Type, _ = cmd.Flags().GetString("type")
	f.Priority, _ = cmd.Flags().GetString("priority")
	f.DeadlineBefore, _ = cmd.Flags().GetString("deadline-before")
	f.TagsAny, _ = cmd.Flags().GetStringSlice("tags")
	f.TagsAll, _ = cmd.Flags().GetStringSlice("all-tags")
	f.Overdue, _ = cmd.Flags().GetBool("overdue")
	f.DueToday, _ = cmd.Flags().GetBool("due-today")
	f.DueThisWeek, _ = cmd.Flags().GetBool("due-this-week")
	f.DueWithinDays, _ = cmd.Flags().GetInt("due-next")

	sortBy, _ := cmd.Flags().GetString("sort")
	tasks, err := a.svc.ListTasks(command.ListOptions{Filter: f, SortBy: sortBy})
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	projects, err := a.svc.Projects()
	if err != nil {
		return err
	}
	return renderTasks(tasks, format, projects.Codes())
}
