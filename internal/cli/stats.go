package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/seanmcc/taskbucket/internal/command"
	"github.com/seanmcc/taskbucket/internal/model"
	"github.com/seanmcc/taskbucket/internal/query"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task statistics",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().Bool("by-project", false, "Break counts down per project")
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	stats, err := a.svc.Stats()
	if err != nil {
		return err
	}

	fmt.Printf("Tasks: %d total\n", stats.Total)
	fmt.Printf("  Pending:     %d\n", stats.Pending)
	fmt.Printf("  In progress: %d\n", stats.Active)
	fmt.Printf("  Completed:   %d\n", stats.Completed)
	fmt.Printf("  Blocked:     %d\n", stats.Blocked)
	fmt.Printf("  Overdue:     %d\n", stats.Overdue)

	if byProject, _ := cmd.Flags().GetBool("by-project"); byProject {
		tasks, err := a.svc.ListTasks(command.ListOptions{})
		if err != nil {
			return err
		}
		groups := query.GroupByProject(tasks)

		ids := make([]string, 0, len(groups))
		for id := range groups {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		fmt.Println("\nBy project:")
		for _, id := range ids {
			open := 0
			for _, t := range groups[id] {
				if t.Status != model.StatusDone {
					open++
				}
			}
			fmt.Printf("  %-20s %d tasks (%d open)\n", id, len(groups[id]), open)
		}
	}
	return nil
}
