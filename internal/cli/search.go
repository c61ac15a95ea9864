package cli

import (
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search tasks by description, notes, tags, or client",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().String("in", "", "Restrict to one field: description, notes, tags, client")
	searchCmd.Flags().StringP("format", "f", formatTable, "Output format: table, simple, json, yaml")
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	field, _ := cmd.Flags().GetString("in")
	tasks, err := a.svc.SearchTasks(args[0], field)
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
