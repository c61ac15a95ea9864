package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seanmcc/taskbucket/internal/command"
)

var addCmd = &cobra.Command{
	Use:   "add [description]",
	Short: "Add a new task",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().StringP("project", "p", "", "Project ID or code (required unless default_project is set)")
	addCmd.Flags().String("type", "", "Task type: work, personal, daily")
	addCmd.Flags().String("priority", "", "Priority: high, medium, low")
	addCmd.Flags().StringP("deadline", "d", "", "Deadline (YYYY-MM-DD or natural language)")
	addCmd.Flags().Float64("estimate", 0, "Time estimate in hours")
	addCmd.Flags().String("client", "", "Client override (inherited from project when unset)")
	addCmd.Flags().StringSlice("tags", nil, "Tags (comma-separated)")
	addCmd.Flags().String("notes", "", "Initial notes")
}

func runAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	in := command.AddTaskInput{Description: args[0]}
	in.Project, _ = cmd.Flags().GetString("project")
	in.Type, _ = cmd.Flags().GetString("type")
	in.Priority, _ = cmd.Flags().GetString("priority")
	in.Deadline, _ = cmd.Flags().GetString("deadline")
	in.Client, _ = cmd.Flags().GetString("client")
	in.Tags, _ = cmd.Flags().GetStringSlice("tags")
	in.Notes, _ = cmd.Flags().GetString("notes")
	if cmd.Flags().Changed("estimate") {
		estimate, _ := cmd.Flags().GetFloat64("estimate")
		in.TimeEstimate = &estimate
	}

	task, err := a.svc.AddTask(in)
	if err != nil {
		return err
	}

	fmt.Printf("Added task #%d: %s\n", task.ID, task.Description)
	return nil
}
