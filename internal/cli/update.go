package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/seanmcc/taskbucket/internal/command"
)

var updateCmd = &cobra.Command{
	Use:   "update [task-id]",
	Short: "Update task fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpdate,
}

func init() {
	updateCmd.Flags().String("description", "", "New description")
	updateCmd.Flags().StringP("status", "s", "", "New status: TODO, IN_PROGRESS, DONE, BLOCKED")
	updateCmd.Flags().String("priority", "", "New priority: high, medium, low")
	updateCmd.Flags().StringP("deadline", "d", "", "New deadline; empty clears it")
	updateCmd.Flags().String("notes", "", "Replace notes")
	updateCmd.Flags().String("type", "", "New task type")
	updateCmd.Flags().String("client", "", "New client override")
	updateCmd.Flags().Float64("estimate", 0, "New time estimate in hours")
	updateCmd.Flags().StringSlice("tags", nil, "Replace tags")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	// Only flags the user actually set become part of the patch.
	var in command.UpdateTaskInput
	stringFlag := func(name string, dst **string) {
		if cmd.Flags().Changed(name) {
			value, _ := cmd.Flags().GetString(name)
			*dst = &value
		}
	}
	stringFlag("description", &in.Description)
	stringFlag("status", &in.Status)
	stringFlag("priority", &in.Priority)
	stringFlag("deadline", &in.Deadline)
	stringFlag("notes", &in.Notes)
	stringFlag("type", &in.Type)
	stringFlag("client", &in.Client)
	if cmd.Flags().Changed("estimate") {
		estimate, _ := cmd.Flags().GetFloat64("estimate")
		in.TimeEstimate = &estimate
	}
	if cmd.Flags().Changed("tags") {
		tags, _ := cmd.Flags().GetStringSlice("tags")
		in.Tags = &tags
	}

	task, err := a.svc.UpdateTask(id, in)
	if err != nil {
		return err
	}

	fmt.Printf("Updated task #%d: %s\n", task.ID, task.Description)
	return nil
}
