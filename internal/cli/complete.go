package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var completeCmd = &cobra.Command{
	Use:   "complete [task-id]",
	Short: "Mark a task as complete",
	Args:  cobra.ExactArgs(1),
	RunE:  runComplete,
}

func init() {
	completeCmd.Flags().StringP("notes", "n", "", "Completion notes")
}

func runComplete(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	notes, _ := cmd.Flags().GetString("notes")
	result, err := a.svc.CompleteTask(id, notes)
	if err != nil {
		return err
	}

	fmt.Printf("Completed task #%d: %s\n", result.Task.ID, result.Task.Description)
	if result.HookErr != nil {
		fmt.Printf("Warning: CLAUDE.md not updated: %v\n", result.HookErr)
	}
	return nil
}
