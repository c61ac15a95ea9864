package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/seanmcc/taskbucket/internal/command"
)

var activateCmd = &cobra.Command{
	Use:   "activate [task-id]",
	Short: "Start a task and sync it to the project's CLAUDE.md",
	Args:  cobra.ExactArgs(1),
	RunE:  runActivate,
}

func init() {
	activateCmd.Flags().String("mode", command.ModeQuick, "Activation mode: quick, prd")
	activateCmd.Flags().Bool("deactivate", false, "Instead set the task back to TODO and remove it from CLAUDE.md")
}

func runActivate(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	deactivate, _ := cmd.Flags().GetBool("deactivate")
	if deactivate {
		result, err := a.svc.DeactivateTask(id)
		if err != nil {
			return err
		}
		fmt.Printf("Deactivated task #%d\n", result.Task.ID)
		if result.HookErr != nil {
			fmt.Printf("Warning: CLAUDE.md not updated: %v\n", result.HookErr)
		}
		return nil
	}

	mode, _ := cmd.Flags().GetString("mode")
	result, err := a.svc.ActivateTask(id, mode)
	if err != nil {
		return err
	}

	fmt.Printf("Activated task #%d: %s\n", result.Task.ID, result.Task.Description)
	if mode == command.ModePRD {
		fmt.Println("Next: /create-prd -> /generate-tasks -> /process-tasks")
	}
	if result.HookErr != nil {
		fmt.Printf("Warning: CLAUDE.md not updated: %v\n", result.HookErr)
	}
	return nil
}
