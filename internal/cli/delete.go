package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [task-id]",
	Short: "Delete a task (requires --confirm)",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	deleteCmd.Flags().Bool("confirm", false, "Confirm the deletion")
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	confirm, _ := cmd.Flags().GetBool("confirm")
	if err := a.svc.DeleteTask(id, confirm); err != nil {
		return err
	}

	fmt.Printf("Deleted task #%d\n", id)
	return nil
}
