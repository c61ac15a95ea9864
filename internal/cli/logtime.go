package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var logTimeCmd = &cobra.Command{
	Use:   "log-time [task-id]",
	Short: "Log time spent on a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogTime,
}

func init() {
	logTimeCmd.Flags().Float64("hours", 0, "Hours spent (required)")
	logTimeCmd.Flags().String("date", "", "Date of the work (default today)")
	logTimeCmd.Flags().String("description", "", "What the time was spent on")
	logTimeCmd.MarkFlagRequired("hours")
}

func runLogTime(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	hours, _ := cmd.Flags().GetFloat64("hours")
	date, _ := cmd.Flags().GetString("date")
	description, _ := cmd.Flags().GetString("description")

	task, err := a.svc.LogTime(id, hours, description, date)
	if err != nil {
		return err
	}

	fmt.Printf("Logged %gh on task #%d (total %gh)\n", hours, task.ID, task.TimeSpent)
	return nil
}
