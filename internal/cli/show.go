package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringP("format", "f", "detailed", "Output format: detailed, json, yaml")
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	task, err := a.svc.ShowTask(id)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case formatJSON:
		return printJSON(task)
	case formatYAML:
		return printYAML(task)
	default:
		projects, err := a.svc.Projects()
		if err != nil {
			return err
		}
		printTaskDetailed(task, projects.ClientFor(task))
		return nil
	}
}
