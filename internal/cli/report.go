package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seanmcc/taskbucket/internal/command"
)

var reportCmd = &cobra.Command{
	Use:   "time-report",
	Short: "Summarize logged time by project or client",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringP("project", "p", "", "Limit to one project (ID or code)")
	reportCmd.Flags().String("client", "", "Limit to one client")
	reportCmd.Flags().String("start", "", "Start date (inclusive, YYYY-MM-DD)")
	reportCmd.Flags().String("end", "", "End date (inclusive, YYYY-MM-DD)")
	reportCmd.Flags().String("group-by", "project", "Group by: project, client")
	reportCmd.Flags().StringP("format", "f", formatTable, "Output format: table, json, yaml")
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var opts command.ReportOptions
	opts.Project, _ = cmd.Flags().GetString("project")
	opts.Client, _ = cmd.Flags().GetString("client")
	opts.Start, _ = cmd.Flags().GetString("start")
	opts.End, _ = cmd.Flags().GetString("end")
	opts.GroupBy, _ = cmd.Flags().GetString("group-by")

	report, err := a.svc.TimeReport(opts)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case formatJSON:
		return printJSON(report)
	case formatYAML:
		return printYAML(report)
	}

	if len(report.Groups) == 0 {
		fmt.Println("No time logged in range.")
		return nil
	}
	fmt.Printf("Time report %s to %s (by %s)\n\n", report.Start, report.End, report.GroupBy)
	for _, group := range report.Groups {
		fmt.Printf("%s: %gh\n", group.Key, group.Hours)
		for _, line := range group.Lines {
			fmt.Printf("  #%d %s: %gh\n", line.TaskID, line.Description, line.Hours)
		}
	}
	fmt.Printf("\nTotal: %gh\n", report.Total)
	return nil
}
