package cli

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/seanmcc/taskbucket/internal/command"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectAddCmd = &cobra.Command{
	Use:   "add [project-id]",
	Short: "Add a new project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectAdd,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE:  runProjectList,
}

func init() {
	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectListCmd)

	projectAddCmd.Flags().String("name", "", "Project name (required)")
	projectAddCmd.Flags().String("code", "", "Short code, 4-5 characters (required)")
	projectAddCmd.Flags().String("lab", "", "Owning lab or client")
	projectAddCmd.Flags().String("path", "", "Filesystem path of the project")
	projectAddCmd.Flags().String("status", "", "Status: active, paused, completed")
	projectAddCmd.Flags().String("description", "", "Description")
	projectAddCmd.MarkFlagRequired("name")
	projectAddCmd.MarkFlagRequired("code")
}

func runProjectAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	in := command.AddProjectInput{ID: args[0]}
	in.Name, _ = cmd.Flags().GetString("name")
	in.Code, _ = cmd.Flags().GetString("code")
	in.Lab, _ = cmd.Flags().GetString("lab")
	in.Path, _ = cmd.Flags().GetString("path")
	in.Status, _ = cmd.Flags().GetString("status")
	in.Description, _ = cmd.Flags().GetString("description")

	project, err := a.svc.AddProject(in)
	if err != nil {
		return err
	}

	fmt.Printf("Added project %s (%s): %s\n", project.ID, project.Code, project.Name)
	return nil
}

func runProjectList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	projects, err := a.svc.Projects()
	if err != nil {
		return err
	}
	if len(projects.Projects) == 0 {
		fmt.Println("No projects found.")
		return nil
	}

	ids := make([]string, 0, len(projects.Projects))
	for id := range projects.Projects {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCODE\tSTATUS\tLAB\tNAME")
	for _, id := range ids {
		p := projects.Projects[id]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Code, p.Status, p.Lab, p.Name)
	}
	w.Flush()
	return nil
}
