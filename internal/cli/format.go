package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/seanmcc/taskbucket/internal/model"
)

// Output formats accepted by --format.
const (
	formatTable  = "table"
	formatSimple = "simple"
	formatJSON   = "json"
	formatYAML   = "yaml"
)

// renderTasks prints tasks in the requested format. codes maps project IDs
// to their short display codes.
func renderTasks(tasks []model.Task, format string, codes map[string]string) error {
	switch format {
	case formatJSON:
		return printJSON(tasks)
	case formatYAML:
		return printYAML(tasks)
	case formatSimple:
		for i := range tasks {
			fmt.Println(simpleLine(&tasks[i]))
		}
		return nil
	default:
		printTaskTable(tasks, codes)
		return nil
	}
}

func printTaskTable(tasks []model.Task, codes map[string]string) {
	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tPRI\tPROJECT\tDEADLINE\tDESCRIPTION\tTAGS")
	for i := range tasks {
		t := &tasks[i]
		code := t.Project
		if c, ok := codes[t.Project]; ok {
			code = c
		}
		deadline := t.Deadline
		if deadline == "" {
			deadline = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Status, t.Priority, code, deadline, t.Description, strings.Join(t.Tags, ","))
	}
	w.Flush()
}

func simpleLine(t *model.Task) string {
	line := fmt.Sprintf("#%d [%s] %s (%s)", t.ID, t.Status, t.Description, t.Project)
	if t.Deadline != "" {
		line += " due " + t.Deadline
	}
	return line
}

// printTaskDetailed prints one task with all populated fields. client is
// the resolved client (override or inherited), which may differ from the
// stored override.
func printTaskDetailed(t *model.Task, client string) {
	fmt.Printf("Task #%d: %s\n", t.ID, t.Description)
	fmt.Printf("  Project:   %s\n", t.Project)
	fmt.Printf("  Status:    %s\n", t.Status)
	fmt.Printf("  Priority:  %s\n", t.Priority)
	fmt.Printf("  Type:      %s\n", t.Type)
	if client != "" {
		fmt.Printf("  Client:    %s\n", client)
	}
	if t.Deadline != "" {
		fmt.Printf("  Deadline:  %s\n", t.Deadline)
	}
	if len(t.Tags) > 0 {
		fmt.Printf("  Tags:      %s\n", strings.Join(t.Tags, ", "))
	}
	if t.TimeEstimate != nil {
		fmt.Printf("  Estimate:  %gh\n", *t.TimeEstimate)
	}
	if t.TimeSpent > 0 {
		fmt.Printf("  Spent:     %gh\n", t.TimeSpent)
	}
	fmt.Printf("  Created:   %s\n", t.Created)
	if t.Activated != "" {
		fmt.Printf("  Activated: %s\n", t.Activated)
	}
	if t.Completed != "" {
		fmt.Printf("  Completed: %s\n", t.Completed)
	}
	if t.Notes != "" {
		fmt.Printf("  Notes:\n")
		for _, line := range strings.Split(t.Notes, "\n") {
			fmt.Printf("    %s\n", line)
		}
	}
	if len(t.TimeLogs) > 0 {
		fmt.Printf("  Time logs:\n")
		for _, log := range t.TimeLogs {
			fmt.Printf("    %s  %gh  %s\n", log.Date, log.Hours, log.Description)
		}
	}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// printYAML renders through JSON first so the YAML keys match the stored
// field names rather than Go identifiers.
func printYAML(v any) error {
	jsonData, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(jsonData, &generic); err != nil {
		return err
	}
	data, err := yaml.Marshal(generic)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
