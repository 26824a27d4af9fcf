package commands

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vendocli/vendo/internal/render"
)

// Package-level flag variables for n8n workflows.
var (
	n8nWorkflowsActive bool
	n8nWorkflowsCursor string
)

func init() {
	n8nWorkflowsCmd.Flags().BoolVar(&n8nWorkflowsActive, "active", false, "only active workflows")
	n8nWorkflowsCmd.Flags().StringVar(&n8nWorkflowsCursor, "cursor", "", "continue from a previous page")

	n8nCmd.AddCommand(n8nWorkflowsCmd)
	n8nCmd.AddCommand(n8nWorkflowCmd)
	n8nCmd.AddCommand(n8nActivateCmd)
	n8nCmd.AddCommand(n8nDeactivateCmd)
}

var n8nWorkflowsCmd = &cobra.Command{
	Use:   "workflows",
	Short: "List workflows",
	Example: `  vendo n8n workflows
  vendo n8n workflows --active --format json`,
	Args: cobra.NoArgs,
	RunE: runN8NWorkflows,
}

func runN8NWorkflows(cmd *cobra.Command, _ []string) error {
	client, err := newN8NClient()
	if err != nil {
		return err
	}

	var active *bool
	if cmd.Flags().Changed("active") {
		active = &n8nWorkflowsActive
	}
	workflows, next, err := client.ListWorkflows(cmd.Context(), active, n8nWorkflowsCursor)
	if err != nil {
		return n8nErr(err)
	}

	tbl := render.Table{Header: []string{"ID", "NAME", "ACTIVE", "TAGS", "UPDATED"}}
	for _, w := range workflows {
		tags := make([]string, len(w.Tags))
		for i, t := range w.Tags {
			tags[i] = t.Name
		}
		tbl.Rows = append(tbl.Rows, []string{
			w.ID, w.Name, strconv.FormatBool(w.Active), strings.Join(tags, ","), w.UpdatedAt,
		})
	}
	if n8nFormat != "table" {
		tbl.Raw = workflows
	}

	if err := writeOutput(cmd, n8nFormat, n8nOutput, tbl); err != nil {
		return err
	}
	if next != "" && n8nFormat == "table" {
		cmd.Printf("\nMore results available. Continue with --cursor %s\n", next)
	}
	return nil
}

var n8nWorkflowCmd = &cobra.Command{
	Use:   "workflow <id>",
	Short: "Show one workflow",
	Args:  cobra.ExactArgs(1),
	RunE:  runN8NWorkflow,
}

func runN8NWorkflow(cmd *cobra.Command, args []string) error {
	client, err := newN8NClient()
	if err != nil {
		return err
	}
	wf, err := client.GetWorkflow(cmd.Context(), args[0])
	if err != nil {
		return n8nErr(err)
	}
	return writeOutput(cmd, n8nFormat, n8nOutput, render.Table{Raw: wf})
}

var n8nActivateCmd = &cobra.Command{
	Use:   "activate <id>",
	Short: "Activate a workflow",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setN8NActive(cmd, args[0], true)
	},
}

var n8nDeactivateCmd = &cobra.Command{
	Use:   "deactivate <id>",
	Short: "Deactivate a workflow",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setN8NActive(cmd, args[0], false)
	},
}

func setN8NActive(cmd *cobra.Command, id string, active bool) error {
	client, err := newN8NClient()
	if err != nil {
		return err
	}

	var verb string
	if active {
		err = client.Activate(cmd.Context(), id)
		verb = "activated"
	} else {
		err = client.Deactivate(cmd.Context(), id)
		verb = "deactivated"
	}
	if err != nil {
		return n8nErr(err)
	}
	cmd.Printf("Workflow %s %s\n", id, verb)
	return nil
}
