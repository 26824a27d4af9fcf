package commands

import (
	"github.com/spf13/cobra"

	"github.com/vendocli/vendo/internal/render"
)

// Package-level flag variables for n8n executions.
var (
	n8nExecWorkflow    string
	n8nExecStatus      string
	n8nExecCursor      string
	n8nExecLimit       int
	n8nExecIncludeData bool
)

func init() {
	n8nExecutionsCmd.Flags().StringVar(&n8nExecWorkflow, "workflow", "", "limit to one workflow id")
	n8nExecutionsCmd.Flags().StringVar(&n8nExecStatus, "status", "", "filter by status: success, error, waiting")
	n8nExecutionsCmd.Flags().StringVar(&n8nExecCursor, "cursor", "", "continue from a previous page")
	n8nExecutionsCmd.Flags().IntVar(&n8nExecLimit, "limit", 20, "page size")
	n8nExecutionCmd.Flags().BoolVar(&n8nExecIncludeData, "data", false, "include node input/output data")

	n8nCmd.AddCommand(n8nExecutionsCmd)
	n8nCmd.AddCommand(n8nExecutionCmd)
}

var n8nExecutionsCmd = &cobra.Command{
	Use:   "executions",
	Short: "List workflow executions",
	Example: `  # Recent failures across all workflows
  vendo n8n executions --status error

  # Runs of one workflow
  vendo n8n executions --workflow 1003`,
	Args: cobra.NoArgs,
	RunE: runN8NExecutions,
}

func runN8NExecutions(cmd *cobra.Command, _ []string) error {
	client, err := newN8NClient()
	if err != nil {
		return err
	}

	executions, next, err := client.ListExecutions(cmd.Context(), n8nExecWorkflow, n8nExecStatus, n8nExecCursor, n8nExecLimit)
	if err != nil {
		return n8nErr(err)
	}

	tbl := render.Table{Header: []string{"ID", "WORKFLOW", "STATUS", "MODE", "STARTED", "STOPPED"}}
	for _, e := range executions {
		tbl.Rows = append(tbl.Rows, []string{e.ID, e.WorkflowID, e.Status, e.Mode, e.StartedAt, e.StoppedAt})
	}
	if n8nFormat != "table" {
		tbl.Raw = executions
	}

	if err := writeOutput(cmd, n8nFormat, n8nOutput, tbl); err != nil {
		return err
	}
	if next != "" && n8nFormat == "table" {
		cmd.Printf("\nMore results available. Continue with --cursor %s\n", next)
	}
	return nil
}

var n8nExecutionCmd = &cobra.Command{
	Use:   "execution <id>",
	Short: "Show one execution",
	Args:  cobra.ExactArgs(1),
	RunE:  runN8NExecution,
}

func runN8NExecution(cmd *cobra.Command, args []string) error {
	client, err := newN8NClient()
	if err != nil {
		return err
	}
	exec, err := client.GetExecution(cmd.Context(), args[0], n8nExecIncludeData)
	if err != nil {
		return n8nErr(err)
	}
	return writeOutput(cmd, n8nFormat, n8nOutput, render.Table{Raw: exec})
}
