package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vendocli/vendo/internal/render"
)

var celigoFlowsIntegration string

func init() {
	celigoFlowsCmd.Flags().StringVar(&celigoFlowsIntegration, "integration", "", "limit to flows in one integration")

	celigoCmd.AddCommand(celigoIntegrationsCmd)
	celigoCmd.AddCommand(celigoFlowsCmd)
	celigoCmd.AddCommand(celigoExportsCmd)
	celigoCmd.AddCommand(celigoImportsCmd)
	celigoCmd.AddCommand(celigoConnectionsCmd)
}

var celigoIntegrationsCmd = &cobra.Command{
	Use:   "integrations",
	Short: "List integrations",
	Args:  cobra.NoArgs,
	RunE:  runCeligoIntegrations,
}

func runCeligoIntegrations(cmd *cobra.Command, _ []string) error {
	client, err := newCeligoClient()
	if err != nil {
		return err
	}

	integrations, err := client.ListIntegrations(cmd.Context())
	if err != nil {
		return celigoErr(err)
	}

	tbl := render.Table{Header: []string{"ID", "NAME", "DESCRIPTION"}}
	for _, in := range integrations {
		tbl.Rows = append(tbl.Rows, []string{in.ID, in.Name, in.Description})
	}
	if celigoFormat != "table" {
		tbl.Raw = integrations
	}
	return writeOutput(cmd, celigoFormat, celigoOutput, tbl)
}

var celigoFlowsCmd = &cobra.Command{
	Use:   "flows",
	Short: "List flows",
	Example: `  # Every flow in the account
  vendo celigo flows

  # Flows of one integration
  vendo celigo flows --integration 5f2d8e...`,
	Args: cobra.NoArgs,
	RunE: runCeligoFlows,
}

func runCeligoFlows(cmd *cobra.Command, _ []string) error {
	client, err := newCeligoClient()
	if err != nil {
		return err
	}

	flows, err := client.ListFlows(cmd.Context(), celigoFlowsIntegration)
	if err != nil {
		return celigoErr(err)
	}

	tbl := render.Table{Header: []string{"ID", "NAME", "INTEGRATION", "DISABLED"}}
	for _, f := range flows {
		tbl.Rows = append(tbl.Rows, []string{f.ID, f.Name, f.IntegrationID, strconv.FormatBool(f.Disabled)})
	}
	if celigoFormat != "table" {
		tbl.Raw = flows
	}
	return writeOutput(cmd, celigoFormat, celigoOutput, tbl)
}

var celigoExportsCmd = &cobra.Command{
	Use:   "exports",
	Short: "List exports",
	Args:  cobra.NoArgs,
	RunE:  runCeligoExports,
}

func runCeligoExports(cmd *cobra.Command, _ []string) error {
	client, err := newCeligoClient()
	if err != nil {
		return err
	}

	exports, err := client.ListExports(cmd.Context())
	if err != nil {
		return celigoErr(err)
	}
	return writeOutput(cmd, celigoFormat, celigoOutput, recordTable(exports, nil))
}

var celigoImportsCmd = &cobra.Command{
	Use:   "imports",
	Short: "List imports",
	Args:  cobra.NoArgs,
	RunE:  runCeligoImports,
}

func runCeligoImports(cmd *cobra.Command, _ []string) error {
	client, err := newCeligoClient()
	if err != nil {
		return err
	}

	imports, err := client.ListImports(cmd.Context())
	if err != nil {
		return celigoErr(err)
	}
	return writeOutput(cmd, celigoFormat, celigoOutput, recordTable(imports, nil))
}

var celigoConnectionsCmd = &cobra.Command{
	Use:   "connections",
	Short: "List connections",
	Args:  cobra.NoArgs,
	RunE:  runCeligoConnections,
}

func runCeligoConnections(cmd *cobra.Command, _ []string) error {
	client, err := newCeligoClient()
	if err != nil {
		return err
	}

	conns, err := client.ListConnections(cmd.Context())
	if err != nil {
		return celigoErr(err)
	}
	return writeOutput(cmd, celigoFormat, celigoOutput, recordTable(conns, nil))
}
