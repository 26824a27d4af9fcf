package commands

import (
	"github.com/spf13/cobra"
)

var netsuiteRecordExpand bool

func init() {
	netsuiteRecordCmd.Flags().BoolVar(&netsuiteRecordExpand, "expand", false, "expand sublists and subrecords")
	netsuiteCmd.AddCommand(netsuiteRecordCmd)
}

var netsuiteRecordCmd = &cobra.Command{
	Use:   "record <type> <id>",
	Short: "Fetch a record by internal id",
	Long: `Fetch one record from the REST record API.

The type is the REST record name (salesorder, customer, invoice, ...)
and the id is the record's internal id.`,
	Example: `  vendo netsuite record salesorder 4821
  vendo netsuite record customer 107 --expand --format json`,
	Args: cobra.ExactArgs(2),
	RunE: runNetSuiteRecord,
}

func runNetSuiteRecord(cmd *cobra.Command, args []string) error {
	client, err := newNetSuiteClient()
	if err != nil {
		return err
	}

	record, raw, err := client.GetRecord(cmd.Context(), args[0], args[1], netsuiteRecordExpand)
	if err != nil {
		return netsuiteErr(err)
	}

	tbl := recordTable([]map[string]any{record}, rawJSON(raw))
	return writeOutput(cmd, netsuiteFormat, netsuiteOutput, tbl)
}
