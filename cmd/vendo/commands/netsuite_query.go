package commands

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vendocli/vendo/internal/errors"
)

// Package-level flag variables for netsuite query.
var (
	netsuiteQueryFile   string
	netsuiteQueryLimit  int
	netsuiteQueryOffset int
	netsuiteQueryAll    bool
	netsuiteQueryMax    int
)

func init() {
	netsuiteQueryCmd.Flags().StringVarP(&netsuiteQueryFile, "file", "f", "", "read the query from a file instead of the argument")
	netsuiteQueryCmd.Flags().IntVar(&netsuiteQueryLimit, "limit", 100, "page size (max 1000)")
	netsuiteQueryCmd.Flags().IntVar(&netsuiteQueryOffset, "offset", 0, "starting row offset")
	netsuiteQueryCmd.Flags().BoolVar(&netsuiteQueryAll, "all", false, "follow pagination and return every row")
	netsuiteQueryCmd.Flags().IntVar(&netsuiteQueryMax, "max-rows", 10000, "row cap when using --all")
	netsuiteCmd.AddCommand(netsuiteQueryCmd)
}

var netsuiteQueryCmd = &cobra.Command{
	Use:   "query [suiteql]",
	Short: "Run a SuiteQL query",
	Example: `  # Inline query
  vendo netsuite query "SELECT id, companyname FROM customer WHERE isinactive = 'F'"

  # Query from a file against sandbox 1, all pages as CSV
  vendo netsuite query -f monthly-sales.sql --env sb1 --all --format csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNetSuiteQuery,
}

func runNetSuiteQuery(cmd *cobra.Command, args []string) error {
	q, err := netsuiteQueryText(args)
	if err != nil {
		return err
	}
	client, err := newNetSuiteClient()
	if err != nil {
		return err
	}

	if netsuiteQueryAll {
		rows, err := client.QueryAll(cmd.Context(), q, netsuiteQueryMax)
		if err != nil {
			return netsuiteErr(err)
		}
		return writeOutput(cmd, netsuiteFormat, netsuiteOutput, recordTable(rows, nil))
	}

	page, err := client.Query(cmd.Context(), q, netsuiteQueryLimit, netsuiteQueryOffset)
	if err != nil {
		return netsuiteErr(err)
	}
	tbl := recordTable(page.Items, rawJSON(page.Raw))
	if err := writeOutput(cmd, netsuiteFormat, netsuiteOutput, tbl); err != nil {
		return err
	}
	if page.HasMore && netsuiteFormat == "table" {
		cmd.Printf("\nShowing rows %d-%d of %d. Continue with --offset %d or fetch everything with --all\n",
			page.Offset+1, page.Offset+page.Count, page.TotalResults, page.Offset+page.Count)
	}
	return nil
}

func netsuiteQueryText(args []string) (string, error) {
	if netsuiteQueryFile != "" {
		data, err := os.ReadFile(netsuiteQueryFile)
		if err != nil {
			return "", errors.Wrap(err, "reading query file")
		}
		return strings.TrimSpace(string(data)), nil
	}
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0]), nil
	}
	return "", errors.NewUserError(errors.New("no query given"),
		"Pass the query as an argument or with --file")
}
