package commands

import (
	"time"

	"github.com/spf13/cobra"
)

// mimecastTimeLayout is the timestamp format the Mimecast API expects.
const mimecastTimeLayout = "2006-01-02T15:04:05-0700"

// Package-level flag variables for mimecast log commands.
var (
	mimecastSince string
	mimecastFrom  string
	mimecastTo    string
	mimecastRoute string
)

func init() {
	for _, c := range []*cobra.Command{mimecastTTPCmd, mimecastAuditCmd} {
		c.Flags().StringVar(&mimecastSince, "since", "24h", "window start relative to now (7d, 24h)")
		c.Flags().StringVar(&mimecastFrom, "from", "", "window start, overrides --since (2026-08-27T00:00:00+0000)")
		c.Flags().StringVar(&mimecastTo, "to", "", "window end (default: now)")
	}
	mimecastTTPCmd.Flags().StringVar(&mimecastRoute, "route", "", "filter by route: inbound, outbound, internal")

	mimecastCmd.AddCommand(mimecastTTPCmd)
	mimecastCmd.AddCommand(mimecastAuditCmd)
}

// mimecastWindow resolves the --since/--from/--to flags into the
// vendor's timestamp format.
func mimecastWindow(now time.Time) (from, to string, err error) {
	from = mimecastFrom
	if from == "" {
		start, err := parseSince(mimecastSince, now)
		if err != nil {
			return "", "", err
		}
		from = start.Format(mimecastTimeLayout)
	}
	to = mimecastTo
	if to == "" {
		to = now.Format(mimecastTimeLayout)
	}
	return from, to, nil
}

var mimecastTTPCmd = &cobra.Command{
	Use:   "ttp-urls",
	Short: "Fetch Targeted Threat Protection URL logs",
	Example: `  # Clicks in the last day
  vendo mimecast ttp-urls

  # Inbound clicks over the last week, as CSV
  vendo mimecast ttp-urls --since 7d --route inbound --format csv`,
	Args: cobra.NoArgs,
	RunE: runMimecastTTP,
}

func runMimecastTTP(cmd *cobra.Command, _ []string) error {
	from, to, err := mimecastWindow(time.Now())
	if err != nil {
		return err
	}
	client, err := newMimecastClient()
	if err != nil {
		return err
	}

	page, err := client.TTPURLLogs(cmd.Context(), from, to, mimecastRoute, mimecastPageSize, mimecastPageToken)
	if err != nil {
		return mimecastErr(err)
	}
	return writeMimecastPage(cmd, page)
}

var mimecastAuditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Fetch administrator audit events",
	Args:  cobra.NoArgs,
	RunE:  runMimecastAudit,
}

func runMimecastAudit(cmd *cobra.Command, _ []string) error {
	from, to, err := mimecastWindow(time.Now())
	if err != nil {
		return err
	}
	client, err := newMimecastClient()
	if err != nil {
		return err
	}

	page, err := client.AuditEvents(cmd.Context(), from, to, mimecastPageSize, mimecastPageToken)
	if err != nil {
		return mimecastErr(err)
	}
	return writeMimecastPage(cmd, page)
}
