package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/vendocli/vendo/internal/errors"
)

// Package-level flag variables for mimecast search.
var (
	mimecastSearchFrom    string
	mimecastSearchTo      string
	mimecastSearchSender  string
	mimecastSearchSubject string
)

func init() {
	mimecastSearchCmd.Flags().StringVar(&mimecastSearchFrom, "start", "", "search window start (2026-08-27T00:00:00+0000)")
	mimecastSearchCmd.Flags().StringVar(&mimecastSearchTo, "end", "", "search window end (default: now)")
	mimecastSearchCmd.Flags().StringVar(&mimecastSearchSender, "sender", "", "filter by envelope sender address")
	mimecastSearchCmd.Flags().StringVar(&mimecastSearchSubject, "subject", "", "filter by subject text")
	mimecastCmd.AddCommand(mimecastSearchCmd)
}

var mimecastSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Track messages",
	Long: `Search message tracking by sender and subject.

At least one of --sender or --subject is required; an unfiltered
search of the whole archive is rejected server-side.`,
	Example: `  vendo mimecast search --sender billing@example.com --format json
  vendo mimecast search --subject "invoice" --start 2026-08-01T00:00:00+0000`,
	Args: cobra.NoArgs,
	RunE: runMimecastSearch,
}

func runMimecastSearch(cmd *cobra.Command, _ []string) error {
	if mimecastSearchSender == "" && mimecastSearchSubject == "" {
		return errors.NewUserError(errors.New("no search criteria given"),
			"Filter with --sender, --subject, or both")
	}

	query := map[string]any{}
	if mimecastSearchSender != "" {
		query["from"] = mimecastSearchSender
	}
	if mimecastSearchSubject != "" {
		query["subject"] = mimecastSearchSubject
	}
	if mimecastSearchFrom != "" {
		query["start"] = mimecastSearchFrom
	}
	end := mimecastSearchTo
	if end == "" {
		end = time.Now().Format(mimecastTimeLayout)
	}
	query["end"] = end

	client, err := newMimecastClient()
	if err != nil {
		return err
	}
	page, err := client.MessageSearch(cmd.Context(), query, mimecastPageSize, mimecastPageToken)
	if err != nil {
		return mimecastErr(err)
	}
	return writeMimecastPage(cmd, page)
}
