package commands

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vendocli/vendo/internal/errors"
	"github.com/vendocli/vendo/internal/render"
)

var spapiReportMarketplaces []string

func init() {
	spapiReportCreateCmd.Flags().StringSliceVar(&spapiReportMarketplaces, "marketplace", nil, "marketplace ids (default: amazon.com)")

	spapiReportCmd.AddCommand(spapiReportCreateCmd)
	spapiReportCmd.AddCommand(spapiReportStatusCmd)
	spapiReportCmd.AddCommand(spapiReportDownloadCmd)
	spapiCmd.AddCommand(spapiReportCmd)
}

var spapiReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Request and download reports",
	Long: `Work with the SP-API reports lifecycle.

Reports are asynchronous: create one, poll its status until DONE, then
download the document.`,
}

var spapiReportCreateCmd = &cobra.Command{
	Use:     "create <report-type>",
	Short:   "Request a new report",
	Example: `  vendo spapi report create GET_FLAT_FILE_OPEN_LISTINGS_DATA`,
	Args:    cobra.ExactArgs(1),
	RunE:    runSPAPIReportCreate,
}

func runSPAPIReportCreate(cmd *cobra.Command, args []string) error {
	client, err := newSPAPIClient()
	if err != nil {
		return err
	}

	id, err := client.CreateReport(cmd.Context(), args[0], spapiMarketplaces(spapiReportMarketplaces))
	if err != nil {
		return spapiErr(err)
	}
	cmd.Printf("Report requested: %s\n", id)
	cmd.Printf("Check progress with: vendo spapi report status %s\n", id)
	return nil
}

var spapiReportStatusCmd = &cobra.Command{
	Use:   "status <report-id>",
	Short: "Show a report's processing status",
	Args:  cobra.ExactArgs(1),
	RunE:  runSPAPIReportStatus,
}

func runSPAPIReportStatus(cmd *cobra.Command, args []string) error {
	client, err := newSPAPIClient()
	if err != nil {
		return err
	}

	report, err := client.GetReport(cmd.Context(), args[0])
	if err != nil {
		return spapiErr(err)
	}

	tbl := render.Table{
		Header: []string{"REPORT ID", "TYPE", "STATUS", "DOCUMENT ID"},
		Rows: [][]string{{
			report.ReportID, report.ReportType, report.ProcessingStatus, report.ReportDocumentID,
		}},
	}
	return writeOutput(cmd, spapiFormat, spapiOutput, tbl)
}

var spapiReportDownloadCmd = &cobra.Command{
	Use:   "download <report-id>",
	Short: "Download a finished report",
	Long: `Download a finished report's document.

Gzip-compressed documents are decompressed transparently. Use --output
to write to a file; the default is stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runSPAPIReportDownload,
}

func runSPAPIReportDownload(cmd *cobra.Command, args []string) error {
	client, err := newSPAPIClient()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	report, err := client.GetReport(ctx, args[0])
	if err != nil {
		return spapiErr(err)
	}
	if report.ReportDocumentID == "" {
		return errors.NewUserError(
			errors.Newf("report %s is not finished (status %s)", report.ReportID, report.ProcessingStatus),
			"Wait for the status to reach DONE, then retry")
	}

	downloadURL, compression, err := client.GetReportDocument(ctx, report.ReportDocumentID)
	if err != nil {
		return spapiErr(err)
	}
	body, err := client.DownloadDocument(ctx, downloadURL)
	if err != nil {
		return spapiErr(err)
	}
	if compression == "GZIP" {
		body, err = gunzip(body)
		if err != nil {
			return errors.Wrap(err, "decompressing report document")
		}
	}

	if spapiOutput != "" {
		if err := os.WriteFile(spapiOutput, body, 0o644); err != nil {
			return errors.Wrap(err, "writing report document")
		}
		cmd.Printf("Wrote %d bytes to %s\n", len(body), spapiOutput)
		return nil
	}
	_, err = cmd.OutOrStdout().Write(body)
	return err
}

func gunzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
