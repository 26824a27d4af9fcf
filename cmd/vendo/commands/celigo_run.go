package commands

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/vendocli/vendo/internal/errors"
	"github.com/vendocli/vendo/internal/integration/celigo"
	"github.com/vendocli/vendo/internal/render"
)

// Package-level flag variables for celigo run.
var (
	celigoRunWait     bool
	celigoRunInterval time.Duration
	celigoRunTimeout  time.Duration
)

func init() {
	celigoRunCmd.Flags().BoolVar(&celigoRunWait, "wait", false, "poll the job until it finishes")
	celigoRunCmd.Flags().DurationVar(&celigoRunInterval, "poll-interval", 10*time.Second, "delay between status polls with --wait")
	celigoRunCmd.Flags().DurationVar(&celigoRunTimeout, "timeout", 30*time.Minute, "give up waiting after this long")

	celigoCmd.AddCommand(celigoRunCmd)
	celigoJobCmd.Flags().BoolVar(&celigoJobErrorsFlag, "errors", false, "list the job's error records instead of its status")
	celigoCmd.AddCommand(celigoJobCmd)
}

var celigoRunCmd = &cobra.Command{
	Use:   "run <flow-id>",
	Short: "Trigger a flow run",
	Example: `  # Fire and forget
  vendo celigo run 5f2d8e1a...

  # Trigger and wait for completion
  vendo celigo run 5f2d8e1a... --wait`,
	Args: cobra.ExactArgs(1),
	RunE: runCeligoRun,
}

func runCeligoRun(cmd *cobra.Command, args []string) error {
	client, err := newCeligoClient()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	jobID, err := client.RunFlow(ctx, args[0])
	if err != nil {
		return celigoErr(err)
	}
	cmd.Printf("Flow queued, job %s\n", jobID)

	if !celigoRunWait {
		cmd.Printf("Check progress with: vendo celigo job %s\n", jobID)
		return nil
	}

	deadline := time.Now().Add(celigoRunTimeout)
	for {
		job, err := client.GetJob(ctx, jobID)
		if err != nil {
			return celigoErr(err)
		}
		if jobFinished(job.Status) {
			return printCeligoJob(cmd, job)
		}
		if time.Now().After(deadline) {
			return errors.NewSystemError(
				errors.Newf("job %s still %s after %s", jobID, job.Status, celigoRunTimeout),
				"The flow keeps running server-side; check it later with vendo celigo job "+jobID)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(celigoRunInterval):
		}
	}
}

// jobFinished reports whether a job status is terminal.
func jobFinished(status string) bool {
	switch status {
	case "completed", "failed", "canceled":
		return true
	}
	return false
}

var celigoJobErrorsFlag bool

var celigoJobCmd = &cobra.Command{
	Use:   "job <job-id>",
	Short: "Show a flow run's status",
	Example: `  vendo celigo job 64f1c0a2
  vendo celigo job 64f1c0a2 --errors`,
	Args: cobra.ExactArgs(1),
	RunE: runCeligoJob,
}

func runCeligoJob(cmd *cobra.Command, args []string) error {
	client, err := newCeligoClient()
	if err != nil {
		return err
	}

	if celigoJobErrorsFlag {
		jobErrs, err := client.JobErrors(cmd.Context(), args[0])
		if err != nil {
			return celigoErr(err)
		}
		if len(jobErrs) == 0 && celigoFormat == "table" {
			cmd.Println("No errors recorded for this job.")
			return nil
		}
		return writeOutput(cmd, celigoFormat, celigoOutput, recordTable(jobErrs, nil))
	}

	job, err := client.GetJob(cmd.Context(), args[0])
	if err != nil {
		return celigoErr(err)
	}
	return printCeligoJob(cmd, job)
}

func printCeligoJob(cmd *cobra.Command, job *celigo.Job) error {
	tbl := render.Table{
		Header: []string{"JOB ID", "STATUS", "SUCCESS", "ERROR", "IGNORED", "STARTED", "ENDED"},
		Rows: [][]string{{
			job.ID, job.Status,
			strconv.Itoa(job.NumSuccess), strconv.Itoa(job.NumError), strconv.Itoa(job.NumIgnore),
			job.StartedAt, job.EndedAt,
		}},
	}
	if celigoFormat != "table" {
		tbl.Raw = job
	}
	return writeOutput(cmd, celigoFormat, celigoOutput, tbl)
}
