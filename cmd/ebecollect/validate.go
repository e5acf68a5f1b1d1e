package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"ebecollect/internal/validate"
)

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run consistency checks against the database",
		RunE:  runValidate,
	}
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := openReadOnlyDB(ctx, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	report, err := validate.Run(ctx, db)
	if err != nil {
		return err
	}

	var errorIssues []validate.Issue
	var warnIssues []validate.Issue
	for _, issue := range report.Issues {
		switch issue.Severity {
		case validate.SeverityError:
			errorIssues = append(errorIssues, issue)
		case validate.SeverityWarn:
			warnIssues = append(warnIssues, issue)
		}
	}

	if len(errorIssues) == 0 && len(warnIssues) == 0 {
		fmt.Fprintln(os.Stdout, "No issues found.")
		return nil
	}

	if len(errorIssues) > 0 {
		fmt.Fprintf(os.Stdout, "Errors (%d):\n", len(errorIssues))
		printIssues(os.Stdout, errorIssues)
	}
	if len(warnIssues) > 0 {
		if len(errorIssues) > 0 {
			fmt.Fprintln(os.Stdout, "")
		}
		fmt.Fprintf(os.Stdout, "Warnings (%d):\n", len(warnIssues))
		printIssues(os.Stdout, warnIssues)
	}

	if report.HasErrors() {
		return fmt.Errorf("validation found errors")
	}
	return nil
}

func printIssues(out io.Writer, issues []validate.Issue) {
	for _, issue := range issues {
		location := issue.Table
		if issue.EventID != 0 {
			location = fmt.Sprintf("%s [event %d]", issue.Table, issue.EventID)
		}
		if location == "" {
			location = "store"
		}
		fmt.Fprintf(out, "  - %s: %s (%s)\n", location, issue.Message, issue.Code)
	}
}
