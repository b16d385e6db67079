package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"transcriber/internal/history"
)

const historyTimeLayout = "2006-01-02 15:04:05"

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprintln(out, renderRuns(runs))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")

	cmd.AddCommand(newHistoryShowCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "List the items of one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			runID := strings.TrimSpace(args[0])
			items, err := store.Items(cmd.Context(), runID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintf(out, "No items recorded for run %s\n", runID)
				return nil
			}
			fmt.Fprintln(out, renderItems(items))
			return nil
		},
	}
}

func renderRuns(runs []history.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.ID,
			formatHistoryTime(run.StartedAt),
			string(run.Status),
			orDash(run.Backend),
			run.Model,
			strconv.Itoa(run.Succeeded),
			strconv.Itoa(run.Failed),
			run.URL,
		})
	}
	return renderTable("",
		[]string{"Run", "Started", "Status", "Backend", "Model", "OK", "Failed", "URL"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	)
}

func renderItems(items []history.Item) string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		result := item.OutputPath
		if item.Error != "" {
			result = fmt.Sprintf("%s: %s", item.ErrorKind, item.Error)
		}
		rows = append(rows, []string{item.ItemID, item.Title, result})
	}
	return renderTable("", []string{"Item", "Title", "Result"}, rows, nil)
}

func formatHistoryTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(historyTimeLayout)
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
