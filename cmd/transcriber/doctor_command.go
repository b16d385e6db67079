package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"transcriber/internal/command"
	"transcriber/internal/deps"
	"transcriber/internal/logging"
	"transcriber/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools and the working environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg, false)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			statuses := preflight.CheckSystemDeps(cmd.Context(), cfg, deps.NewResolver(logger))
			python := ""
			for _, status := range statuses {
				if status.Name == "Python" && status.Available {
					python = status.Command
				}
			}
			results := preflight.RunAll(cmd.Context(), cfg, command.NewRunner(logger, nil), python)

			out := cmd.OutOrStdout()
			report, problems := doctorReport(statuses, results, shouldColorize(out))
			fmt.Fprintln(out, report)
			if problems > 0 {
				return fmt.Errorf("doctor found %d problem(s)", problems)
			}
			fmt.Fprintln(out, "All required checks passed")
			return nil
		},
	}
}

// doctorReport renders the tool and environment tables and counts the
// failures that would stop a run. Missing optional tools only warn.
func doctorReport(statuses []deps.Status, results []preflight.Result, colorize bool) (string, int) {
	problems := 0

	toolRows := make([][]string, 0, len(statuses))
	for _, status := range statuses {
		kind := statusOK
		location := status.Command
		if !status.Available {
			location = status.Detail
			if status.Optional {
				kind = statusWarn
			} else {
				kind = statusError
				problems++
			}
		}
		toolRows = append(toolRows, []string{
			status.Name,
			renderStatus(kind, colorize),
			yesNo(status.Optional),
			location,
			status.Description,
		})
	}

	checkRows := make([][]string, 0, len(results))
	for _, result := range results {
		kind := statusOK
		if !result.Passed {
			kind = statusError
			problems++
		}
		checkRows = append(checkRows, []string{result.Name, renderStatus(kind, colorize), result.Detail})
	}

	var b strings.Builder
	b.WriteString(renderTable("Tools", []string{"Tool", "Status", "Optional", "Location", "Purpose"}, toolRows, nil))
	b.WriteString("\n")
	b.WriteString(renderTable("Environment", []string{"Check", "Status", "Detail"}, checkRows, nil))
	return b.String(), problems
}
