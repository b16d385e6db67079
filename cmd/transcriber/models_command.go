package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"transcriber/internal/whisper"
)

func newModelsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the Whisper models the engine accepts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			selected := cfg.Transcription.Model
			if selected == "" {
				selected = whisper.DefaultModel
			}

			rows := make([][]string, 0, len(whisper.Models))
			for _, name := range whisper.Models {
				marker := ""
				if name == selected {
					marker = "*"
				}
				rows = append(rows, []string{name, marker})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable("", []string{"Model", "Default"}, rows, nil))
			return nil
		},
	}
}
