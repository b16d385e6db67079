package main

import (
	"github.com/spf13/cobra"

	"transcriber/internal/pipeline"
)

func newRootCommand() *cobra.Command {
	return buildRootCommand(nil)
}

// buildRootCommand wires the command tree. Tests pass pipeline options to
// replace the system toolchain.
func buildRootCommand(pipelineOpts []pipeline.Option) *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)
	ctx.pipelineOpts = pipelineOpts

	rootCmd := &cobra.Command{
		Use:           "transcriber",
		Short:         "Transcribe online video and playlist audio with Whisper",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newRunCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newModelsCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
