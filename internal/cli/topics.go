package cli

import (
	"github.com/spf13/cobra"

	"terminal-quiz/internal/transport/terminal"
)

// NewTopicsCmd lists the available topics with their question counts.
func NewTopicsCmd(configPath *string) *cobra.Command {
	var sample bool
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "List available topics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := newRuntime(ctx, *configPath, runtimeOptions{sample: sample})
			if err != nil {
				return err
			}
			defer rt.Close()

			summaries, err := rt.resolver.Summaries(ctx)
			if err != nil {
				return err
			}
			terminal.NewRenderer(cmd.OutOrStdout()).Topics(summaries)
			return nil
		},
	}
	cmd.Flags().BoolVar(&sample, "sample", false, "list the built-in sample topics")
	return cmd
}
