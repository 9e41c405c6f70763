package cli

import (
	"github.com/spf13/cobra"

	"terminal-quiz/internal/transport/terminal"
)

// NewPlayCmd runs an interactive quiz on stdin/stdout.
func NewPlayCmd(configPath *string) *cobra.Command {
	var (
		opts   terminal.Options
		seed   int64
		sample bool
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a quiz in the terminal",
		// Run errors are shown by the renderer.
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := newRuntime(ctx, *configPath, runtimeOptions{sample: sample})
			if err != nil {
				return err
			}
			defer rt.Close()

			engine, err := rt.engine(seed)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			view := terminal.NewRenderer(out)
			runner := terminal.NewRunner(rt.resolver, engine, view, terminal.NewPrompter(cmd.InOrStdin(), out))
			if _, err := runner.Run(ctx, opts); err != nil {
				view.Error(err)
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Topic, "topic", "", "topic number, identifier or name (prompted when empty)")
	cmd.Flags().IntVar(&opts.Count, "count", 0, "number of questions (prompted when 0)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for the question draw (0 uses session.seed)")
	cmd.Flags().BoolVar(&sample, "sample", false, "play the built-in sample topics")
	return cmd
}
