package cli

import (
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"terminal-quiz/internal/content"
	"terminal-quiz/internal/infra/file"
	"terminal-quiz/internal/infra/postgres"
)

// NewImportCmd copies the file-based content into Postgres.
func NewImportCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Import topics and question sets from files into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}
			if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
				return err
			}

			source, err := file.NewSource(cfg.Content.DataDir, cfg.Content.ConfigDir)
			if err != nil {
				return err
			}
			store, err := content.NewStore(source, content.WithLogger(log))
			if err != nil {
				return err
			}

			pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}
			defer pool.Close()

			topics, questions, err := postgres.NewImporter(pool, log).Import(ctx, store)
			if err != nil {
				return err
			}
			log.Info("content imported", zap.Int("topics", topics), zap.Int("questions", questions))
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d topics, %d questions\n", topics, questions)
			return nil
		},
	}
}
