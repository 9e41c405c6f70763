package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"

	"terminal-quiz/internal/content"
	"terminal-quiz/internal/domain"
)

// ContentLoader is the read side the importer copies from.
type ContentLoader interface {
	LoadTopics(ctx context.Context) (domain.TopicRegistry, error)
	LoadQuestionSet(ctx context.Context, topicID string) (domain.QuestionSet, error)
}

// Importer replaces the database content with a validated registry and all of
// its question sets, in one transaction. Question sets of topics that are no
// longer registered are removed.
type Importer struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewImporter(pool *pgxpool.Pool, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{pool: pool, logger: logger}
}

// Import returns the number of topics and questions written. Nothing is
// written unless every question set validates.
func (im *Importer) Import(ctx context.Context, from ContentLoader) (topics, questions int, err error) {
	reg, err := from.LoadTopics(ctx)
	if err != nil {
		return 0, 0, err
	}

	docs := make(map[string][]byte, reg.Len())
	for _, topic := range reg.Topics() {
		set, err := from.LoadQuestionSet(ctx, topic.ID)
		if err != nil {
			return 0, 0, err
		}
		data, err := content.EncodeQuestionSet(set)
		if err != nil {
			return 0, 0, fmt.Errorf("encode %s: %w", topic.ID, err)
		}
		docs[topic.ID] = data
		questions += set.Len()
	}

	err = im.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM quiz_topics`); err != nil {
			return err
		}
		ids := make([]string, 0, reg.Len())
		for _, topic := range reg.Topics() {
			ids = append(ids, topic.ID)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM question_sets WHERE NOT (id = ANY($1))`, ids); err != nil {
			return err
		}
		for i, topic := range reg.Topics() {
			if _, err := tx.Exec(ctx,
				`INSERT INTO quiz_topics (position, display_name, file_name) VALUES ($1, $2, $3)`,
				i, topic.DisplayName, topic.ID,
			); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO question_sets (id, data) VALUES ($1, $2::jsonb)
				 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
				topic.ID, string(docs[topic.ID]),
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("import content: %w", err)
	}

	im.logger.Info("content imported", zap.Int("topics", reg.Len()), zap.Int("questions", questions))
	return reg.Len(), questions, nil
}
