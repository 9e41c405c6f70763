package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"terminal-quiz/internal/content"
	"terminal-quiz/internal/domain"
)

const (
	registryKey = "postgres:quiz_topics"
	setPrefix   = "postgres:question_sets/"
)

// Source serves the topic registry from quiz_topics and question sets from
// the JSONB column of question_sets.
type Source struct {
	pool *pgxpool.Pool
}

func NewSource(pool *pgxpool.Pool) *Source {
	return &Source{pool: pool}
}

func (s *Source) Resolve(_ context.Context, ref content.Ref) (content.Location, error) {
	if ref.Kind == content.KindRegistry {
		return content.Location{Key: registryKey, Format: content.FormatJSON}, nil
	}
	if ref.Name == "" {
		return content.Location{}, &domain.NotFoundError{Source: setPrefix, Err: errors.New("empty topic identifier")}
	}
	return content.Location{Key: setPrefix + ref.Name, Format: content.FormatJSON}, nil
}

func (s *Source) Read(ctx context.Context, loc content.Location) ([]byte, error) {
	if loc.Key == registryKey {
		return s.readRegistry(ctx)
	}
	id, ok := strings.CutPrefix(loc.Key, setPrefix)
	if !ok {
		return nil, &domain.NotFoundError{Source: loc.Key}
	}

	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM question_sets WHERE id=$1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &domain.NotFoundError{Source: loc.Key}
	}
	if err != nil {
		return nil, fmt.Errorf("load question set %s: %w", id, err)
	}
	return raw, nil
}

func (s *Source) readRegistry(ctx context.Context) ([]byte, error) {
	rows, err := s.pool.Query(ctx, `SELECT display_name, file_name FROM quiz_topics ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("load topics: %w", err)
	}
	defer rows.Close()

	var topics []domain.Topic
	for rows.Next() {
		var t domain.Topic
		if err := rows.Scan(&t.DisplayName, &t.ID); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load topics: %w", err)
	}
	return content.EncodeRegistry(topics)
}
