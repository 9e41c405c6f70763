package app

import (
	"context"
	"errors"
	"strings"

	"terminal-quiz/internal/domain"
)

// TopicLoader loads the topic registry (content.Store, in production).
type TopicLoader interface {
	LoadTopics(ctx context.Context) (domain.TopicRegistry, error)
}

// TopicResolver maps user-facing selections to topic identifiers.
type TopicResolver struct {
	topics TopicLoader
	bank   *QuestionBank
}

func NewTopicResolver(topics TopicLoader, bank *QuestionBank) *TopicResolver {
	return &TopicResolver{topics: topics, bank: bank}
}

// ListTopics returns display names in registry order.
func (r *TopicResolver) ListTopics(ctx context.Context) ([]string, error) {
	reg, err := r.topics.LoadTopics(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, reg.Len())
	for _, t := range reg.Topics() {
		names = append(names, t.DisplayName)
	}
	return names, nil
}

// Resolve returns the identifier of the topic at zero-based position index.
func (r *TopicResolver) Resolve(ctx context.Context, index int) (string, error) {
	topic, err := r.Topic(ctx, index)
	if err != nil {
		return "", err
	}
	return topic.ID, nil
}

// Topic returns the full registry entry at position index.
func (r *TopicResolver) Topic(ctx context.Context, index int) (domain.Topic, error) {
	reg, err := r.topics.LoadTopics(ctx)
	if err != nil {
		return domain.Topic{}, err
	}
	return reg.Topic(index)
}

// ResolveName matches a topic by identifier, or by display name ignoring case.
func (r *TopicResolver) ResolveName(ctx context.Context, name string) (domain.Topic, error) {
	reg, err := r.topics.LoadTopics(ctx)
	if err != nil {
		return domain.Topic{}, err
	}
	name = strings.TrimSpace(name)
	for _, t := range reg.Topics() {
		if t.ID == name {
			return t, nil
		}
	}
	for _, t := range reg.Topics() {
		if strings.EqualFold(t.DisplayName, name) || strings.EqualFold(t.ID, name) {
			return t, nil
		}
	}
	return domain.Topic{}, &domain.NotFoundError{Source: "topic " + name}
}

// Lookup returns the registry entry for a topic identifier.
func (r *TopicResolver) Lookup(ctx context.Context, topicID string) (domain.Topic, error) {
	reg, err := r.topics.LoadTopics(ctx)
	if err != nil {
		return domain.Topic{}, err
	}
	for _, t := range reg.Topics() {
		if t.ID == topicID {
			return t, nil
		}
	}
	return domain.Topic{}, &domain.NotFoundError{Source: "topic " + topicID}
}

// QuestionCount returns the number of questions for topicID.
func (r *TopicResolver) QuestionCount(ctx context.Context, topicID string) (int, error) {
	return r.bank.Length(ctx, topicID)
}

// Summaries lists every registered topic with its question count. A topic
// whose question set is missing or invalid is listed with Err set; only
// registry and context errors fail the listing.
func (r *TopicResolver) Summaries(ctx context.Context) ([]domain.TopicSummary, error) {
	reg, err := r.topics.LoadTopics(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.TopicSummary, 0, reg.Len())
	for i, t := range reg.Topics() {
		row := domain.TopicSummary{Index: i, DisplayName: t.DisplayName, ID: t.ID}
		row.Questions, err = r.bank.Length(ctx, t.ID)
		if err != nil {
			if !isContentError(err) {
				return nil, err
			}
			row.Questions, row.Err = 0, err
		}
		out = append(out, row)
	}
	return out, nil
}

func isContentError(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrFormat) ||
		errors.Is(err, domain.ErrValidation)
}
