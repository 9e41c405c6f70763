package app

import (
	"context"
	"errors"
	"fmt"

	"terminal-quiz/internal/domain"
)

// QuestionSetLoader loads validated question sets (content.Store, in production).
type QuestionSetLoader interface {
	LoadQuestionSet(ctx context.Context, topicID string) (domain.QuestionSet, error)
}

// QuestionBank is a random-access view over a topic's questions.
type QuestionBank struct {
	sets QuestionSetLoader
}

func NewQuestionBank(sets QuestionSetLoader) *QuestionBank {
	return &QuestionBank{sets: sets}
}

// Length returns the number of questions available for topicID.
func (b *QuestionBank) Length(ctx context.Context, topicID string) (int, error) {
	set, err := b.sets.LoadQuestionSet(ctx, topicID)
	if err != nil {
		return 0, err
	}
	return set.Len(), nil
}

// Fetch returns the question at index.
func (b *QuestionBank) Fetch(ctx context.Context, topicID string, index int) (domain.Question, error) {
	set, err := b.sets.LoadQuestionSet(ctx, topicID)
	if err != nil {
		return domain.Question{}, err
	}
	return set.Question(index)
}

// CorrectAnswer extracts the answer label. Load-time validation already
// guarantees one, so failure here means the record was built by hand.
func (b *QuestionBank) CorrectAnswer(q domain.Question) (domain.Choice, error) {
	if !q.Answer.Valid() {
		return "", &domain.FormatError{
			Source: fmt.Sprintf("question %q", q.Prompt),
			Err:    errors.New("answer field is missing"),
		}
	}
	return q.Answer, nil
}
