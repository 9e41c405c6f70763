package domain

import (
	"fmt"
	"strings"
	"time"
)

// Topic is a named category of questions. ID is the registry's file_name and
// locates the topic's question set.
type Topic struct {
	DisplayName string `json:"displayName"`
	ID          string `json:"id"`
}

// NewTopic validates a registry entry.
func NewTopic(displayName, id string) (Topic, error) {
	if strings.TrimSpace(displayName) == "" {
		return Topic{}, &ValidationError{Rule: "display_name is missing or empty"}
	}
	if strings.TrimSpace(id) == "" {
		return Topic{}, &ValidationError{Rule: "file_name is missing or empty"}
	}
	return Topic{DisplayName: displayName, ID: id}, nil
}

// TopicRegistry is the ordered, non-empty list of topics. Positions are stable
// for the lifetime of the value.
type TopicRegistry struct {
	topics []Topic
}

// NewTopicRegistry rejects an empty topic list.
func NewTopicRegistry(topics []Topic) (TopicRegistry, error) {
	if len(topics) == 0 {
		return TopicRegistry{}, &ValidationError{Rule: "topic registry is empty"}
	}
	return TopicRegistry{topics: append([]Topic(nil), topics...)}, nil
}

// Len returns the number of registered topics.
func (r TopicRegistry) Len() int { return len(r.topics) }

// Topic returns the topic at position i.
func (r TopicRegistry) Topic(i int) (Topic, error) {
	if i < 0 || i >= len(r.topics) {
		return Topic{}, IndexRangeError("topic index", i, 0, len(r.topics))
	}
	return r.topics[i], nil
}

// Topics returns a copy of the registry in order.
func (r TopicRegistry) Topics() []Topic {
	return append([]Topic(nil), r.topics...)
}

// Question is a single multiple-choice item with exactly four options.
type Question struct {
	Prompt  string    `json:"question"`
	Options [4]string `json:"options"`
	Answer  Choice    `json:"answer"`
}

// NewQuestion validates a raw record. The answer label is accepted in any case
// and stored canonically.
func NewQuestion(prompt string, options map[Choice]string, answer string) (Question, error) {
	if strings.TrimSpace(prompt) == "" {
		return Question{}, &ValidationError{Rule: "prompt is missing or empty"}
	}
	q := Question{Prompt: prompt}
	for i, c := range Choices {
		text := options[c]
		if strings.TrimSpace(text) == "" {
			return Question{}, &ValidationError{Rule: fmt.Sprintf("option %q is missing or empty", c)}
		}
		q.Options[i] = text
	}
	label, ok := ParseChoice(answer)
	if !ok {
		return Question{}, &ValidationError{Rule: fmt.Sprintf("answer %q is not one of A, B, C, D", answer)}
	}
	q.Answer = label
	return q, nil
}

// Option returns the text for label c, or "" for an invalid label.
func (q Question) Option(c Choice) string {
	if i := c.index(); i >= 0 {
		return q.Options[i]
	}
	return ""
}

// QuestionSet is the ordered, non-empty list of questions for one topic.
type QuestionSet struct {
	topicID   string
	questions []Question
}

// NewQuestionSet rejects an empty set.
func NewQuestionSet(topicID string, questions []Question) (QuestionSet, error) {
	if len(questions) == 0 {
		return QuestionSet{}, &ValidationError{Rule: "question set is empty"}
	}
	return QuestionSet{topicID: topicID, questions: append([]Question(nil), questions...)}, nil
}

// TopicID returns the identifier the set was loaded for.
func (s QuestionSet) TopicID() string { return s.topicID }

// Len returns the number of questions.
func (s QuestionSet) Len() int { return len(s.questions) }

// Question returns the question at index i.
func (s QuestionSet) Question(i int) (Question, error) {
	if i < 0 || i >= len(s.questions) {
		return Question{}, IndexRangeError("question index", i, 0, len(s.questions))
	}
	return s.questions[i], nil
}

// TopicSummary is a listing row: a topic with its position and question count.
// Err is set when the topic's question set cannot be loaded.
type TopicSummary struct {
	Index       int    `json:"index"`
	DisplayName string `json:"displayName"`
	ID          string `json:"id"`
	Questions   int    `json:"questions"`
	Err         error  `json:"-"`
}

// Available reports whether the topic's question set loaded.
func (s TopicSummary) Available() bool { return s.Err == nil }

// Step is what the presentation layer shows for the current question.
type Step struct {
	Position int      `json:"position"` // 1-based
	Total    int      `json:"total"`
	Index    int      `json:"index"` // index into the question set
	Question Question `json:"question"`
}

// Outcome is the result of submitting one answer.
type Outcome struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer Choice `json:"correctAnswer"`
	Done          bool   `json:"done"`
}

// AnswerRecord is one row of the per-question breakdown.
type AnswerRecord struct {
	Position      int    `json:"position"`
	Index         int    `json:"index"`
	Prompt        string `json:"prompt"`
	Given         Choice `json:"given"`
	CorrectAnswer Choice `json:"correctAnswer"`
	Correct       bool   `json:"correct"`
}

// ChoiceCount is how often a label was chosen during a session.
type ChoiceCount struct {
	Choice  Choice  `json:"choice"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Report is the immutable summary of a completed session.
type Report struct {
	SessionID    string         `json:"sessionId"`
	Topic        Topic          `json:"topic"`
	Score        int            `json:"score"`
	Total        int            `json:"total"`
	Accuracy     float64        `json:"accuracy"`
	Breakdown    []AnswerRecord `json:"breakdown"`
	Distribution []ChoiceCount  `json:"distribution"`
	StartedAt    time.Time      `json:"startedAt"`
	FinishedAt   time.Time      `json:"finishedAt"`
}

// Elapsed is the wall-clock duration of the session.
func (r Report) Elapsed() time.Duration { return r.FinishedAt.Sub(r.StartedAt) }
