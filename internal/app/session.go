package app

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"terminal-quiz/internal/domain"
)

// CountPolicy decides what Start does when more questions are requested than
// the topic has. A count below one is always rejected.
type CountPolicy int

const (
	// ClampCount reduces the request to the available number of questions.
	ClampCount CountPolicy = iota
	// RejectCount fails the request with a RangeError.
	RejectCount
)

// ParseCountPolicy accepts "clamp" or "reject".
func ParseCountPolicy(s string) (CountPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "clamp":
		return ClampCount, nil
	case "reject":
		return RejectCount, nil
	}
	return 0, fmt.Errorf("unknown count policy %q (want clamp or reject)", s)
}

func (p CountPolicy) String() string {
	if p == RejectCount {
		return "reject"
	}
	return "clamp"
}

// Engine starts quiz sessions. It is safe for concurrent use; the sessions it
// returns are not.
type Engine struct {
	topics *TopicResolver
	bank   *QuestionBank
	policy CountPolicy
	now    func() time.Time
	logger *zap.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

func WithCountPolicy(p CountPolicy) EngineOption {
	return func(e *Engine) { e.policy = p }
}

// WithSeed makes draws reproducible. A zero seed keeps time-based seeding.
func WithSeed(seed int64) EngineOption {
	return func(e *Engine) {
		if seed != 0 {
			e.rnd = rand.New(rand.NewSource(seed))
		}
	}
}

// WithClock is for deterministic timestamps in tests.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

func NewEngine(topics *TopicResolver, bank *QuestionBank, opts ...EngineOption) *Engine {
	e := &Engine{
		topics: topics,
		bank:   bank,
		policy: ClampCount,
		now:    time.Now,
		logger: zap.NewNop(),
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy reports the configured count policy.
func (e *Engine) Policy() CountPolicy { return e.policy }

// Start validates the requested count, draws the question order and returns a
// session awaiting its first answer. Content errors for the topic surface here,
// before any question is shown.
func (e *Engine) Start(ctx context.Context, topicID string, requested int) (*Session, error) {
	topic, err := e.topics.Lookup(ctx, topicID)
	if err != nil {
		return nil, err
	}
	length, err := e.bank.Length(ctx, topicID)
	if err != nil {
		return nil, err
	}

	n, err := e.count(requested, length)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	draw := drawIndices(e.rnd, length, n)
	e.mu.Unlock()

	questions := make([]domain.Question, n)
	for i, idx := range draw {
		if questions[i], err = e.bank.Fetch(ctx, topicID, idx); err != nil {
			return nil, err
		}
		if _, err := e.bank.CorrectAnswer(questions[i]); err != nil {
			return nil, err
		}
	}

	s := &Session{
		id:        uuid.NewString(),
		topic:     topic,
		draw:      draw,
		questions: questions,
		answers:   make([]domain.Choice, 0, n),
		now:       e.now,
		logger:    e.logger,
		startedAt: e.now(),
	}
	e.logger.Info("session started",
		zap.String("session", s.id),
		zap.String("topic", topicID),
		zap.Int("requested", requested),
		zap.Int("questions", n),
	)
	return s, nil
}

func (e *Engine) count(requested, length int) (int, error) {
	if requested < 1 {
		return 0, &domain.RangeError{What: "question count", Got: fmt.Sprint(requested), Want: fmt.Sprintf("[1, %d]", length)}
	}
	if requested <= length {
		return requested, nil
	}
	if e.policy == RejectCount {
		return 0, &domain.RangeError{What: "question count", Got: fmt.Sprint(requested), Want: fmt.Sprintf("[1, %d]", length)}
	}
	return length, nil
}

// State is a session's lifecycle position.
type State struct {
	complete bool
	position int
	total    int
}

// Complete reports whether every question has been answered.
func (s State) Complete() bool { return s.complete }

func (s State) String() string {
	if s.complete {
		return "complete"
	}
	return fmt.Sprintf("awaiting answer %d of %d", s.position+1, s.total)
}

// Session is one quiz run. Calls must be serialised by the caller.
type Session struct {
	id        string
	topic     domain.Topic
	draw      []int
	questions []domain.Question
	answers   []domain.Choice
	score     int
	now       func() time.Time
	logger    *zap.Logger

	startedAt  time.Time
	finishedAt time.Time
}

func (s *Session) ID() string          { return s.id }
func (s *Session) Topic() domain.Topic { return s.topic }
func (s *Session) Total() int          { return len(s.draw) }
func (s *Session) Score() int          { return s.score }

// Draw returns the sampled question indices in presentation order.
func (s *Session) Draw() []int { return append([]int(nil), s.draw...) }

func (s *Session) State() State {
	return State{
		complete: len(s.answers) == len(s.draw),
		position: len(s.answers),
		total:    len(s.draw),
	}
}

// Current returns the question awaiting an answer.
func (s *Session) Current() (domain.Step, error) {
	st := s.State()
	if st.Complete() {
		return domain.Step{}, &domain.StateError{Op: "current question", State: st.String()}
	}
	k := len(s.answers)
	return domain.Step{
		Position: k + 1,
		Total:    len(s.draw),
		Index:    s.draw[k],
		Question: s.questions[k],
	}, nil
}

// Submit records an answer for the current question. Input is case-insensitive
// and is stored in canonical form.
func (s *Session) Submit(input string) (domain.Outcome, error) {
	st := s.State()
	if st.Complete() {
		return domain.Outcome{}, &domain.StateError{Op: "submit answer", State: st.String()}
	}
	choice, ok := domain.ParseChoice(input)
	if !ok {
		return domain.Outcome{}, domain.InvalidChoiceError(input)
	}

	k := len(s.answers)
	correct := s.questions[k].Answer
	s.answers = append(s.answers, choice)
	isCorrect := choice == correct
	if isCorrect {
		s.score++
	}

	done := len(s.answers) == len(s.draw)
	if done {
		s.finishedAt = s.now()
		s.logger.Info("session complete",
			zap.String("session", s.id),
			zap.Int("score", s.score),
			zap.Int("total", len(s.draw)),
		)
	}
	return domain.Outcome{Correct: isCorrect, CorrectAnswer: correct, Done: done}, nil
}

// Report summarises a completed session.
func (s *Session) Report() (domain.Report, error) {
	st := s.State()
	if !st.Complete() {
		return domain.Report{}, &domain.StateError{Op: "report", State: st.String()}
	}

	total := len(s.draw)
	breakdown := make([]domain.AnswerRecord, total)
	counts := make(map[domain.Choice]int, len(domain.Choices))
	for i, given := range s.answers {
		q := s.questions[i]
		breakdown[i] = domain.AnswerRecord{
			Position:      i + 1,
			Index:         s.draw[i],
			Prompt:        q.Prompt,
			Given:         given,
			CorrectAnswer: q.Answer,
			Correct:       given == q.Answer,
		}
		counts[given]++
	}

	dist := make([]domain.ChoiceCount, 0, len(domain.Choices))
	for _, c := range domain.Choices {
		dist = append(dist, domain.ChoiceCount{
			Choice:  c,
			Count:   counts[c],
			Percent: float64(counts[c]) / float64(total) * 100,
		})
	}

	return domain.Report{
		SessionID:    s.id,
		Topic:        s.topic,
		Score:        s.score,
		Total:        total,
		Accuracy:     float64(s.score) / float64(total),
		Breakdown:    breakdown,
		Distribution: dist,
		StartedAt:    s.startedAt,
		FinishedAt:   s.finishedAt,
	}, nil
}
