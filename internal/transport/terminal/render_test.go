package terminal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"terminal-quiz/internal/domain"
)

func TestPrompterRetriesUntilValid(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("zero\n0\n3\n\n-2\n5\n q \nＢ\n"), &out)

	idx, err := p.Topic(ctx, 3)
	if err != nil || idx != 2 {
		t.Fatalf("expected index 2, got %d (%v)", idx, err)
	}
	n, err := p.Count(ctx, 4)
	if err != nil || n != 4 {
		t.Fatalf("expected default count 4, got %d (%v)", n, err)
	}
	n, err = p.Count(ctx, 4)
	if err != nil || n != 5 {
		t.Fatalf("expected count 5, got %d (%v)", n, err)
	}
	raw, err := p.Choice(ctx)
	if err != nil || raw != "Ｂ" {
		t.Fatalf("expected full-width B to be accepted, got %q (%v)", raw, err)
	}
	if _, err := p.Choice(ctx); !errors.Is(err, ErrInputClosed) {
		t.Fatalf("expected closed input, got %v", err)
	}
	if _, err := p.Choice(ctx); !errors.Is(err, ErrInputClosed) {
		t.Fatalf("expected closed input on repeat, got %v", err)
	}

	screen := out.String()
	if strings.Count(screen, "Please enter a valid number") != 1 ||
		strings.Count(screen, "Invalid topic number") != 1 ||
		strings.Count(screen, "Please enter a positive number") != 1 ||
		strings.Count(screen, "Please select one of the available options") != 1 {
		t.Fatalf("unexpected retry messages:\n%s", screen)
	}
}

func TestPrompterReturnsOnCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	p := NewPrompter(pr, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := p.Choice(ctx)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("prompt still blocked after cancel")
	}
}

func TestPrompterCancelledBeforeRead(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("A\n"), &out)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Topic(ctx, 2); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no prompt after cancel, got %q", out.String())
	}
}

func TestRendererTopicsAndErrors(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out)
	r.Topics([]domain.TopicSummary{
		{Index: 0, DisplayName: "Good", ID: "good", Questions: 2},
		{Index: 1, DisplayName: "Bad", ID: "bad", Err: errors.New("broken")},
	})
	r.Error(context.Canceled)
	r.Error(ErrInputClosed)
	r.Error(errors.New("boom"))

	screen := out.String()
	for _, want := range []string{"1.", "2 questions", "2.", "unavailable", "Quiz interrupted", "Input closed before the quiz finished", "An error occurred: boom"} {
		if !strings.Contains(screen, want) {
			t.Fatalf("expected %q in:\n%s", want, screen)
		}
	}
}

func TestRendererQuestionAndOutcome(t *testing.T) {
	q, err := domain.NewQuestion("Capital of France?", map[domain.Choice]string{
		domain.ChoiceA: "Paris", domain.ChoiceB: "Rome", domain.ChoiceC: "Madrid", domain.ChoiceD: "Berlin",
	}, "a")
	if err != nil {
		t.Fatalf("new question: %v", err)
	}

	var out bytes.Buffer
	r := NewRenderer(&out)
	r.Question(domain.Step{Position: 2, Total: 5, Index: 7, Question: q})
	r.Outcome(domain.Outcome{Correct: true, CorrectAnswer: domain.ChoiceA})
	r.Outcome(domain.Outcome{Correct: false, CorrectAnswer: domain.ChoiceA})

	screen := out.String()
	for _, want := range []string{"Question 2 of 5", "Capital of France?", "A. Paris", "D. Berlin", "✓ Correct!", "✗ Incorrect (correct answer: A)"} {
		if !strings.Contains(screen, want) {
			t.Fatalf("expected %q in:\n%s", want, screen)
		}
	}
}

func TestRendererReport(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rep := domain.Report{
		Topic:    domain.Topic{DisplayName: "Science", ID: "science"},
		Score:    1,
		Total:    2,
		Accuracy: 0.5,
		Breakdown: []domain.AnswerRecord{
			{Position: 1, Given: domain.ChoiceA, CorrectAnswer: domain.ChoiceA, Correct: true},
			{Position: 2, Given: domain.ChoiceB, CorrectAnswer: domain.ChoiceC},
		},
		Distribution: []domain.ChoiceCount{
			{Choice: domain.ChoiceA, Count: 1, Percent: 50},
			{Choice: domain.ChoiceB, Count: 1, Percent: 50},
			{Choice: domain.ChoiceC},
			{Choice: domain.ChoiceD},
		},
		StartedAt:  start,
		FinishedAt: start.Add(42 * time.Second),
	}

	var out bytes.Buffer
	NewRenderer(&out).Report(rep)
	screen := out.String()
	for _, want := range []string{"1/2", "Science", "50.0%", "42s", "Q2"} {
		if !strings.Contains(screen, want) {
			t.Fatalf("expected %q in:\n%s", want, screen)
		}
	}
}
