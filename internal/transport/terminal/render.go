// Package terminal adapts the quiz engine to a line-oriented terminal: it
// renders questions and reports and collects validated input.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"terminal-quiz/internal/domain"
)

// Renderer writes quiz screens to w.
type Renderer struct {
	w io.Writer
}

func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

func (r *Renderer) Welcome() {
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "Welcome to the Quiz App!")
	fmt.Fprintln(r.w, "Test your knowledge across various topics")
	fmt.Fprintln(r.w)
}

// Topics prints the numbered topic list; numbers are 1-based.
func (r *Renderer) Topics(topics []domain.TopicSummary) {
	fmt.Fprintln(r.w, "Available Topics")
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	for _, t := range topics {
		if !t.Available() {
			fmt.Fprintf(tw, "  %d.\t%s\tunavailable\n", t.Index+1, t.DisplayName)
			continue
		}
		fmt.Fprintf(tw, "  %d.\t%s\t%d questions\n", t.Index+1, t.DisplayName, t.Questions)
	}
	tw.Flush()
}

func (r *Renderer) Question(step domain.Step) {
	fmt.Fprintf(r.w, "\n Question %d of %d \n", step.Position, step.Total)
	fmt.Fprintln(r.w, step.Question.Prompt)
	fmt.Fprintln(r.w)
	for _, c := range domain.Choices {
		fmt.Fprintf(r.w, "  %s. %s\n", c, step.Question.Option(c))
	}
}

func (r *Renderer) Outcome(o domain.Outcome) {
	if o.Correct {
		fmt.Fprintln(r.w, "✓ Correct!")
		return
	}
	fmt.Fprintf(r.w, "✗ Incorrect (correct answer: %s)\n", o.CorrectAnswer)
}

// Notice prints a recoverable input problem.
func (r *Renderer) Notice(msg string) {
	fmt.Fprintln(r.w, msg)
}

func (r *Renderer) Report(rep domain.Report) {
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "Quiz Results")
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  Final Score:\t%d/%d\n", rep.Score, rep.Total)
	fmt.Fprintf(tw, "  Topic:\t%s\n", rep.Topic.DisplayName)
	fmt.Fprintf(tw, "  Accuracy:\t%.1f%%\n", rep.Accuracy*100)
	if !rep.FinishedAt.IsZero() {
		fmt.Fprintf(tw, "  Time:\t%s\n", rep.Elapsed().Round(time.Second))
	}
	tw.Flush()

	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "Your Answer Distribution")
	tw = tabwriter.NewWriter(r.w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Option\tCount\tPercentage\t")
	for _, dc := range rep.Distribution {
		fmt.Fprintf(tw, "%s\t%d\t%.1f%%\t\n", dc.Choice, dc.Count, dc.Percent)
	}
	tw.Flush()

	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "Question by Question Breakdown")
	tw = tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Question\tResult\tYour Answer\tCorrect Answer")
	for _, rec := range rep.Breakdown {
		mark := "✗"
		if rec.Correct {
			mark = "✓"
		}
		fmt.Fprintf(tw, "Q%d\t%s\t%s\t%s\n", rec.Position, mark, rec.Given, rec.CorrectAnswer)
	}
	tw.Flush()
}

// Error prints a fatal error message.
func (r *Renderer) Error(err error) {
	switch {
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(r.w, "\nQuiz interrupted")
	case errors.Is(err, ErrInputClosed):
		fmt.Fprintln(r.w, "\nInput closed before the quiz finished")
	default:
		fmt.Fprintf(r.w, "An error occurred: %s\n", strings.TrimSpace(err.Error()))
	}
}
