package terminal

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"terminal-quiz/internal/app"
	"terminal-quiz/internal/domain"
)

// Options preselect what would otherwise be prompted for.
type Options struct {
	Topic string // 1-based number, identifier or display name
	Count int    // 0 prompts, defaulting to every question
}

// Runner drives one interactive quiz from topic selection to report.
type Runner struct {
	topics *app.TopicResolver
	engine *app.Engine
	view   *Renderer
	input  *Prompter
}

func NewRunner(topics *app.TopicResolver, engine *app.Engine, view *Renderer, input *Prompter) *Runner {
	return &Runner{topics: topics, engine: engine, view: view, input: input}
}

// Run plays a session and returns its report. Content errors abort before the
// first question is shown.
func (r *Runner) Run(ctx context.Context, opts Options) (domain.Report, error) {
	summaries, err := r.topics.Summaries(ctx)
	if err != nil {
		return domain.Report{}, err
	}

	r.view.Welcome()
	r.view.Topics(summaries)

	topic, err := r.selectTopic(ctx, opts.Topic, summaries)
	if err != nil {
		return domain.Report{}, err
	}

	session, err := r.start(ctx, topic, opts.Count)
	if err != nil {
		return domain.Report{}, err
	}

	for !session.State().Complete() {
		if err := ctx.Err(); err != nil {
			return domain.Report{}, err
		}
		step, err := session.Current()
		if err != nil {
			return domain.Report{}, err
		}
		r.view.Question(step)

		raw, err := r.input.Choice(ctx)
		if err != nil {
			return domain.Report{}, err
		}
		outcome, err := session.Submit(raw)
		if err != nil {
			return domain.Report{}, err
		}
		r.view.Outcome(outcome)
	}

	report, err := session.Report()
	if err != nil {
		return domain.Report{}, err
	}
	r.view.Report(report)
	return report, nil
}

// selectTopic prompts until an available topic is picked unless selector
// names one. A preselected broken topic fails in Engine.Start.
func (r *Runner) selectTopic(ctx context.Context, selector string, summaries []domain.TopicSummary) (domain.Topic, error) {
	if selector == "" {
		for {
			idx, err := r.input.Topic(ctx, len(summaries))
			if err != nil {
				return domain.Topic{}, err
			}
			if s := summaries[idx]; !s.Available() {
				r.view.Notice(fmt.Sprintf("%s is unavailable: %v", s.DisplayName, s.Err))
				continue
			}
			return r.topics.Topic(ctx, idx)
		}
	}
	if n, err := strconv.Atoi(selector); err == nil {
		return r.topics.Topic(ctx, n-1)
	}
	return r.topics.ResolveName(ctx, selector)
}

func (r *Runner) start(ctx context.Context, topic domain.Topic, count int) (*app.Session, error) {
	if count > 0 {
		return r.engine.Start(ctx, topic.ID, count)
	}

	total, err := r.topics.QuestionCount(ctx, topic.ID)
	if err != nil {
		return nil, err
	}
	for {
		n, err := r.input.Count(ctx, total)
		if err != nil {
			return nil, err
		}
		session, err := r.engine.Start(ctx, topic.ID, n)
		if errors.Is(err, domain.ErrRange) {
			r.view.Notice(err.Error())
			continue
		}
		return session, err
	}
}
