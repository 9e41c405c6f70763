package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"terminal-quiz/internal/domain"
)

// ErrInputClosed is returned once the input stream has ended.
var ErrInputClosed = errors.New("input closed")

type scanned struct {
	text string
	err  error
}

// Prompter reads answers line by line and re-asks until the input is valid.
// Reads happen on a background goroutine so a prompt returns as soon as its
// context is cancelled.
type Prompter struct {
	in    *bufio.Scanner
	out   io.Writer
	once  sync.Once
	lines chan scanned
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out, lines: make(chan scanned)}
}

func (p *Prompter) scan() {
	defer close(p.lines)
	for p.in.Scan() {
		p.lines <- scanned{text: p.in.Text()}
	}
	err := p.in.Err()
	if err == nil {
		err = ErrInputClosed
	}
	p.lines <- scanned{err: err}
}

func (p *Prompter) line(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(p.out, prompt)
	p.once.Do(func() { go p.scan() })

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-p.lines:
		if !ok {
			return "", ErrInputClosed
		}
		if l.err != nil {
			return "", l.err
		}
		return strings.TrimSpace(l.text), nil
	}
}

// Topic asks for a 1-based topic number and returns the zero-based position.
func (p *Prompter) Topic(ctx context.Context, count int) (int, error) {
	for {
		raw, err := p.line(ctx, "\nEnter topic number: ")
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			fmt.Fprintln(p.out, "Please enter a valid number")
			continue
		}
		if n < 1 || n > count {
			fmt.Fprintln(p.out, "Invalid topic number")
			continue
		}
		return n - 1, nil
	}
}

// Count asks how many questions to play; an empty line selects def.
func (p *Prompter) Count(ctx context.Context, def int) (int, error) {
	for {
		raw, err := p.line(ctx, fmt.Sprintf("How many questions? [%d]: ", def))
		if err != nil {
			return 0, err
		}
		if raw == "" {
			return def, nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			fmt.Fprintln(p.out, "Please enter a positive number")
			continue
		}
		return n, nil
	}
}

// Choice asks for an answer label and returns it unparsed once it is valid.
func (p *Prompter) Choice(ctx context.Context) (string, error) {
	for {
		raw, err := p.line(ctx, "\nSelect your answer [A/B/C/D]: ")
		if err != nil {
			return "", err
		}
		if _, ok := domain.ParseChoice(raw); !ok {
			fmt.Fprintln(p.out, "Please select one of the available options")
			continue
		}
		return raw, nil
	}
}
