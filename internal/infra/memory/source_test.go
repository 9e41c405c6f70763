package memory

import (
	"context"
	"errors"
	"strings"
	"testing"

	"terminal-quiz/internal/content"
	"terminal-quiz/internal/domain"
)

func TestSourceResolveAndRead(t *testing.T) {
	ctx := context.Background()
	src := SampleSource()

	loc, err := src.Resolve(ctx, content.Ref{Kind: content.KindQuestionSet, Name: "science"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if loc.Format != content.FormatJSON {
		t.Fatalf("expected json format, got %q", loc.Format)
	}
	data, err := src.Read(ctx, loc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("expected data")
	}

	if _, err := src.Resolve(ctx, content.Ref{Kind: content.KindQuestionSet, Name: "history"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSourceWithoutRegistry(t *testing.T) {
	src := NewSource(nil, nil)
	_, err := src.Resolve(context.Background(), content.Ref{Kind: content.KindRegistry})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSampleSourceIsValid(t *testing.T) {
	store, err := content.NewStore(SampleSource())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	reg, err := store.LoadTopics(context.Background())
	if err != nil {
		t.Fatalf("load topics: %v", err)
	}
	for _, topic := range reg.Topics() {
		if _, err := store.LoadQuestionSet(context.Background(), topic.ID); err != nil {
			t.Fatalf("load %s: %v", topic.ID, err)
		}
	}
}

func TestSourceCopiesCallerMaps(t *testing.T) {
	ctx := context.Background()
	registry := JSON(`{"topics": [{"display_name": "Science", "file_name": "science"}]}`)
	sets := map[string]Document{"science": JSON(`[]`)}
	src := NewSource(&registry, sets)

	src.Put("geography", JSON(`[]`))
	if _, ok := sets["geography"]; ok {
		t.Fatalf("Put must not modify the caller's map")
	}

	sets["history"] = JSON(`[]`)
	registry = JSON(`{"topics": []}`)
	if _, err := src.Resolve(ctx, content.Ref{Kind: content.KindQuestionSet, Name: "history"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected later caller writes to be invisible, got %v", err)
	}
	loc, err := src.Resolve(ctx, content.Ref{Kind: content.KindRegistry})
	if err != nil {
		t.Fatalf("resolve registry: %v", err)
	}
	data, err := src.Read(ctx, loc)
	if err != nil || !strings.Contains(string(data), "Science") {
		t.Fatalf("expected original registry, got %q (%v)", data, err)
	}
}
