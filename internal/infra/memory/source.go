package memory

import (
	"context"
	"maps"
	"strings"
	"sync"

	"terminal-quiz/internal/content"
	"terminal-quiz/internal/domain"
)

const (
	registryKey = "memory:topics"
	setPrefix   = "memory:sets/"
)

// Document is an in-memory encoded document.
type Document struct {
	Format content.Format
	Data   []byte
}

// JSON wraps a JSON literal as a Document.
func JSON(s string) Document {
	return Document{Format: content.FormatJSON, Data: []byte(s)}
}

// Source is a content.Source backed by a map (useful for tests/demos).
type Source struct {
	mu       sync.RWMutex
	registry *Document
	sets     map[string]Document
}

// NewSource serves registry as the topic registry and sets keyed by topic id.
// A nil registry behaves like a missing file. Both arguments are copied.
func NewSource(registry *Document, sets map[string]Document) *Source {
	s := &Source{sets: make(map[string]Document, len(sets))}
	if registry != nil {
		reg := *registry
		s.registry = &reg
	}
	maps.Copy(s.sets, sets)
	return s
}

// Put adds or replaces a question set.
func (s *Source) Put(topicID string, doc Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets[topicID] = doc
}

func (s *Source) Resolve(_ context.Context, ref content.Ref) (content.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if ref.Kind == content.KindRegistry {
		if s.registry == nil {
			return content.Location{}, &domain.NotFoundError{Source: registryKey}
		}
		return content.Location{Key: registryKey, Format: s.registry.Format}, nil
	}

	key := setKey(ref.Name)
	doc, ok := s.sets[ref.Name]
	if !ok {
		return content.Location{}, &domain.NotFoundError{Source: key}
	}
	return content.Location{Key: key, Format: doc.Format}, nil
}

func (s *Source) Read(_ context.Context, loc content.Location) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if loc.Key == registryKey && s.registry != nil {
		return s.registry.Data, nil
	}
	if id, ok := strings.CutPrefix(loc.Key, setPrefix); ok {
		if doc, ok := s.sets[id]; ok {
			return doc.Data, nil
		}
	}
	return nil, &domain.NotFoundError{Source: loc.Key}
}

func setKey(topicID string) string {
	return setPrefix + topicID
}
