package content

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"terminal-quiz/internal/domain"
)

// DefaultCacheSize bounds the number of parsed documents a Store keeps.
const DefaultCacheSize = 32

// Store is the read-only content layer. Parsed documents are cached by their
// resolved source key for the lifetime of the Store; concurrent first loads of
// the same key share a single read.
type Store struct {
	source Source
	logger *zap.Logger
	sf     singleflight.Group
	cache  *lru.Cache[string, any]
}

// Option configures a Store.
type Option func(*storeOptions)

type storeOptions struct {
	size   int
	logger *zap.Logger
}

// WithCacheSize sets the maximum number of cached documents.
func WithCacheSize(n int) Option {
	return func(o *storeOptions) { o.size = n }
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(o *storeOptions) { o.logger = l }
}

func NewStore(source Source, opts ...Option) (*Store, error) {
	o := storeOptions{size: DefaultCacheSize, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	cache, err := lru.New[string, any](o.size)
	if err != nil {
		return nil, fmt.Errorf("content cache: %w", err)
	}
	return &Store{source: source, logger: o.logger, cache: cache}, nil
}

// LoadTopics returns the topic registry.
func (s *Store) LoadTopics(ctx context.Context) (domain.TopicRegistry, error) {
	loc, err := s.source.Resolve(ctx, Ref{Kind: KindRegistry})
	if err != nil {
		return domain.TopicRegistry{}, err
	}
	v, err := s.load(ctx, loc, func(data []byte) (any, error) {
		return DecodeRegistry(loc, data)
	})
	if err != nil {
		return domain.TopicRegistry{}, err
	}
	return v.(domain.TopicRegistry), nil
}

// LoadQuestionSet returns the validated question set for topicID.
func (s *Store) LoadQuestionSet(ctx context.Context, topicID string) (domain.QuestionSet, error) {
	loc, err := s.source.Resolve(ctx, Ref{Kind: KindQuestionSet, Name: topicID})
	if err != nil {
		return domain.QuestionSet{}, err
	}
	v, err := s.load(ctx, loc, func(data []byte) (any, error) {
		return DecodeQuestionSet(loc, topicID, data)
	})
	if err != nil {
		return domain.QuestionSet{}, err
	}
	return v.(domain.QuestionSet), nil
}

func (s *Store) load(ctx context.Context, loc Location, decode func([]byte) (any, error)) (any, error) {
	if v, ok := s.cache.Get(loc.Key); ok {
		return v, nil
	}

	// The flight is detached from any one caller; each caller stops waiting
	// on its own ctx.
	flightCtx := context.WithoutCancel(ctx)
	ch := s.sf.DoChan(loc.Key, func() (interface{}, error) {
		// Re-check: another caller may have populated the key while we waited.
		if v, ok := s.cache.Get(loc.Key); ok {
			return v, nil
		}

		data, err := s.source.Read(flightCtx, loc)
		if err != nil {
			return nil, err
		}
		v, err := decode(data)
		if err != nil {
			s.logger.Warn("rejected content", zap.String("source", loc.Key), zap.Error(err))
			return nil, err
		}
		s.cache.Add(loc.Key, v)
		s.logger.Debug("content loaded", zap.String("source", loc.Key), zap.String("format", string(loc.Format)))
		return v, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.Debug("content load shared", zap.String("source", loc.Key))
		}
		return res.Val, nil
	}
}

// Len reports how many parsed documents are cached.
func (s *Store) Len() int { return s.cache.Len() }
