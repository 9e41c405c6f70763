// Package file serves quiz content from a config directory (the topic
// registry) and a data directory (one question set per topic).
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"terminal-quiz/internal/content"
	"terminal-quiz/internal/domain"
)

const registryName = "topics"

// Extensions are probed in this order when resolving a document.
var (
	registryExts    = []string{".json", ".yaml", ".yml"}
	questionSetExts = []string{".json", ".yaml", ".yml", ".xlsx"}
)

// Source reads documents from disk.
type Source struct {
	dataDir   string
	configDir string
}

// NewSource checks that both directories exist.
func NewSource(dataDir, configDir string) (*Source, error) {
	for _, dir := range []string{dataDir, configDir} {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, &domain.NotFoundError{Source: dir, Err: err}
		}
		if !info.IsDir() {
			return nil, &domain.NotFoundError{Source: dir, Err: errors.New("not a directory")}
		}
	}
	return &Source{dataDir: dataDir, configDir: configDir}, nil
}

func (s *Source) Resolve(_ context.Context, ref content.Ref) (content.Location, error) {
	if ref.Kind == content.KindRegistry {
		return probe(filepath.Join(s.configDir, registryName), registryExts)
	}
	if ref.Name == "" || strings.ContainsAny(ref.Name, `/\`) || ref.Name == "." || ref.Name == ".." {
		return content.Location{}, &domain.NotFoundError{
			Source: ref.Name,
			Err:    fmt.Errorf("invalid topic identifier"),
		}
	}
	return probe(filepath.Join(s.dataDir, ref.Name), questionSetExts)
}

func (s *Source) Read(_ context.Context, loc content.Location) ([]byte, error) {
	data, err := os.ReadFile(loc.Key)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &domain.NotFoundError{Source: loc.Key}
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", loc.Key, err)
	}
	return data, nil
}

func probe(base string, exts []string) (content.Location, error) {
	for _, ext := range exts {
		path := base + ext
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		format, _ := content.FormatFromExt(path)
		return content.Location{Key: path, Format: format}, nil
	}
	return content.Location{}, &domain.NotFoundError{
		Source: base + exts[0],
		Err:    fmt.Errorf("no %s file", strings.Join(exts, ", ")),
	}
}
