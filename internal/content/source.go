// Package content loads, validates and caches topic registries and question
// sets from a pluggable Source.
package content

import (
	"context"
	"path/filepath"
	"strings"
)

// Kind distinguishes the two documents a Source serves.
type Kind int

const (
	KindRegistry Kind = iota
	KindQuestionSet
)

func (k Kind) String() string {
	if k == KindRegistry {
		return "topic registry"
	}
	return "question set"
}

// Format is the encoding of a document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

// FormatFromExt maps a file extension to a Format.
func FormatFromExt(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".xlsx":
		return FormatXLSX, true
	}
	return "", false
}

// Ref names a document logically. Name is the topic id for question sets and
// empty for the registry.
type Ref struct {
	Kind Kind
	Name string
}

// Location is a resolved document: Key identifies the underlying source
// (a file path, a table row) and is what the Store caches by.
type Location struct {
	Key    string
	Format Format
}

// Source serves raw documents. Resolve must not read content; Read performs
// the actual I/O.
type Source interface {
	Resolve(ctx context.Context, ref Ref) (Location, error)
	Read(ctx context.Context, loc Location) ([]byte, error)
}
