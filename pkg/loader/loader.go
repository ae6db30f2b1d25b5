package loader

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// SourceReader resolves a source dataset path into its raw bytes.
// Implementations may read from the local filesystem, object storage,
// or other sources.
type SourceReader interface {
	Read(ctx context.Context, path string) ([]byte, error)
}

// FileReader reads source datasets from the local filesystem.
type FileReader struct{}

// Read returns the file contents at path.
func (FileReader) Read(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file %s: %w", path, err)
	}
	return data, nil
}

// IsS3Path reports whether a source path addresses an S3 object.
func IsS3Path(path string) bool {
	return strings.HasPrefix(path, "s3://")
}

// Predicate is a filter over loaded records. Predicates compose via
// And; an empty composition accepts everything.
type Predicate[T any] func(T) bool

// And returns a predicate that accepts a record only if every given
// predicate accepts it. Nil predicates are skipped.
func And[T any](preds ...Predicate[T]) Predicate[T] {
	return func(v T) bool {
		for _, pred := range preds {
			if pred == nil {
				continue
			}
			if !pred(v) {
				return false
			}
		}
		return true
	}
}

// Filter returns the records accepted by pred, preserving input order.
func Filter[T any](items []T, pred Predicate[T]) []T {
	if pred == nil {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// ContainsAnyKeyword reports whether s contains at least one of the
// keywords, case-insensitively. An empty keyword list matches nothing.
func ContainsAnyKeyword(s string, keywords []string) bool {
	lower := strings.ToLower(s)
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
