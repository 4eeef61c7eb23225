// Package docstore keeps domain records as JSON documents grouped into
// named collections. Each document gets an opaque ID and a per-collection
// serial number at insert time; the payload is stored verbatim.
package docstore

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("document not found")

type Doc[T any] struct {
	ID        string    `json:"id"`
	SlNo      int       `json:"slNo"`
	CreatedAt time.Time `json:"createdAt"`
	Data      T         `json:"data"`
}

type Collection[T any] interface {
	Name() string
	Add(ctx context.Context, data T) (Doc[T], error)
	// AddBatch inserts all documents or none, numbering them in order.
	AddBatch(ctx context.Context, data []T) ([]Doc[T], error)
	Get(ctx context.Context, id string) (Doc[T], error)
	Update(ctx context.Context, id string, data T) (Doc[T], error)
	Delete(ctx context.Context, id string) error
	// List returns every document ordered by serial number.
	List(ctx context.Context) ([]Doc[T], error)
	// Find returns documents whose top-level string field equals value.
	Find(ctx context.Context, field, value string) ([]Doc[T], error)
}

// Observer is told about every successful write.
type Observer func(collection, op string)

type options struct {
	observe Observer
}

type Option func(*options)

func WithObserver(o Observer) Option {
	return func(opts *options) { opts.observe = o }
}

func buildOptions(opts []Option) options {
	o := options{observe: func(string, string) {}}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Data strips document metadata.
func Data[T any](docs []Doc[T]) []T {
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Data)
	}
	return out
}
