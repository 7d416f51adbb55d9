package mock

import (
	"context"

	"github.com/fwojciec/harvest"
)

var _ harvest.Retriever = (*Retriever)(nil)

// Retriever is a mock implementation of harvest.Retriever.
type Retriever struct {
	FetchToFileFn   func(ctx context.Context, url, dest string) error
	FetchToMemoryFn func(ctx context.Context, url string) (*harvest.Content, error)
}

func (r *Retriever) FetchToFile(ctx context.Context, url, dest string) error {
	return r.FetchToFileFn(ctx, url, dest)
}

func (r *Retriever) FetchToMemory(ctx context.Context, url string) (*harvest.Content, error) {
	return r.FetchToMemoryFn(ctx, url)
}
