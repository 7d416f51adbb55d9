// Package slog provides logging decorators for harvest interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/harvest"
)

// Ensure Retriever implements harvest.Retriever at compile time.
var _ harvest.Retriever = (*Retriever)(nil)

// Retriever wraps a harvest.Retriever with call-level logging: URL,
// duration, and outcome for every fetch.
type Retriever struct {
	next   harvest.Retriever
	logger *slog.Logger
}

// NewRetriever creates a logging Retriever wrapping next.
func NewRetriever(next harvest.Retriever, logger *slog.Logger) *Retriever {
	return &Retriever{next: next, logger: logger}
}

// FetchToFile delegates to the wrapped retriever and logs the outcome.
func (r *Retriever) FetchToFile(ctx context.Context, url, dest string) error {
	begin := time.Now()
	err := r.next.FetchToFile(ctx, url, dest)
	if err != nil {
		r.logger.Error("fetch to file",
			"url", url,
			"dest", dest,
			"duration", time.Since(begin),
			"error", err,
		)
		return err
	}
	r.logger.Info("fetch to file",
		"url", url,
		"dest", dest,
		"duration", time.Since(begin),
	)
	return nil
}

// FetchToMemory delegates to the wrapped retriever and logs the outcome.
func (r *Retriever) FetchToMemory(ctx context.Context, url string) (*harvest.Content, error) {
	begin := time.Now()
	content, err := r.next.FetchToMemory(ctx, url)
	if err != nil {
		r.logger.Error("fetch to memory",
			"url", url,
			"duration", time.Since(begin),
			"error", err,
		)
		return nil, err
	}
	r.logger.Info("fetch to memory",
		"url", url,
		"content_type", content.ContentType,
		"bytes", len(content.Body),
		"duration", time.Since(begin),
	)
	return content, nil
}
