// Package pipeline composes the retriever, normalizers, and locator into
// end-to-end harvest operations: retrieve, normalize, store content, store
// metadata, keyed by (category, title).
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/bloom"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Dedup configuration for bulk runs.
const (
	// dedupExpectedURLs is the expected number of URLs for Bloom filter sizing.
	dedupExpectedURLs = 10000
	// dedupFalsePositiveRate is the acceptable false positive rate.
	dedupFalsePositiveRate = 0.01
)

// Target is one harvest unit in a bulk run.
type Target struct {
	Category string
	Item     harvest.Item
}

// ProgressType identifies the kind of progress event.
type ProgressType int

// Progress event types.
const (
	ProgressCompleted ProgressType = iota
	ProgressFailed
	ProgressSkipped
	ProgressFinished
)

// ProgressEvent reports progress during a bulk harvest.
type ProgressEvent struct {
	Type      ProgressType
	Category  string
	Title     string
	URL       string
	Completed int
	Total     int
	Error     error
}

// ProgressFunc is called as targets are processed.
type ProgressFunc func(ProgressEvent)

// Result summarizes a bulk harvest run.
type Result struct {
	Saved   int
	Failed  int
	Skipped int
	Bytes   int
}

// Harvester runs the harvest pipeline. Each Harvest call is self-contained
// and blocking; concurrency across targets is controlled by Concurrency in
// HarvestAll and defaults to sequential.
type Harvester struct {
	Retriever harvest.Retriever
	Converter harvest.Converter
	PDF       harvest.PDFExtractor
	Locator   harvest.Locator

	// Limiter, if set, spaces out requests per host in bulk runs.
	Limiter *HostLimiter

	// Logger, if set, receives per-item logs.
	Logger *slog.Logger

	// Concurrency bounds parallel targets in HarvestAll. Zero or negative
	// means 1.
	Concurrency int
}

// Harvest runs the full pipeline for one item: fetch the raw artifact to
// the materials root, normalize it by type, write the normalized text to
// the extracted root, and persist a provenance record to the metadata root.
func (h *Harvester) Harvest(ctx context.Context, category string, item harvest.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}

	fetchURL := item.FetchURL()
	outputPath := h.Locator.OutputPath(category, item.Title, item.Extension())

	if h.Limiter != nil {
		parsed, err := url.Parse(fetchURL)
		if err != nil {
			return harvest.Errorf(harvest.EINVALID, "invalid URL %q: %v", fetchURL, err)
		}
		if err := h.Limiter.Wait(ctx, parsed.Host); err != nil {
			return err
		}
	}

	if err := h.Retriever.FetchToFile(ctx, fetchURL, outputPath); err != nil {
		return err
	}

	content, err := h.normalize(item, fetchURL, outputPath)
	if err != nil {
		return err
	}

	processedPath, err := h.Locator.SaveProcessed(content, category, item.Title, "md")
	if err != nil {
		return err
	}

	record := harvest.Metadata{
		"id":             uuid.New().String(),
		"url":            fetchURL,
		"title":          item.Title,
		"category":       category,
		"type":           itemType(item),
		"original_path":  outputPath,
		"processed_path": processedPath,
		"content_hash":   contentHash(content),
	}
	if err := h.Locator.SaveMetadata(record, category, item.Title); err != nil {
		return err
	}

	if h.Logger != nil {
		h.Logger.Info("harvested",
			"category", category,
			"title", item.Title,
			"url", fetchURL,
			"bytes", len(content),
		)
	}

	return nil
}

// HarvestAll processes targets with bounded concurrency, skipping URLs
// already harvested within the run. Per-target failures are reported via
// progress and counted, not returned; only context cancellation aborts the
// run early.
func (h *Harvester) HarvestAll(ctx context.Context, targets []Target, progress ProgressFunc) (*Result, error) {
	seen := bloom.NewSeenSet(dedupExpectedURLs, dedupFalsePositiveRate)

	concurrency := h.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	var (
		mu        sync.Mutex
		result    Result
		completed int
	)
	report := func(ev ProgressEvent) {
		if progress != nil {
			progress(ev)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, target := range targets {
		// Dedup before dispatch so ordering of seen-checks is deterministic.
		if seen.Seen(target.Item.FetchURL()) {
			mu.Lock()
			result.Skipped++
			completed++
			done := completed
			mu.Unlock()
			report(ProgressEvent{
				Type:      ProgressSkipped,
				Category:  target.Category,
				Title:     target.Item.Title,
				URL:       target.Item.FetchURL(),
				Completed: done,
				Total:     len(targets),
			})
			continue
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			err := h.Harvest(ctx, target.Category, target.Item)

			mu.Lock()
			completed++
			done := completed
			if err != nil {
				result.Failed++
			} else {
				result.Saved++
				result.Bytes += fileSize(h.Locator.ProcessedPath(target.Category, target.Item.Title, "md"))
			}
			mu.Unlock()

			ev := ProgressEvent{
				Type:      ProgressCompleted,
				Category:  target.Category,
				Title:     target.Item.Title,
				URL:       target.Item.FetchURL(),
				Completed: done,
				Total:     len(targets),
			}
			if err != nil {
				ev.Type = ProgressFailed
				ev.Error = err
				if h.Logger != nil {
					h.Logger.Error("harvest failed",
						"category", target.Category,
						"title", target.Item.Title,
						"error", err,
					)
				}
			}
			report(ev)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return &result, err
	}

	report(ProgressEvent{Type: ProgressFinished, Completed: len(targets), Total: len(targets)})
	return &result, nil
}

// normalize converts the raw artifact by item type: HTML is converted to
// Markdown, PDFs have their text extracted, and Markdown sources are used
// as-is.
func (h *Harvester) normalize(item harvest.Item, sourceURL, outputPath string) (string, error) {
	switch {
	case item.Type == harvest.TypePDF:
		return h.PDF.ExtractText(outputPath)
	case item.Type == harvest.TypeMarkdown || item.IsGitHub:
		raw, err := os.ReadFile(outputPath)
		if err != nil {
			return "", harvest.Errorf(harvest.EINTERNAL, "read %s: %v", outputPath, err)
		}
		return string(raw), nil
	default:
		raw, err := os.ReadFile(outputPath)
		if err != nil {
			return "", harvest.Errorf(harvest.EINTERNAL, "read %s: %v", outputPath, err)
		}
		return h.Converter.Convert(string(raw), sourceURL)
	}
}

// itemType normalizes the recorded type: GitHub sources are markdown, an
// unset type means HTML.
func itemType(item harvest.Item) string {
	if item.IsGitHub {
		return harvest.TypeMarkdown
	}
	if item.Type == "" {
		return harvest.TypeHTML
	}
	return item.Type
}

// contentHash computes a hash of the content using xxhash.
func contentHash(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}

// fileSize returns the size of the file at path, or 0 if it cannot be
// statted.
func fileSize(path string) int {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return int(info.Size())
}
