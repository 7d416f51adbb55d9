package pipeline_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/fs"
	"github.com/fwojciec/harvest/mock"
	"github.com/fwojciec/harvest/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFileRetriever returns a mock retriever that writes body to the
// destination and records the URLs it was asked to fetch.
func writeFileRetriever(t *testing.T, body string, urls *[]string) *mock.Retriever {
	t.Helper()
	return &mock.Retriever{
		FetchToFileFn: func(ctx context.Context, url, dest string) error {
			*urls = append(*urls, url)
			if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
				return err
			}
			return os.WriteFile(dest, []byte(body), 0644)
		},
	}
}

func TestHarvester_Harvest(t *testing.T) {
	t.Parallel()

	t.Run("html item is fetched converted and recorded", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		layout := fs.NewLayout(dir)

		var urls []string
		h := &pipeline.Harvester{
			Retriever: writeFileRetriever(t, "<h1>Hello</h1>", &urls),
			Converter: &mock.Converter{
				ConvertFn: func(markup, baseURL string) (string, error) {
					assert.Equal(t, "<h1>Hello</h1>", markup)
					assert.Equal(t, "https://docs.example.com/intro", baseURL)
					return "# Hello", nil
				},
			},
			Locator: layout,
		}

		item := harvest.Item{
			URL:   "https://docs.example.com/intro",
			Title: "Intro: Getting Started!",
			Type:  harvest.TypeHTML,
		}
		require.NoError(t, h.Harvest(context.Background(), "docker", item))
		require.Equal(t, []string{"https://docs.example.com/intro"}, urls)

		raw, err := os.ReadFile(layout.OutputPath("docker", item.Title, "html"))
		require.NoError(t, err)
		assert.Equal(t, "<h1>Hello</h1>", string(raw))

		processed, err := os.ReadFile(layout.ProcessedPath("docker", item.Title, "md"))
		require.NoError(t, err)
		assert.Equal(t, "# Hello", string(processed))

		data, err := os.ReadFile(layout.MetadataPath("docker", item.Title))
		require.NoError(t, err)

		var record map[string]any
		require.NoError(t, json.Unmarshal(data, &record))
		assert.Equal(t, "https://docs.example.com/intro", record["url"])
		assert.Equal(t, "Intro: Getting Started!", record["title"])
		assert.Equal(t, "docker", record["category"])
		assert.Equal(t, "html", record["type"])
		assert.NotEmpty(t, record["id"])
		assert.NotEmpty(t, record["content_hash"])
		assert.NotEmpty(t, record["downloaded_at"])
		assert.Equal(t, layout.OutputPath("docker", item.Title, "html"), record["original_path"])
		assert.Equal(t, layout.ProcessedPath("docker", item.Title, "md"), record["processed_path"])
	})

	t.Run("pdf item goes through the extractor", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		layout := fs.NewLayout(dir)

		var urls []string
		var extracted string
		h := &pipeline.Harvester{
			Retriever: writeFileRetriever(t, "%PDF-1.4 ...", &urls),
			PDF: &mock.PDFExtractor{
				ExtractTextFn: func(path string) (string, error) {
					extracted = path
					return "page one\n\npage two", nil
				},
			},
			Locator: layout,
		}

		item := harvest.Item{URL: "https://example.com/manual.pdf", Title: "Manual", Type: harvest.TypePDF}
		require.NoError(t, h.Harvest(context.Background(), "postgresql", item))

		assert.Equal(t, layout.OutputPath("postgresql", "Manual", "pdf"), extracted)

		processed, err := os.ReadFile(layout.ProcessedPath("postgresql", "Manual", "md"))
		require.NoError(t, err)
		assert.Equal(t, "page one\n\npage two", string(processed))
	})

	t.Run("markdown item is used as-is", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		layout := fs.NewLayout(dir)

		var urls []string
		h := &pipeline.Harvester{
			Retriever: writeFileRetriever(t, "# Already markdown\n", &urls),
			Locator:   layout,
		}

		item := harvest.Item{URL: "https://example.com/readme.md", Title: "Readme", Type: harvest.TypeMarkdown}
		require.NoError(t, h.Harvest(context.Background(), "go", item))

		processed, err := os.ReadFile(layout.ProcessedPath("go", "Readme", "md"))
		require.NoError(t, err)
		assert.Equal(t, "# Already markdown\n", string(processed))
	})

	t.Run("github item fetches the raw URL", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		layout := fs.NewLayout(dir)

		var urls []string
		h := &pipeline.Harvester{
			Retriever: writeFileRetriever(t, "# README\n", &urls),
			Locator:   layout,
		}

		item := harvest.Item{
			URL:      "https://github.com/docker/docs/blob/main/README.md",
			Title:    "Docs README",
			IsGitHub: true,
		}
		require.NoError(t, h.Harvest(context.Background(), "docker", item))
		require.Equal(t, []string{"https://raw.githubusercontent.com/docker/docs/main/README.md"}, urls)

		data, err := os.ReadFile(layout.MetadataPath("docker", "Docs README"))
		require.NoError(t, err)

		var record map[string]any
		require.NoError(t, json.Unmarshal(data, &record))
		assert.Equal(t, "markdown", record["type"])
	})

	t.Run("invalid item fails before any fetch", func(t *testing.T) {
		t.Parallel()

		h := &pipeline.Harvester{
			Retriever: &mock.Retriever{
				FetchToFileFn: func(ctx context.Context, url, dest string) error {
					t.Fatal("retriever should not be called")
					return nil
				},
			},
			Locator: fs.NewLayout(t.TempDir()),
		}

		err := h.Harvest(context.Background(), "go", harvest.Item{Title: "No URL"})
		require.Error(t, err)
		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
	})

	t.Run("fetch failure surfaces without writing processed output", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		layout := fs.NewLayout(dir)

		h := &pipeline.Harvester{
			Retriever: &mock.Retriever{
				FetchToFileFn: func(ctx context.Context, url, dest string) error {
					return harvest.Errorf(harvest.EUNAVAILABLE, "fetch %s: giving up after 3 attempts", url)
				},
			},
			Locator: layout,
		}

		item := harvest.Item{URL: "https://down.example.com", Title: "Down", Type: harvest.TypeHTML}
		err := h.Harvest(context.Background(), "go", item)
		require.Error(t, err)
		assert.Equal(t, harvest.EUNAVAILABLE, harvest.ErrorCode(err))

		_, statErr := os.Stat(layout.ProcessedPath("go", "Down", "md"))
		assert.True(t, os.IsNotExist(statErr))
		_, statErr = os.Stat(layout.MetadataPath("go", "Down"))
		assert.True(t, os.IsNotExist(statErr))
	})
}

func TestHarvester_HarvestAll(t *testing.T) {
	t.Parallel()

	t.Run("processes all targets and reports a summary", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		layout := fs.NewLayout(dir)

		var urls []string
		h := &pipeline.Harvester{
			Retriever: writeFileRetriever(t, "# md\n", &urls),
			Locator:   layout,
		}

		targets := []pipeline.Target{
			{Category: "go", Item: harvest.Item{URL: "https://example.com/a.md", Title: "A", Type: harvest.TypeMarkdown}},
			{Category: "go", Item: harvest.Item{URL: "https://example.com/b.md", Title: "B", Type: harvest.TypeMarkdown}},
		}

		var events []pipeline.ProgressEvent
		result, err := h.HarvestAll(context.Background(), targets, func(ev pipeline.ProgressEvent) {
			events = append(events, ev)
		})
		require.NoError(t, err)

		assert.Equal(t, 2, result.Saved)
		assert.Equal(t, 0, result.Failed)
		assert.Equal(t, 0, result.Skipped)
		assert.Greater(t, result.Bytes, 0)
		assert.Len(t, urls, 2)

		require.Len(t, events, 3)
		assert.Equal(t, pipeline.ProgressFinished, events[len(events)-1].Type)
	})

	t.Run("duplicate URLs within a run are skipped", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		layout := fs.NewLayout(dir)

		var urls []string
		h := &pipeline.Harvester{
			Retriever: writeFileRetriever(t, "# md\n", &urls),
			Locator:   layout,
		}

		item := harvest.Item{URL: "https://example.com/a.md", Title: "A", Type: harvest.TypeMarkdown}
		targets := []pipeline.Target{
			{Category: "go", Item: item},
			{Category: "docker", Item: item},
		}

		var skipped int
		result, err := h.HarvestAll(context.Background(), targets, func(ev pipeline.ProgressEvent) {
			if ev.Type == pipeline.ProgressSkipped {
				skipped++
			}
		})
		require.NoError(t, err)

		assert.Equal(t, 1, result.Saved)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, 1, skipped)
		assert.Len(t, urls, 1)
	})

	t.Run("per-target failures are counted not returned", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		layout := fs.NewLayout(dir)

		h := &pipeline.Harvester{
			Retriever: &mock.Retriever{
				FetchToFileFn: func(ctx context.Context, url, dest string) error {
					if url == "https://example.com/bad.md" {
						return harvest.Errorf(harvest.EUNAVAILABLE, "down")
					}
					if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
						return err
					}
					return os.WriteFile(dest, []byte("# ok\n"), 0644)
				},
			},
			Locator: layout,
		}

		targets := []pipeline.Target{
			{Category: "go", Item: harvest.Item{URL: "https://example.com/bad.md", Title: "Bad", Type: harvest.TypeMarkdown}},
			{Category: "go", Item: harvest.Item{URL: "https://example.com/good.md", Title: "Good", Type: harvest.TypeMarkdown}},
		}

		var failedEvents []pipeline.ProgressEvent
		result, err := h.HarvestAll(context.Background(), targets, func(ev pipeline.ProgressEvent) {
			if ev.Type == pipeline.ProgressFailed {
				failedEvents = append(failedEvents, ev)
			}
		})
		require.NoError(t, err)

		assert.Equal(t, 1, result.Saved)
		assert.Equal(t, 1, result.Failed)
		require.Len(t, failedEvents, 1)
		assert.Equal(t, "Bad", failedEvents[0].Title)
		require.Error(t, failedEvents[0].Error)
	})
}
