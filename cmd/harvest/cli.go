package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/fs"
	"github.com/fwojciec/harvest/htmltomarkdown"
	harvesthttp "github.com/fwojciec/harvest/http"
	"github.com/fwojciec/harvest/pdf"
	"github.com/fwojciec/harvest/pipeline"
	harvestslog "github.com/fwojciec/harvest/slog"
	"github.com/fwojciec/harvest/yaml"
)

// CLI defines the command-line interface.
type CLI struct {
	Config      string `help:"Path to configuration file." default:"config.yaml"`
	Category    string `help:"Only harvest this category."`
	BaseDir     string `help:"Base directory for the storage roots." default:"."`
	Concurrency int    `help:"Number of concurrent harvests." default:"1"`
	Verbose     bool   `help:"Enable debug logging."`
}

// Run loads the configuration, wires the pipeline, and harvests the
// selected sources.
func (c *CLI) Run(ctx context.Context, stdout, stderr io.Writer) error {
	cfg, err := yaml.Load(c.Config)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	sources := cfg.Sources
	if c.Category != "" {
		source, ok := sources[c.Category]
		if !ok {
			return fmt.Errorf("category %q not found in sources", c.Category)
		}
		sources = map[string]harvest.Source{c.Category: source}
	}

	targets := buildTargets(sources)
	if len(targets) == 0 {
		fmt.Fprintln(stdout, "Nothing to harvest")
		return nil
	}

	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	settings := cfg.DownloadSettings
	retriever := harvesthttp.NewRetriever(
		harvesthttp.WithUserAgent(settings.UserAgent),
		harvesthttp.WithTimeout(settings.Timeout()),
		harvesthttp.WithMaxRetries(settings.MaxRetries),
		harvesthttp.WithDelay(settings.Delay()),
		harvesthttp.WithInsecureSkipVerify(!settings.Verify()),
		harvesthttp.WithLogger(logger),
	)

	layout := fs.NewLayout(c.BaseDir,
		fs.WithMaterialsDir(cfg.Paths.Materials),
		fs.WithExtractedDir(cfg.Paths.Extracted),
		fs.WithMetadataDir(cfg.Paths.Metadata),
	)

	harvester := &pipeline.Harvester{
		Retriever:   harvestslog.NewRetriever(retriever, logger),
		Converter:   htmltomarkdown.NewConverter(),
		PDF:         pdf.NewExtractor(),
		Locator:     layout,
		Limiter:     pipeline.NewHostLimiter(1 / settings.DelayBetweenRequests),
		Logger:      logger,
		Concurrency: c.Concurrency,
	}

	fmt.Fprintf(stdout, "Harvesting %d URLs\n", len(targets))

	progress := func(p pipeline.ProgressEvent) {
		switch p.Type {
		case pipeline.ProgressFailed:
			fmt.Fprintf(stderr, "failed %s: %v\n", p.URL, p.Error)
		case pipeline.ProgressSkipped:
			fmt.Fprintf(stdout, "[%d/%d] skip duplicate %s\n", p.Completed, p.Total, p.URL)
		case pipeline.ProgressCompleted:
			fmt.Fprintf(stdout, "[%d/%d] %s\n", p.Completed, p.Total, p.Title)
		}
	}

	result, err := harvester.HarvestAll(ctx, targets, progress)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(stdout, "Saved %d, failed %d, skipped %d (%d bytes extracted)\n",
		result.Saved, result.Failed, result.Skipped, result.Bytes)

	return nil
}

// buildTargets flattens the sources map into an ordered target list.
// Categories are sorted so runs are deterministic.
func buildTargets(sources map[string]harvest.Source) []pipeline.Target {
	categories := make([]string, 0, len(sources))
	for category := range sources {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var targets []pipeline.Target
	for _, category := range categories {
		for _, item := range sources[category].URLs {
			targets = append(targets, pipeline.Target{Category: category, Item: item})
		}
	}
	return targets
}
