package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rialms/scottspence.me/internal/cms"
	"github.com/rialms/scottspence.me/internal/content"
	"github.com/rialms/scottspence.me/internal/model"
	"github.com/rialms/scottspence.me/internal/portfolio"
	"github.com/rialms/scottspence.me/internal/render"
)

type Options struct {
	Logger            *slog.Logger
	MetricsRegisterer prometheus.Registerer

	OutputDir  string
	BaseURL    string
	ContentDir string
	LayoutsDir string
	StaticDir  string

	// Meta is the site metadata, LastBuildDate is stamped with the build
	// start time when empty.
	Meta      model.SiteMetadata
	Source    cms.Source
	Portfolio portfolio.Options

	// Now defaults to time.Now.
	Now func() time.Time
}

// Builder generates the static site.
type Builder struct {
	opts Options
	log  *slog.Logger

	builds   *prometheus.CounterVec
	duration prometheus.Histogram
	cards    prometheus.Gauge

	buildMu sync.Mutex

	mu        sync.RWMutex
	lastCards []portfolio.Card
}

// Result summarises a successful build.
type Result struct {
	Pages []string
	Cards int
}

func NewBuilder(opts Options) (*Builder, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.MetricsRegisterer == nil {
		opts.MetricsRegisterer = prometheus.DefaultRegisterer
	}

	if opts.Now == nil {
		opts.Now = time.Now
	}

	if opts.Source == nil {
		return nil, errors.New("no portfolio content source")
	}

	builds := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_builds_total",
			Help: "Number of site builds.",
		},
		[]string{"status"},
	)
	if err := opts.MetricsRegisterer.Register(builds); err != nil {
		return nil, fmt.Errorf("failed to register metric: %w", err)
	}

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "portfolio_build_duration_seconds",
		Help:    "Duration of site builds.",
		Buckets: prometheus.ExponentialBuckets(0.010, 2, 11),
	})
	if err := opts.MetricsRegisterer.Register(duration); err != nil {
		return nil, fmt.Errorf("failed to register metric: %w", err)
	}

	cards := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "portfolio_cards_rendered",
		Help: "Number of project cards on the last built portfolio page.",
	})
	if err := opts.MetricsRegisterer.Register(cards); err != nil {
		return nil, fmt.Errorf("failed to register metric: %w", err)
	}

	return &Builder{
		opts:     opts,
		log:      opts.Logger,
		builds:   builds,
		duration: duration,
		cards:    cards,
	}, nil
}

// Cards returns the cards of the last successful build.
func (b *Builder) Cards() []portfolio.Card {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.lastCards
}

// Build runs a full build. The output directory is removed and recreated.
// Concurrent calls are serialised.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	b.buildMu.Lock()
	defer b.buildMu.Unlock()

	began := time.Now()

	res, err := b.build(ctx, b.opts.Now())

	b.duration.Observe(time.Since(began).Seconds())

	if err != nil {
		b.builds.WithLabelValues("error").Inc()

		return nil, err
	}

	b.builds.WithLabelValues("ok").Inc()
	b.cards.Set(float64(res.Cards))

	return res, nil
}

func (b *Builder) build(ctx context.Context, start time.Time) (*Result, error) {
	meta := b.opts.Meta
	if meta.LastBuildDate == "" {
		meta.LastBuildDate = start.UTC().Format(time.RFC3339)
	}

	b.log.Info("starting build",
		"output_dir", b.opts.OutputDir,
		"base_url", b.opts.BaseURL)

	renderer, err := render.New(b.opts.LayoutsDir, b.opts.BaseURL)
	if err != nil {
		return nil, err
	}

	data, err := b.opts.Source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch portfolio content: %w", err)
	}

	page, err := portfolio.NewPage(data, meta, b.opts.Portfolio)
	if err != nil {
		return nil, fmt.Errorf("assemble portfolio page: %w", err)
	}

	items, err := b.collectContent()
	if err != nil {
		return nil, err
	}

	err = prepareOutputDir(b.opts.OutputDir)
	if err != nil {
		return nil, err
	}

	if b.opts.StaticDir != "" && dirExists(b.opts.StaticDir) {
		err := copyDirContents(b.opts.StaticDir, b.opts.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("failed to copy static assets: %w", err)
		}
	}

	var res Result

	for _, item := range items {
		layout := b.itemLayout(renderer, item)

		outputPath, err := renderer.RenderFile(b.opts.OutputDir, item.Permalink, layout, render.View{
			Site: meta,
			SEO:  portfolio.NewSEO(meta, item.Title, item.Permalink),
			Item: item,
		})
		if err != nil {
			return nil, fmt.Errorf("render %q: %w", item.SourcePath, err)
		}

		b.log.Debug("generated page", "path", outputPath, "layout", layout)

		res.Pages = append(res.Pages, outputPath)
	}

	outputPath, err := renderer.RenderFile(b.opts.OutputDir, portfolio.Path, render.PortfolioLayout, render.View{
		Site:      meta,
		SEO:       page.SEO,
		Portfolio: page,
	})
	if err != nil {
		return nil, fmt.Errorf("render portfolio: %w", err)
	}

	res.Pages = append(res.Pages, outputPath)
	res.Cards = len(page.Cards)

	b.mu.Lock()
	b.lastCards = page.Cards
	b.mu.Unlock()

	b.log.Info("build completed",
		"pages", len(res.Pages),
		"cards", res.Cards)

	return &res, nil
}

func (b *Builder) collectContent() ([]*model.ContentItem, error) {
	if b.opts.ContentDir == "" || !dirExists(b.opts.ContentDir) {
		b.log.Info("content directory not found, skipping pages",
			"content_dir", b.opts.ContentDir)

		return nil, nil
	}

	items, err := content.Collect(b.opts.ContentDir, content.NewMarkdown(), b.log)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		if item.Permalink == portfolio.Path {
			return nil, fmt.Errorf("content file %q collides with the portfolio page", item.SourcePath)
		}
	}

	return items, nil
}

// itemLayout picks the frontmatter layout, then single-<type>.html, then
// page.html.
func (b *Builder) itemLayout(r *render.Renderer, item *model.ContentItem) string {
	if item.Layout != "" {
		if r.HasLayout(item.Layout) {
			return item.Layout
		}

		b.log.Warn("frontmatter layout not found, using default",
			"layout", item.Layout, "item", item.Title)
	}

	typed := "single-" + item.Type + ".html"
	if r.HasLayout(typed) {
		return typed
	}

	return render.PageLayout
}

func prepareOutputDir(outputDir string) error {
	if outputDir == "" {
		return errors.New("no output directory configured")
	}

	if err := os.RemoveAll(outputDir); err != nil {
		return fmt.Errorf("failed to remove output directory '%s': %w", outputDir, err)
	}

	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output directory '%s': %w", outputDir, err)
	}

	return nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
