package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rialms/scottspence.me/internal/cms"
	"github.com/rialms/scottspence.me/internal/config"
	"github.com/rialms/scottspence.me/internal/model"
)

type countingSource struct {
	source cms.Source
	calls  atomic.Int32
}

func (cs *countingSource) Fetch(ctx context.Context) (model.PageData, error) {
	cs.calls.Add(1)

	return cs.source.Fetch(ctx)
}

func buildCount(t *testing.T, reg prometheus.Gatherer, status string) float64 {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	for _, mf := range families {
		if mf.GetName() != "portfolio_builds_total" {
			continue
		}

		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "status" && l.GetValue() == status {
					return m.GetCounter().GetValue()
				}
			}
		}
	}

	return 0
}

func waitForBuilds(t *testing.T, reg prometheus.Gatherer, want float64) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)

	for buildCount(t, reg, "ok") < want {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for build %v", want)
		}

		time.Sleep(20 * time.Millisecond)
	}
}

func testWatchAndRebuild(t *testing.T, refetchData bool, wantFetches int32) {
	root, _ := writeTestSite(t)

	cfg := config.Config{
		OutputDir:  filepath.Join(root, "public"),
		ContentDir: filepath.Join(root, "content"),
		SiteFile:   filepath.Join(root, "site.yaml"),
		CMS:        config.CMS{Order: "desc"},
	}

	upstream := &countingSource{
		source: cms.FileSource{Path: filepath.Join(root, "assets.json")},
	}
	cached := cms.NewCachedSource(upstream, time.Hour)
	reg := prometheus.NewRegistry()

	builder, err := newBuilder(cfg, cached, reg)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := builder.Build(ctx); err != nil {
		t.Fatalf("initial build: %v", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		t.Fatal(err)
	}
	defer watcher.Close()

	addWatches(watcher, cfg.ContentDir)

	go watchAndRebuild(ctx, watcher, builder, cached, refetchData)

	page := filepath.Join(cfg.ContentDir, "index.md")

	// Two writes inside the debounce window.
	for _, body := range []string{"# Home\n\nfirst\n", "# Home\n\nsecond\n"} {
		if err := os.WriteFile(page, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}

		time.Sleep(50 * time.Millisecond)
	}

	waitForBuilds(t, reg, 2)

	// Give a second debounced build the chance to show up.
	time.Sleep(time.Second)

	if n := buildCount(t, reg, "ok"); n != 2 {
		t.Errorf("expected exactly one rebuild, got %v builds", n)
	}

	if n := upstream.calls.Load(); n != wantFetches {
		t.Errorf("expected %d upstream fetches, got %d", wantFetches, n)
	}

	html, err := os.ReadFile(filepath.Join(cfg.OutputDir, "index.html"))
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(html), "second") {
		t.Error("rebuilt page lacks the latest edit")
	}
}

func TestWatchAndRebuildDebounces(t *testing.T) {
	testWatchAndRebuild(t, false, 1)
}

func TestWatchAndRebuildRefetch(t *testing.T) {
	testWatchAndRebuild(t, true, 2)
}
