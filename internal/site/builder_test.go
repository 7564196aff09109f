package site_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rialms/scottspence.me/internal/model"
	"github.com/rialms/scottspence.me/internal/portfolio"
	"github.com/rialms/scottspence.me/internal/site"
)

type staticSource struct {
	data model.PageData
	err  error
}

func (s staticSource) Fetch(_ context.Context) (model.PageData, error) {
	return s.data, s.err
}

func writeFile(t *testing.T, name, contents string) {
	t.Helper()

	err := os.MkdirAll(filepath.Dir(name), 0o700)
	if err != nil {
		t.Fatal(err)
	}

	err = os.WriteFile(name, []byte(contents), 0o600)
	if err != nil {
		t.Fatal(err)
	}
}

func testData() model.PageData {
	return model.PageData{GraphCMSData: model.Content{Assets: []model.Asset{
		{
			ID:  "ck1newer",
			URL: "https://media.graphcms.com/newer",
			ProjectImageProject: []model.Project{{
				ProjectName:        "Count the things",
				ProjectDescription: "Counts things.",
				GithubRepo:         "https://github.com/spences10/count",
			}},
		},
		{
			ID:  "ck1older",
			URL: "https://media.graphcms.com/older",
			ProjectImageProject: []model.Project{{
				ProjectName: "Gatsby starter",
				DemoLink:    "https://starter.example.com",
			}},
		},
	}}}
}

func newBuilder(t *testing.T, root string, source site.Options) (*site.Builder, *prometheus.Registry) {
	t.Helper()

	reg := prometheus.NewRegistry()

	source.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	source.MetricsRegisterer = reg
	source.OutputDir = filepath.Join(root, "public")
	source.ContentDir = filepath.Join(root, "content")
	source.LayoutsDir = filepath.Join(root, "layouts")
	source.StaticDir = filepath.Join(root, "static")
	source.Meta = model.SiteMetadata{
		Title:        "Scott Spence",
		SiteURL:      "https://scottspence.me",
		SiteLanguage: "en-US",
	}
	source.Now = func() time.Time {
		return time.Date(2020, 1, 15, 9, 30, 0, 0, time.UTC)
	}

	b, err := site.NewBuilder(source)
	if err != nil {
		t.Fatalf("create builder: %v", err)
	}

	return b, reg
}

func TestBuild(t *testing.T) {
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "content", "index.md"), "---\ntitle: Home\n---\n\nWelcome!\n")
	writeFile(t, filepath.Join(root, "content", "posts", "hello.md"), "# Hello\n")
	writeFile(t, filepath.Join(root, "static", "css", "site.css"), "body{}")
	writeFile(t, filepath.Join(root, "public", "stale.html"), "old")

	b, reg := newBuilder(t, root, site.Options{
		Source: staticSource{data: testData()},
	})

	res, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	public := filepath.Join(root, "public")

	want := []string{
		filepath.Join(public, "index.html"),
		filepath.Join(public, "posts", "hello", "index.html"),
		filepath.Join(public, "portfolio", "index.html"),
	}

	got := append([]string(nil), res.Pages...)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("built pages mismatch (-want +got):\n%s", diff)
	}

	if res.Cards != 2 {
		t.Errorf("expected 2 cards, got %d", res.Cards)
	}

	if _, err := os.Stat(filepath.Join(public, "css", "site.css")); err != nil {
		t.Errorf("static asset not copied: %v", err)
	}

	if _, err := os.Stat(filepath.Join(public, "stale.html")); !os.IsNotExist(err) {
		t.Errorf("stale output was not removed: %v", err)
	}

	html, err := os.ReadFile(filepath.Join(public, "portfolio", "index.html"))
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(html), "This site was last built on Wednesday, January 15, 2020.") {
		t.Errorf("build date missing from portfolio page:\n%s", html)
	}

	if strings.Index(string(html), "ck1newer") > strings.Index(string(html), "ck1older") {
		t.Error("cards are not in query order")
	}

	if diff := cmp.Diff([]string{"ck1newer", "ck1older"}, keys(b.Cards())); diff != "" {
		t.Errorf("last cards mismatch (-want +got):\n%s", diff)
	}

	if n := testutil.ToFloat64(b.BuildsCounter("ok")); n != 1 {
		t.Errorf("expected one successful build, got %v", n)
	}

	if n, err := testutil.GatherAndCount(reg, "portfolio_cards_rendered"); err != nil || n != 1 {
		t.Errorf("cards gauge not gathered: %d, %v", n, err)
	}
}

func TestBuildMissingProjectFails(t *testing.T) {
	root := t.TempDir()

	data := testData()
	data.GraphCMSData.Assets[1].ProjectImageProject = nil

	b, _ := newBuilder(t, root, site.Options{
		Source: staticSource{data: data},
	})

	_, err := b.Build(context.Background())
	if !errors.Is(err, portfolio.ErrMissingProject) {
		t.Fatalf("expected ErrMissingProject, got %v", err)
	}

	if n := testutil.ToFloat64(b.BuildsCounter("error")); n != 1 {
		t.Errorf("expected one failed build, got %v", n)
	}
}

func TestBuildMissingProjectSkip(t *testing.T) {
	root := t.TempDir()

	data := testData()
	data.GraphCMSData.Assets[1].ProjectImageProject = nil

	b, _ := newBuilder(t, root, site.Options{
		Source:    staticSource{data: data},
		Portfolio: portfolio.Options{MissingProject: portfolio.MissingProjectSkip},
	})

	res, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if res.Cards != 1 {
		t.Errorf("expected 1 card, got %d", res.Cards)
	}
}

func TestBuildFetchError(t *testing.T) {
	root := t.TempDir()
	boom := errors.New("content API unavailable")

	b, _ := newBuilder(t, root, site.Options{
		Source: staticSource{err: boom},
	})

	_, err := b.Build(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected the fetch error, got %v", err)
	}
}

func TestBuildPortfolioCollision(t *testing.T) {
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "content", "portfolio.md"), "clash")

	b, _ := newBuilder(t, root, site.Options{
		Source: staticSource{data: testData()},
	})

	if _, err := b.Build(context.Background()); err == nil {
		t.Fatal("expected an error for a content page at the portfolio path")
	}
}

func keys(cards []portfolio.Card) []string {
	out := make([]string, len(cards))
	for i := range cards {
		out[i] = cards[i].Key
	}

	return out
}
