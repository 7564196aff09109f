package content

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/rialms/scottspence.me/internal/model"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var dateFormats = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NewMarkdown returns the markdown converter used for pages and project
// descriptions.
func NewMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
		),
	)
}

// Collect reads every markdown file under dir into content items, sorted by
// date with the newest first and undated items last.
func Collect(dir string, md goldmark.Markdown, log *slog.Logger) ([]*model.ContentItem, error) {
	var items []*model.ContentItem

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("error accessing path '%s' during walk: %w", path, walkErr)
		}

		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		relPath, err := filepath.Rel(dir, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %s: %w", path, err)
		}

		item, err := parseItem(path, relPath, md, log)
		if err != nil {
			return err
		}

		items = append(items, item)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error during content collection walk: %w", err)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Date.IsZero() {
			return false
		}

		if items[j].Date.IsZero() {
			return true
		}

		return items[i].Date.After(items[j].Date)
	})

	return items, nil
}

func parseItem(path, relPath string, md goldmark.Markdown, log *slog.Logger) (*model.ContentItem, error) {
	fileBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file '%s': %w", path, err)
	}

	var fmData map[string]interface{}

	body, err := frontmatter.Parse(bytes.NewReader(fileBytes), &fmData)
	if err != nil {
		log.Warn("could not parse frontmatter, treating as pure markdown",
			"path", path, "err", err)

		body = fileBytes
		fmData = make(map[string]interface{})
	}

	if fmData == nil {
		fmData = make(map[string]interface{})
	}

	var htmlBuffer bytes.Buffer

	err = md.Convert(body, &htmlBuffer)
	if err != nil {
		return nil, fmt.Errorf("failed to convert markdown to HTML for file '%s': %w", path, err)
	}

	item := model.ContentItem{
		Title:       pageTitle(fmData, filepath.Base(path)),
		Type:        itemType(fmData, relPath),
		SourcePath:  path,
		Permalink:   Permalink(relPath),
		ContentHTML: template.HTML(htmlBuffer.String()),
		Frontmatter: fmData,
		Summary:     stringParam(fmData, "summary"),
		Layout:      stringParam(fmData, "layout"),
	}

	switch date := fmData["date"].(type) {
	case time.Time:
		item.Date = date
	case string:
		item.Date, err = parseDate(date)
		if err != nil {
			log.Warn("could not parse date, use YYYY-MM-DD or RFC3339",
				"path", path, "date", date)
		}
	}

	return &item, nil
}

func stringParam(fm map[string]interface{}, key string) string {
	v, _ := fm[key].(string)

	return v
}

func pageTitle(fm map[string]interface{}, fileName string) string {
	if title := stringParam(fm, "title"); title != "" {
		return title
	}

	base := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)

	return cases.Title(language.English).String(base)
}

// itemType is the first directory of the relative path, "page" at the
// root. Frontmatter overrides it.
func itemType(fm map[string]interface{}, relPath string) string {
	if t := stringParam(fm, "type"); t != "" {
		return t
	}

	dir := filepath.ToSlash(filepath.Dir(relPath))
	if dir == "." || dir == "" {
		return "page"
	}

	return strings.Split(dir, "/")[0]
}

func parseDate(s string) (time.Time, error) {
	for _, format := range dateFormats {
		t, err := time.Parse(format, s)
		if err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unknown date format %q", s)
}

// Permalink derives the URL path of a content file. "index.md" maps to the
// directory it is in.
func Permalink(relPath string) string {
	p := filepath.ToSlash(strings.TrimSuffix(relPath, filepath.Ext(relPath)))

	if p == "index" {
		return "/"
	}

	p = strings.TrimSuffix(p, "/index")

	return "/" + strings.Trim(p, "/") + "/"
}
