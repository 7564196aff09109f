package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rialms/scottspence.me/internal/content"
	"github.com/rialms/scottspence.me/internal/model"
	"github.com/rialms/scottspence.me/internal/portfolio"
	"github.com/yuin/goldmark"
)

const (
	BaseLayout      = "base.html"
	PortfolioLayout = "portfolio.html"
	PageLayout      = "page.html"
)

// View is the data every layout is executed with. Portfolio is set for the
// portfolio page, Item for markdown pages.
type View struct {
	Site      model.SiteMetadata
	SEO       portfolio.SEO
	Portfolio *portfolio.Page
	Item      *model.ContentItem
}

//go:embed layouts
var defaultLayouts embed.FS

// Renderer executes page layouts on top of the base layout and partials.
// Layout files in the site's layouts directory replace the embedded
// defaults of the same name.
type Renderer struct {
	base  *template.Template
	pages map[string]*template.Template
	mu    sync.Mutex

	layouts fs.FS
	md      goldmark.Markdown
	policy  *bluemonday.Policy
	baseURL string
}

// New parses the base layout and partials. An empty or missing layoutsDir
// uses only the embedded layouts.
func New(layoutsDir, baseURL string) (*Renderer, error) {
	embedded, err := fs.Sub(defaultLayouts, "layouts")
	if err != nil {
		return nil, fmt.Errorf("open embedded layouts: %w", err)
	}

	r := Renderer{
		pages:   make(map[string]*template.Template),
		layouts: embedded,
		md:      content.NewMarkdown(),
		policy:  bluemonday.UGCPolicy(),
		baseURL: baseURL,
	}

	if layoutsDir != "" {
		if info, err := os.Stat(layoutsDir); err == nil && info.IsDir() {
			r.layouts = overlayFS{top: os.DirFS(layoutsDir), bottom: embedded}
		}
	}

	partials, err := fs.Glob(r.layouts, "partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("find partials: %w", err)
	}

	base := template.New(BaseLayout).Funcs(r.funcs())

	base, err = base.ParseFS(r.layouts, append([]string{BaseLayout}, partials...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base.html and partials: %w", err)
	}

	r.base = base

	return &r, nil
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"markdown": r.Markdown,
		"absURL": func(ref string) string {
			return portfolio.AbsURL(r.baseURL, ref)
		},
		"gridCSS": func(g portfolio.Grid, selector string) template.CSS {
			return template.CSS(g.CSS(selector))
		},
		"percent": func(f float64) string {
			return fmt.Sprintf("%.1f%%", f)
		},
	}
}

// Markdown converts src to sanitised HTML.
func (r *Renderer) Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer

	err := r.md.Convert([]byte(src), &buf)
	if err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}

	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())), nil
}

// HasLayout reports whether a layout file exists.
func (r *Renderer) HasLayout(name string) bool {
	_, err := fs.Stat(r.layouts, name)

	return err == nil
}

func (r *Renderer) page(name string) (*template.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.pages[name]; ok {
		return t, nil
	}

	t, err := r.base.Clone()
	if err != nil {
		return nil, fmt.Errorf("clone base layout: %w", err)
	}

	t, err = t.ParseFS(r.layouts, name)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout %q: %w", name, err)
	}

	r.pages[name] = t

	return t, nil
}

// Render executes the base layout with the "content" block of the named
// layout.
func (r *Renderer) Render(w io.Writer, layout string, data any) error {
	t, err := r.page(layout)
	if err != nil {
		return err
	}

	err = t.ExecuteTemplate(w, BaseLayout, data)
	if err != nil {
		return fmt.Errorf("failed to execute template %q: %w", layout, err)
	}

	return nil
}

// RenderFile renders into outputDir/<permalink>/index.html.
func (r *Renderer) RenderFile(outputDir, permalink, layout string, data any) (string, error) {
	outputPath := filepath.Join(outputDir, filepath.FromSlash(path.Clean("/"+permalink)), "index.html")

	err := os.MkdirAll(filepath.Dir(outputPath), os.ModePerm)
	if err != nil {
		return "", fmt.Errorf("failed to create directory for %q: %w", permalink, err)
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to create output file %q: %w", outputPath, err)
	}

	defer outFile.Close()

	err = r.Render(outFile, layout, data)
	if err != nil {
		return "", err
	}

	return outputPath, outFile.Close()
}

// overlayFS serves files from top, falling back to bottom.
type overlayFS struct {
	top, bottom fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	f, err := o.top.Open(name)
	if err == nil {
		return f, nil
	}

	return o.bottom.Open(name)
}

// Glob merges the matches of both layers.
func (o overlayFS) Glob(pattern string) ([]string, error) {
	seen := make(map[string]bool)

	var names []string

	for _, layer := range []fs.FS{o.top, o.bottom} {
		matches, err := fs.Glob(layer, pattern)
		if err != nil {
			return nil, err
		}

		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				names = append(names, m)
			}
		}
	}

	return names, nil
}
