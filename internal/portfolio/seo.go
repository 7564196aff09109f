package portfolio

import (
	"net/url"
	"strings"

	"github.com/rialms/scottspence.me/internal/model"
)

// SEO is the metadata block injected into the document head.
type SEO struct {
	Title       string
	Description string
	Image       string
	URL         string
	Lang        string
	Locale      string
	Twitter     string
}

// MetaTag is a single <meta> element. Exactly one of Name and Property is
// set.
type MetaTag struct {
	Name     string
	Property string
	Content  string
}

// NewSEO builds the SEO block for the page at path.
func NewSEO(site model.SiteMetadata, title, path string) SEO {
	if title == "" {
		title = site.Title
	}

	return SEO{
		Title:       title,
		Description: site.Description,
		Image:       AbsURL(site.SiteURL, site.Image),
		URL:         AbsURL(site.SiteURL, path),
		Lang:        site.SiteLanguage,
		Locale:      site.SiteLocale,
		Twitter:     site.TwitterUsername,
	}
}

// MetaTags lists the tags in the order they are emitted. Tags without a
// value are left out.
func (s SEO) MetaTags() []MetaTag {
	all := []MetaTag{
		{Name: "description", Content: s.Description},
		{Name: "image", Content: s.Image},
		{Property: "og:url", Content: s.URL},
		{Property: "og:type", Content: "website"},
		{Property: "og:title", Content: s.Title},
		{Property: "og:description", Content: s.Description},
		{Property: "og:image", Content: s.Image},
		{Property: "og:locale", Content: s.Locale},
		{Name: "twitter:card", Content: "summary_large_image"},
		{Name: "twitter:creator", Content: s.Twitter},
		{Name: "twitter:title", Content: s.Title},
		{Name: "twitter:description", Content: s.Description},
		{Name: "twitter:image", Content: s.Image},
	}

	tags := all[:0]

	for _, tag := range all {
		if tag.Content != "" {
			tags = append(tags, tag)
		}
	}

	return tags
}

// AbsURL resolves ref against base. Absolute refs and an empty base are
// returned unchanged. Root-relative refs are taken relative to the base
// path, so a site served from https://host/blog keeps the /blog prefix.
func AbsURL(base, ref string) string {
	if base == "" || ref == "" {
		return ref
	}

	r, err := url.Parse(ref)
	if err != nil || r.IsAbs() {
		return ref
	}

	if r.Host == "" {
		r.Path = strings.TrimPrefix(r.Path, "/")
		r.RawPath = strings.TrimPrefix(r.RawPath, "/")
	}

	b, err := url.Parse(strings.TrimSuffix(base, "/") + "/")
	if err != nil {
		return ref
	}

	return b.ResolveReference(r).String()
}
