package portfolio

import (
	"fmt"
	"time"

	"github.com/rialms/scottspence.me/internal/model"
)

// Path is where the portfolio page is published.
const Path = "/portfolio/"

type Options struct {
	Heading        string
	Intro          string
	MissingProject MissingProjectPolicy
	TopLanguages   int
	Location       *time.Location
	Grid           Grid
}

// Page is everything the portfolio template needs.
type Page struct {
	SEO       SEO
	Heading   string
	Intro     string
	BuildDate string
	Languages []LanguageShare
	Grid      Grid
	Cards     []Card
	HomeLink  string
	HomeLabel string
}

// NewPage assembles the portfolio page from the fetched data and the site
// metadata.
func NewPage(data model.PageData, site model.SiteMetadata, opts Options) (*Page, error) {
	assets := data.GraphCMSData.Assets

	built, err := site.LastBuildTime()
	if err != nil {
		return nil, err
	}

	if opts.Location != nil {
		built = built.In(opts.Location)
	}

	buildDate, err := FormatBuildDate(built, site.SiteLanguage)
	if err != nil {
		return nil, fmt.Errorf("format build date: %w", err)
	}

	cards, err := MapCards(assets, opts.MissingProject)
	if err != nil {
		return nil, fmt.Errorf("map project cards: %w", err)
	}

	heading := opts.Heading
	if heading == "" {
		heading = "Portfolio"
	}

	grid := opts.Grid
	if grid.Columns == 0 {
		grid = DefaultGrid()
	}

	return &Page{
		SEO:       NewSEO(site, heading, Path),
		Heading:   heading,
		Intro:     opts.Intro,
		BuildDate: buildDate,
		Languages: TopLanguages(site.Languages, opts.TopLanguages),
		Grid:      grid,
		Cards:     cards,
		HomeLink:  "/",
		HomeLabel: "homepage",
	}, nil
}
