package cmd

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rialms/scottspence.me/internal/cms"
	"github.com/rialms/scottspence.me/internal/config"
	"github.com/rialms/scottspence.me/internal/model"
	"github.com/rialms/scottspence.me/internal/portfolio"
	"github.com/rialms/scottspence.me/internal/site"
)

// newSource picks the data file when one is configured and the content API
// otherwise.
func newSource(cfg config.Config) (cms.Source, error) {
	order, err := cms.ParseOrder(cfg.CMS.Order)
	if err != nil {
		return nil, err
	}

	if cfg.CMS.DataFile != "" {
		logger.Info("reading portfolio data from file", "path", cfg.CMS.DataFile)

		return cms.FileSource{Path: cfg.CMS.DataFile, Order: order}, nil
	}

	return cms.NewClient(cms.ClientOptions{
		Endpoint: cfg.CMS.Endpoint,
		Token:    cfg.CMS.Token,
		Order:    order,
		Timeout:  cfg.CMS.Timeout,
		Retries:  cfg.CMS.Retries,
		Logger:   logger.With("component", "cms"),
	})
}

func loadSiteMetadata(cfg config.Config) (model.SiteMetadata, error) {
	meta, err := config.LoadSiteMetadata(cfg.SiteFile)
	if err != nil {
		return meta, fmt.Errorf("error loading site metadata: %w", err)
	}

	if cfg.BaseURL != "" {
		meta.SiteURL = cfg.BaseURL
	}

	return meta, nil
}

func portfolioOptions(cfg config.Config) (portfolio.Options, error) {
	policy, err := portfolio.ParseMissingProjectPolicy(cfg.Portfolio.MissingProject)
	if err != nil {
		return portfolio.Options{}, err
	}

	loc := time.UTC

	if cfg.Portfolio.TimeZone != "" {
		loc, err = time.LoadLocation(cfg.Portfolio.TimeZone)
		if err != nil {
			return portfolio.Options{}, fmt.Errorf("invalid time zone: %w", err)
		}
	}

	return portfolio.Options{
		Heading:        cfg.Portfolio.Heading,
		Intro:          cfg.Portfolio.Intro,
		MissingProject: policy,
		TopLanguages:   cfg.Portfolio.TopLanguages,
		Location:       loc,
		Grid:           portfolio.DefaultGrid(),
	}, nil
}

func newBuilder(cfg config.Config, source cms.Source, reg prometheus.Registerer) (*site.Builder, error) {
	meta, err := loadSiteMetadata(cfg)
	if err != nil {
		return nil, err
	}

	opts, err := portfolioOptions(cfg)
	if err != nil {
		return nil, err
	}

	return site.NewBuilder(site.Options{
		Logger:            logger,
		MetricsRegisterer: reg,
		OutputDir:         cfg.OutputDir,
		BaseURL:           meta.SiteURL,
		ContentDir:        cfg.ContentDir,
		LayoutsDir:        cfg.LayoutsDir,
		StaticDir:         cfg.StaticDir,
		Meta:              meta,
		Source:            source,
		Portfolio:         opts,
	})
}
