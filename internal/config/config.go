package config

import (
	"fmt"
	"os"
	"time"

	"github.com/rialms/scottspence.me/internal/model"
	"gopkg.in/yaml.v2"
)

type Config struct {
	OutputDir  string `mapstructure:"outputDir"`
	BaseURL    string `mapstructure:"baseURL"`
	ContentDir string `mapstructure:"contentDir"`
	LayoutsDir string `mapstructure:"layoutsDir"`
	StaticDir  string `mapstructure:"staticDir"`
	SiteFile   string `mapstructure:"siteFile"`
	LogLevel   string `mapstructure:"logLevel"`

	CMS       CMS       `mapstructure:"cms"`
	Portfolio Portfolio `mapstructure:"portfolio"`
	Deploy    Deploy    `mapstructure:"deploy"`
}

// CMS configures where the portfolio assets come from. DataFile takes
// precedence over Endpoint.
type CMS struct {
	Endpoint string        `mapstructure:"endpoint"`
	Token    string        `mapstructure:"token"`
	DataFile string        `mapstructure:"dataFile"`
	Order    string        `mapstructure:"order"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Retries  int           `mapstructure:"retries"`
	CacheTTL time.Duration `mapstructure:"cacheTTL"`
}

type Portfolio struct {
	Heading        string `mapstructure:"heading"`
	Intro          string `mapstructure:"intro"`
	MissingProject string `mapstructure:"missingProject"`
	TopLanguages   int    `mapstructure:"topLanguages"`
	TimeZone       string `mapstructure:"timeZone"`
}

type Deploy struct {
	Bucket          string `mapstructure:"bucket"`
	Prefix          string `mapstructure:"prefix"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"accessKeyID"`
	AccessKeySecret string `mapstructure:"accessKeySecret"`
	DisableHTTPS    bool   `mapstructure:"disableHTTPS"`
	Concurrency     int    `mapstructure:"concurrency"`
}

// LoadSiteMetadata reads the site metadata YAML file.
func LoadSiteMetadata(filename string) (model.SiteMetadata, error) {
	var meta model.SiteMetadata

	yamlFile, err := os.ReadFile(filename)
	if err != nil {
		return meta, fmt.Errorf("error reading site file %s: %w", filename, err)
	}

	err = yaml.Unmarshal(yamlFile, &meta)
	if err != nil {
		return meta, fmt.Errorf("error unmarshalling site file %s: %w", filename, err)
	}

	return meta, nil
}
