package model

import (
	"fmt"
	"time"
)

// SiteMetadata describes the site itself. It is loaded once per build and
// only read afterwards.
type SiteMetadata struct {
	Description     string           `yaml:"description" json:"description"`
	Image           string           `yaml:"image" json:"image"`
	Title           string           `yaml:"title" json:"title"`
	SiteURL         string           `yaml:"siteUrl" json:"siteUrl"`
	SiteLanguage    string           `yaml:"siteLanguage" json:"siteLanguage"`
	SiteLocale      string           `yaml:"siteLocale" json:"siteLocale"`
	TwitterUsername string           `yaml:"twitterUsername" json:"twitterUsername"`
	LastBuildDate   string           `yaml:"lastBuildDate" json:"lastBuildDate"`
	Languages       map[string]int64 `yaml:"languages" json:"languages,omitempty"`
}

// LastBuildTime parses LastBuildDate. Both RFC 3339 timestamps and plain
// dates are accepted.
func (m SiteMetadata) LastBuildTime() (time.Time, error) {
	formats := []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

	for _, format := range formats {
		t, err := time.Parse(format, m.LastBuildDate)
		if err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid last build date %q", m.LastBuildDate)
}
