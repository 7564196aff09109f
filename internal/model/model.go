package model

import (
	"html/template"
	"time"
)

// ContentItem represents a single markdown page (e.g. the home page).
type ContentItem struct {
	Title       string
	Date        time.Time
	Type        string
	SourcePath  string
	Permalink   string
	ContentHTML template.HTML
	Frontmatter map[string]interface{}
	Summary     string
	Layout      string
}

// Asset is an uploaded project image together with the project it
// illustrates.
type Asset struct {
	ID                  string    `json:"id"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
	MimeType            string    `json:"mimeType"`
	URL                 string    `json:"url"`
	Size                float64   `json:"size"`
	Width               float64   `json:"width"`
	Height              float64   `json:"height"`
	Status              string    `json:"status"`
	Handle              string    `json:"handle"`
	FileName            string    `json:"fileName"`
	ProjectImageProject []Project `json:"projectImageProject"`
}

// Project is the descriptive metadata of one portfolio entry.
type Project struct {
	ID                 string    `json:"id"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
	Status             string    `json:"status"`
	ProjectName        string    `json:"projectName"`
	ProjectDescription string    `json:"projectDescription"`
	GithubRepo         string    `json:"githubRepo"`
	DemoLink           string    `json:"demoLink"`
}

// Content is the resolved asset query.
type Content struct {
	Assets []Asset `json:"assets"`
}

// PageData is the data object handed to the portfolio page.
type PageData struct {
	GraphCMSData Content `json:"graphcmsdata"`
}
