package models

import "strings"

// SiteCredentials identifies a WordPress site and the application password
// used to talk to its REST API. Never persisted.
type SiteCredentials struct {
	SiteURL     string `json:"siteUrl"`
	Username    string `json:"username"`
	AppPassword string `json:"appPassword"`
}

// BaseURL returns the site URL with exactly one trailing slash removed.
func (s SiteCredentials) BaseURL() string {
	return strings.TrimSuffix(s.SiteURL, "/")
}

// Complete reports whether all three credential fields are present.
func (s SiteCredentials) Complete() bool {
	return s.SiteURL != "" && s.Username != "" && s.AppPassword != ""
}

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type MediaItem struct {
	ID        int    `json:"id"`
	SourceURL string `json:"source_url"`
}

// DraftPost is the wire payload for a new post. Status is always "draft".
type DraftPost struct {
	Title         string `json:"title"`
	Content       string `json:"content"`
	Status        string `json:"status"`
	FeaturedMedia int    `json:"featured_media,omitempty"`
	Categories    []int  `json:"categories,omitempty"`
}

// CreatedPost is the subset of the WordPress post response the proxy reads.
type CreatedPost struct {
	ID   int    `json:"id"`
	Link string `json:"link"`
}
