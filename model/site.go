package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// ScrapeSelectors are the CSS selectors used to pull an article's pieces out
// of a site's pages when the generic extraction heuristics are not enough.
type ScrapeSelectors struct {
	Headline string `json:"headline"`
	Content  string `json:"content"`
	Author   string `json:"author"`
}

/*

Site is a configured news site the scraper is allowed to crawl

Id: primary key, use to identify a site
CreatedAt: time when entity is created
UpdatedAt: time when entity is updated

Name: the display name of the site for example "Example Times"
BaseUrl: the site root, for example "https://example.com", globally unique
Enabled: admin toggle, disabled sites are skipped by the batch scraper
ScrapeSelectorsJSON: per-site CSS selectors, stored as JSONB
*/
type Site struct {
	Id                  string `gorm:"primaryKey"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
	Name                string
	BaseUrl             string `gorm:"uniqueIndex"`
	Enabled             bool
	ScrapeSelectorsJSON datatypes.JSON
}

// Selectors decodes the stored JSONB selector record. A site without
// configured selectors yields the zero value.
func (s *Site) Selectors() ScrapeSelectors {
	var selectors ScrapeSelectors
	if len(s.ScrapeSelectorsJSON) == 0 {
		return selectors
	}
	// Malformed JSON is treated as no selectors rather than an error.
	json.Unmarshal(s.ScrapeSelectorsJSON, &selectors)
	return selectors
}

// SetSelectors encodes the selector record into the JSONB column.
func (s *Site) SetSelectors(selectors ScrapeSelectors) error {
	raw, err := json.Marshal(selectors)
	if err != nil {
		return err
	}
	s.ScrapeSelectorsJSON = datatypes.JSON(raw)
	return nil
}
