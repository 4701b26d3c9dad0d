package model

import (
	"time"
)

// Article status advances monotonically pending -> scraped -> transformed and
// never regresses. "scraped" articles without any transformation are the
// transformation pipeline's work queue.
const (
	ArticleStatusPending     = "pending"
	ArticleStatusScraped     = "scraped"
	ArticleStatusTransformed = "transformed"
)

/*

Article is a news page scraped from (or submitted for) its canonical URL

Id: primary key, use to identify an article
CreatedAt: time when entity is created

Url: canonical article URL, globally unique natural key. Re-scraping an
		existing URL must resolve to the existing row instead of creating a
		duplicate.
Headline: original headline as published
OriginalContent: extracted article body in plain text
Author: byline if the extractor found one
PublishedAt: publication time if the extractor found one
ScrapedAt: time the article was fetched
SiteID:
Site: configured site this article belongs to, "belongs-to" relation; null
		when the URL matched no enabled site
Status: pipeline state, see the status constants above

Transformations: generated candidate headlines, "has-many" relation
*/
type Article struct {
	Id              string `gorm:"primaryKey"`
	CreatedAt       time.Time
	Url             string `gorm:"uniqueIndex"`
	Headline        string
	OriginalContent string
	Author          *string
	PublishedAt     *time.Time
	ScrapedAt       time.Time
	SiteID          *string `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Site            *Site   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Status          string  `gorm:"index"`
	Transformations []Transformation
}
