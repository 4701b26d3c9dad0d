package model

import (
	"fmt"
	"strings"
	"time"
)

// MaxHeadlineLength bounds user-submitted headlines, inclusive. The lower
// bound is 1 (no empty headlines).
const MaxHeadlineLength = 120

/*

HeadlineReplacement is a user-submitted replacement headline, a separate path
from the automated transformation pipeline

Id: primary key
CreatedAt: time when entity is created
UpdatedAt: time when entity is updated
UserID:
User: submitting user, "belongs-to" relation

Url: article URL the replacement applies to, normalized before storage
OriginalHeadline: headline as seen by the submitter, 1-120 chars
ReplacementHeadline: proposed replacement, 1-120 chars
Citations: supporting citations, at least one with a non-empty URL is
		required for a submission to be valid
*/
type HeadlineReplacement struct {
	Id                  string `gorm:"primaryKey"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
	UserID              string `gorm:"index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	User                *User
	Url                 string `gorm:"index"`
	OriginalHeadline    string
	ReplacementHeadline string
	Citations           []Citation
}

/*

Citation is a supporting URL attached to a user-submitted replacement

Id: primary key
HeadlineReplacementID: owning replacement, "belongs-to" relation

CitationUrl: the supporting URL, must be non-empty
Explanation: optional note on what the citation supports
*/
type Citation struct {
	Id                    string `gorm:"primaryKey"`
	CreatedAt             time.Time
	HeadlineReplacementID string `gorm:"index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CitationUrl           string
	Explanation           *string
}

// Validate checks the submission invariants before anything is persisted.
// The returned error names the offending field so handlers can surface a
// field-specific 400.
func (r *HeadlineReplacement) Validate() error {
	if err := validateHeadline("original_headline", r.OriginalHeadline); err != nil {
		return err
	}
	if err := validateHeadline("replacement_headline", r.ReplacementHeadline); err != nil {
		return err
	}
	for _, citation := range r.Citations {
		if strings.TrimSpace(citation.CitationUrl) != "" {
			return nil
		}
	}
	return fmt.Errorf("citations: at least one citation with a non-empty URL is required")
}

func validateHeadline(field string, headline string) error {
	if len(headline) == 0 {
		return fmt.Errorf("%s: headline must not be empty", field)
	}
	if len(headline) > MaxHeadlineLength {
		return fmt.Errorf("%s: headline must be at most %d characters, got %d", field, MaxHeadlineLength, len(headline))
	}
	return nil
}
