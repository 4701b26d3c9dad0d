package model

import "time"

/*

Transformation is one generated candidate replacement headline for an
(article, creator) pair

Rows are append-only history, never updated. Multiple transformations may
exist for the same pair over time; "current" selection takes the max by
CreatedAt, there is no latest flag.

Id: primary key
CreatedAt: time when entity is created
ArticleID:
Article: article the headline belongs to, "belongs-to" relation
CreatorID:
Creator: persona that produced the rewrite, "belongs-to" relation

OriginalHeadline: headline at transformation time
TransformedHeadline: generated replacement
ProviderUsed: identifier of the LLM provider that produced the rewrite
PromptUsed: prompt template that was substituted and sent
ConfidenceScore: heuristic quality estimate in [0,1], see transformer package
ProcessingTimeMs: wall-clock provider latency
*/
type Transformation struct {
	Id                  string `gorm:"primaryKey"`
	CreatedAt           time.Time
	ArticleID           string `gorm:"index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Article             *Article
	CreatorID           string `gorm:"index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Creator             *Creator
	OriginalHeadline    string
	TransformedHeadline string
	ProviderUsed        string
	PromptUsed          string
	ConfidenceScore     float64
	ProcessingTimeMs    int64
}
