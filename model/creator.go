package model

import "time"

/*

Creator is a named persona/style used to generate alternative headlines

Example: "Neutral Observer", "Plain Facts"

Id: primary key, use to identify a creator
CreatedAt: time when entity is created

Name: the display name of the persona, globally unique
Prompts: prompt templates attached to this persona, "has-many" relation. The
		pipeline only ever selects prompts with Active set.
*/
type Creator struct {
	Id        string `gorm:"primaryKey"`
	CreatedAt time.Time
	Name      string `gorm:"uniqueIndex"`
	Prompts   []CreatorPrompt
}

/*

CreatorPrompt is one prompt template for a creator persona

Id: primary key
CreatedAt: time when entity is created
UpdatedAt: time when entity is updated
CreatorID:
Creator: persona this prompt belongs to, "belongs-to" relation

PromptTemplate: template text with {headline}, {content} and {author}
		placeholders substituted at transformation time
StyleDescription: human readable description of the persona's style
Active: only active prompts participate in the pipeline. A creator is
		expected to have at most one active prompt at a time; nothing in the
		schema enforces this, the pipeline simply takes what is active.
*/
type CreatorPrompt struct {
	Id               string `gorm:"primaryKey"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CreatorID        string `gorm:"index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Creator          *Creator
	PromptTemplate   string
	StyleDescription string
	Active           bool
}
