// Package content defines the content-item domain model shared by the
// caching layer, the metrics engine, and the storage adapters. The items
// themselves are owned by the application's storage layer; this package only
// describes the shape the derivation code reads.
package content

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ContentType distinguishes the two generated formats.
type ContentType string

const (
	TypeBlogPost      ContentType = "blog_post"
	TypeSocialCaption ContentType = "social_caption"
)

// Platform is the optional distribution target of a content item.
type Platform string

const (
	PlatformTwitter   Platform = "Twitter"
	PlatformLinkedIn  Platform = "LinkedIn"
	PlatformFacebook  Platform = "Facebook"
	PlatformInstagram Platform = "Instagram"
	PlatformGeneral   Platform = "General"
)

// Status tracks the lifecycle of a content item.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusScheduled Status = "scheduled"
	StatusPosted    Status = "posted_simulated"
)

// Item is a single piece of generated content as stored by the application.
// The metrics engine treats it as read-only input.
type Item struct {
	bun.BaseModel `bun:"table:content_items,alias:ci" json:"-" msgpack:"-"`

	ID             uuid.UUID  `json:"id" bun:"id,pk"`
	UserID         string     `json:"user_id" bun:"user_id,notnull"`
	Topic          string     `json:"topic" bun:"topic"`
	Keyword        string     `json:"keyword,omitempty" bun:"keyword"`
	Text           string     `json:"text" bun:"text"`
	ContentType    ContentType `json:"content_type" bun:"content_type,notnull"`
	Platform       Platform   `json:"platform,omitempty" bun:"platform"`
	WordCount      int        `json:"word_count" bun:"word_count"`
	CharacterCount int        `json:"character_count" bun:"character_count"`
	Status         Status     `json:"status" bun:"status,notnull"`
	CreatedAt      time.Time  `json:"created_at" bun:"created_at,notnull"`
	ScheduledAt    *time.Time `json:"scheduled_at,omitempty" bun:"scheduled_at"`
	PotentialReach int        `json:"potential_reach" bun:"potential_reach"`
}

// GenerationResult is the output shape of the external text-generation
// provider. The caching layer stores it verbatim; it never calls the
// provider itself.
type GenerationResult struct {
	Text           string `json:"text"`
	WordCount      int    `json:"word_count"`
	CharacterCount int    `json:"character_count"`
}
