package models

import "time"

type ContentSource string

const (
	SourceTwitter  ContentSource = "twitter"
	SourceReddit   ContentSource = "reddit"
	SourceLinkedIn ContentSource = "linkedin"
)

// Content is a catalog item pulled in by the aggregator. The credit engine
// treats IsPremium and CreditPointPrice as opaque inputs; they are set by
// the aggregation pricing policy, never by the engine.
type Content struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	Description      string        `json:"description,omitempty"`
	Source           ContentSource `json:"source"`
	SourceURL        string        `json:"source_url"`
	Author           string        `json:"author"`
	AuthorURL        string        `json:"author_url,omitempty"`
	Thumbnail        string        `json:"thumbnail,omitempty"`
	Category         string        `json:"category"`
	IsPremium        bool          `json:"is_premium"`
	CreditPointPrice int64         `json:"credit_point_price"`
	ReportCount      int           `json:"report_count,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
}

type ContentReport struct {
	ID        string    `json:"id"`
	ContentID string    `json:"content_id"`
	UserID    string    `json:"user_id"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// ContentFilter narrows feed searches; zero values mean "any".
type ContentFilter struct {
	Query    string
	Category string
	Source   ContentSource
}
