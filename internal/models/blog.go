package models

import "encoding/json"

// DefaultAuthor is the byline the blog server applies when none is given.
const DefaultAuthor = "The New Heretics"

// BlogPost is a single post as returned by the blog publishing API.
type BlogPost struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Content     string    `json:"content"`
	Excerpt     string    `json:"excerpt,omitempty"`
	Author      string    `json:"author"`
	Tags        []string  `json:"tags"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   Timestamp `json:"created_at"`
	UpdatedAt   Timestamp `json:"updated_at"`
	PublishedAt Timestamp `json:"published_at"`

	// Raw is the JSON object the post was decoded from. Fields the server
	// sends that BlogPost does not model survive here.
	Raw json.RawMessage `json:"-"`
}

// Status returns "Published" or "Draft".
func (p *BlogPost) Status() string {
	if p.IsPublished {
		return "Published"
	}
	return "Draft"
}

// PostStats holds the post counters reported by the blog server.
type PostStats struct {
	Total     int `json:"total_posts"`
	Published int `json:"published_posts"`
	Drafts    int `json:"draft_posts"`
}
