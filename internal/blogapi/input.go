package blogapi

import (
	"net/url"
	"strconv"
	"strings"
)

// CreatePostInput holds the fields of a new post. Zero-valued optional
// fields are left out of the request so the server applies its defaults.
type CreatePostInput struct {
	Title       string
	Content     string
	Excerpt     string
	Author      string
	Tags        []string
	IsPublished *bool
}

// Validate checks the required fields.
func (in CreatePostInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return validationError(opCreate, "title is required. Please provide a title for the blog post.")
	}
	if strings.TrimSpace(in.Content) == "" {
		return validationError(opCreate, "content is required. Please provide the content/body for the blog post.")
	}
	return nil
}

// createPostBody is the JSON body of POST /api/posts.
type createPostBody struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Excerpt     string   `json:"excerpt,omitempty"`
	Author      string   `json:"author,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	IsPublished *bool    `json:"is_published,omitempty"`
}

func (in CreatePostInput) body() createPostBody {
	return createPostBody{
		Title:       in.Title,
		Content:     in.Content,
		Excerpt:     in.Excerpt,
		Author:      in.Author,
		Tags:        in.Tags,
		IsPublished: in.IsPublished,
	}
}

// ListPostsInput holds the optional listing filters. A nil Published, an
// empty string or a zero Limit means the filter is not applied.
type ListPostsInput struct {
	Published *bool
	Search    string
	Tag       string
	Limit     int
}

// Validate rejects a negative limit.
func (in ListPostsInput) Validate() error {
	if in.Limit < 0 {
		return validationError(opList, "limit must be a positive number.")
	}
	return nil
}

// Query returns the filters as query parameters, omitting absent ones.
func (in ListPostsInput) Query() url.Values {
	q := url.Values{}
	if in.Published != nil {
		q.Set("published", strconv.FormatBool(*in.Published))
	}
	if in.Search != "" {
		q.Set("search", in.Search)
	}
	if in.Tag != "" {
		q.Set("tag", in.Tag)
	}
	if in.Limit > 0 {
		q.Set("limit", strconv.Itoa(in.Limit))
	}
	return q
}

// UpdatePostInput holds the fields to change on an existing post. Nil
// fields are left untouched.
type UpdatePostInput struct {
	Title       *string   `json:"title,omitempty"`
	Slug        *string   `json:"slug,omitempty"`
	Content     *string   `json:"content,omitempty"`
	Excerpt     *string   `json:"excerpt,omitempty"`
	Author      *string   `json:"author,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	IsPublished *bool     `json:"is_published,omitempty"`
}

// Empty reports whether no field is set.
func (in UpdatePostInput) Empty() bool {
	return in.Title == nil && in.Slug == nil && in.Content == nil &&
		in.Excerpt == nil && in.Author == nil && in.Tags == nil && in.IsPublished == nil
}

// Validate rejects an update that changes nothing or blanks a required field.
func (in UpdatePostInput) Validate() error {
	if in.Empty() {
		return validationError(opUpdate, "No data provided. Set at least one field to update.")
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return validationError(opUpdate, "title cannot be empty.")
	}
	if in.Content != nil && strings.TrimSpace(*in.Content) == "" {
		return validationError(opUpdate, "content cannot be empty.")
	}
	if in.Slug != nil && strings.TrimSpace(*in.Slug) == "" {
		return validationError(opUpdate, "slug cannot be empty.")
	}
	return nil
}

// ParseTags splits a comma-separated tag list, trimming each element and
// dropping empty ones.
func ParseTags(s string) []string {
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// validateID checks a post ID; action completes "the ID of the post to ...".
func validateID(op string, id int64, action string) error {
	if id == 0 {
		return validationError(op, "postId is required. Please provide the ID of the post to %s.", action)
	}
	if id < 0 {
		return validationError(op, "postId must be a positive integer.")
	}
	return nil
}
