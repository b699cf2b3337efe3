package tools

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/thenewheretics/blogtools/internal/models"
)

// formatPost renders headline, the details block and the full JSON record.
func formatPost(blog Blog, headline string, post *models.BlogPost) string {
	var b strings.Builder
	b.WriteString(headline)
	b.WriteString("\n\nPost Details:\n")
	writeDetails(&b, blog, post)
	b.WriteString("\nFull Post Data:\n")
	b.WriteString(recordJSON(post))
	return b.String()
}

func writeDetails(b *strings.Builder, blog Blog, post *models.BlogPost) {
	tags := "None"
	if len(post.Tags) > 0 {
		tags = strings.Join(post.Tags, ", ")
	}
	fmt.Fprintf(b, "- ID: %d\n", post.ID)
	fmt.Fprintf(b, "- Slug: %s\n", post.Slug)
	fmt.Fprintf(b, "- URL: %s\n", blog.PostURL(post.Slug))
	fmt.Fprintf(b, "- Status: %s\n", post.Status())
	fmt.Fprintf(b, "- Author: %s\n", post.Author)
	fmt.Fprintf(b, "- Tags: %s\n", tags)
	fmt.Fprintf(b, "- Created: %s\n", post.CreatedAt.String())
}

// formatPosts renders a listing. empty is returned when there are no posts.
func formatPosts(posts []models.BlogPost, empty string) string {
	if len(posts) == 0 {
		return empty
	}

	var b strings.Builder
	noun := "posts"
	if len(posts) == 1 {
		noun = "post"
	}
	fmt.Fprintf(&b, "Found %d blog %s:\n\n", len(posts), noun)
	for i := range posts {
		p := &posts[i]
		fmt.Fprintf(&b, "%d. [%s] %s (ID %d, slug %s)\n", i+1, p.Status(), p.Title, p.ID, p.Slug)
	}

	records := make([]any, len(posts))
	for i := range posts {
		records[i] = record(&posts[i])
	}
	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return b.String()
	}
	b.WriteString("\n")
	b.Write(out)
	return b.String()
}

// recordJSON returns the post's JSON record indented by two spaces.
func recordJSON(post *models.BlogPost) string {
	if len(post.Raw) > 0 {
		var buf bytes.Buffer
		if err := json.Indent(&buf, bytes.TrimSpace(post.Raw), "", "  "); err == nil {
			return buf.String()
		}
	}
	out, err := json.MarshalIndent(post, "", "  ")
	if err != nil {
		return string(post.Raw)
	}
	return string(out)
}

// record prefers the JSON the post was decoded from.
func record(post *models.BlogPost) any {
	if len(post.Raw) > 0 && json.Valid(post.Raw) {
		return post.Raw
	}
	return post
}
