package tools

import (
	"context"
	"fmt"

	"github.com/thenewheretics/blogtools/internal/blogapi"
)

// NewCreatePost returns the create_post tool.
func NewCreatePost(blog Blog) Tool {
	return &tool{
		name:        "create_post",
		description: "Create a new blog post on The New Heretics blog. Posts are saved as drafts unless is_published is true.",
		params: []Param{
			{Name: "title", Type: "string", Description: "The title of the blog post", Required: true},
			{Name: "content", Type: "string", Description: "The full content/body of the blog post", Required: true},
			{Name: "excerpt", Type: "string", Description: "A short summary or excerpt of the post"},
			{Name: "author", Type: "string", Description: `Author name (defaults to "The New Heretics")`},
			{Name: "tags", Type: "string", Description: `Comma-separated tags, e.g. "philosophy,technology,ai"`},
			{Name: "is_published", Type: "boolean", Description: "Publish immediately instead of saving a draft"},
		},
		run: func(ctx context.Context, p Params) Result {
			in := blogapi.CreatePostInput{}
			in.Title, _ = p.String("title")
			in.Content, _ = p.String("content")
			in.Excerpt, _ = p.String("excerpt")
			in.Author, _ = p.String("author")

			var err error
			if in.Tags, err = p.Tags("tags"); err != nil {
				return Fail(err)
			}
			if in.IsPublished, err = p.Bool("is_published"); err != nil {
				return Fail(err)
			}

			post, err := blog.CreatePost(ctx, in)
			if err != nil {
				return Fail(err)
			}

			state := "saved as draft"
			if post.IsPublished {
				state = "published"
			}
			headline := fmt.Sprintf("Success: Blog post %q has been created and %s!", post.Title, state)
			return Ok(formatPost(blog, headline, post))
		},
	}
}
