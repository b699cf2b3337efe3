package tools

import (
	"context"
	"fmt"

	"github.com/thenewheretics/blogtools/internal/blogapi"
)

// NewUpdatePost returns the update_post tool. Only provided fields change.
func NewUpdatePost(blog Blog) Tool {
	return &tool{
		name:        "update_post",
		description: "Update fields of an existing blog post. Fields that are not provided are left unchanged.",
		params: []Param{
			{Name: "postId", Type: "number", Description: "The ID of the blog post to update", Required: true},
			{Name: "title", Type: "string", Description: "New title"},
			{Name: "slug", Type: "string", Description: "New URL slug"},
			{Name: "content", Type: "string", Description: "New content/body"},
			{Name: "excerpt", Type: "string", Description: "New excerpt"},
			{Name: "author", Type: "string", Description: "New author name"},
			{Name: "tags", Type: "string", Description: "Comma-separated tags replacing the current ones"},
			{Name: "is_published", Type: "boolean", Description: "Publish or unpublish the post"},
		},
		run: func(ctx context.Context, p Params) Result {
			id, err := p.Int("postId")
			if err != nil {
				return Fail(err)
			}

			in := blogapi.UpdatePostInput{
				Title:   optionalString(p, "title"),
				Slug:    optionalString(p, "slug"),
				Content: optionalString(p, "content"),
				Excerpt: optionalString(p, "excerpt"),
				Author:  optionalString(p, "author"),
			}
			if p.Has("tags") {
				tags, err := p.Tags("tags")
				if err != nil {
					return Fail(err)
				}
				in.Tags = &tags
			}
			if in.IsPublished, err = p.Bool("is_published"); err != nil {
				return Fail(err)
			}

			post, err := blog.UpdatePost(ctx, id, in)
			if err != nil {
				return Fail(err)
			}
			return Ok(formatPost(blog, fmt.Sprintf("Success: Post %q has been updated.", post.Title), post))
		},
	}
}

func optionalString(p Params, name string) *string {
	s, ok := p.String(name)
	if !ok {
		return nil
	}
	return &s
}
