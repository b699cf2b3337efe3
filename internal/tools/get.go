package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/thenewheretics/blogtools/internal/models"
)

var errNoPostRef = errors.New("postId or slug is required. Please provide the ID or slug of the post to fetch.")

// NewGetPost returns the get_post tool. postId wins when both are given.
func NewGetPost(blog Blog) Tool {
	return &tool{
		name:        "get_post",
		description: "Fetch a single blog post by ID or slug.",
		params: []Param{
			{Name: "postId", Type: "number", Description: "The ID of the blog post"},
			{Name: "slug", Type: "string", Description: "The URL slug of the blog post"},
		},
		run: func(ctx context.Context, p Params) Result {
			var (
				post *models.BlogPost
				err  error
			)
			switch {
			case p.Has("postId"):
				id, perr := p.Int("postId")
				if perr != nil {
					return Fail(perr)
				}
				post, err = blog.GetPost(ctx, id)
			case p.Has("slug"):
				slug, _ := p.String("slug")
				post, err = blog.GetPostBySlug(ctx, slug)
			default:
				return Fail(errNoPostRef)
			}
			if err != nil {
				return Fail(err)
			}

			return Ok(formatPost(blog, fmt.Sprintf("Post %q (%s)", post.Title, post.Status()), post))
		},
	}
}
