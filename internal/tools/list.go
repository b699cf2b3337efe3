package tools

import (
	"context"

	"github.com/thenewheretics/blogtools/internal/blogapi"
)

// NewListPosts returns the list_posts tool.
func NewListPosts(blog Blog) Tool {
	return &tool{
		name:        "list_posts",
		description: "Retrieve blog posts from The New Heretics blog with optional filtering.",
		params: []Param{
			{Name: "published", Type: "boolean", Description: "Filter by publish state (true/false)"},
			{Name: "search", Type: "string", Description: "Search term to find in title and content"},
			{Name: "tag", Type: "string", Description: "Filter posts by tag"},
			{Name: "limit", Type: "number", Description: "Maximum number of posts to return"},
		},
		run: func(ctx context.Context, p Params) Result {
			in := blogapi.ListPostsInput{}
			in.Search, _ = p.String("search")
			in.Tag, _ = p.String("tag")

			var err error
			if in.Published, err = p.Bool("published"); err != nil {
				return Fail(err)
			}
			limit, err := p.Int("limit")
			if err != nil {
				return Fail(err)
			}
			in.Limit = int(limit)

			posts, err := blog.ListPosts(ctx, in)
			if err != nil {
				return Fail(err)
			}
			return Ok(formatPosts(posts, "No blog posts found."))
		},
	}
}

// NewListDrafts returns the list_drafts tool.
func NewListDrafts(blog Blog) Tool {
	return &tool{
		name:        "list_drafts",
		description: "List every unpublished draft post.",
		run: func(ctx context.Context, _ Params) Result {
			posts, err := blog.ListDrafts(ctx)
			if err != nil {
				return Fail(err)
			}
			return Ok(formatPosts(posts, "No draft posts found."))
		},
	}
}

// NewListPublished returns the list_published tool.
func NewListPublished(blog Blog) Tool {
	return &tool{
		name:        "list_published",
		description: "List every published post, most recently published first.",
		run: func(ctx context.Context, _ Params) Result {
			posts, err := blog.ListPublished(ctx)
			if err != nil {
				return Fail(err)
			}
			return Ok(formatPosts(posts, "No published posts found."))
		},
	}
}
