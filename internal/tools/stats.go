package tools

import (
	"context"
	"fmt"
)

// NewBlogStats returns the blog_stats tool.
func NewBlogStats(blog Blog) Tool {
	return &tool{
		name:        "blog_stats",
		description: "Report how many posts the blog has, split into published posts and drafts.",
		run: func(ctx context.Context, _ Params) Result {
			stats, err := blog.Stats(ctx)
			if err != nil {
				return Fail(err)
			}
			return Ok(fmt.Sprintf("Blog Statistics:\n- Total posts: %d\n- Published: %d\n- Drafts: %d",
				stats.Total, stats.Published, stats.Drafts))
		},
	}
}
