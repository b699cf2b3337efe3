package tools

import (
	"context"
	"fmt"
)

// NewTogglePublish returns the toggle_publish_post tool.
func NewTogglePublish(blog Blog) Tool {
	return &tool{
		name:        "toggle_publish_post",
		description: "Toggle the publish status of a blog post: publish a draft or unpublish a published post.",
		params: []Param{
			{Name: "postId", Type: "number", Description: "The ID of the blog post to publish/unpublish", Required: true},
		},
		run: func(ctx context.Context, p Params) Result {
			id, err := p.Int("postId")
			if err != nil {
				return Fail(err)
			}

			post, err := blog.TogglePublish(ctx, id)
			if err != nil {
				return Fail(err)
			}

			state := "unpublished"
			if post.IsPublished {
				state = "published"
			}
			return Ok(formatPost(blog, fmt.Sprintf("Success: Post %q has been %s.", post.Title, state), post))
		},
	}
}
