package tools

import (
	"context"
	"fmt"
)

// NewDeletePost returns the delete_post tool. Deletion is permanent.
func NewDeletePost(blog Blog) Tool {
	return &tool{
		name:        "delete_post",
		description: "Permanently delete a blog post. This cannot be undone.",
		params: []Param{
			{Name: "postId", Type: "number", Description: "The ID of the blog post to delete", Required: true},
		},
		run: func(ctx context.Context, p Params) Result {
			id, err := p.Int("postId")
			if err != nil {
				return Fail(err)
			}

			msg, err := blog.DeletePost(ctx, id)
			if err != nil {
				return Fail(err)
			}
			return Ok(fmt.Sprintf("Success: %s\n\nPost ID %d has been permanently removed from the blog.", msg, id))
		},
	}
}
