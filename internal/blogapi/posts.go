package blogapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/thenewheretics/blogtools/internal/models"
)

const (
	opCreate    = "create post"
	opList      = "fetch posts"
	opDelete    = "delete post"
	opToggle    = "toggle publish status"
	opGet       = "fetch post"
	opUpdate    = "update post"
	opDrafts    = "fetch drafts"
	opPublished = "fetch published posts"
	opStats     = "fetch blog stats"
)

// CreatePost creates a post. The server derives the slug from the title; a
// duplicate slug is reported as a KindConflict error and never retried.
func (c *Client) CreatePost(ctx context.Context, in CreatePostInput) (*models.BlogPost, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	raw, err := c.do(ctx, call{
		op:     opCreate,
		method: http.MethodPost,
		path:   "/api/posts",
		body:   in.body(),
		auth:   true,
		statuses: map[int]ErrorKind{
			http.StatusBadRequest: KindValidation,
			http.StatusConflict:   KindConflict,
		},
		fallbacks: map[int]string{
			http.StatusBadRequest: "Invalid request data",
			http.StatusConflict:   "A post with this slug already exists",
		},
	}, nil)
	if err != nil {
		return nil, err
	}
	return decodePost(opCreate, raw)
}

// ListPosts returns the posts matching in, newest first. The result is
// never nil; an empty slice means nothing matched.
func (c *Client) ListPosts(ctx context.Context, in ListPostsInput) ([]models.BlogPost, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	raw, err := c.do(ctx, call{
		op:     opList,
		method: http.MethodGet,
		path:   "/api/posts",
		query:  in.Query(),
		auth:   !c.publicListing,
	}, nil)
	if err != nil {
		return nil, err
	}
	return decodePosts(opList, raw)
}

// DeletePost permanently deletes the post with the given ID and returns the
// server's confirmation message.
func (c *Client) DeletePost(ctx context.Context, id int64) (string, error) {
	if err := validateID(opDelete, id, "delete"); err != nil {
		return "", err
	}

	var resp struct {
		Message string `json:"message"`
	}
	_, err := c.do(ctx, call{
		op:       opDelete,
		method:   http.MethodDelete,
		path:     fmt.Sprintf("/api/posts/%d", id),
		auth:     true,
		statuses: map[int]ErrorKind{http.StatusNotFound: KindNotFound},
		fallbacks: map[int]string{
			http.StatusNotFound: fmt.Sprintf("Post with ID %d not found. It may have already been deleted.", id),
		},
	}, &resp)
	if err != nil {
		return "", err
	}

	if resp.Message == "" {
		return "Post deleted successfully", nil
	}
	return resp.Message, nil
}

// TogglePublish flips the publish state of a post and returns the updated
// post.
func (c *Client) TogglePublish(ctx context.Context, id int64) (*models.BlogPost, error) {
	if err := validateID(opToggle, id, "publish/unpublish"); err != nil {
		return nil, err
	}

	raw, err := c.do(ctx, call{
		op:       opToggle,
		method:   http.MethodPatch,
		path:     fmt.Sprintf("/api/posts/%d/publish", id),
		auth:     true,
		statuses: map[int]ErrorKind{http.StatusNotFound: KindNotFound},
		fallbacks: map[int]string{
			http.StatusNotFound: fmt.Sprintf("Post with ID %d not found.", id),
		},
	}, nil)
	if err != nil {
		return nil, err
	}
	return decodePost(opToggle, raw)
}

// GetPost returns the post with the given ID.
func (c *Client) GetPost(ctx context.Context, id int64) (*models.BlogPost, error) {
	if err := validateID(opGet, id, "fetch"); err != nil {
		return nil, err
	}

	raw, err := c.do(ctx, call{
		op:       opGet,
		method:   http.MethodGet,
		path:     fmt.Sprintf("/api/posts/%d", id),
		auth:     true,
		statuses: map[int]ErrorKind{http.StatusNotFound: KindNotFound},
		fallbacks: map[int]string{
			http.StatusNotFound: fmt.Sprintf("Post with ID %d not found.", id),
		},
	}, nil)
	if err != nil {
		return nil, err
	}
	return decodePost(opGet, raw)
}

// GetPostBySlug returns the post with the given slug.
func (c *Client) GetPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, validationError(opGet, "slug is required. Please provide the slug of the post to fetch.")
	}

	raw, err := c.do(ctx, call{
		op:       opGet,
		method:   http.MethodGet,
		path:     "/api/posts/slug/" + url.PathEscape(slug),
		auth:     true,
		statuses: map[int]ErrorKind{http.StatusNotFound: KindNotFound},
		fallbacks: map[int]string{
			http.StatusNotFound: fmt.Sprintf("Post with slug %q not found.", slug),
		},
	}, nil)
	if err != nil {
		return nil, err
	}
	return decodePost(opGet, raw)
}

// UpdatePost changes the fields set in in and returns the updated post.
func (c *Client) UpdatePost(ctx context.Context, id int64, in UpdatePostInput) (*models.BlogPost, error) {
	if err := validateID(opUpdate, id, "update"); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	raw, err := c.do(ctx, call{
		op:     opUpdate,
		method: http.MethodPut,
		path:   fmt.Sprintf("/api/posts/%d", id),
		body:   in,
		auth:   true,
		statuses: map[int]ErrorKind{
			http.StatusBadRequest: KindValidation,
			http.StatusNotFound:   KindNotFound,
			http.StatusConflict:   KindConflict,
		},
		fallbacks: map[int]string{
			http.StatusBadRequest: "Invalid request data",
			http.StatusNotFound:   fmt.Sprintf("Post with ID %d not found.", id),
			http.StatusConflict:   "A post with this slug already exists",
		},
	}, nil)
	if err != nil {
		return nil, err
	}
	return decodePost(opUpdate, raw)
}

// ListDrafts returns every unpublished post, newest first.
func (c *Client) ListDrafts(ctx context.Context) ([]models.BlogPost, error) {
	raw, err := c.do(ctx, call{
		op:     opDrafts,
		method: http.MethodGet,
		path:   "/api/posts/drafts",
		auth:   true,
	}, nil)
	if err != nil {
		return nil, err
	}
	return decodePosts(opDrafts, raw)
}

// ListPublished returns every published post, most recently published first.
func (c *Client) ListPublished(ctx context.Context) ([]models.BlogPost, error) {
	raw, err := c.do(ctx, call{
		op:     opPublished,
		method: http.MethodGet,
		path:   "/api/posts/published",
		auth:   true,
	}, nil)
	if err != nil {
		return nil, err
	}
	return decodePosts(opPublished, raw)
}

// Stats returns the post counters.
func (c *Client) Stats(ctx context.Context) (*models.PostStats, error) {
	var stats models.PostStats
	if _, err := c.do(ctx, call{
		op:     opStats,
		method: http.MethodGet,
		path:   "/api/posts/stats",
		auth:   true,
	}, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// decodePost decodes a single post and keeps its raw JSON.
func decodePost(op string, raw json.RawMessage) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := json.Unmarshal(raw, &post); err != nil {
		return nil, decodeError(op, err)
	}
	post.Raw = raw
	return &post, nil
}

// decodePosts decodes a JSON array of posts, keeping each element's raw JSON.
func decodePosts(op string, raw json.RawMessage) ([]models.BlogPost, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, decodeError(op, err)
	}

	posts := make([]models.BlogPost, 0, len(items))
	for _, item := range items {
		p, err := decodePost(op, item)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, nil
}

func decodeError(op string, err error) *Error {
	return &Error{
		Kind:    KindTransport,
		Op:      op,
		Message: fmt.Sprintf("Unable to %s: the blog server returned an unreadable response.", op),
		Err:     err,
	}
}
