// Package tools exposes the blog operations as named tools. A tool takes
// injected Params, performs at most one API call and renders a single string.
package tools

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/thenewheretics/blogtools/internal/blogapi"
	"github.com/thenewheretics/blogtools/internal/models"
)

// Param describes one input parameter of a tool.
type Param struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required,omitempty"`
}

// Tool is a single named operation a host can invoke.
type Tool interface {
	Name() string
	Description() string
	Parameters() []Param
	Run(ctx context.Context, params Params) Result
}

// Blog is the subset of the blog API client the tools use.
type Blog interface {
	PostURL(slug string) string
	CreatePost(ctx context.Context, in blogapi.CreatePostInput) (*models.BlogPost, error)
	ListPosts(ctx context.Context, in blogapi.ListPostsInput) ([]models.BlogPost, error)
	DeletePost(ctx context.Context, id int64) (string, error)
	TogglePublish(ctx context.Context, id int64) (*models.BlogPost, error)
	GetPost(ctx context.Context, id int64) (*models.BlogPost, error)
	GetPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	UpdatePost(ctx context.Context, id int64, in blogapi.UpdatePostInput) (*models.BlogPost, error)
	ListDrafts(ctx context.Context) ([]models.BlogPost, error)
	ListPublished(ctx context.Context) ([]models.BlogPost, error)
	Stats(ctx context.Context) (*models.PostStats, error)
}

var _ Blog = (*blogapi.Client)(nil)

// Invoke runs t with params. A panicking tool yields a failed Result rather
// than unwinding into the host.
func Invoke(ctx context.Context, t Tool, params Params) (res Result) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("tool panicked",
				"tool", t.Name(),
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			res = Failf("%s failed unexpectedly.", t.Name())
		}
		slog.Debug("tool invoked",
			"tool", t.Name(),
			"ok", res.OK(),
			"duration", time.Since(start).String(),
		)
	}()

	if params == nil {
		params = Params{}
	}
	return t.Run(ctx, params)
}

// tool is a Tool assembled from its parts.
type tool struct {
	name        string
	description string
	params      []Param
	run         func(ctx context.Context, p Params) Result
}

func (t *tool) Name() string        { return t.name }
func (t *tool) Description() string { return t.description }
func (t *tool) Parameters() []Param { return t.params }

func (t *tool) Run(ctx context.Context, p Params) Result {
	return t.run(ctx, p)
}

// Registry holds tools in registration order.
type Registry struct {
	tools  []Tool
	byName map[string]Tool
}

// NewRegistry returns a registry of the given tools. Names must be unique.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{byName: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if _, dup := r.byName[t.Name()]; dup {
			return nil, fmt.Errorf("duplicate tool name %q", t.Name())
		}
		r.tools = append(r.tools, t)
		r.byName[t.Name()] = t
	}
	return r, nil
}

// Default returns the registry of every blog tool plus the weather tool.
func Default(blog Blog, forecaster Forecaster, latitude, longitude float64) *Registry {
	r, err := NewRegistry(
		NewCreatePost(blog),
		NewListPosts(blog),
		NewGetPost(blog),
		NewUpdatePost(blog),
		NewDeletePost(blog),
		NewTogglePublish(blog),
		NewListDrafts(blog),
		NewListPublished(blog),
		NewBlogStats(blog),
		NewWeatherForecast(forecaster, latitude, longitude),
	)
	if err != nil {
		panic(err)
	}
	return r
}

// Get returns the tool called name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// List returns the tools in registration order.
func (r *Registry) List() []Tool {
	out := make([]Tool, len(r.tools))
	copy(out, r.tools)
	return out
}
