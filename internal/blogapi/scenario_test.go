package blogapi

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/thenewheretics/blogtools/internal/blogtest"
)

func newSandboxClient(t *testing.T, opts ...blogtest.Option) (*Client, *blogtest.Server) {
	t.Helper()
	srv := blogtest.NewServer(t, append([]blogtest.Option{blogtest.WithAPIKey("sandbox-key")}, opts...)...)
	return NewClient(srv.URL, WithAPIKey("sandbox-key")), srv
}

func TestScenario_CreateToggleDelete(t *testing.T) {
	c, _ := newSandboxClient(t)
	ctx := context.Background()

	post, err := c.CreatePost(ctx, CreatePostInput{Title: "Hello World", Content: "Body text"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if post.Slug != "hello-world" {
		t.Errorf("Slug = %q, want %q", post.Slug, "hello-world")
	}
	if post.IsPublished {
		t.Error("new post is published, want draft")
	}
	if post.Author != "The New Heretics" {
		t.Errorf("Author = %q, want default author", post.Author)
	}
	if post.CreatedAt.Time.IsZero() {
		t.Errorf("CreatedAt %q did not parse", post.CreatedAt.String())
	}

	toggled, err := c.TogglePublish(ctx, post.ID)
	if err != nil {
		t.Fatalf("TogglePublish: %v", err)
	}
	if !toggled.IsPublished {
		t.Error("after toggle: IsPublished = false, want true")
	}

	msg, err := c.DeletePost(ctx, post.ID)
	if err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
	if msg != "Post deleted successfully" {
		t.Errorf("DeletePost message = %q", msg)
	}

	_, err = c.DeletePost(ctx, post.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeletePost: got %v, want ErrNotFound", err)
	}
}

func TestTogglePublish_TwiceRestoresState(t *testing.T) {
	c, _ := newSandboxClient(t)
	ctx := context.Background()

	for _, start := range []bool{false, true} {
		post, err := c.CreatePost(ctx, CreatePostInput{
			Title:       "Toggle " + map[bool]string{false: "draft", true: "live"}[start],
			Content:     "x",
			IsPublished: &start,
		})
		if err != nil {
			t.Fatalf("CreatePost: %v", err)
		}

		first, err := c.TogglePublish(ctx, post.ID)
		if err != nil {
			t.Fatalf("first toggle: %v", err)
		}
		if first.IsPublished == start {
			t.Errorf("first toggle left IsPublished = %v", first.IsPublished)
		}

		second, err := c.TogglePublish(ctx, post.ID)
		if err != nil {
			t.Fatalf("second toggle: %v", err)
		}
		if second.IsPublished != start {
			t.Errorf("after two toggles IsPublished = %v, want %v", second.IsPublished, start)
		}
	}
}

func TestRoundTrip_CreateThenList(t *testing.T) {
	c, _ := newSandboxClient(t)
	ctx := context.Background()

	if _, err := c.CreatePost(ctx, CreatePostInput{Title: "Unrelated", Content: "x", Tags: []string{"misc"}}); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	created, err := c.CreatePost(ctx, CreatePostInput{
		Title:   "On Heresy",
		Content: "A short essay.",
		Tags:    ParseTags("philosophy, heresy"),
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	posts, err := c.ListPosts(ctx, ListPostsInput{Tag: "heresy"})
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("got %d posts, want 1", len(posts))
	}

	got := posts[0]
	if got.ID != created.ID || got.Slug != created.Slug || got.Title != created.Title {
		t.Errorf("listed post = {%d %q %q}, want {%d %q %q}",
			got.ID, got.Slug, got.Title, created.ID, created.Slug, created.Title)
	}
	if !reflect.DeepEqual(got.Tags, created.Tags) {
		t.Errorf("listed tags = %v, want %v", got.Tags, created.Tags)
	}

	bySlug, err := c.GetPostBySlug(ctx, created.Slug)
	if err != nil {
		t.Fatalf("GetPostBySlug: %v", err)
	}
	if bySlug.ID != created.ID {
		t.Errorf("GetPostBySlug ID = %d, want %d", bySlug.ID, created.ID)
	}
}

func TestListPosts_Filters(t *testing.T) {
	c, _ := newSandboxClient(t)
	ctx := context.Background()
	yes := true

	for _, in := range []CreatePostInput{
		{Title: "Free will", Content: "Determinism and choice"},
		{Title: "Machines", Content: "On artificial minds", IsPublished: &yes},
		{Title: "Gardens", Content: "Growing things"},
	} {
		if _, err := c.CreatePost(ctx, in); err != nil {
			t.Fatalf("CreatePost(%q): %v", in.Title, err)
		}
	}

	tests := []struct {
		name string
		in   ListPostsInput
		want int
	}{
		{name: "all", in: ListPostsInput{}, want: 3},
		{name: "published only", in: ListPostsInput{Published: &yes}, want: 1},
		{name: "search content", in: ListPostsInput{Search: "artificial"}, want: 1},
		{name: "limit", in: ListPostsInput{Limit: 2}, want: 2},
		{name: "no match", in: ListPostsInput{Search: "nothing like this"}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, err := c.ListPosts(ctx, tt.in)
			if err != nil {
				t.Fatalf("ListPosts: %v", err)
			}
			if len(posts) != tt.want {
				t.Errorf("got %d posts, want %d", len(posts), tt.want)
			}
		})
	}
}

func TestCreatePost_DuplicateSlugConflicts(t *testing.T) {
	c, srv := newSandboxClient(t)
	ctx := context.Background()

	if _, err := c.CreatePost(ctx, CreatePostInput{Title: "Hello World", Content: "one"}); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	before := srv.Requests()

	_, err := c.CreatePost(ctx, CreatePostInput{Title: "Hello, World!", Content: "two"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("got %v, want ErrConflict", err)
	}
	if err.Error() != "A post with this slug already exists" {
		t.Errorf("message = %q", err.Error())
	}
	if srv.Requests()-before != 1 {
		t.Errorf("conflicting create issued %d requests, want exactly 1", srv.Requests()-before)
	}
}

func TestUpdateAndStats(t *testing.T) {
	c, _ := newSandboxClient(t)
	ctx := context.Background()

	post, err := c.CreatePost(ctx, CreatePostInput{Title: "Draft", Content: "x"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	title := "Renamed"
	tags := []string{"edited"}
	updated, err := c.UpdatePost(ctx, post.ID, UpdatePostInput{Title: &title, Tags: &tags})
	if err != nil {
		t.Fatalf("UpdatePost: %v", err)
	}
	if updated.Title != "Renamed" || updated.Slug != post.Slug {
		t.Errorf("updated = {%q %q}, want title changed and slug kept", updated.Title, updated.Slug)
	}
	if !reflect.DeepEqual(updated.Tags, tags) {
		t.Errorf("Tags = %v, want %v", updated.Tags, tags)
	}

	if _, err := c.UpdatePost(ctx, 999, UpdatePostInput{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdatePost(999): got %v, want ErrNotFound", err)
	}

	if _, err := c.TogglePublish(ctx, post.ID); err != nil {
		t.Fatalf("TogglePublish: %v", err)
	}
	if _, err := c.CreatePost(ctx, CreatePostInput{Title: "Second", Content: "y"}); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	stats, err := c.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 2 || stats.Published != 1 || stats.Drafts != 1 {
		t.Errorf("stats = %+v, want total 2, published 1, drafts 1", stats)
	}

	published, err := c.ListPublished(ctx)
	if err != nil {
		t.Fatalf("ListPublished: %v", err)
	}
	if len(published) != 1 || published[0].ID != post.ID {
		t.Errorf("ListPublished = %d posts, want only post %d", len(published), post.ID)
	}

	drafts, err := c.ListDrafts(ctx)
	if err != nil {
		t.Fatalf("ListDrafts: %v", err)
	}
	if len(drafts) != 1 || drafts[0].Title != "Second" {
		t.Errorf("ListDrafts = %+v, want only %q", drafts, "Second")
	}
}

func TestSandbox_WrongKeyIsAuthenticationError(t *testing.T) {
	srv := blogtest.NewServer(t, blogtest.WithAPIKey("right"))
	c := NewClient(srv.URL, WithAPIKey("wrong"))

	_, err := c.CreatePost(context.Background(), CreatePostInput{Title: "T", Content: "C"})
	if !errors.Is(err, ErrAuthentication) {
		t.Fatalf("got %v, want ErrAuthentication", err)
	}

	// Listing is public on the sandbox by default.
	if _, err := c.ListPosts(context.Background(), ListPostsInput{}); err != nil {
		t.Errorf("public ListPosts: unexpected error %v", err)
	}
}
