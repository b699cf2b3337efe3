// Package blogtest runs an in-process stand-in for the blog publishing API.
//
// The sandbox follows the production server's routes, status codes and JSON
// shapes closely enough to drive the client end to end in tests. Posts live
// in an in-memory SQLite database that is discarded with the server.
package blogtest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

// Server is a running sandbox blog server.
type Server struct {
	// URL is the base URL of the server, without a trailing slash.
	URL string

	apiKey        string
	publicListing bool
	requests      atomic.Int64
	store         *store
	srv           *httptest.Server
}

// Option configures a Server.
type Option func(*Server)

// WithAPIKey requires the given key in the X-API-Key header. Without it the
// sandbox accepts every request.
func WithAPIKey(key string) Option {
	return func(s *Server) { s.apiKey = key }
}

// WithPrivateListing makes GET /api/posts require the API key as well.
func WithPrivateListing() Option {
	return func(s *Server) { s.publicListing = false }
}

// WithClock replaces the clock used for created_at and friends.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.store.now = now }
}

// NewServer starts a sandbox server and registers its shutdown with t.
func NewServer(t testing.TB, opts ...Option) *Server {
	t.Helper()

	db, err := openDatabase()
	if err != nil {
		t.Fatalf("opening sandbox db: %v", err)
	}
	if err := runMigrations(db); err != nil {
		db.Close()
		t.Fatalf("running sandbox migrations: %v", err)
	}

	s := &Server{
		publicListing: true,
		store:         &store{db: db, now: time.Now},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.srv = httptest.NewServer(s.router())
	s.URL = s.srv.URL
	t.Cleanup(func() {
		s.srv.Close()
		db.Close()
	})
	return s
}

// Requests returns how many HTTP requests the server has received.
func (s *Server) Requests() int64 {
	return s.requests.Load()
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.countRequests)
	r.Use(s.requireAPIKey)

	r.Route("/api/posts", func(r chi.Router) {
		r.Get("/", s.listPosts)
		r.Post("/", s.createPost)
		r.Get("/drafts", s.listByState(false))
		r.Get("/published", s.listByState(true))
		r.Get("/stats", s.stats)
		r.Get("/slug/{slug}", s.getPostBySlug)
		r.Get("/{id}", s.getPost)
		r.Put("/{id}", s.updatePost)
		r.Delete("/{id}", s.deletePost)
		r.Patch("/{id}/publish", s.togglePublish)
	})
	return r
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		public := s.publicListing && r.Method == http.MethodGet &&
			strings.TrimSuffix(r.URL.Path, "/") == "/api/posts"
		if s.apiKey != "" && !public && r.Header.Get("X-API-Key") != s.apiKey {
			writeError(w, http.StatusUnauthorized, "Invalid or missing API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := listFilter{
		PublishedOnly: strings.ToLower(q.Get("published")) == "true",
		Search:        q.Get("search"),
		Tag:           q.Get("tag"),
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		f.Limit = limit
	}

	posts, err := s.store.list(r.Context(), f)
	if err != nil {
		s.internalError(w, "list posts", err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) listByState(published bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := s.store.listByState(r.Context(), published)
		if err != nil {
			s.internalError(w, "list posts by state", err)
			return
		}
		writeJSON(w, http.StatusOK, posts)
	}
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	total, published, drafts, err := s.store.stats(r.Context())
	if err != nil {
		s.internalError(w, "count posts", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"total_posts":     total,
		"published_posts": published,
		"draft_posts":     drafts,
	})
}

func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	post, err := s.store.get(r.Context(), id)
	s.writePost(w, http.StatusOK, post, err)
}

func (s *Server) getPostBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := s.store.getBySlug(r.Context(), chi.URLParam(r, "slug"))
	s.writePost(w, http.StatusOK, post, err)
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title       *string `json:"title"`
		Content     *string `json:"content"`
		Slug        string  `json:"slug"`
		Excerpt     string  `json:"excerpt"`
		Author      string  `json:"author"`
		Tags        any     `json:"tags"`
		IsPublished bool    `json:"is_published"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Title == nil || body.Content == nil {
		writeError(w, http.StatusBadRequest, "Title and content are required")
		return
	}

	post := &Post{
		Title:       *body.Title,
		Slug:        body.Slug,
		Content:     *body.Content,
		Excerpt:     body.Excerpt,
		Author:      body.Author,
		Tags:        tagsFromJSON(body.Tags),
		IsPublished: body.IsPublished,
	}
	if post.Slug == "" {
		post.Slug = GenerateSlug(post.Title)
	}
	if post.Author == "" {
		post.Author = "The New Heretics"
	}

	created, err := s.store.create(r.Context(), post)
	s.writePost(w, http.StatusCreated, created, err)
}

func (s *Server) updatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}

	var body postUpdate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "No data provided")
		return
	}

	post, err := s.store.update(r.Context(), id, body)
	s.writePost(w, http.StatusOK, post, err)
}

func (s *Server) togglePublish(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	post, err := s.store.togglePublish(r.Context(), id)
	s.writePost(w, http.StatusOK, post, err)
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	if err := s.store.remove(r.Context(), id); err != nil {
		s.writePost(w, http.StatusOK, nil, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"})
}

// writePost writes post with status, or the error response matching err.
func (s *Server) writePost(w http.ResponseWriter, status int, post *Post, err error) {
	switch {
	case errors.Is(err, errNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, errSlugTaken):
		writeError(w, http.StatusConflict, "A post with this slug already exists")
	case err != nil:
		s.internalError(w, "write post", err)
	default:
		writeJSON(w, status, post)
	}
}

func (s *Server) internalError(w http.ResponseWriter, action string, err error) {
	slog.Error("sandbox blog server failed", "action", action, "error", err)
	writeError(w, http.StatusInternalServerError, "Internal Server Error")
}

// postID parses the {id} URL parameter. Non-integer IDs get a 404, as
// with the production router.
func postID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Not found")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
