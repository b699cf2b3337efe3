package blogtest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// errNotFound is returned when a requested post does not exist.
var errNotFound = errors.New("not found")

// errSlugTaken is returned when a slug is already used by another post.
var errSlugTaken = errors.New("slug already exists")

// timeLayout matches the naive ISO-8601 text the production server emits.
const timeLayout = "2006-01-02T15:04:05.000000"

// Post is a stored post in the wire shape of the blog API.
type Post struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Content     string   `json:"content"`
	Excerpt     string   `json:"excerpt"`
	Author      string   `json:"author"`
	Tags        []string `json:"tags"`
	IsPublished bool     `json:"is_published"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
	PublishedAt *string  `json:"published_at"`
}

// listFilter mirrors the query parameters of GET /api/posts.
type listFilter struct {
	PublishedOnly bool
	Search        string
	Tag           string
	Limit         int
}

// store persists posts in SQLite.
type store struct {
	db  *sql.DB
	now func() time.Time
}

func (s *store) timestamp() string {
	return s.now().UTC().Format(timeLayout)
}

const postColumns = `id, title, slug, content, excerpt, author, tags, is_published,
	created_at, updated_at, published_at`

// create inserts p and returns the stored row.
func (s *store) create(ctx context.Context, p *Post) (*Post, error) {
	if taken, err := s.slugTaken(ctx, p.Slug, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, errSlugTaken
	}

	now := s.timestamp()
	var publishedAt *string
	if p.IsPublished {
		publishedAt = &now
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO posts (title, slug, content, excerpt, author, tags, is_published,
			created_at, updated_at, published_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Slug, p.Content, p.Excerpt, p.Author, strings.Join(p.Tags, ","),
		p.IsPublished, now, now, publishedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting post id: %w", err)
	}
	return s.get(ctx, id)
}

// get returns the post with the given ID.
func (s *store) get(ctx context.Context, id int64) (*Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	return scanPostRow(row)
}

// getBySlug returns the post with the given slug.
func (s *store) getBySlug(ctx context.Context, slug string) (*Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = ?`, slug)
	return scanPostRow(row)
}

// list returns posts matching f, newest first.
func (s *store) list(ctx context.Context, f listFilter) ([]Post, error) {
	var (
		where []string
		args  []any
	)
	if f.PublishedOnly {
		where = append(where, "is_published = 1")
	}
	if f.Search != "" {
		where = append(where, "(title LIKE ? OR content LIKE ?)")
		args = append(args, "%"+f.Search+"%", "%"+f.Search+"%")
	}
	if f.Tag != "" {
		where = append(where, "tags LIKE ?")
		args = append(args, "%"+f.Tag+"%")
	}

	query := `SELECT ` + postColumns + ` FROM posts`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}
	return s.query(ctx, query, args...)
}

// listByState returns all published or all draft posts.
func (s *store) listByState(ctx context.Context, published bool) ([]Post, error) {
	order := "created_at DESC"
	if published {
		order = "published_at DESC"
	}
	return s.query(ctx,
		`SELECT `+postColumns+` FROM posts WHERE is_published = ? ORDER BY `+order+`, id DESC`,
		published,
	)
}

// postUpdate holds the fields of a PUT body; nil fields are untouched.
type postUpdate struct {
	Title       *string `json:"title"`
	Slug        *string `json:"slug"`
	Content     *string `json:"content"`
	Excerpt     *string `json:"excerpt"`
	Author      *string `json:"author"`
	Tags        any     `json:"tags"`
	IsPublished *bool   `json:"is_published"`
}

// update applies u to the post with the given ID.
func (s *store) update(ctx context.Context, id int64, u postUpdate) (*Post, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if u.Slug != nil {
		taken, err := s.slugTaken(ctx, *u.Slug, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, errSlugTaken
		}
		p.Slug = *u.Slug
	}
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Content != nil {
		p.Content = *u.Content
	}
	if u.Excerpt != nil {
		p.Excerpt = *u.Excerpt
	}
	if u.Author != nil {
		p.Author = *u.Author
	}
	if u.Tags != nil {
		p.Tags = tagsFromJSON(u.Tags)
	}

	now := s.timestamp()
	if u.IsPublished != nil {
		if *u.IsPublished && !p.IsPublished {
			p.PublishedAt = &now
		}
		p.IsPublished = *u.IsPublished
	}

	if _, err := s.db.ExecContext(ctx,
		`UPDATE posts SET title = ?, slug = ?, content = ?, excerpt = ?, author = ?, tags = ?,
			is_published = ?, updated_at = ?, published_at = ?
		 WHERE id = ?`,
		p.Title, p.Slug, p.Content, p.Excerpt, p.Author, strings.Join(p.Tags, ","),
		p.IsPublished, now, p.PublishedAt, id,
	); err != nil {
		return nil, fmt.Errorf("updating post: %w", err)
	}
	return s.get(ctx, id)
}

// togglePublish flips is_published, stamping published_at on first publish.
func (s *store) togglePublish(ctx context.Context, id int64) (*Post, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	published := !p.IsPublished
	return s.update(ctx, id, postUpdate{IsPublished: &published})
}

// remove deletes the post with the given ID.
func (s *store) remove(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return errNotFound
	}
	return nil
}

// stats counts all, published and draft posts.
func (s *store) stats(ctx context.Context) (total, published, drafts int, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN is_published = 1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN is_published = 0 THEN 1 ELSE 0 END), 0)
		 FROM posts`,
	).Scan(&total, &published, &drafts)
	if err != nil {
		err = fmt.Errorf("counting posts: %w", err)
	}
	return total, published, drafts, err
}

func (s *store) slugTaken(ctx context.Context, slug string, exceptID int64) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM posts WHERE slug = ? AND id != ?)`, slug, exceptID,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking slug: %w", err)
	}
	return exists, nil
}

func (s *store) query(ctx context.Context, query string, args ...any) ([]Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying posts: %w", err)
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating posts: %w", err)
	}
	return posts, nil
}

// scanner is a minimal interface satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPostRow(row scanner) (*Post, error) {
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting post: %w", err)
	}
	return p, nil
}

func scanPost(row scanner) (*Post, error) {
	var (
		p           Post
		tags        string
		publishedAt sql.NullString
	)
	if err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.Author, &tags,
		&p.IsPublished, &p.CreatedAt, &p.UpdatedAt, &publishedAt,
	); err != nil {
		return nil, err
	}

	p.Tags = []string{}
	if tags != "" {
		p.Tags = strings.Split(tags, ",")
	}
	if publishedAt.Valid {
		p.PublishedAt = &publishedAt.String
	}
	return &p, nil
}

// tagsFromJSON accepts a JSON list of tags or a comma-joined string.
func tagsFromJSON(v any) []string {
	switch t := v.(type) {
	case []any:
		tags := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				tags = append(tags, s)
			}
		}
		return tags
	case string:
		if t == "" {
			return []string{}
		}
		return strings.Split(t, ",")
	}
	return []string{}
}
