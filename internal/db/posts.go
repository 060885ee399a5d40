// ABOUTME: Database operations for posts.
// ABOUTME: Provides CRUD, filtered listing and prefix-based lookup for posts.

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harper/post/internal/models"
)

// MinPrefixLen is the shortest ID prefix accepted for lookups.
const MinPrefixLen = 6

var ErrPrefixTooShort = fmt.Errorf("prefix must be at least %d characters", MinPrefixLen)
var ErrAmbiguousPrefix = errors.New("prefix matches multiple posts")
var ErrPostNotFound = errors.New("post not found")

const postColumns = `p.id, p.title, p.body, p.status, p.created_at, p.updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(s scanner, extra ...any) (*models.Post, error) {
	p := &models.Post{}
	var idStr, status string
	dest := append([]any{&idStr, &p.Title, &p.Body, &status, &p.CreatedAt, &p.UpdatedAt}, extra...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID in database: %w", err)
	}
	p.ID = id
	p.Status = models.Status(status)
	return p, nil
}

func collectPosts(rows *sql.Rows) ([]*models.Post, error) {
	defer func() { _ = rows.Close() }()

	var posts []*models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

func CreatePost(db *sql.DB, p *models.Post) error {
	return insertPost(db, p)
}

func insertPost(ex execer, p *models.Post) error {
	_, err := ex.Exec(
		`INSERT INTO posts (id, title, body, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID.String(), p.Title, p.Body, string(p.Status), p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// UpsertPost inserts p or overwrites the stored row with the same ID. Used by
// import and sync pull, where the incoming record is authoritative.
func UpsertPost(db *sql.DB, p *models.Post) error {
	_, err := db.Exec(
		`INSERT INTO posts (id, title, body, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title = excluded.title,
		   body = excluded.body,
		   status = excluded.status,
		   updated_at = excluded.updated_at`,
		p.ID.String(), p.Title, p.Body, string(p.Status), p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func GetPostByID(db *sql.DB, id uuid.UUID) (*models.Post, error) {
	p, err := scanPost(db.QueryRow(
		`SELECT `+postColumns+` FROM posts p WHERE p.id = ?`,
		id.String(),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func GetPostByPrefix(db *sql.DB, prefix string) (*models.Post, error) {
	if len(prefix) < MinPrefixLen {
		return nil, ErrPrefixTooShort
	}

	rows, err := db.Query(
		`SELECT `+postColumns+` FROM posts p WHERE p.id LIKE ?`,
		strings.ToLower(prefix)+"%",
	)
	if err != nil {
		return nil, err
	}
	posts, err := collectPosts(rows)
	if err != nil {
		return nil, err
	}

	if len(posts) == 0 {
		return nil, ErrPostNotFound
	}
	if len(posts) > 1 {
		return nil, fmt.Errorf("%w: %d matches", ErrAmbiguousPrefix, len(posts))
	}
	return posts[0], nil
}

// ListFilter narrows ListPosts. Empty fields do not filter; Limit <= 0 means
// no limit.
type ListFilter struct {
	Tag    string
	Status models.Status
	Limit  int
}

func (f ListFilter) where() (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if f.Tag != "" {
		clauses = append(clauses, `EXISTS (SELECT 1 FROM post_tags pt WHERE pt.post_id = p.id AND pt.tag_id = ?)`)
		args = append(args, models.TagID(f.Tag))
	}
	if f.Status != "" {
		clauses = append(clauses, `p.status = ?`)
		args = append(args, string(f.Status))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return ` WHERE ` + strings.Join(clauses, " AND "), args
}

// ListPosts returns posts newest-updated first.
func ListPosts(db *sql.DB, f ListFilter) ([]*models.Post, error) {
	where, args := f.where()
	query := `SELECT ` + postColumns + ` FROM posts p` + where + ` ORDER BY p.updated_at DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	return collectPosts(rows)
}

// CountPosts counts the posts matching f, ignoring f.Limit.
func CountPosts(db *sql.DB, f ListFilter) (int, error) {
	where, args := f.where()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM posts p`+where, args...).Scan(&n)
	return n, err
}

// UpdatePost stores title, body, status and UpdatedAt as set on p.
func UpdatePost(db *sql.DB, p *models.Post) error {
	result, err := db.Exec(
		`UPDATE posts SET title = ?, body = ?, status = ?, updated_at = ? WHERE id = ?`,
		p.Title, p.Body, string(p.Status), p.UpdatedAt, p.ID.String(),
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPostNotFound
	}
	return nil
}

func DeletePost(db *sql.DB, id uuid.UUID) error {
	result, err := db.Exec(`DELETE FROM posts WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPostNotFound
	}
	return nil
}
