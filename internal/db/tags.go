// ABOUTME: Database operations for tags and post-tag associations.
// ABOUTME: Provides tag upserts, per-post assignment and listing with counts.

package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harper/post/internal/models"
)

var ErrTagNotFound = errors.New("tag not found")
var ErrEmptyTag = errors.New("tag label cannot be empty")

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// ensureTag inserts t unless a tag with the same ID exists. An existing label
// is left alone.
func ensureTag(ex execer, t models.Tag) error {
	if t.ID == "" {
		return ErrEmptyTag
	}
	_, err := ex.Exec(`INSERT OR IGNORE INTO tags (id, label) VALUES (?, ?)`, t.ID, t.Label)
	return err
}

// UpsertTag stores t, replacing the label of an existing tag with the same ID.
func UpsertTag(db *sql.DB, t models.Tag) error {
	if t.ID == "" {
		return ErrEmptyTag
	}
	_, err := db.Exec(
		`INSERT INTO tags (id, label) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET label = excluded.label`,
		t.ID, t.Label,
	)
	return err
}

func GetTag(db *sql.DB, id string) (models.Tag, error) {
	var t models.Tag
	err := db.QueryRow(`SELECT id, label FROM tags WHERE id = ?`, id).Scan(&t.ID, &t.Label)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Tag{}, ErrTagNotFound
	}
	return t, err
}

// AddTagToPost attaches the tag named label, creating it if needed.
func AddTagToPost(db *sql.DB, postID uuid.UUID, label string) (models.Tag, error) {
	t := models.NewTag(label)
	if err := ensureTag(db, t); err != nil {
		return models.Tag{}, err
	}

	if _, err := db.Exec(
		`INSERT OR IGNORE INTO post_tags (post_id, tag_id) VALUES (?, ?)`,
		postID.String(), t.ID,
	); err != nil {
		return models.Tag{}, err
	}
	return GetTag(db, t.ID)
}

func RemoveTagFromPost(db *sql.DB, postID uuid.UUID, label string) error {
	_, err := db.Exec(
		`DELETE FROM post_tags WHERE post_id = ? AND tag_id = ?`,
		postID.String(), models.TagID(label),
	)
	return err
}

// SetPostTags replaces the post's tags with tags in one transaction. Tags
// not yet stored are created.
func SetPostTags(db *sql.DB, postID uuid.UUID, tags []models.Tag) (err error) {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var exists int
	if err = tx.QueryRow(`SELECT COUNT(*) FROM posts WHERE id = ?`, postID.String()).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return ErrPostNotFound
	}

	if err = replacePostTags(tx, postID, tags); err != nil {
		return err
	}
	return tx.Commit()
}

// CreatePostWithTags inserts p and its tags together. If any tag write fails
// the post is not stored either.
func CreatePostWithTags(db *sql.DB, p *models.Post, tags []models.Tag) (err error) {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = insertPost(tx, p); err != nil {
		return err
	}
	if err = replacePostTags(tx, p.ID, tags); err != nil {
		return err
	}
	return tx.Commit()
}

func replacePostTags(ex execer, postID uuid.UUID, tags []models.Tag) error {
	if _, err := ex.Exec(`DELETE FROM post_tags WHERE post_id = ?`, postID.String()); err != nil {
		return err
	}
	for _, t := range tags {
		if err := ensureTag(ex, t); err != nil {
			return err
		}
		if _, err := ex.Exec(
			`INSERT OR IGNORE INTO post_tags (post_id, tag_id) VALUES (?, ?)`,
			postID.String(), t.ID,
		); err != nil {
			return err
		}
	}
	return nil
}

func GetPostTags(db *sql.DB, postID uuid.UUID) ([]models.Tag, error) {
	rows, err := db.Query(
		`SELECT t.id, t.label FROM tags t
		 JOIN post_tags pt ON t.id = pt.tag_id
		 WHERE pt.post_id = ?
		 ORDER BY t.label COLLATE NOCASE`,
		postID.String(),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Label); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}

type TagWithCount struct {
	Tag   models.Tag
	Count int
}

// ListTags returns every tag with the number of posts using it, ordered by
// label. Unused tags are included with a count of zero.
func ListTags(db *sql.DB) ([]TagWithCount, error) {
	rows, err := db.Query(
		`SELECT t.id, t.label, COUNT(pt.post_id) AS count
		 FROM tags t
		 LEFT JOIN post_tags pt ON t.id = pt.tag_id
		 GROUP BY t.id
		 ORDER BY t.label COLLATE NOCASE`,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tags []TagWithCount
	for rows.Next() {
		var tc TagWithCount
		if err := rows.Scan(&tc.Tag.ID, &tc.Tag.Label, &tc.Count); err != nil {
			return nil, err
		}
		tags = append(tags, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}

// AllTags returns the tag catalogue without counts, in ListTags order.
func AllTags(db *sql.DB) ([]models.Tag, error) {
	counted, err := ListTags(db)
	if err != nil {
		return nil, err
	}
	out := make([]models.Tag, len(counted))
	for i, tc := range counted {
		out[i] = tc.Tag
	}
	return out, nil
}

// DeleteUnusedTags removes tags no post refers to and reports how many went.
func DeleteUnusedTags(db *sql.DB) (int64, error) {
	res, err := db.Exec(`DELETE FROM tags WHERE id NOT IN (SELECT DISTINCT tag_id FROM post_tags)`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
