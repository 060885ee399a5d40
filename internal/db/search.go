// ABOUTME: FTS5 full-text search operations for posts.
// ABOUTME: Provides ranked search across post titles and bodies.

package db

import (
	"database/sql"

	"github.com/harper/post/internal/models"
)

type SearchResult struct {
	*models.Post
	Rank float64
}

func SearchPosts(db *sql.DB, query string, limit int) ([]*SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(
		`SELECT `+postColumns+`, rank
		 FROM posts_fts
		 JOIN posts p ON posts_fts.rowid = p.rowid
		 WHERE posts_fts MATCH ?
		 ORDER BY rank
		 LIMIT ?`,
		query, limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []*SearchResult
	for rows.Next() {
		var rank float64
		p, err := scanPost(rows, &rank)
		if err != nil {
			return nil, err
		}
		results = append(results, &SearchResult{Post: p, Rank: rank})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
