// ABOUTME: Database operations for attachments.
// ABOUTME: Handles blob storage and retrieval for post attachments.

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harper/post/internal/models"
)

var ErrAttachmentNotFound = errors.New("attachment not found")

const attachmentColumns = `id, post_id, filename, mime_type, data, created_at`

func scanAttachment(s scanner) (*models.Attachment, error) {
	att := &models.Attachment{}
	var idStr, postIDStr string
	if err := s.Scan(&idStr, &postIDStr, &att.Filename, &att.MimeType, &att.Data, &att.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	if att.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("invalid attachment ID in database: %w", err)
	}
	if att.PostID, err = uuid.Parse(postIDStr); err != nil {
		return nil, fmt.Errorf("invalid post ID in database: %w", err)
	}
	return att, nil
}

func CreateAttachment(db *sql.DB, att *models.Attachment) error {
	_, err := db.Exec(
		`INSERT INTO attachments (`+attachmentColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		att.ID.String(), att.PostID.String(), att.Filename, att.MimeType, att.Data, att.CreatedAt,
	)
	return err
}

// UpsertAttachment stores att, overwriting a row with the same ID.
func UpsertAttachment(db *sql.DB, att *models.Attachment) error {
	_, err := db.Exec(
		`INSERT INTO attachments (`+attachmentColumns+`) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   filename = excluded.filename,
		   mime_type = excluded.mime_type,
		   data = excluded.data`,
		att.ID.String(), att.PostID.String(), att.Filename, att.MimeType, att.Data, att.CreatedAt,
	)
	return err
}

func GetAttachment(db *sql.DB, id uuid.UUID) (*models.Attachment, error) {
	att, err := scanAttachment(db.QueryRow(
		`SELECT `+attachmentColumns+` FROM attachments WHERE id = ?`,
		id.String(),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAttachmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return att, nil
}

func GetAttachmentByPrefix(db *sql.DB, prefix string) (*models.Attachment, error) {
	if len(prefix) < MinPrefixLen {
		return nil, ErrPrefixTooShort
	}

	rows, err := db.Query(
		`SELECT `+attachmentColumns+` FROM attachments WHERE id LIKE ?`,
		strings.ToLower(prefix)+"%",
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var found []*models.Attachment
	for rows.Next() {
		att, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, att)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(found) {
	case 0:
		return nil, ErrAttachmentNotFound
	case 1:
		return found[0], nil
	}
	return nil, fmt.Errorf("%w: %d matches", ErrAmbiguousPrefix, len(found))
}

// AttachmentMeta is an attachment without its data.
type AttachmentMeta struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	Filename  string    `json:"filename"`
	MimeType  string    `json:"mime_type"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

func ListPostAttachments(db *sql.DB, postID uuid.UUID) ([]*AttachmentMeta, error) {
	rows, err := db.Query(
		`SELECT id, post_id, filename, mime_type, length(data), created_at
		 FROM attachments WHERE post_id = ?
		 ORDER BY created_at DESC`,
		postID.String(),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var attachments []*AttachmentMeta
	for rows.Next() {
		att := &AttachmentMeta{}
		var idStr, postIDStr string
		if err := rows.Scan(&idStr, &postIDStr, &att.Filename, &att.MimeType, &att.Size, &att.CreatedAt); err != nil {
			return nil, err
		}
		if att.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("invalid attachment ID in database: %w", err)
		}
		if att.PostID, err = uuid.Parse(postIDStr); err != nil {
			return nil, fmt.Errorf("invalid post ID in database: %w", err)
		}
		attachments = append(attachments, att)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return attachments, nil
}

func DeleteAttachment(db *sql.DB, id uuid.UUID) error {
	result, err := db.Exec(`DELETE FROM attachments WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAttachmentNotFound
	}
	return nil
}
