// ABOUTME: Attachment model for binary files (images, drafts) attached to posts.
// ABOUTME: Stores file content as blob with metadata.

package models

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

type Attachment struct {
	ID        uuid.UUID
	PostID    uuid.UUID
	Filename  string
	MimeType  string
	Data      []byte
	CreatedAt time.Time
}

// NewAttachment keeps only the base name of filename so an attachment can
// never be extracted outside the target directory.
func NewAttachment(postID uuid.UUID, filename, mimeType string, data []byte) *Attachment {
	return &Attachment{
		ID:        uuid.New(),
		PostID:    postID,
		Filename:  filepath.Base(filename),
		MimeType:  mimeType,
		Data:      data,
		CreatedAt: time.Now(),
	}
}

func (a *Attachment) Size() int {
	return len(a.Data)
}
