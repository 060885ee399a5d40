// ABOUTME: Portable post documents for backup and exchange.
// ABOUTME: JSON bundles with attachments and markdown files with YAML frontmatter.

package export

import (
	"bytes"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harper/post/internal/db"
	"github.com/harper/post/internal/models"
	"gopkg.in/yaml.v3"
)

const Version = "1.0"

const frontmatterFence = "---\n"

var ErrEmptyBody = errors.New("post body cannot be empty")

type Attachment struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	Data     string `json:"data"` // base64
}

// Post is one exported post. Body is written after the frontmatter in
// markdown, so it is not part of the YAML.
type Post struct {
	ID          string       `json:"id" yaml:"id,omitempty"`
	Title       string       `json:"title" yaml:"title"`
	Status      string       `json:"status" yaml:"status,omitempty"`
	Tags        []string     `json:"tags" yaml:"tags,omitempty"`
	CreatedAt   time.Time    `json:"created_at" yaml:"created,omitempty"`
	UpdatedAt   time.Time    `json:"updated_at" yaml:"updated,omitempty"`
	Body        string       `json:"body" yaml:"-"`
	Attachments []Attachment `json:"attachments,omitempty" yaml:"-"`
}

type Document struct {
	ExportedAt time.Time `json:"exported_at"`
	Version    string    `json:"version"`
	Posts      []Post    `json:"posts"`
}

// FromPost builds the export form of p, reading its tags and, when asked,
// its attachments.
func FromPost(conn *sql.DB, p *models.Post, withAttachments bool) (Post, error) {
	out := Post{
		ID:        p.ID.String(),
		Title:     p.Title,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Body:      p.Body,
	}

	tags, err := db.GetPostTags(conn, p.ID)
	if err != nil {
		return Post{}, fmt.Errorf("load tags: %w", err)
	}
	for _, t := range tags {
		out.Tags = append(out.Tags, t.Label)
	}

	if !withAttachments {
		return out, nil
	}
	metas, err := db.ListPostAttachments(conn, p.ID)
	if err != nil {
		return Post{}, fmt.Errorf("list attachments: %w", err)
	}
	for _, m := range metas {
		att, err := db.GetAttachment(conn, m.ID)
		if err != nil {
			return Post{}, fmt.Errorf("load attachment %s: %w", m.ID, err)
		}
		out.Attachments = append(out.Attachments, Attachment{
			ID:       att.ID.String(),
			Filename: att.Filename,
			MimeType: att.MimeType,
			Data:     base64.StdEncoding.EncodeToString(att.Data),
		})
	}
	return out, nil
}

// Collect builds a document holding posts with their attachments.
func Collect(conn *sql.DB, posts []*models.Post) (Document, error) {
	doc := Document{ExportedAt: time.Now(), Version: Version}
	for _, p := range posts {
		ep, err := FromPost(conn, p, true)
		if err != nil {
			return Document{}, fmt.Errorf("export %s: %w", p.ID, err)
		}
		doc.Posts = append(doc.Posts, ep)
	}
	return doc, nil
}

// Markdown renders p as YAML frontmatter followed by the body.
func (p Post) Markdown() ([]byte, error) {
	fm, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(frontmatterFence)
	buf.Write(fm)
	buf.WriteString(frontmatterFence)
	buf.WriteString("\n")
	buf.WriteString(p.Body)
	if !strings.HasSuffix(p.Body, "\n") {
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// ParseMarkdown reads a markdown file with optional frontmatter. Without a
// title in the frontmatter, fallbackTitle is used.
func ParseMarkdown(data []byte, fallbackTitle string) (Post, error) {
	var p Post
	content := string(data)

	if strings.HasPrefix(content, frontmatterFence) {
		parts := strings.SplitN(content, frontmatterFence, 3)
		if len(parts) == 3 {
			if err := yaml.Unmarshal([]byte(parts[1]), &p); err != nil {
				return Post{}, fmt.Errorf("parse frontmatter: %w", err)
			}
			content = parts[2]
		}
	}

	if strings.TrimSpace(p.Title) == "" {
		p.Title = fallbackTitle
	}
	p.Body = strings.TrimSpace(content)
	if p.Body == "" {
		return Post{}, ErrEmptyBody
	}
	return p, nil
}

// Restore writes p into the database. A valid ID is kept so re-importing
// the same export updates rather than duplicates.
func Restore(conn *sql.DB, p Post) (*models.Post, error) {
	post := models.NewPost(p.Title, p.Body)
	if err := post.Validate(); err != nil {
		return nil, err
	}
	if id, err := uuid.Parse(p.ID); err == nil {
		post.ID = id
	}
	if p.Status != "" {
		status, err := models.ParseStatus(p.Status)
		if err != nil {
			return nil, err
		}
		post.Status = status
	}
	if !p.CreatedAt.IsZero() {
		post.CreatedAt = p.CreatedAt
	}
	if !p.UpdatedAt.IsZero() {
		post.UpdatedAt = p.UpdatedAt
	}

	if err := db.UpsertPost(conn, post); err != nil {
		return nil, fmt.Errorf("store post: %w", err)
	}

	tags := make([]models.Tag, 0, len(p.Tags))
	for _, label := range p.Tags {
		if t := models.NewTag(label); t.ID != "" {
			tags = append(tags, t)
		}
	}
	if err := db.SetPostTags(conn, post.ID, tags); err != nil {
		return nil, fmt.Errorf("store tags: %w", err)
	}

	for _, a := range p.Attachments {
		data, err := base64.StdEncoding.DecodeString(a.Data)
		if err != nil {
			return nil, fmt.Errorf("decode attachment %q: %w", a.Filename, err)
		}
		att := models.NewAttachment(post.ID, a.Filename, a.MimeType, data)
		if id, err := uuid.Parse(a.ID); err == nil {
			att.ID = id
		}
		if err := db.UpsertAttachment(conn, att); err != nil {
			return nil, fmt.Errorf("store attachment %q: %w", a.Filename, err)
		}
	}
	return post, nil
}

// Filename turns a title into a safe file name without extension.
func Filename(title string) string {
	replacer := strings.NewReplacer(
		"/", "-", "\\", "-", ":", "-", "*", "-",
		"?", "-", "\"", "-", "<", "-", ">", "-", "|", "-",
	)
	name := strings.TrimSpace(replacer.Replace(title))
	if name == "" {
		name = "untitled"
	}
	if r := []rune(name); len(r) > 100 {
		name = string(r[:100])
	}
	return name
}
