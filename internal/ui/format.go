// ABOUTME: Terminal formatting for post output on the command line.
// ABOUTME: Uses glamour for markdown bodies and fatih/color for styling.

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/harper/post/internal/models"
)

const timeLayout = "2006-01-02 15:04"

var (
	faint  = color.New(color.Faint).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

type TagCount struct {
	ID    string
	Label string
	Count int
}

type AttachmentInfo struct {
	ID       string
	Filename string
	MimeType string
	Size     int
}

func StatusBadge(s models.Status) string {
	if s == models.StatusPublished {
		return green("published")
	}
	return yellow("draft")
}

func tagLabels(tags []models.Tag) string {
	labels := make([]string, 0, len(tags))
	for _, t := range tags {
		labels = append(labels, t.Label)
	}
	return strings.Join(labels, ", ")
}

func FormatPostListItem(p *models.Post, tags []models.Tag) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("  %s  %s %s\n", faint(p.ID.String()[:6]), bold(p.Title), StatusBadge(p.Status)))
	if len(tags) > 0 {
		sb.WriteString(fmt.Sprintf("         %s %s\n", faint("Tags:"), cyan(tagLabels(tags))))
	}
	sb.WriteString(fmt.Sprintf("         %s %s\n", faint("Updated:"), faint(p.UpdatedAt.Format(timeLayout))))

	return sb.String()
}

// FormatBody renders markdown for the terminal. Rendering problems fall back
// to the raw text.
func FormatBody(body string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return body, nil //nolint:nilerr // raw text is a usable rendering
	}

	out, err := renderer.Render(body)
	if err != nil {
		return body, nil //nolint:nilerr // raw text is a usable rendering
	}
	return out, nil
}

func FormatPostHeader(p *models.Post, tags []models.Tag) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s  %s\n", bold(p.Title), StatusBadge(p.Status)))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("ID:"), faint(p.ID.String())))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Created:"), faint(p.CreatedAt.Format(timeLayout))))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Updated:"), faint(p.UpdatedAt.Format(timeLayout))))
	if len(tags) > 0 {
		sb.WriteString(fmt.Sprintf("%s %s\n", faint("Tags:"), cyan(tagLabels(tags))))
	}

	sb.WriteString(Separator())
	return sb.String()
}

func FormatTagList(tags []TagCount) string {
	var sb strings.Builder

	for _, t := range tags {
		sb.WriteString(fmt.Sprintf("  %s %s %s\n",
			cyan(t.Label),
			faint(t.ID),
			faint(fmt.Sprintf("(%d)", t.Count))))
	}

	return sb.String()
}

func FormatAttachmentList(attachments []AttachmentInfo) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("\n%s\n", bold("Attachments:")))
	for _, a := range attachments {
		id := a.ID
		if len(id) > 6 {
			id = id[:6]
		}
		sb.WriteString(fmt.Sprintf("  %s  %s %s\n",
			faint(id),
			a.Filename,
			faint(fmt.Sprintf("[%s, %d bytes]", a.MimeType, a.Size))))
	}

	return sb.String()
}

func Separator() string {
	return faint(strings.Repeat("─", 50)) + "\n"
}

func Success(msg string) string {
	return color.New(color.FgGreen).Sprint("✓ ") + msg
}

func Warning(msg string) string {
	return color.New(color.FgYellow).Sprint("! ") + msg
}

func Error(msg string) string {
	return color.New(color.FgRed).Sprint("✗ ") + msg
}

func FormatShowMorePrompt(count int) string {
	return faint(fmt.Sprintf("\nShow %d more posts? (y/n) ", count))
}
