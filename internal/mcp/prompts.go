// ABOUTME: MCP prompts for drafting posts and curating tags.
// ABOUTME: Prompts embed current tags so agents reuse them instead of inventing near-duplicates.

package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/harper/post/internal/db"
	"github.com/harper/post/internal/models"
	"github.com/harper/post/internal/tagselect"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// similarDistance is how many edits apart two tag IDs may be before they
// stop counting as likely duplicates.
const similarDistance = 2

func (s *Server) registerPrompts() {
	s.server.AddPrompt(&mcp.Prompt{
		Name:        "draft-post",
		Description: "Draft a new post on a topic, tagged with existing tags where they fit",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "topic",
				Description: "What the post is about",
				Required:    true,
			},
		},
	}, s.getDraftPostPrompt)

	s.server.AddPrompt(&mcp.Prompt{
		Name:        "suggest-tags",
		Description: "Suggest tags for an existing post from the current tag set",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "post_id",
				Description: "ID or prefix of the post",
				Required:    true,
			},
		},
	}, s.getSuggestTagsPrompt)

	s.server.AddPrompt(&mcp.Prompt{
		Name:        "tidy-tags",
		Description: "Review near-duplicate tags and propose merges",
	}, s.getTidyTagsPrompt)
}

func userPrompt(text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: text},
			},
		},
	}
}

func labelList(tags []models.Tag) string {
	if len(tags) == 0 {
		return "(none yet)"
	}
	labels := make([]string, len(tags))
	for i, t := range tags {
		labels[i] = t.Label
	}
	return strings.Join(labels, ", ")
}

func (s *Server) getDraftPostPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	topic := req.Params.Arguments["topic"]
	if topic == "" {
		return nil, fmt.Errorf("topic argument is required")
	}

	tags, err := db.AllTags(s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	return userPrompt(fmt.Sprintf(`Write a blog post about: %s

1. Pick a short, specific title
2. Write the body in markdown
3. Choose one to three tags. Prefer these existing tags: %s
4. Use the add_post tool to save it as a draft
5. Do not publish it; leave that to me`, topic, labelList(tags))), nil
}

func (s *Server) getSuggestTagsPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	ref := req.Params.Arguments["post_id"]
	if ref == "" {
		return nil, fmt.Errorf("post_id argument is required")
	}

	p, err := s.resolvePost(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	current, err := db.GetPostTags(s.db, p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	all, err := db.AllTags(s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	return userPrompt(fmt.Sprintf(`Suggest tags for the post %q (ID %s).

Current tags: %s
Available tags: %s

Post body:
%s

Recommend tags from the available list first. Only propose a new tag when nothing fits.
Apply each change with the toggle_tag tool.`, p.Title, p.ID, labelList(current), labelList(all), p.Body)), nil
}

func (s *Server) getTidyTagsPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	tags, err := db.AllTags(s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	var pairs []string
	seen := make(map[string]bool)
	for _, t := range tags {
		for _, near := range tagselect.Similar(tags, t.Label, similarDistance) {
			key := t.ID + "|" + near.ID
			if t.ID > near.ID {
				key = near.ID + "|" + t.ID
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			pairs = append(pairs, fmt.Sprintf("- %s / %s", t.Label, near.Label))
		}
	}

	if len(pairs) == 0 {
		return userPrompt("No near-duplicate tags found. Use list_tags to review the tag set anyway and point out tags used by only one post."), nil
	}

	return userPrompt(fmt.Sprintf(`These tags look like near-duplicates:

%s

For each pair, decide which label to keep. Use list_posts with the tag filter to find affected posts,
then toggle_tag to move them onto the kept tag.`, strings.Join(pairs, "\n"))), nil
}
