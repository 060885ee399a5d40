// ABOUTME: Runs the compose screen as a full-screen bubbletea program.
// ABOUTME: Returns the saved draft or a cancelled result.

package compose

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/harper/post/internal/models"
)

// Run shows the compose screen until the user saves or cancels, or ctx is
// done.
func Run(ctx context.Context, in Draft, tags []models.Tag, opts Options) (Result, error) {
	m := New(in, tags, opts)
	final, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if err != nil {
		return Result{}, fmt.Errorf("run compose: %w", err)
	}
	return final.(*Model).Result(), nil
}
