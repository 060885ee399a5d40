// ABOUTME: Page shell for full-screen views: navbar, body and footer.
// ABOUTME: Rendered with lipgloss and sized to the terminal width.

package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const AppName = "post"

var (
	brandStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)
	navStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	navActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Underline(true).Padding(0, 1)
	pageTitleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	footerStyle    = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(lipgloss.Color("238"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// Page describes one full-screen view. Active indexes Nav; out of range means
// no item is highlighted.
type Page struct {
	Title  string
	Nav    []string
	Active int
	Footer string
	Status string
}

// Render lays out the navbar, the page title, body and footer. A width of
// zero or less leaves lines unconstrained.
func (p Page) Render(body string, width int) string {
	items := []string{brandStyle.Render(AppName)}
	for i, n := range p.Nav {
		if i == p.Active {
			items = append(items, navActiveStyle.Render(n))
			continue
		}
		items = append(items, navStyle.Render(n))
	}
	navbar := lipgloss.JoinHorizontal(lipgloss.Top, items...)

	footer := p.Footer
	if p.Status != "" {
		footer = statusStyle.Render(p.Status) + "\n" + footer
	}

	fs := footerStyle
	if width > 0 {
		fs = fs.Width(width)
	}

	parts := []string{navbar, ""}
	if p.Title != "" {
		parts = append(parts, pageTitleStyle.Render(p.Title))
	}
	parts = append(parts, strings.TrimRight(body, "\n"), fs.Render(footer))
	return strings.Join(parts, "\n")
}
