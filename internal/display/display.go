// Package display renders workflow output for the terminal.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dyike/ScoutGo/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	sourceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

// PrintDocument renders the final document with section headings styled.
func PrintDocument(doc string) {
	for _, line := range strings.Split(doc, "\n") {
		switch {
		case strings.HasPrefix(line, "Market Report:"):
			fmt.Println(titleStyle.Render(line))
		case strings.HasPrefix(line, "**") && strings.HasSuffix(line, "**"):
			fmt.Println(sectionStyle.Render(line))
		default:
			fmt.Println(line)
		}
	}
}

// PrintSources lists the citations gathered during the run.
func PrintSources(sources []models.Source) {
	if len(sources) == 0 {
		return
	}
	fmt.Println()
	fmt.Println(sectionStyle.Render("Sources"))
	for _, s := range sources {
		fmt.Println(sourceStyle.Render(fmt.Sprintf("- %s (%s)", s.Title, s.URL)))
	}
}
