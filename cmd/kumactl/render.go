package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/uptimekit/gokuma/utils"
)

var (
	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	styleUp = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	styleDown = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	styleDim = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// renderTable prints a padded column layout with a styled header row.
func renderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	var b strings.Builder
	for i, h := range headers {
		b.WriteString(styleHeader.Render(pad(h, widths[i])))
		if i < len(headers)-1 {
			b.WriteString("  ")
		}
	}
	b.WriteString("\n")

	for _, row := range rows {
		for i, cell := range row {
			b.WriteString(pad(cell, widths[i]))
			if i < len(row)-1 {
				b.WriteString("  ")
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

func pad(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func renderActive(active bool) string {
	if active {
		return styleUp.Render("active")
	}
	return styleDown.Render("paused")
}

func renderEmpty(what string) string {
	return styleDim.Render("no "+what) + "\n"
}

func printJSON(v interface{}) error {
	out, err := utils.Json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
