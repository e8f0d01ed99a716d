package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/tuicatch/internal/session"
)

const cellWidth = 2

// renderRows draws the board top to bottom; the catch line carries side markers.
func renderRows(rows []session.Row) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		cell := strings.Repeat(" ", cellWidth)
		if !row.Empty {
			cell = runewidth.FillRight(string(row.Char), cellWidth)
		}
		switch {
		case row.Caught:
			cell = caughtStyle.Render(cell)
		case !row.Empty:
			cell = letterStyle.Render(cell)
		}
		if row.CatchLine {
			out = append(out, catchLineStyle.Render("▶ ")+cell+catchLineStyle.Render(" ◀"))
			continue
		}
		out = append(out, "  "+cell+"  ")
	}
	return out
}

// renderProgress spells the target with typed letters revealed and the rest as blanks.
func renderProgress(target, typed string) string {
	runes := []rune(target)
	n := len([]rune(typed))
	parts := make([]string, 0, len(runes))
	for i, r := range runes {
		if i < n {
			parts = append(parts, typedStyle.Render(string(r)))
			continue
		}
		if i == n {
			parts = append(parts, pendingStyle.Underline(true).Render(string(r)))
			continue
		}
		parts = append(parts, pendingStyle.Render(string(r)))
	}
	return strings.Join(parts, " ")
}
