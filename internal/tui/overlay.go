package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// composite splices the overlay into the background at cell position (x, y).
// Background rows outside the overlay region are preserved; overlay lines
// replace the covered region. ANSI sequences in both inputs are preserved.
func composite(background, overlay string, x, y, termWidth, termHeight int) string {
	bgLines := strings.Split(background, "\n")

	for len(bgLines) < termHeight {
		bgLines = append(bgLines, "")
	}
	if len(bgLines) > termHeight {
		bgLines = bgLines[:termHeight]
	}

	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	ovLines := strings.Split(overlay, "\n")
	for i, ovLine := range ovLines {
		row := y + i
		if row >= termHeight {
			break
		}

		bgLine := bgLines[row]
		if w := lipgloss.Width(bgLine); w < x {
			bgLine += strings.Repeat(" ", x-w)
		}

		prefix := truncateToCol(bgLine, x)
		suffix := sliceFromCol(bgLines[row], x+lipgloss.Width(ovLine))

		bgLines[row] = prefix + ovLine + suffix
	}

	return strings.Join(bgLines, "\n")
}

// truncateToCol returns the prefix of s occupying at most maxCols visible
// columns. ANSI escape sequences are preserved and occupy no columns.
func truncateToCol(s string, maxCols int) string {
	if maxCols <= 0 {
		return ""
	}

	var b strings.Builder
	col := 0
	inEsc := false
	for _, r := range s {
		if inEsc {
			b.WriteRune(r)
			if isEscTerminator(r) {
				inEsc = false
			}
			continue
		}
		if r == '\x1b' {
			inEsc = true
			b.WriteRune(r)
			continue
		}

		w := runewidth.RuneWidth(r)
		if col+w > maxCols {
			break
		}
		b.WriteRune(r)
		col += w
	}
	return b.String()
}

// sliceFromCol returns the portion of s starting at visible column startCol.
// ANSI sequences before the cut are dropped; the region they styled is
// covered by the overlay anyway.
func sliceFromCol(s string, startCol int) string {
	col := 0
	inEsc := false
	for i, r := range s {
		if inEsc {
			if isEscTerminator(r) {
				inEsc = false
			}
			continue
		}
		if r == '\x1b' {
			inEsc = true
			continue
		}

		if col >= startCol {
			return s[i:]
		}
		col += runewidth.RuneWidth(r)
	}
	return ""
}

// isEscTerminator reports whether r ends a CSI escape sequence.
func isEscTerminator(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
