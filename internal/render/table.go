// Package render formats chatbot answers: box tables, icons, styling and streaming.
package render

import (
	"strings"
	"unicode/utf8"
)

// Table draws a double-line box table. Cells containing newlines span
// several physical rows so that every border stays aligned.
func Table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(headers) && i < len(row); i++ {
			for _, line := range strings.Split(row[i], "\n") {
				if w := width(line); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}

	var b strings.Builder
	b.WriteString(border("╔", "╦", "╗", widths))
	b.WriteByte('\n')

	b.WriteString("║")
	for i, h := range headers {
		b.WriteString(" " + center(h, widths[i]) + " ║")
	}
	b.WriteByte('\n')

	b.WriteString(border("╠", "╬", "╣", widths))
	b.WriteByte('\n')

	for _, row := range rows {
		cells := make([][]string, len(headers))
		height := 1
		for i := range headers {
			if i < len(row) {
				cells[i] = strings.Split(row[i], "\n")
			}
			if len(cells[i]) > height {
				height = len(cells[i])
			}
		}
		for line := 0; line < height; line++ {
			b.WriteString("║")
			for i := range headers {
				text := ""
				if line < len(cells[i]) {
					text = cells[i][line]
				}
				b.WriteString(" " + ljust(text, widths[i]) + " ║")
			}
			b.WriteByte('\n')
		}
	}

	b.WriteString(border("╚", "╩", "╝", widths))
	return b.String()
}

// IsTableLine reports whether a line belongs to a box table
func IsTableLine(line string) bool {
	return strings.ContainsAny(line, "╔║╚═╬")
}

func border(left, mid, right string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("═", w+2)
	}
	return left + strings.Join(parts, mid) + right
}

func width(s string) int {
	return utf8.RuneCountInString(s)
}

func ljust(s string, w int) string {
	if pad := w - width(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

func center(s string, w int) string {
	pad := w - width(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
