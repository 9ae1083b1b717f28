package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// tableCellMax caps free-text columns (task titles, complaint narratives)
// so one long description does not blow out the whole table.
const tableCellMax = 48

func formatJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: encode json: %v\n", err)
		os.Exit(1)
	}
}

// orDash renders optional fields (due dates, actual pull dates, linked
// batches) as "-" so empty cells stay visible in aligned output.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncateCell shortens a free-text cell to max runes, ellipsized.
func truncateCell(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

func formatTable(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		b.Reset()
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			w := 0
			if i < len(widths) {
				w = widths[i]
			}
			fmt.Fprintf(&b, "%-*s", w, cell)
		}
		fmt.Println(b.String())
	}

	writeRow(headers)
	seps := make([]string, len(headers))
	for i, w := range widths {
		seps[i] = strings.Repeat("-", w)
	}
	writeRow(seps)
	for _, row := range rows {
		writeRow(row)
	}
}

func formatQuiet(id string) {
	fmt.Println(id)
}

// output renders v according to --format. Table rendering is column-aware,
// so list commands build their own rows and call formatTable directly;
// anything else asking for a table gets indented JSON.
func output(v any, quietVal string) {
	switch flagFmt {
	case "quiet":
		formatQuiet(quietVal)
	default:
		formatJSON(v)
	}
}
