package pdfparse

import (
	"math"
	"strings"
)

// Table is a detected grid of cell strings, row by row.
type Table [][]string

// DetectTables finds runs of consecutive lines that split into at least
// minColumns cells and keeps the runs with at least minRows lines. Each run
// is aligned to the columns of its widest row.
func DetectTables(pages []Page, cellGap float64, minColumns, minRows int) []Table {
	var tables []Table
	for _, page := range pages {
		var run [][]Cell
		closeRun := func() {
			if len(run) >= minRows {
				tables = append(tables, align(run))
			}
			run = nil
		}
		for _, line := range page.Lines {
			cells := line.Cells(cellGap)
			if len(cells) < minColumns {
				closeRun()
				continue
			}
			run = append(run, cells)
		}
		closeRun()
	}
	return tables
}

// align places every cell in the column of the widest row whose center is
// nearest. Cells landing in the same column are joined with a space.
func align(rows [][]Cell) Table {
	widest := rows[0]
	for _, r := range rows[1:] {
		if len(r) > len(widest) {
			widest = r
		}
	}
	centers := make([]float64, len(widest))
	for i, c := range widest {
		centers[i] = c.center()
	}

	table := make(Table, 0, len(rows))
	for _, r := range rows {
		out := make([]string, len(centers))
		for _, c := range r {
			col := nearest(centers, c.center())
			if out[col] == "" {
				out[col] = c.Text
			} else {
				out[col] = strings.TrimSpace(out[col] + " " + c.Text)
			}
		}
		table = append(table, out)
	}
	return table
}

func nearest(centers []float64, x float64) int {
	best, dist := 0, math.Inf(1)
	for i, c := range centers {
		if d := math.Abs(c - x); d < dist {
			best, dist = i, d
		}
	}
	return best
}
