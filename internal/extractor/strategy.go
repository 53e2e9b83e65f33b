package extractor

import (
	"acju-prayer-times/internal/model"
	"acju-prayer-times/internal/pdfparse"
)

// Strategy is one way of reading day rows out of a loaded PDF.
type Strategy interface {
	// Name identifies the strategy in logs.
	Name() string

	// Extract returns the rows it could read for the given month code.
	Extract(doc *pdfparse.Document, month string) []model.Row
}

// TableStrategy reads rows from every detected table.
type TableStrategy struct {
	parser *pdfparse.Parser
}

func NewTableStrategy(p *pdfparse.Parser) *TableStrategy {
	return &TableStrategy{parser: p}
}

func (s *TableStrategy) Name() string { return "table" }

func (s *TableStrategy) Extract(doc *pdfparse.Document, month string) []model.Row {
	var rows []model.Row
	for _, table := range doc.Tables() {
		rows = append(rows, s.parser.ParseTableRows(table, month)...)
	}
	return rows
}

// TextPatternStrategy scans the raw text for day lines.
type TextPatternStrategy struct {
	parser *pdfparse.Parser
}

func NewTextPatternStrategy(p *pdfparse.Parser) *TextPatternStrategy {
	return &TextPatternStrategy{parser: p}
}

func (s *TextPatternStrategy) Name() string { return "text_pattern" }

func (s *TextPatternStrategy) Extract(doc *pdfparse.Document, month string) []model.Row {
	return s.parser.ExtractFromTextPattern(doc.Text(), month)
}
