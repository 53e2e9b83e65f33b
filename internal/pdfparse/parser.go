// Package pdfparse reads ACJU prayer-time PDFs: their text, the zone and
// month printed in them, and the tables of daily times.
package pdfparse

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"acju-prayer-times/internal/model"
	"acju-prayer-times/internal/textnorm"
)

var (
	ErrMissingZone  = errors.New("no zone marker in pdf text")
	ErrMissingMonth = errors.New("no month name in pdf text")
)

// Options tunes layout analysis.
type Options struct {
	// CellGap is the horizontal gap, in font sizes, that separates two cells.
	CellGap float64
	// MinColumns and MinRows bound what counts as a table.
	MinColumns int
	MinRows    int
	// FallbackMinTimes is the fewest times a text line needs in the fallback.
	FallbackMinTimes int
}

// DefaultOptions suit the ACJU monthly sheets.
func DefaultOptions() Options {
	return Options{CellGap: 0.8, MinColumns: 3, MinRows: 2, FallbackMinTimes: MinPatternTimes}
}

// Metadata is what the text of a PDF says about itself.
type Metadata struct {
	Text  string
	Zone  string
	Month string
}

// Document is a loaded PDF.
type Document struct {
	Path  string
	Pages []Page

	opts Options
	text string
}

// Text is the content of every page, one visual line per text line.
func (d *Document) Text() string {
	if d.text != "" || len(d.Pages) == 0 {
		return d.text
	}
	var b strings.Builder
	for _, page := range d.Pages {
		for _, line := range page.Lines {
			b.WriteString(line.Text(d.opts.CellGap))
			b.WriteByte('\n')
		}
	}
	d.text = b.String()
	return d.text
}

// Tables returns every table detected in the document.
func (d *Document) Tables() []Table {
	return DetectTables(d.Pages, d.opts.CellGap, d.opts.MinColumns, d.opts.MinRows)
}

// Option configures a Parser.
type Option func(*Parser)

// WithLoader replaces the PDF reader, mostly for tests.
func WithLoader(l Loader) Option {
	return func(p *Parser) { p.load = l }
}

// Parser turns PDF files into documents, metadata and rows.
type Parser struct {
	norm *textnorm.Normalizer
	log  *zap.Logger
	opts Options
	load Loader
}

func New(norm *textnorm.Normalizer, logger *zap.Logger, opts Options, options ...Option) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Parser{norm: norm, log: logger, opts: opts, load: LoadFile}
	for _, o := range options {
		o(p)
	}
	return p
}

// Open loads a PDF.
func (p *Parser) Open(path string) (*Document, error) {
	pages, err := p.load(path)
	if err != nil {
		return nil, err
	}
	p.log.Debug("pdf_loaded", zap.String("path", path), zap.Int("pages", len(pages)))
	return &Document{Path: path, Pages: pages, opts: p.opts}, nil
}

// Metadata finds the zone and month in a loaded document. The returned
// metadata carries whatever was found even when an error is returned.
func (p *Parser) Metadata(doc *Document) (Metadata, error) {
	md := Metadata{Text: doc.Text()}
	md.Zone, _ = textnorm.ExtractZone(md.Text)
	md.Month, _ = p.norm.ExtractMonth(md.Text)
	switch {
	case md.Zone == "":
		return md, ErrMissingZone
	case md.Month == "":
		return md, ErrMissingMonth
	}
	return md, nil
}

// ExtractTextAndMetadata loads a PDF and finds its zone and month.
func (p *Parser) ExtractTextAndMetadata(path string) (Metadata, error) {
	doc, err := p.Open(path)
	if err != nil {
		return Metadata{}, err
	}
	md, err := p.Metadata(doc)
	if err != nil {
		return md, fmt.Errorf("%s: %w", path, err)
	}
	return md, nil
}

// ExtractTables loads a PDF and returns its tables. No tables is not an error.
func (p *Parser) ExtractTables(path string) ([]Table, error) {
	doc, err := p.Open(path)
	if err != nil {
		return nil, err
	}
	return doc.Tables(), nil
}

// ParseTableRows reads the rows of one table for the given month code.
// Header cells that match no known prayer name are logged at debug level.
func (p *Parser) ParseTableRows(table Table, month string) []model.Row {
	rows, unmatched := parseTableRows(table, month)
	if len(unmatched) > 0 {
		p.log.Debug("header_cells_unmatched", zap.Strings("cells", unmatched), zap.Int("rows", len(rows)))
	}
	return rows
}

// ExtractFromTextPattern reads day rows straight from text.
func (p *Parser) ExtractFromTextPattern(text, month string) []model.Row {
	return ExtractFromTextPattern(text, month, p.opts.FallbackMinTimes)
}
