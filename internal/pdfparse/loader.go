package pdfparse

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Loader reads the text layout of every page of a PDF file.
type Loader func(path string) ([]Page, error)

// LoadFile reads a PDF from disk. Pages the library cannot decode are
// skipped; a file that cannot be opened at all is an error.
func LoadFile(path string) ([]Page, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	total, err := numPages(r)
	if err != nil {
		return nil, fmt.Errorf("reading page tree of %s: %w", path, err)
	}

	var pages []Page
	var lastErr error
	for i := 1; i <= total; i++ {
		page, err := readPage(r, i)
		if err != nil {
			lastErr = err
			continue
		}
		pages = append(pages, page)
	}
	if len(pages) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return pages, nil
}

// The pdf package reports malformed structures by panicking.
func numPages(r *pdf.Reader) (n int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed pdf: %v", rec)
		}
	}()
	return r.NumPage(), nil
}

func readPage(r *pdf.Reader, number int) (page Page, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("page %d: malformed content: %v", number, rec)
		}
	}()

	p := r.Page(number)
	page.Number = number
	if p.V.IsNull() {
		return page, nil
	}

	content := p.Content()
	glyphs := make([]Glyph, 0, len(content.Text))
	for _, t := range content.Text {
		glyphs = append(glyphs, Glyph{X: t.X, Y: t.Y, W: t.W, FontSize: t.FontSize, S: t.S})
	}
	if len(glyphs) > 0 {
		page.Lines = GroupLines(glyphs)
		return page, nil
	}

	// Some generators only yield text through the plain-text path.
	plain, err := plainText(p)
	if err != nil {
		return page, fmt.Errorf("page %d: %w", number, err)
	}
	for i, line := range strings.Split(plain, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		page.Lines = append(page.Lines, Line{{X: 0, Y: float64(-i), S: line}})
	}
	return page, nil
}

func plainText(p pdf.Page) (string, error) {
	fonts := make(map[string]*pdf.Font)
	for _, name := range p.Fonts() {
		f := p.Font(name)
		fonts[name] = &f
	}
	return p.GetPlainText(fonts)
}
