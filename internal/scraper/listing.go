package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"acju-prayer-times/internal/model"
)

const unknownSection = "Unknown Section"

// Listing discovers the district sections and monthly PDF links on the
// prayer-times page.
type Listing struct {
	client  *http.Client
	baseURL string
	log     *zap.Logger
}

func NewListing(baseURL string, timeout time.Duration, logger *zap.Logger) *Listing {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Listing{client: newHTTPClient(timeout), baseURL: baseURL, log: logger}
}

// Sections fetches the page and returns every section that has a region.
func (l *Listing) Sections(ctx context.Context) ([]model.Section, error) {
	base, err := url.Parse(l.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	doc, err := fetchDocument(ctx, l.client, l.baseURL)
	if err != nil {
		return nil, fmt.Errorf("fetching listing page: %w", err)
	}

	sections := parseSections(doc, base)
	items := 0
	for _, s := range sections {
		items += len(s.Items)
	}
	l.log.Info("listing_parsed", zap.Int("sections", len(sections)), zap.Int("items", items))
	return sections, nil
}

// ParseListing reads the accordion markup. Relative links are resolved
// against base.
func ParseListing(r io.Reader, base string) ([]model.Section, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	return parseSections(doc, baseURL), nil
}

// parseSections returns one section per accordion entry that has a region.
func parseSections(doc *goquery.Document, baseURL *url.URL) []model.Section {
	var sections []model.Section
	doc.Find("div.e-n-accordion details").Each(func(_ int, detail *goquery.Selection) {
		name := strings.TrimSpace(detail.Find("summary span:first-child").First().Text())
		if name == "" {
			name = unknownSection
		}
		region := detail.Find("div[role='region']").First()
		if region.Length() == 0 {
			return
		}

		section := model.Section{Section: name, Items: []model.ListingItem{}}
		region.ChildrenFiltered("div").Each(func(_ int, row *goquery.Selection) {
			if item, ok := parseRow(row, baseURL); ok {
				section.Items = append(section.Items, item)
			}
		})
		sections = append(sections, section)
	})
	return sections
}

func parseRow(row *goquery.Selection, base *url.URL) (model.ListingItem, bool) {
	month := strings.TrimSpace(row.Find("div:nth-child(1) p span").First().Text())

	var link string
	row.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if strings.HasSuffix(strings.ToLower(href), ".pdf") {
			link = href
			return false
		}
		return true
	})
	if month == "" || link == "" {
		return model.ListingItem{}, false
	}

	if ref, err := url.Parse(link); err == nil {
		link = base.ResolveReference(ref).String()
	}
	return model.ListingItem{Month: month, Link: link}, true
}
