package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"

	"acju-prayer-times/internal/config"
	"acju-prayer-times/internal/model"
	"acju-prayer-times/internal/textnorm"
)

const listingBase = "https://www.acju.lk/prayer-times/"

func openFixture(t *testing.T, name string) *os.File {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("opening fixture: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestParseListing(t *testing.T) {
	sections, err := ParseListing(openFixture(t, "listing.html"), listingBase)
	if err != nil {
		t.Fatalf("ParseListing: %v", err)
	}
	want := []model.Section{
		{Section: "Colombo, Gampaha & Kalutara", Items: []model.ListingItem{
			{Month: "January", Link: "https://www.acju.lk/wp-content/uploads/2025/01/January-COLOMBO-DISTRICT-GAMPAHA-DISTRICT-KALUTARA-DISTRICT.pdf"},
			{Month: "February", Link: "https://www.acju.lk/wp-content/uploads/2025/02/February-COLOMBO-DISTRICT-GAMPAHA-DISTRICT-KALUTARA-DISTRICT.PDF"},
		}},
		{Section: "Jaffna", Items: []model.ListingItem{
			{Month: "May", Link: "https://www.acju.lk/prayer-times/wp-content/uploads/May-JAFFNA-DISTRICT-NALLUR.pdf"},
		}},
		{Section: "Unknown Section", Items: []model.ListingItem{
			{Month: "June", Link: "https://www.acju.lk/June-HAMBANTOTA-DISTRICT.pdf"},
		}},
	}
	if diff := cmp.Diff(want, sections); diff != "" {
		t.Errorf("sections mismatch (-want +got):\n%s", diff)
	}
}

func TestListingSections(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != UserAgent {
			t.Errorf("User-Agent = %q", ua)
		}
		http.ServeFile(w, r, filepath.Join("testdata", "listing.html"))
	}))
	defer srv.Close()

	sections, err := NewListing(srv.URL+"/", time.Second, nil).Sections(context.Background())
	if err != nil {
		t.Fatalf("Sections: %v", err)
	}
	if len(sections) != 3 {
		t.Fatalf("got %d sections, want 3", len(sections))
	}
	if got := sections[0].Items[0].Link; !strings.HasPrefix(got, srv.URL+"/wp-content/") {
		t.Errorf("relative link not resolved against server: %q", got)
	}
}

func TestParseSectionsSkipsEntriesWithoutRegion(t *testing.T) {
	html := `<div class="e-n-accordion">
<details><summary><span>Kandy</span></summary></details>
<details><summary><span>Galle</span></summary><div role="region"></div></details>
</div>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	base, _ := url.Parse(listingBase)
	want := []model.Section{{Section: "Galle", Items: []model.ListingItem{}}}
	if diff := cmp.Diff(want, parseSections(doc, base)); diff != "" {
		t.Errorf("sections mismatch (-want +got):\n%s", diff)
	}
}

func TestListingStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewListing(srv.URL, time.Second, nil).Sections(context.Background())
	var status *StatusError
	if !errors.As(err, &status) || status.Code != http.StatusServiceUnavailable {
		t.Errorf("err = %v, want StatusError 503", err)
	}
}

func newTestDownloader(dir string, retries int) *Downloader {
	return NewDownloader(DownloadOptions{
		Dir:           dir,
		Timeout:       time.Second,
		Retries:       retries,
		RetryInterval: time.Millisecond,
	}, textnorm.Default(), nil)
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing.pdf":
			http.NotFound(w, r)
		default:
			w.Write([]byte("%PDF-1.4 " + r.URL.Path))
		}
	}))
	defer srv.Close()

	sections := []model.Section{
		{Section: "Kandy", Items: []model.ListingItem{
			{Month: "May", Link: srv.URL + "/files/May-KANDY.pdf?v=1"},
			{Month: "June", Link: srv.URL + "/files/June-KANDY.pdf"},
			{Month: "May", Link: srv.URL + "/files/notes.html"},
		}},
		{Section: "Galle", Items: []model.ListingItem{
			{Month: "May 2025", Link: srv.URL + "/missing.pdf"},
			{Month: "MAY", Link: srv.URL + "/files/May-GALLE.pdf"},
		}},
	}

	dir := t.TempDir()
	paths, err := newTestDownloader(dir, 2).Download(context.Background(), sections, []string{"May"})
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	want := []string{filepath.Join(dir, "May-KANDY.pdf"), filepath.Join(dir, "May-GALLE.pdf")}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(want[0])
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "%PDF-1.4 /files/May-KANDY.pdf" {
		t.Errorf("content = %q", data)
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".download-") {
			t.Errorf("temporary file left behind: %s", e.Name())
		}
	}
}

func TestDownloadAllMonths(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF"))
	}))
	defer srv.Close()

	sections := []model.Section{{Items: []model.ListingItem{
		{Month: "May", Link: srv.URL + "/a.pdf"},
		{Month: "June", Link: srv.URL + "/b.pdf"},
		{Month: "June", Link: srv.URL + "/b.pdf"},
	}}}
	paths, err := newTestDownloader(t.TempDir(), 0).Download(context.Background(), sections, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 {
		t.Errorf("got %d paths, want 2: %v", len(paths), paths)
	}
}

func TestDownloadRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusBadGateway)
			return
		}
		w.Write([]byte("%PDF"))
	}))
	defer srv.Close()

	sections := []model.Section{{Items: []model.ListingItem{{Month: "May", Link: srv.URL + "/a.pdf"}}}}
	paths, err := newTestDownloader(t.TempDir(), 3).Download(context.Background(), sections, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 || calls.Load() != 3 {
		t.Errorf("paths=%v calls=%d", paths, calls.Load())
	}
}

func TestDownloadDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	dir := t.TempDir()
	sections := []model.Section{{Items: []model.ListingItem{{Month: "May", Link: srv.URL + "/a.pdf"}}}}
	paths, err := newTestDownloader(dir, 3).Download(context.Background(), sections, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 0 || calls.Load() != 1 {
		t.Errorf("paths=%v calls=%d", paths, calls.Load())
	}
	if _, err := os.Stat(filepath.Join(dir, "a.pdf")); !os.IsNotExist(err) {
		t.Error("failed download must not leave a file")
	}
}

func TestDownloadCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF"))
	}))
	defer srv.Close()

	d := NewDownloader(DownloadOptions{Dir: t.TempDir(), MinDelay: time.Hour, MaxDelay: time.Hour}, textnorm.Default(), nil)
	sections := []model.Section{{Items: []model.ListingItem{
		{Month: "May", Link: srv.URL + "/a.pdf"},
		{Month: "May", Link: srv.URL + "/b.pdf"},
	}}}
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	paths, err := d.Download(ctx, sections, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
	if len(paths) != 1 {
		t.Errorf("the first download should survive cancellation, got %v", paths)
	}
}

func TestPDFFilename(t *testing.T) {
	tests := []struct {
		link   string
		want   string
		wantOK bool
	}{
		{"https://x/uploads/May-KANDY.pdf", "May-KANDY.pdf", true},
		{"https://x/uploads/May%20KANDY.PDF?x=1", "May KANDY.PDF", true},
		{"https://x/uploads/page.html", "", false},
		{"https://x/", "", false},
	}
	for _, tt := range tests {
		got, ok := pdfFilename(tt.link)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("pdfFilename(%q) = %q, %v; want %q, %v", tt.link, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestCalendarToday(t *testing.T) {
	page := "ACJU\nToday\n14 Dhul Hijjah 1446\nFriday, 10 June 2025\n"
	loc, err := time.LoadLocation("Asia/Colombo")
	if err != nil {
		t.Fatal(err)
	}
	clock := func() time.Time { return time.Date(2025, 6, 9, 20, 0, 0, 0, time.UTC) }
	c := NewCalendar("https://www.acju.lk/", "", loc, config.HijriMonths, time.Second, nil,
		WithPageText(func(context.Context, string) (string, error) { return page, nil }),
		WithClock(clock))

	got, err := c.Today(context.Background())
	if err != nil {
		t.Fatalf("Today: %v", err)
	}
	want := model.CalendarDay{
		GregorianDate: "2025-06-10",
		Hijri:         model.HijriDate{Day: 14, Month: "Dhu al-Hijjah", MonthNumber: 12, Year: 1446},
		Source:        "https://www.acju.lk/",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("calendar mismatch (-want +got):\n%s", diff)
	}
}

func TestCalendarNoDate(t *testing.T) {
	c := NewCalendar("https://www.acju.lk/", "", nil, config.HijriMonths, 0, nil,
		WithPageText(func(context.Context, string) (string, error) { return "Welcome", nil }))
	if _, err := c.Today(context.Background()); !errors.Is(err, ErrNoHijriDate) {
		t.Errorf("err = %v, want ErrNoHijriDate", err)
	}
}

func TestCalendarRenderError(t *testing.T) {
	boom := errors.New("chrome not found")
	c := NewCalendar("https://www.acju.lk/", "", nil, config.HijriMonths, 0, nil,
		WithPageText(func(context.Context, string) (string, error) { return "", boom }))
	if _, err := c.Today(context.Background()); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped render error", err)
	}
}
