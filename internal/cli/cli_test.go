package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"acju-prayer-times/internal/config"
	"acju-prayer-times/internal/model"
	"acju-prayer-times/internal/pdfparse"
	"acju-prayer-times/internal/store"
	"acju-prayer-times/internal/textnorm"
)

const (
	kandyFile  = "May-KANDY-DISTRICT-MATALE-DISTRICT-NUWARA-ELIYA-DISTRICT.pdf"
	jaffnaFile = "May-JAFFNA-DISTRICT-NALLUR.pdf"
)

func cellLine(y float64, cells ...string) []pdfparse.Glyph {
	var glyphs []pdfparse.Glyph
	for i, c := range cells {
		glyphs = append(glyphs, pdfparse.Glyph{X: float64(i) * 60, Y: y, W: 5 * float64(len(c)), FontSize: 10, S: c})
	}
	return glyphs
}

func timetable(zone string, rows ...[]string) []pdfparse.Page {
	glyphs := cellLine(800, "Prayer Times May 2025 Zone: "+zone)
	glyphs = append(glyphs, cellLine(700, "Date", "Fajr", "Sunrise", "Dhuhr", "Asr", "Maghrib", "Isha")...)
	for i, r := range rows {
		glyphs = append(glyphs, cellLine(680-float64(i)*20, r...)...)
	}
	return []pdfparse.Page{{Number: 1, Lines: pdfparse.GroupLines(glyphs)}}
}

// writePDFs creates placeholder files and a loader serving layouts by name.
func writePDFs(t *testing.T, layouts map[string][]pdfparse.Page) (string, pdfparse.Loader) {
	t.Helper()
	dir := t.TempDir()
	for name := range layouts {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("%PDF"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, func(path string) ([]pdfparse.Page, error) {
		pages, ok := layouts[filepath.Base(path)]
		if !ok {
			return nil, errors.New("unexpected file " + path)
		}
		return pages, nil
	}
}

func newTestApp(loader pdfparse.Loader) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	settings := config.Defaults()
	return &App{Settings: settings, Log: zap.NewNop(), Out: &out, Loader: loader}, &out
}

func run(app *App, args ...string) error {
	cmd := NewRootCmd(app)
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd.ExecuteContext(context.Background())
}

func TestRunPrayerFromDir(t *testing.T) {
	dir, loader := writePDFs(t, map[string][]pdfparse.Page{
		kandyFile: timetable("3",
			[]string{"1", "04:50", "06:02", "12:10", "15:40", "18:05", "19:20"},
			[]string{"2", "04:50", "06:02", "12:10", "15:41", "18:05", "19:20"}),
		jaffnaFile:    timetable("12", []string{"1", "04:40", "05:55", "12:05", "15:30", "18:10", "19:25"}),
		"unknown.pdf": timetable("9", []string{"1", "04:40", "05:55", "12:05", "15:30", "18:10", "19:25"}),
	})
	app, out := newTestApp(loader)
	output := filepath.Join(t.TempDir(), "result", "times.json")

	if err := run(app, "--from-dir", dir, "--output", output); err != nil {
		t.Fatalf("run: %v", err)
	}

	s, err := store.NewLocal(filepath.Dir(output))
	if err != nil {
		t.Fatal(err)
	}
	var doc model.Document
	if err := store.GetJSON(context.Background(), s, "times.json", &doc); err != nil {
		t.Fatalf("reading output: %v", err)
	}

	var ids []string
	for _, c := range doc.Cities {
		ids = append(ids, c.ID)
	}
	if diff := cmp.Diff([]string{"jaffna", "kandy"}, ids); diff != "" {
		t.Errorf("cities mismatch (-want +got):\n%s", diff)
	}
	kandy := doc.PrayerTimes["kandy"]
	if kandy.Timezone != "Asia/Colombo" || len(kandy.Times) != 2 {
		t.Fatalf("unexpected kandy block %+v", kandy)
	}
	if asr := kandy.Times["05-02"]["asr"]; asr.Shafi != "15:41" || asr.Hanafi != "15:41" {
		t.Errorf("asr = %+v", asr)
	}
	if !strings.Contains(out.String(), "kandy: 2 days across months 05") {
		t.Errorf("summary missing from output:\n%s", out.String())
	}
	if _, err := os.Stat(filepath.Join(dir, kandyFile)); err != nil {
		t.Error("local input files must not be removed")
	}
}

func TestRunPrayerEmptyDataset(t *testing.T) {
	dir, loader := writePDFs(t, map[string][]pdfparse.Page{
		"unknown.pdf": timetable("9", []string{"1", "04:40", "05:55", "12:05", "15:30", "18:10", "19:25"}),
	})
	app, _ := newTestApp(loader)
	output := filepath.Join(t.TempDir(), "times.json")

	err := run(app, "--from-dir", dir, "--output", output)
	if !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("err = %v, want ErrEmptyDataset", err)
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Error("an empty run must not write the dataset")
	}
}

func TestRunPrayerUnrecognizedMonths(t *testing.T) {
	app, _ := newTestApp(nil)
	app.Settings.BaseURL = "http://127.0.0.1:1/"
	if err := run(app, "--month", "smarch,13"); err != nil {
		t.Errorf("unrecognized months should end the run quietly, got %v", err)
	}
}

func TestRunInvalidMode(t *testing.T) {
	app, _ := newTestApp(nil)
	if err := run(app, "--mode", "weekly"); err == nil || !strings.Contains(err.Error(), "invalid mode") {
		t.Errorf("err = %v", err)
	}
}

func TestRunCalendar(t *testing.T) {
	app, out := newTestApp(nil)
	app.PageText = func(context.Context, string) (string, error) {
		return "Islamic date: 5 Muharram 1447", nil
	}
	dir := t.TempDir()
	app.OpenStore = func(_ context.Context, key string) (store.Store, string, error) {
		s, err := store.NewLocal(dir)
		return s, key, err
	}

	if err := run(app, "--mode", "calendar"); err != nil {
		t.Fatalf("run: %v", err)
	}

	var day model.CalendarDay
	s, _ := store.NewLocal(dir)
	if err := store.GetJSON(context.Background(), s, app.Settings.CalendarFilename, &day); err != nil {
		t.Fatalf("reading stored calendar: %v", err)
	}
	want := model.HijriDate{Day: 5, Month: "Muharram", MonthNumber: 1, Year: 1447}
	if diff := cmp.Diff(want, day.Hijri); diff != "" {
		t.Errorf("hijri mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(out.String(), `"month_number": 1`) {
		t.Errorf("stdout = %s", out.String())
	}
}

func TestNormalizeMonths(t *testing.T) {
	norm := textnorm.Default()
	tests := []struct {
		input  []string
		want   []string
		wantOK bool
	}{
		{nil, nil, true},
		{[]string{"jan", "3", "bogus", "January"}, []string{"January", "March"}, true},
		{[]string{"bogus", "13"}, nil, false},
	}
	for _, tt := range tests {
		got, ok := NormalizeMonths(norm, tt.input)
		if ok != tt.wantOK {
			t.Errorf("NormalizeMonths(%v) ok = %v, want %v", tt.input, ok, tt.wantOK)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("NormalizeMonths(%v) mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
}

func TestCitySummary(t *testing.T) {
	times := map[string]model.Record{
		"kandy": {"06-01": {}, "05-02": {}, "05-01": {}},
		"galle": {"01-01": {}},
	}
	want := []string{
		"galle: 1 days across months 01",
		"kandy: 3 days across months 05, 06",
	}
	if diff := cmp.Diff(want, CitySummary(times)); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestListPDFs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.pdf", "B.PDF", "c.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755); err != nil {
		t.Fatal(err)
	}
	paths, err := ListPDFs(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 {
		t.Errorf("got %v", paths)
	}
}
