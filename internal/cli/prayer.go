package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"acju-prayer-times/internal/config"
	"acju-prayer-times/internal/dataset"
	"acju-prayer-times/internal/extractor"
	"acju-prayer-times/internal/model"
	"acju-prayer-times/internal/pdfparse"
	"acju-prayer-times/internal/scraper"
	"acju-prayer-times/internal/textnorm"
	"acju-prayer-times/internal/zone"
)

// RunPrayer downloads (or reads) the PDFs, extracts every city's times and
// writes the dataset.
func (a *App) RunPrayer(ctx context.Context, opts Options) error {
	s := a.Settings
	norm := textnorm.New(config.MonthPatterns, config.MonthNames)

	months, ok := NormalizeMonths(norm, opts.Months)
	if !ok {
		a.Log.Warn("no_valid_months", zap.Strings("input", opts.Months))
		return nil
	}

	paths, err := a.collectFiles(ctx, norm, opts, months)
	if err != nil {
		return err
	}
	sort.Slice(paths, func(i, j int) bool {
		return textnorm.NaturalLess(filepath.Base(paths[i]), filepath.Base(paths[j]))
	})

	var parserOpts []pdfparse.Option
	if a.Loader != nil {
		parserOpts = append(parserOpts, pdfparse.WithLoader(a.Loader))
	}
	parser := pdfparse.New(norm, a.Log, pdfparse.DefaultOptions(), parserOpts...)
	mapper := zone.NewMapper(config.Districts, s.Country, s.Timezone, a.Log)
	ex := extractor.New(parser, mapper, a.Log)

	var summary extractor.Summary
	for i, path := range paths {
		name := filepath.Base(path)
		res := ex.ExtractFromPDF(path, name)
		summary.Add(res)
		if res.Skipped {
			a.Log.Info("file_skipped", zap.Int("index", i+1), zap.Int("total", len(paths)), zap.String("file", name), zap.Error(res.Reason))
			continue
		}
		a.Log.Info("file_processed", zap.Int("index", i+1), zap.Int("total", len(paths)), zap.String("file", name),
			zap.String("zone", res.Zone), zap.String("month", res.Month), zap.Int("records", res.Records))
	}

	expanded := ex.EnhanceAsr()
	times := ex.PrayerTimes()
	a.Log.Info("extraction_summary", append(summary.Fields(),
		zap.Int("asr_expanded", expanded),
		zap.Int("overwrites", ex.Overwrites()))...)
	for _, line := range CitySummary(times) {
		fmt.Fprintln(a.Out, line)
	}

	if len(times) == 0 {
		return ErrEmptyDataset
	}

	doc, defects := dataset.Build(ex.Cities(), times, dataset.Options{
		Version:    s.Version,
		DataSource: s.DataSource,
		Timezone:   s.Timezone,
	})
	for _, d := range defects {
		a.Log.Warn("data_quality_defect", zap.String("city", d.CityID), zap.String("reason", d.Reason))
	}

	st, key, err := a.openStore(ctx, opts.Output, s.OutputFilename)
	if err != nil {
		return fmt.Errorf("opening output store: %w", err)
	}
	defer closeStore(st, a.Log)
	if err := dataset.Write(ctx, st, key, doc); err != nil {
		return err
	}
	a.Log.Info("dataset_written", zap.String("key", key), zap.Int("cities", len(doc.Cities)))

	if opts.FromDir == "" && !opts.KeepDownloads {
		if err := os.RemoveAll(s.DownloadDir); err != nil {
			a.Log.Warn("cleanup_failed", zap.String("dir", s.DownloadDir), zap.Error(err))
		} else {
			a.Log.Info("downloads_removed", zap.String("dir", s.DownloadDir))
		}
	}
	return nil
}

func (a *App) collectFiles(ctx context.Context, norm *textnorm.Normalizer, opts Options, months []string) ([]string, error) {
	if opts.FromDir != "" {
		paths, err := ListPDFs(opts.FromDir)
		if err != nil {
			return nil, err
		}
		if len(paths) == 0 {
			return nil, fmt.Errorf("no PDF files in %s", opts.FromDir)
		}
		return paths, nil
	}

	s := a.Settings
	sections, err := scraper.NewListing(s.BaseURL, s.RequestTimeout, a.Log).Sections(ctx)
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("no district sections found on %s", s.BaseURL)
	}

	downloader := scraper.NewDownloader(scraper.DownloadOptions{
		Dir:      s.DownloadDir,
		Timeout:  s.RequestTimeout,
		MinDelay: s.DownloadMinDelay,
		MaxDelay: s.DownloadMaxDelay,
		Retries:  s.DownloadRetries,
	}, norm, a.Log)
	paths, err := downloader.Download(ctx, sections, months)
	if err != nil {
		return nil, fmt.Errorf("downloading PDFs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no PDFs downloaded")
	}
	a.Log.Info("downloads_complete", zap.Int("sections", len(sections)), zap.Int("files", len(paths)))
	return paths, nil
}

// NormalizeMonths maps user month input to display names, dropping what it
// cannot read. It returns false when input was given but none of it was
// recognized.
func NormalizeMonths(norm *textnorm.Normalizer, input []string) ([]string, bool) {
	if len(input) == 0 {
		return nil, true
	}
	var months []string
	seen := make(map[string]bool)
	for _, m := range input {
		name, ok := norm.NormalizeMonth(m)
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		months = append(months, name)
	}
	return months, len(months) > 0
}

// ListPDFs returns the .pdf files directly inside dir.
func ListPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

// CitySummary describes each city's coverage, one line per city.
func CitySummary(times map[string]model.Record) []string {
	ids := make([]string, 0, len(times))
	for id := range times {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		monthSet := make(map[string]bool)
		for date := range times[id] {
			monthSet[strings.SplitN(date, "-", 2)[0]] = true
		}
		months := make([]string, 0, len(monthSet))
		for m := range monthSet {
			months = append(months, m)
		}
		sort.Strings(months)
		lines = append(lines, fmt.Sprintf("%s: %d days across months %s", id, len(times[id]), strings.Join(months, ", ")))
	}
	return lines
}
