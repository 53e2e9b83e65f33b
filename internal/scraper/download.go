package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"acju-prayer-times/internal/model"
	"acju-prayer-times/internal/textnorm"
)

// DownloadOptions controls pacing and retries.
type DownloadOptions struct {
	Dir     string
	Timeout time.Duration
	// A random pause in [MinDelay, MaxDelay] separates two downloads.
	MinDelay time.Duration
	MaxDelay time.Duration
	// Retries is the number of attempts after the first one.
	Retries int
	// RetryInterval is the first backoff interval; zero uses the library default.
	RetryInterval time.Duration
}

// Downloader fetches the listed PDFs into a directory.
type Downloader struct {
	client *http.Client
	opts   DownloadOptions
	norm   *textnorm.Normalizer
	log    *zap.Logger
}

func NewDownloader(opts DownloadOptions, norm *textnorm.Normalizer, logger *zap.Logger) *Downloader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Downloader{client: newHTTPClient(opts.Timeout), opts: opts, norm: norm, log: logger}
}

// Download fetches every PDF of the selected months; an empty months list
// selects all. Failed downloads are logged and left out of the returned
// paths. Only a cancelled context or an unusable directory is an error.
func (d *Downloader) Download(ctx context.Context, sections []model.Section, months []string) ([]string, error) {
	if err := os.MkdirAll(d.opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("creating download directory: %w", err)
	}
	wanted := make(map[string]bool, len(months))
	for _, m := range months {
		wanted[strings.ToLower(m)] = true
	}

	var paths []string
	done := make(map[string]bool)
	attempted := 0
	for _, section := range sections {
		for _, item := range section.Items {
			if len(wanted) > 0 && !d.selected(item.Month, wanted) {
				continue
			}
			name, ok := pdfFilename(item.Link)
			if !ok || done[name] {
				continue
			}
			if attempted > 0 {
				if err := sleep(ctx, d.delay()); err != nil {
					return paths, err
				}
			}
			attempted++

			dest := filepath.Join(d.opts.Dir, name)
			log := d.log.With(zap.String("file", name), zap.String("section", section.Section))
			log.Info("download_start", zap.String("url", item.Link))
			if err := d.fetch(ctx, item.Link, dest); err != nil {
				if ctx.Err() != nil {
					return paths, ctx.Err()
				}
				log.Warn("download_failed", zap.Error(err))
				continue
			}
			done[name] = true
			paths = append(paths, dest)
		}
	}
	return paths, nil
}

func (d *Downloader) selected(month string, wanted map[string]bool) bool {
	if wanted[strings.ToLower(strings.TrimSpace(month))] {
		return true
	}
	name, ok := d.norm.NormalizeMonth(month)
	return ok && wanted[strings.ToLower(name)]
}

func (d *Downloader) delay() time.Duration {
	lo, hi := d.opts.MinDelay, d.opts.MaxDelay
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(rand.Int64N(int64(hi-lo)+1))
}

func (d *Downloader) fetch(ctx context.Context, link, dest string) error {
	b := backoff.NewExponentialBackOff()
	if d.opts.RetryInterval > 0 {
		b.InitialInterval = d.opts.RetryInterval
	}
	retries := d.opts.Retries
	if retries < 0 {
		retries = 0
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := d.fetchOnce(ctx, link, dest)
		var status *StatusError
		if errors.As(err, &status) && status.Permanent() {
			return backoff.Permanent(err)
		}
		if err != nil {
			d.log.Debug("download_retry", zap.String("url", link), zap.Int("attempt", attempt), zap.Error(err))
		}
		return err
	}, policy)
}

// fetchOnce writes through a temporary file that is renamed into place
// only after the whole body has arrived.
func (d *Downloader) fetchOnce(ctx context.Context, link, dest string) error {
	resp, err := get(ctx, d.client, link)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("reading response: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("renaming into %s: %w", dest, err)
	}
	return nil
}

// pdfFilename is the last path element of a link ending in .pdf.
func pdfFilename(link string) (string, bool) {
	u, err := url.Parse(link)
	if err != nil {
		return "", false
	}
	name := path.Base(u.Path)
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		return "", false
	}
	return name, true
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
