package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"acju-prayer-times/internal/config"
	"acju-prayer-times/internal/model"
	"acju-prayer-times/internal/textnorm"
)

// ErrNoHijriDate is returned when the rendered page shows no Hijri date.
var ErrNoHijriDate = errors.New("no hijri date found on calendar page")

// PageTextFunc returns the visible text of a rendered page.
type PageTextFunc func(ctx context.Context, url string) (string, error)

// Calendar reads today's Hijri date from the ACJU site.
type Calendar struct {
	url     string
	months  []config.HijriMonth
	loc     *time.Location
	log     *zap.Logger
	text    PageTextFunc
	timeout time.Duration
	now     func() time.Time
}

// CalendarOption configures a Calendar.
type CalendarOption func(*Calendar)

// WithPageText replaces the headless browser, mostly for tests.
func WithPageText(f PageTextFunc) CalendarOption {
	return func(c *Calendar) { c.text = f }
}

// WithClock fixes the Gregorian date reported alongside the Hijri date.
func WithClock(now func() time.Time) CalendarOption {
	return func(c *Calendar) { c.now = now }
}

func NewCalendar(url, chromePath string, loc *time.Location, months []config.HijriMonth, timeout time.Duration, logger *zap.Logger, options ...CalendarOption) *Calendar {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	c := &Calendar{
		url:     url,
		months:  months,
		loc:     loc,
		log:     logger,
		text:    chromeText(chromePath),
		timeout: timeout,
		now:     time.Now,
	}
	for _, o := range options {
		o(c)
	}
	return c
}

// Today renders the calendar page and parses the Hijri date shown on it.
func (c *Calendar) Today(ctx context.Context) (model.CalendarDay, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	text, err := c.text(ctx, c.url)
	if err != nil {
		return model.CalendarDay{}, fmt.Errorf("rendering calendar page: %w", err)
	}
	hijri, ok := textnorm.ParseHijriDate(text, c.months)
	if !ok {
		c.log.Warn("hijri_date_missing", zap.String("url", c.url), zap.Int("text_length", len(text)))
		return model.CalendarDay{}, ErrNoHijriDate
	}

	day := model.CalendarDay{
		GregorianDate: c.now().In(c.loc).Format("2006-01-02"),
		Hijri:         hijri,
		Source:        c.url,
	}
	c.log.Info("calendar_parsed",
		zap.String("gregorian", day.GregorianDate),
		zap.Int("hijri_day", hijri.Day),
		zap.String("hijri_month", hijri.Month),
		zap.Int("hijri_year", hijri.Year))
	return day, nil
}

// chromeText drives headless Chrome. CHROME_PATH, when set, picks the binary.
func chromeText(chromePath string) PageTextFunc {
	return func(ctx context.Context, url string) (string, error) {
		opts := chromedp.DefaultExecAllocatorOptions[:]
		if chromePath != "" {
			opts = append(opts, chromedp.ExecPath(chromePath))
		}
		opts = append(opts,
			chromedp.Headless,
			chromedp.DisableGPU,
			chromedp.NoSandbox,
			chromedp.UserAgent(UserAgent),
		)

		allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
		defer allocCancel()

		chromeCtx, chromeCancel := chromedp.NewContext(allocCtx)
		defer chromeCancel()

		var text string
		err := chromedp.Run(chromeCtx,
			chromedp.Navigate(url),
			chromedp.WaitVisible(`body`, chromedp.ByQuery),
			// Client-side widgets fill in the date after load.
			chromedp.Sleep(2*time.Second),
			chromedp.Text(`body`, &text, chromedp.ByQuery),
		)
		if err != nil {
			return "", fmt.Errorf("extracting page text: %w", err)
		}
		return text, nil
	}
}
