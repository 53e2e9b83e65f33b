package cli

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"acju-prayer-times/internal/config"
	"acju-prayer-times/internal/scraper"
	"acju-prayer-times/internal/store"
)

// RunCalendar prints today's Hijri date as JSON and stores it next to the
// dataset.
func (a *App) RunCalendar(ctx context.Context) error {
	s := a.Settings
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return fmt.Errorf("loading timezone: %w", err)
	}

	var options []scraper.CalendarOption
	if a.PageText != nil {
		options = append(options, scraper.WithPageText(a.PageText))
	}
	cal := scraper.NewCalendar(s.CalendarURL, s.ChromePath, loc, config.HijriMonths, 2*s.RequestTimeout, a.Log, options...)
	day, err := cal.Today(ctx)
	if err != nil {
		return err
	}

	data, err := store.EncodeJSON(day)
	if err != nil {
		return fmt.Errorf("encoding calendar: %w", err)
	}
	if _, err := a.Out.Write(data); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}

	st, key, err := a.openStore(ctx, "", s.CalendarFilename)
	if err != nil {
		return fmt.Errorf("opening output store: %w", err)
	}
	defer closeStore(st, a.Log)
	if err := st.Put(ctx, key, data, "application/json"); err != nil {
		return fmt.Errorf("storing calendar: %w", err)
	}
	a.Log.Info("calendar_written", zap.String("key", key))
	return nil
}
