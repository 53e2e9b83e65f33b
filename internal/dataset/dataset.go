// Package dataset assembles the output document from extracted prayer
// times and writes it to a store.
package dataset

import (
	"context"
	"fmt"
	"sort"
	"time"

	"acju-prayer-times/internal/model"
	"acju-prayer-times/internal/store"
)

// Timestamp layout of last_updated.
const timestampLayout = "2006-01-02T15:04:05Z"

// Options carries the document header values.
type Options struct {
	Version    string
	DataSource string
	// Timezone is used for cities that carry none of their own.
	Timezone string
	// Now defaults to time.Now.
	Now func() time.Time
}

// Defect is a data-quality problem found while assembling.
type Defect struct {
	CityID string
	Reason string
}

func (d Defect) String() string {
	return d.CityID + ": " + d.Reason
}

// Build assembles the output document. City ids present in times but
// absent from cities are kept and reported as defects.
func Build(cities []model.City, times map[string]model.Record, opts Options) (model.Document, []Defect) {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	doc := model.Document{
		Version:     opts.Version,
		LastUpdated: now().UTC().Format(timestampLayout),
		DataSource:  opts.DataSource,
		Cities:      make([]model.City, 0, len(cities)),
		PrayerTimes: make(map[string]model.CityTimes, len(times)),
	}

	known := make(map[string]model.City, len(cities))
	var defects []Defect
	for _, c := range cities {
		if _, dup := known[c.ID]; dup {
			defects = append(defects, Defect{CityID: c.ID, Reason: "duplicate city entry dropped"})
			continue
		}
		known[c.ID] = c
		doc.Cities = append(doc.Cities, c)
	}

	ids := make([]string, 0, len(times))
	for id := range times {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		tz := opts.Timezone
		city, ok := known[id]
		switch {
		case !ok:
			defects = append(defects, Defect{CityID: id, Reason: "prayer times without a city entry"})
		case city.Timezone != "":
			tz = city.Timezone
		}
		doc.PrayerTimes[id] = model.CityTimes{Timezone: tz, Times: times[id]}
	}
	return doc, defects
}

// Write stores doc as indented JSON under key.
func Write(ctx context.Context, s store.Store, key string, doc any) error {
	if err := store.PutJSON(ctx, s, key, doc); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}
