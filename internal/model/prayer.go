package model

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Canonical prayer names as they appear in the output document.
const (
	Fajr    = "fajr"
	Sunrise = "sunrise"
	Dhuhr   = "dhuhr"
	Asr     = "asr"
	Maghrib = "maghrib"
	Isha    = "isha"
)

// PrayerOrder is the column order used by the source timetables.
var PrayerOrder = []string{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

// City is a district that prayer times were extracted for.
type City struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Country  string `json:"country"`
	Timezone string `json:"timezone"`
}

// PrayerTime is a single time value. After ASR expansion the value is
// carried per jurisprudential school instead.
type PrayerTime struct {
	Time   string
	Shafi  string
	Hanafi string
}

// Expanded reports whether the time has been split into Shafi/Hanafi values.
func (p PrayerTime) Expanded() bool {
	return p.Shafi != "" || p.Hanafi != ""
}

func (p PrayerTime) MarshalJSON() ([]byte, error) {
	if p.Expanded() {
		return json.Marshal(struct {
			Shafi  string `json:"shafi"`
			Hanafi string `json:"hanafi"`
		}{p.Shafi, p.Hanafi})
	}
	return json.Marshal(p.Time)
}

func (p *PrayerTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = PrayerTime{Time: s}
		return nil
	}
	var pair struct {
		Shafi  string `json:"shafi"`
		Hanafi string `json:"hanafi"`
	}
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	*p = PrayerTime{Shafi: pair.Shafi, Hanafi: pair.Hanafi}
	return nil
}

// DayTimes maps a prayer name to its time for one date.
type DayTimes map[string]PrayerTime

// MarshalJSON writes the canonical prayers first, then any other keys sorted.
func (d DayTimes) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(d))
	seen := make(map[string]bool, len(PrayerOrder))
	for _, name := range PrayerOrder {
		if _, ok := d[name]; ok {
			keys = append(keys, name)
			seen[name] = true
		}
	}
	var extra []string
	for k := range d {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	keys = append(keys, extra...)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(d[k])
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Record maps a MM-DD date key to that day's prayer times.
type Record map[string]DayTimes

// Row is one parsed timetable row: a MM-DD date and its times.
type Row struct {
	Date  string
	Times DayTimes
}
