package pdfparse

import (
	"regexp"
	"strings"

	"acju-prayer-times/internal/model"
	"acju-prayer-times/internal/textnorm"
)

var (
	// An optional weekday word, then the day of the month.
	linePrefix  = regexp.MustCompile(`^\s*(?:[A-Za-z]{2,9}\.?\s+)?(\d{1,2})\b`)
	timePattern = regexp.MustCompile(`(?i)\b\d{1,2}[:.]\d{2}(?:\s*[ap]\.?m\.?)?`)
)

// MinPatternTimes is the fewest times a line needs to count as a day row.
const MinPatternTimes = 2

// ExtractFromTextPattern scans text line by line for "<day> <time> <time> ..."
// rows. Times fill the prayers in table order; missing trailing times are
// left out of the row.
func ExtractFromTextPattern(text, month string, minTimes int) []model.Row {
	if minTimes < 1 {
		minTimes = MinPatternTimes
	}
	var rows []model.Row
	seen := make(map[string]bool)
	for _, line := range strings.Split(text, "\n") {
		m := linePrefix.FindStringSubmatchIndex(line)
		if m == nil || startsTime(line[m[1]:]) {
			continue
		}
		key, ok := textnorm.ParseDate(line[m[2]:m[3]], month)
		if !ok || seen[key] {
			continue
		}
		times := timePattern.FindAllString(line[m[1]:], len(model.PrayerOrder))
		if len(times) < minTimes {
			continue
		}
		day := make(model.DayTimes, len(times))
		for i, t := range times {
			day[model.PrayerOrder[i]] = model.PrayerTime{Time: textnorm.CleanTime(t)}
		}
		seen[key] = true
		rows = append(rows, model.Row{Date: key, Times: day})
	}
	return rows
}

// startsTime reports whether the matched day is really the hour of a time.
func startsTime(rest string) bool {
	return len(rest) > 1 && (rest[0] == ':' || rest[0] == '.') && rest[1] >= '0' && rest[1] <= '9'
}
