package textnorm

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"acju-prayer-times/internal/config"
	"acju-prayer-times/internal/model"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

type hijriCandidate struct {
	pattern *regexp.Regexp
	number  int
	name    string
	length  int
}

// ParseHijriDate finds the first "<day> <Hijri month> <year>" phrase in text.
// Month spellings are compared with punctuation and case removed, so
// "Rabi' al-Awwal", "rabi al awwal" and "Rabiul Awwal" (when listed as an
// alias) all resolve.
func ParseHijriDate(text string, months []config.HijriMonth) (model.HijriDate, bool) {
	normalized := strings.TrimSpace(nonAlnum.ReplaceAllString(strings.ToLower(text), " "))

	var candidates []hijriCandidate
	for i, m := range months {
		for _, spelling := range append([]string{m.Name}, m.Aliases...) {
			words := strings.Fields(nonAlnum.ReplaceAllString(strings.ToLower(spelling), " "))
			if len(words) == 0 {
				continue
			}
			expr := `\b(\d{1,2})\s+` + strings.Join(words, `\s*`) + `\s+(\d{4})\b`
			candidates = append(candidates, hijriCandidate{
				pattern: regexp.MustCompile(expr),
				number:  i + 1,
				name:    m.Name,
				length:  len(strings.Join(words, "")),
			})
		}
	}
	// Longer spellings first so "rabi ii" is not read as "rabi i".
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].length > candidates[j].length })

	best := -1
	var found model.HijriDate
	for _, c := range candidates {
		loc := c.pattern.FindStringSubmatchIndex(normalized)
		if loc == nil {
			continue
		}
		if best != -1 && loc[0] >= best {
			continue
		}
		day, _ := strconv.Atoi(normalized[loc[2]:loc[3]])
		year, _ := strconv.Atoi(normalized[loc[4]:loc[5]])
		if day < 1 || day > 30 {
			continue
		}
		best = loc[0]
		found = model.HijriDate{Day: day, Month: c.name, MonthNumber: c.number, Year: year}
	}
	return found, best != -1
}
