package pdfparse

import (
	"strings"
	"unicode"

	"acju-prayer-times/internal/model"
	"acju-prayer-times/internal/textnorm"
)

const dateColumn = "date"

// headerAliases is checked in order. Sunrise comes before fajr so that a
// "Sunrise" header is never claimed by a looser alias.
var headerAliases = []struct {
	name    string
	aliases []string
}{
	{dateColumn, []string{"date", "day"}},
	{model.Sunrise, []string{"sunrise", "shurooq", "shuruq", "syuruk"}},
	{model.Fajr, []string{"fajr", "fajar", "subh", "subah", "subuh"}},
	{model.Dhuhr, []string{"dhuhr", "duhr", "zuhr", "zuhur", "zuhar", "luhr", "luhar", "luhur", "lohar", "dhuhur", "zohar"}},
	{model.Asr, []string{"asr", "asar"}},
	{model.Maghrib, []string{"maghrib", "magrib", "maghreb"}},
	{model.Isha, []string{"isha", "esha", "isya", "ishaa"}},
}

// headerSearchRows bounds how far into a table a header row may appear.
const headerSearchRows = 3

// ParseTableRows maps a table's columns to prayer names from its header row
// and returns one row per data line with a parseable date. A headerless
// table of exactly seven columns is read as date followed by the six prayers.
func ParseTableRows(table Table, month string) []model.Row {
	rows, _ := parseTableRows(table, month)
	return rows
}

// parseTableRows also returns the header cells no alias matched.
func parseTableRows(table Table, month string) ([]model.Row, []string) {
	columns, start, unmatched := findHeader(table)
	if columns == nil {
		columns = positionalColumns(table)
		start = 0
	}
	if columns == nil {
		return nil, nil
	}

	var rows []model.Row
	for _, cells := range table[start:] {
		row, ok := buildRow(cells, columns, month)
		if ok {
			rows = append(rows, row)
		}
	}
	return rows, unmatched
}

func buildRow(cells []string, columns map[int]string, month string) (model.Row, bool) {
	var date string
	times := model.DayTimes{}
	filled := 0
	for i, cell := range cells {
		name, ok := columns[i]
		if !ok {
			continue
		}
		if name == dateColumn {
			date = cell
			continue
		}
		t := textnorm.CleanTime(cell)
		if t != "" {
			filled++
		}
		times[name] = model.PrayerTime{Time: t}
	}
	key, ok := textnorm.ParseDate(date, month)
	if !ok || filled == 0 {
		return model.Row{}, false
	}
	return model.Row{Date: key, Times: times}, true
}

func findHeader(table Table) (map[int]string, int, []string) {
	limit := headerSearchRows
	if len(table) < limit {
		limit = len(table)
	}
	for r := 0; r < limit; r++ {
		columns, unmatched := matchHeader(table[r])
		prayers := 0
		hasDate := false
		for _, name := range columns {
			if name == dateColumn {
				hasDate = true
			} else {
				prayers++
			}
		}
		if hasDate && prayers >= 2 {
			return columns, r + 1, unmatched
		}
	}
	return nil, 0, nil
}

// matchHeader assigns each role to at most one cell. A cell reading "date"
// claims the date role before any looser alias such as "day" is tried.
func matchHeader(cells []string) (map[int]string, []string) {
	columns := make(map[int]string)
	taken := make(map[string]bool)
	normalized := make([]string, len(cells))
	for i, cell := range cells {
		normalized[i] = lettersOnly(cell)
		if !taken[dateColumn] && strings.Contains(normalized[i], dateColumn) {
			columns[i] = dateColumn
			taken[dateColumn] = true
		}
	}

	var unmatched []string
	for i, h := range normalized {
		if h == "" {
			continue
		}
		if _, ok := columns[i]; ok {
			continue
		}
		for _, entry := range headerAliases {
			if taken[entry.name] || !containsAny(h, entry.aliases) {
				continue
			}
			columns[i] = entry.name
			taken[entry.name] = true
			break
		}
		if _, ok := columns[i]; !ok {
			unmatched = append(unmatched, cells[i])
		}
	}
	return columns, unmatched
}

func positionalColumns(table Table) map[int]string {
	if len(table) == 0 || len(table[0]) != len(model.PrayerOrder)+1 {
		return nil
	}
	columns := map[int]string{0: dateColumn}
	for i, name := range model.PrayerOrder {
		columns[i+1] = name
	}
	return columns
}

func lettersOnly(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
