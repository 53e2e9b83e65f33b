package config

import "regexp"

// District maps a city slug to the filename fragments the source site uses
// for the PDFs covering it.
type District struct {
	CityID   string
	Patterns []string
}

// Districts is checked in order; the first city with a matching pattern wins.
var Districts = []District{
	{"colombo", []string{"COLOMBO-DISTRICT-GAMPAHA-DISTRICT-KALUTARA-DISTRICT"}},
	{"hambantota", []string{"HAMBANTOTA-DISTRICT"}},
	{"ratnapura", []string{"RATNAPURA-DISTRICT-KEGALLE-DISTRICT"}},
	{"galle", []string{"GALLE-DISTRICT-MATARA-DISTRICT"}},
	{"badulla", []string{"BADULLA-DISTRICT-MONARAGALA-DISTRICT-PADIYATALAWA-DEHIATHTHAKANDIYA"}},
	{"trincomalee", []string{"TRINCOMALEE-DISTRICT"}},
	{"batticaloa", []string{"BATTICALOA-DISTRICT-AMPARA-DISTRICT"}},
	{"kandy", []string{"KANDY-DISTRICT-MATALE-DISTRICT-NUWARA-ELIYA-DISTRICT"}},
	{"kurunegala", []string{"KURUNEGALA-DISTRICT"}},
	{"anuradhapura", []string{"ANURADHAPURA-DISTRICT-POLONNARUWA-DISTRICT"}},
	{"mannar", []string{"MANNAR-DISTRICT-PUTTALAM-DISTRICT"}},
	{"vavuniya", []string{"MULLAITIVU-DISTRICT-EXCEPT-NALLUR-KILINOCHCHI-DISTRICT-VAVUNIYA-DISTRICT"}},
	{"jaffna", []string{"JAFFNA-DISTRICT-NALLUR"}},
}

// MonthPattern is a whole-word, lower-case month name or abbreviation.
type MonthPattern struct {
	Pattern *regexp.Regexp
	Code    string
}

// MonthPatterns is ordered month by month, full name before abbreviation, so
// the earliest calendar month mentioned anywhere in a text wins. Within one
// month both entries share a code, so their relative order is irrelevant.
// Matching is whole-word only: a new entry that is a word of another month's
// name (none exist today) would silently take precedence for that month.
var MonthPatterns = []MonthPattern{
	{regexp.MustCompile(`\bjanuary\b`), "01"}, {regexp.MustCompile(`\bjan\b`), "01"},
	{regexp.MustCompile(`\bfebruary\b`), "02"}, {regexp.MustCompile(`\bfeb\b`), "02"},
	{regexp.MustCompile(`\bmarch\b`), "03"}, {regexp.MustCompile(`\bmar\b`), "03"},
	{regexp.MustCompile(`\bapril\b`), "04"}, {regexp.MustCompile(`\bapr\b`), "04"},
	{regexp.MustCompile(`\bmay\b`), "05"},
	{regexp.MustCompile(`\bjune\b`), "06"}, {regexp.MustCompile(`\bjun\b`), "06"},
	{regexp.MustCompile(`\bjuly\b`), "07"}, {regexp.MustCompile(`\bjul\b`), "07"},
	{regexp.MustCompile(`\baugust\b`), "08"}, {regexp.MustCompile(`\baug\b`), "08"},
	{regexp.MustCompile(`\bseptember\b`), "09"}, {regexp.MustCompile(`\bsep\b`), "09"},
	{regexp.MustCompile(`\boctober\b`), "10"}, {regexp.MustCompile(`\boct\b`), "10"},
	{regexp.MustCompile(`\bnovember\b`), "11"}, {regexp.MustCompile(`\bnov\b`), "11"},
	{regexp.MustCompile(`\bdecember\b`), "12"}, {regexp.MustCompile(`\bdec\b`), "12"},
}

// MonthNames maps a two-digit month code to its display name.
var MonthNames = map[string]string{
	"01": "January", "02": "February", "03": "March",
	"04": "April", "05": "May", "06": "June",
	"07": "July", "08": "August", "09": "September",
	"10": "October", "11": "November", "12": "December",
}

// HijriMonth is a month of the Islamic calendar with the spellings seen on
// the calendar page.
type HijriMonth struct {
	Name    string
	Aliases []string
}

// HijriMonths is in calendar order; the index plus one is the month number.
var HijriMonths = []HijriMonth{
	{"Muharram", nil},
	{"Safar", nil},
	{"Rabi al-Awwal", []string{"Rabiul Awwal", "Rabi ul Awwal", "Rabi al-Awwal", "Rabi I"}},
	{"Rabi al-Thani", []string{"Rabiul Akhir", "Rabi ul Akhir", "Rabi al-Akhir", "Rabi us Sani", "Rabi II"}},
	{"Jumada al-Awwal", []string{"Jumadal Ula", "Jumada al-Ula", "Jumadul Awwal", "Jumada I"}},
	{"Jumada al-Thani", []string{"Jumadal Akhira", "Jumada al-Akhirah", "Jumadul Akhir", "Jumada II"}},
	{"Rajab", nil},
	{"Shaban", []string{"Sha'ban", "Shaaban"}},
	{"Ramadan", []string{"Ramazan", "Ramadhan"}},
	{"Shawwal", nil},
	{"Dhu al-Qadah", []string{"Dhul Qadah", "Dhul Qa'dah", "Zul Qadah", "Dhu al-Qi'dah"}},
	{"Dhu al-Hijjah", []string{"Dhul Hijjah", "Zul Hijjah", "Dhu al-Hijja"}},
}
