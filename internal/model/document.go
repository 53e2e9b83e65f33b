package model

// Document is the versioned dataset written to the output file.
type Document struct {
	Version     string               `json:"version"`
	LastUpdated string               `json:"last_updated"`
	DataSource  string               `json:"data_source"`
	Cities      []City               `json:"cities"`
	PrayerTimes map[string]CityTimes `json:"prayer_times"`
}

// CityTimes is one city's block inside prayer_times.
type CityTimes struct {
	Timezone string `json:"timezone"`
	Times    Record `json:"times"`
}

// Section is one district accordion on the listing page.
type Section struct {
	Section string        `json:"section"`
	Items   []ListingItem `json:"items"`
}

// ListingItem pairs a month label with the PDF link published for it.
type ListingItem struct {
	Month string `json:"month"`
	Link  string `json:"link"`
}

// CalendarDay is the Hijri/Gregorian date pair read from the calendar page.
type CalendarDay struct {
	GregorianDate string    `json:"gregorian_date"`
	Hijri         HijriDate `json:"hijri"`
	Source        string    `json:"source"`
}

// HijriDate is a date in the Islamic lunar calendar.
type HijriDate struct {
	Day         int    `json:"day"`
	Month       string `json:"month"`
	MonthNumber int    `json:"month_number"`
	Year        int    `json:"year"`
}
