// Package zone correlates the zone numbers printed inside prayer-time PDFs
// with the districts encoded in their filenames.
package zone

import (
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"acju-prayer-times/internal/config"
	"acju-prayer-times/internal/model"
)

// ErrUnknownCity is returned when a filename matches no district pattern.
var ErrUnknownCity = errors.New("no district pattern matches filename")

// Binding records which city a zone was resolved to and from which file.
type Binding struct {
	City     model.City
	Filename string
}

// Mapper is the per-run zone registry. It is filled as files are processed
// and owns the list of discovered cities.
type Mapper struct {
	districts []config.District
	country   string
	timezone  string
	log       *zap.Logger
	title     cases.Caser

	zones  map[string]Binding
	cities []model.City
	seen   map[string]bool
}

// NewMapper creates a Mapper over a fixed district table.
func NewMapper(districts []config.District, country, timezone string, logger *zap.Logger) *Mapper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mapper{
		districts: districts,
		country:   country,
		timezone:  timezone,
		log:       logger,
		title:     cases.Title(language.English),
		zones:     make(map[string]Binding),
		seen:      make(map[string]bool),
	}
}

// IdentifyCity returns the slug of the first district whose pattern appears
// in the upper-cased filename.
func (m *Mapper) IdentifyCity(filename string) (string, bool) {
	upper := strings.ToUpper(filename)
	for _, d := range m.districts {
		for _, pattern := range d.Patterns {
			if strings.Contains(upper, pattern) {
				return d.CityID, true
			}
		}
	}
	return "", false
}

// Bind resolves the filename to a city and records the zone binding. An
// empty zone or an unrecognized filename returns false and leaves the
// registry untouched.
func (m *Mapper) Bind(zoneID, filename string) (string, bool) {
	cityID, ok := m.IdentifyCity(filename)
	if !ok || zoneID == "" {
		return "", false
	}

	city := model.City{
		ID:       cityID,
		Name:     m.title.String(cityID),
		Country:  m.country,
		Timezone: m.timezone,
	}
	if prev, exists := m.zones[zoneID]; exists && prev.Filename != filename {
		m.log.Warn("zone rebound",
			zap.String("zone", zoneID),
			zap.String("previous_file", prev.Filename),
			zap.String("file", filename))
	}
	m.zones[zoneID] = Binding{City: city, Filename: filename}

	if !m.seen[cityID] {
		m.seen[cityID] = true
		m.cities = append(m.cities, city)
	}
	return cityID, true
}

// City looks up the city bound to a zone.
func (m *Mapper) City(zoneID string) (model.City, bool) {
	b, ok := m.zones[zoneID]
	return b.City, ok
}

// Binding returns the full binding for a zone, including its source file.
func (m *Mapper) Binding(zoneID string) (Binding, bool) {
	b, ok := m.zones[zoneID]
	return b, ok
}

// Cities returns the discovered cities in order of first appearance.
func (m *Mapper) Cities() []model.City {
	out := make([]model.City, len(m.cities))
	copy(out, m.cities)
	return out
}
