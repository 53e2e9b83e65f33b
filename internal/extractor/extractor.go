// Package extractor runs each downloaded PDF through the parser and
// accumulates the prayer times of every city seen during a run.
package extractor

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"acju-prayer-times/internal/model"
	"acju-prayer-times/internal/pdfparse"
	"acju-prayer-times/internal/zone"
)

// Result describes what one PDF contributed.
type Result struct {
	Zone    string
	Month   string
	Records int
	// Strategy names the strategy that produced the records.
	Strategy string
	Skipped  bool
	// Reason is set when the file was skipped for a known cause.
	Reason error
}

// Extractor owns the prayer store for a run. It is not safe for
// concurrent use; files are processed one at a time.
type Extractor struct {
	parser     *pdfparse.Parser
	mapper     *zone.Mapper
	log        *zap.Logger
	strategies []Strategy

	store      map[string]model.Record
	sources    map[string]map[string]string
	overwrites int
}

// New creates an Extractor. With no strategies given it tries tables first
// and falls back to scanning the text.
func New(parser *pdfparse.Parser, mapper *zone.Mapper, logger *zap.Logger, strategies ...Strategy) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Extractor{
		parser:  parser,
		mapper:  mapper,
		log:     logger,
		store:   make(map[string]model.Record),
		sources: make(map[string]map[string]string),
	}
	if len(strategies) == 0 {
		strategies = []Strategy{NewTableStrategy(parser), NewTextPatternStrategy(parser)}
	}
	for _, s := range strategies {
		e.Register(s)
	}
	return e
}

// Register appends a strategy to the end of the chain.
func (e *Extractor) Register(s Strategy) {
	e.strategies = append(e.strategies, s)
}

// Strategies returns the chain in the order it is tried.
func (e *Extractor) Strategies() []Strategy {
	return e.strategies
}

// ExtractFromPDF parses one file and merges its rows into the store.
// Problems with the file never escape as errors or panics; they produce
// a skipped result instead.
func (e *Extractor) ExtractFromPDF(path, filename string) (res Result) {
	log := e.log.With(zap.String("file", filename))
	defer func() {
		if r := recover(); r != nil {
			log.Error("extract_panic", zap.Any("panic", r))
			res = Result{Skipped: true, Reason: fmt.Errorf("unexpected failure: %v", r)}
		}
	}()

	doc, err := e.parser.Open(path)
	if err != nil {
		log.Warn("pdf_unreadable", zap.Error(err))
		return Result{Skipped: true, Reason: err}
	}

	md, err := e.parser.Metadata(doc)
	if err != nil {
		log.Warn("pdf_metadata_missing", zap.String("zone", md.Zone), zap.String("month", md.Month), zap.Error(err))
		return Result{Skipped: true, Reason: err}
	}

	cityID, ok := e.mapper.Bind(md.Zone, filename)
	if !ok {
		log.Warn("city_unknown", zap.String("zone", md.Zone))
		return Result{Skipped: true, Reason: zone.ErrUnknownCity}
	}

	res = Result{Zone: md.Zone, Month: md.Month}
	for _, s := range e.strategies {
		rows := s.Extract(doc, md.Month)
		if len(rows) == 0 {
			log.Debug("strategy_empty", zap.String("strategy", s.Name()))
			continue
		}
		for _, row := range rows {
			e.merge(cityID, filename, row)
		}
		res.Records = len(rows)
		res.Strategy = s.Name()
		break
	}
	res.Skipped = res.Records == 0

	log.Info("pdf_extracted",
		zap.String("city", cityID),
		zap.String("zone", md.Zone),
		zap.String("month", md.Month),
		zap.Int("records", res.Records),
		zap.String("strategy", res.Strategy))
	return res
}

func (e *Extractor) merge(cityID, filename string, row model.Row) {
	record, ok := e.store[cityID]
	if !ok {
		record = make(model.Record)
		e.store[cityID] = record
		e.sources[cityID] = make(map[string]string)
	}
	if _, exists := record[row.Date]; exists {
		e.overwrites++
		e.log.Warn("date_overwritten",
			zap.String("city", cityID),
			zap.String("date", row.Date),
			zap.String("previous_file", e.sources[cityID][row.Date]),
			zap.String("file", filename))
	}
	times := make(model.DayTimes, len(row.Times))
	for k, v := range row.Times {
		times[k] = v
	}
	record[row.Date] = times
	e.sources[cityID][row.Date] = filename
}

// EnhanceAsr splits every plain asr time into identical Shafi and Hanafi
// values. It returns the number of entries changed; a second call changes
// nothing.
func (e *Extractor) EnhanceAsr() int {
	n := 0
	for _, record := range e.store {
		for _, day := range record {
			asr, ok := day[model.Asr]
			if !ok || asr.Expanded() || asr.Time == "" {
				continue
			}
			day[model.Asr] = model.PrayerTime{Shafi: asr.Time, Hanafi: asr.Time}
			n++
		}
	}
	return n
}

// Overwrites counts city+date entries replaced by a later file.
func (e *Extractor) Overwrites() int {
	return e.overwrites
}

// Cities returns the discovered cities in order of first appearance.
func (e *Extractor) Cities() []model.City {
	return e.mapper.Cities()
}

// PrayerTimes returns a copy of the store keyed by city id.
func (e *Extractor) PrayerTimes() map[string]model.Record {
	out := make(map[string]model.Record, len(e.store))
	for city, record := range e.store {
		cp := make(model.Record, len(record))
		for date, day := range record {
			times := make(model.DayTimes, len(day))
			for k, v := range day {
				times[k] = v
			}
			cp[date] = times
		}
		out[city] = cp
	}
	return out
}

// IsMetadataMissing reports whether a skip was caused by a PDF without a
// zone or month.
func IsMetadataMissing(err error) bool {
	return errors.Is(err, pdfparse.ErrMissingZone) || errors.Is(err, pdfparse.ErrMissingMonth)
}
