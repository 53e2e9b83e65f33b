package extractor

import "go.uber.org/zap"

// Summary tallies the results of a batch.
type Summary struct {
	Files     int
	Extracted int
	Skipped   int
	Records   int
	// ByStrategy counts files per strategy that produced their records.
	ByStrategy map[string]int
}

// Add folds one file's result into the summary.
func (s *Summary) Add(r Result) {
	s.Files++
	if r.Skipped {
		s.Skipped++
		return
	}
	s.Extracted++
	s.Records += r.Records
	if s.ByStrategy == nil {
		s.ByStrategy = make(map[string]int)
	}
	s.ByStrategy[r.Strategy]++
}

// Fields renders the summary for structured logging.
func (s Summary) Fields() []zap.Field {
	return []zap.Field{
		zap.Int("files", s.Files),
		zap.Int("extracted", s.Extracted),
		zap.Int("skipped", s.Skipped),
		zap.Int("records", s.Records),
		zap.Any("by_strategy", s.ByStrategy),
	}
}
