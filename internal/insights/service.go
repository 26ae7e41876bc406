package insights

import (
	"github.com/retaildash/retaildash/internal/dataset"
	"github.com/retaildash/retaildash/internal/record"
)

//go:generate mockgen -source=service.go -destination=source_mock.go -package=insights
type Source interface {
	Get(path string) (*dataset.Dataset, error)
}

// Service runs the filter and aggregation pipeline against the current
// dataset snapshot. It holds no row state itself; the source decides when the
// file needs re-parsing.
type Service struct {
	source Source
	path   string
}

func NewService(source Source, path string) *Service {
	return &Service{source: source, path: path}
}

// Report computes the full dashboard payload for the given filter.
func (s *Service) Report(f Filter) (*Report, error) {
	ds, err := s.source.Get(s.path)
	if err != nil {
		return nil, err
	}

	return BuildReport(ds, f), nil
}

// Countries lists the select-widget options, taken from the full dataset so
// the list does not shrink while a filter is active.
func (s *Service) Countries() ([]string, error) {
	ds, err := s.source.Get(s.path)
	if err != nil {
		return nil, err
	}

	return Countries(ds.Records), nil
}

// Filtered returns the records matching the filter, for the CSV export.
func (s *Service) Filtered(f Filter) ([]record.Record, error) {
	ds, err := s.source.Get(s.path)
	if err != nil {
		return nil, err
	}

	return f.Apply(ds.Records), nil
}
