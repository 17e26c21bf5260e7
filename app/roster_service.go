package app

import (
	"context"
	"log"

	"gradebook/domain/student"
	"gradebook/internal/analysis"
	"gradebook/internal/errors"
	"gradebook/ports"
)

// RosterService is the surface the presentation layers use: submit a
// record, read the table, and query aggregates over a class filter. It
// holds no table state; every call reloads from the store.
type RosterService struct {
	store   ports.StudentStore
	buckets int
}

// SubmitResult reports the outcome of one submission.
type SubmitResult struct {
	Accepted bool           `json:"accepted"`
	Code     string         `json:"code,omitempty"`
	Reason   string         `json:"reason"`
	Record   student.Record `json:"record"`
	Total    int            `json:"total"`
}

// ReportOptions selects which aggregates a Report computes.
type ReportOptions struct {
	Classes   []string
	Table     bool
	Histogram bool
	Averages  bool
	PassFail  bool
	Stats     bool
}

// AllSections returns options with every section enabled.
func AllSections(classes []string) ReportOptions {
	return ReportOptions{Classes: classes, Table: true, Histogram: true, Averages: true, PassFail: true, Stats: true}
}

// Report is one load-compute cycle over a filtered view. Sections that
// were not requested stay nil.
type Report struct {
	// Available lists the classes present in the full table, first-seen order
	Available []string               `json:"available"`
	Selected  []string               `json:"selected"`
	Total     int                    `json:"total"`
	View      student.Table          `json:"-"`
	Rows      []analysis.ResultRow   `json:"rows,omitempty"`
	Histogram []analysis.Bucket      `json:"histogram,omitempty"`
	Averages  analysis.ClassAverages `json:"averages,omitempty"`
	PassFail  *analysis.PassFail     `json:"pass_fail,omitempty"`
	Summary   *analysis.Summary      `json:"summary,omitempty"`
	// NoData is set when the view is empty
	NoData bool `json:"no_data"`
}

// NewRosterService creates the service; buckets <= 0 selects the default
// histogram bucket count.
func NewRosterService(store ports.StudentStore, buckets int) *RosterService {
	if buckets <= 0 {
		buckets = analysis.DefaultBuckets
	}
	return &RosterService{store: store, buckets: buckets}
}

// Init prepares the backing store.
func (s *RosterService) Init() error {
	return errors.Wrap(s.store.EnsureInitialized(), "initialize student store")
}

// Submit validates c, appends it, and reloads the table so the reported
// total reflects what was persisted. Validation failures leave the store
// untouched and come back with Accepted false and a reason.
func (s *RosterService) Submit(ctx context.Context, c student.Candidate) (SubmitResult, error) {
	rec, err := student.Validate(c)
	if err != nil {
		log.Printf("[Roster] Rejected submission: %v", err)
		return SubmitResult{Code: errors.GetCode(err), Reason: err.Error()}, err
	}

	if err := s.store.AppendAndSave(ctx, rec); err != nil {
		log.Printf("[Roster] Failed to save roll %q: %v", rec.RollNumber, err)
		return SubmitResult{Code: errors.GetCode(err), Reason: "could not save record", Record: rec}, err
	}

	table, err := s.store.LoadAll(ctx)
	if err != nil {
		return SubmitResult{Code: errors.GetCode(err), Reason: "record saved but reload failed", Record: rec}, err
	}

	return SubmitResult{
		Accepted: true,
		Reason:   "record saved",
		Record:   rec,
		Total:    table.Len(),
	}, nil
}

// Table returns the full table.
func (s *RosterService) Table(ctx context.Context) (student.Table, error) {
	return s.store.LoadAll(ctx)
}

// FilteredView returns the records in classes; an empty set returns all.
func (s *RosterService) FilteredView(ctx context.Context, classes []string) (student.Table, error) {
	table, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return analysis.FilterByClasses(table, classes), nil
}

// MarksHistogram buckets the marks of the filtered view.
func (s *RosterService) MarksHistogram(ctx context.Context, classes []string) ([]analysis.Bucket, error) {
	view, err := s.FilteredView(ctx, classes)
	if err != nil {
		return nil, err
	}
	return analysis.MarksHistogram(view, s.buckets), nil
}

// AverageMarksByClass averages the filtered view per class.
func (s *RosterService) AverageMarksByClass(ctx context.Context, classes []string) (analysis.ClassAverages, error) {
	view, err := s.FilteredView(ctx, classes)
	if err != nil {
		return nil, err
	}
	return analysis.AverageMarksByClass(view), nil
}

// PassFailCounts counts results in the filtered view.
func (s *RosterService) PassFailCounts(ctx context.Context, classes []string) (analysis.PassFail, error) {
	view, err := s.FilteredView(ctx, classes)
	if err != nil {
		return analysis.PassFail{}, err
	}
	return analysis.PassFailCounts(view), nil
}

// SummaryStats summarises the filtered view. An empty view yields the
// zero Summary and an EMPTY_VIEW error.
func (s *RosterService) SummaryStats(ctx context.Context, classes []string) (analysis.Summary, error) {
	view, err := s.FilteredView(ctx, classes)
	if err != nil {
		return analysis.Summary{}, err
	}
	return analysis.SummaryStats(view)
}

// Report loads the table once and computes the requested sections.
func (s *RosterService) Report(ctx context.Context, opts ReportOptions) (*Report, error) {
	table, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	view := analysis.FilterByClasses(table, opts.Classes)

	report := &Report{
		Available: analysis.ClassesPresent(table),
		Selected:  opts.Classes,
		Total:     table.Len(),
		View:      view,
		NoData:    view.Len() == 0,
	}

	if opts.Table {
		report.Rows = analysis.WithResults(view)
	}
	if opts.Histogram {
		report.Histogram = analysis.MarksHistogram(view, s.buckets)
	}
	if opts.Averages {
		report.Averages = analysis.AverageMarksByClass(view)
	}
	if opts.PassFail {
		pf := analysis.PassFailCounts(view)
		report.PassFail = &pf
	}
	if opts.Stats {
		summary, err := analysis.SummaryStats(view)
		if err != nil && !errors.HasCode(err, errors.CodeEmptyView) {
			return nil, err
		}
		report.Summary = &summary
	}
	return report, nil
}
