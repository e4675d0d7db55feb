package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/the-rent-must-flow/internal/performance"
	"github.com/Veraticus/the-rent-must-flow/internal/period"
)

// YearReport holds the twelve monthly reports of a calendar year and their
// totals.
type YearReport struct {
	Months  []*Report
	Summary performance.Summary
	Year    int
}

// ProgressFunc is called once per finished month. It may be called from
// several goroutines.
type ProgressFunc func(month time.Time)

// monthResult is the outcome of one month in a year run.
type monthResult struct {
	report *Report
	index  int
}

// YearReport computes all twelve months of year for scope. The snapshot is
// read once; months are then evaluated in parallel by the configured number
// of workers. progress may be nil.
func (e *Engine) YearReport(ctx context.Context, scope Scope, year int, progress ProgressFunc) (*YearReport, error) {
	months := period.MonthsOfYear(year)
	from := period.MonthWindow(months[0]).Start
	to := period.MonthWindow(months[len(months)-1]).End

	slog.Info("Starting year report", "scope", scope.ID(), "year", year, "workers", e.config.Workers)

	snap, err := e.load(ctx, scope, from, to)
	if err != nil {
		return nil, err
	}

	results := e.processMonthsParallel(ctx, snap, months, progress)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("year report cancelled: %w", err)
	}

	report := &YearReport{Year: year, Months: make([]*Report, len(months))}
	for _, result := range results {
		report.Months[result.index] = result.report
	}

	metrics := make([]performance.Metrics, 0, len(report.Months))
	for _, m := range report.Months {
		if m == nil {
			return nil, fmt.Errorf("year report for %s is missing a month", scope.ID())
		}
		metrics = append(metrics, m.Metrics)
	}
	report.Summary = performance.Summarize(metrics)

	slog.Info("Year report complete",
		"scope", scope.ID(),
		"year", year,
		"noi", report.Summary.NOI,
		"verdict", report.Summary.Verdict)

	return report, nil
}

// processMonthsParallel evaluates months with a fixed pool of workers.
func (e *Engine) processMonthsParallel(ctx context.Context, snap *snapshot, months []time.Time, progress ProgressFunc) []monthResult {
	// Create work channel
	workChan := make(chan int, len(months))
	for i := range months {
		workChan <- i
	}
	close(workChan)

	// Results channel
	resultsChan := make(chan monthResult, len(months))

	workers := e.config.Workers
	if workers > len(months) {
		workers = len(months)
	}

	// Start workers
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func(workerID int) {
			defer wg.Done()
			e.monthWorker(ctx, workerID, snap, months, workChan, resultsChan, progress)
		}(i)
	}

	// Wait for workers and close results
	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	// Collect results
	results := make([]monthResult, 0, len(months))
	for result := range resultsChan {
		results = append(results, result)
	}

	return results
}

// monthWorker builds reports for month indexes from the work channel.
func (e *Engine) monthWorker(
	ctx context.Context,
	workerID int,
	snap *snapshot,
	months []time.Time,
	workChan <-chan int,
	resultsChan chan<- monthResult,
	progress ProgressFunc,
) {
	for index := range workChan {
		select {
		case <-ctx.Done():
			return
		default:
		}

		month := months[index]
		slog.Debug("Worker evaluating month", "worker", workerID, "month", period.MonthKey(month))

		resultsChan <- monthResult{index: index, report: e.build(ctx, snap, month)}
		if progress != nil {
			progress(month)
		}
	}
}
