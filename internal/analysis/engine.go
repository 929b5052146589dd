// Package analysis defines the analysis engine interface and the mock
// pipeline that stands in for a real analysis backend.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/tandem-analyzer/internal/common"
	"github.com/Veraticus/tandem-analyzer/internal/model"
)

// defaultTickInterval is one animation frame at 60 Hz.
const defaultTickInterval = 16 * time.Millisecond

var _ Engine = (*MockEngine)(nil)

// MockEngine runs the timed three-stage pipeline and returns fixed results.
// Only the record total and date range depend on the input.
type MockEngine struct {
	now          func() time.Time
	stages       []StageSpec
	tickInterval time.Duration
}

// MockOption configures a MockEngine.
type MockOption func(*MockEngine)

// WithStageDurations overrides how long each stage takes.
func WithStageDurations(preparation, aiProcessing, parsing time.Duration) MockOption {
	return func(e *MockEngine) {
		e.stages = []StageSpec{
			{Stage: StagePreparation, Duration: preparation},
			{Stage: StageAIProcessing, Duration: aiProcessing},
			{Stage: StageParsing, Duration: parsing},
		}
	}
}

// WithTickInterval sets how often progress is reported.
func WithTickInterval(d time.Duration) MockOption {
	return func(e *MockEngine) {
		if d > 0 {
			e.tickInterval = d
		}
	}
}

// WithClock sets the clock used for GeneratedAt.
func WithClock(now func() time.Time) MockOption {
	return func(e *MockEngine) {
		e.now = now
	}
}

// NewMockEngine creates a mock engine with the demo stage timings.
func NewMockEngine(opts ...MockOption) *MockEngine {
	e := &MockEngine{
		now:          time.Now,
		stages:       DefaultStages(),
		tickInterval: defaultTickInterval,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Stages returns the configured pipeline.
func (e *MockEngine) Stages() []StageSpec {
	out := make([]StageSpec, len(e.stages))
	copy(out, e.stages)
	return out
}

// Analyze runs every stage to completion and returns the placeholder result.
// An empty dataset list is a validation failure.
func (e *MockEngine) Analyze(ctx context.Context, datasets []model.Dataset, progress ProgressFunc) (*Result, error) {
	if len(datasets) == 0 {
		return nil, common.NewUserError("Please select at least one dataset to analyze.", common.ErrNoDatasetsSelected)
	}
	if progress == nil {
		progress = func(Stage, float64) {} // no-op
	}

	slog.Info("Starting analysis", "datasets", len(datasets))

	for _, spec := range e.stages {
		if err := e.runStage(ctx, spec, progress); err != nil {
			return nil, fmt.Errorf("%s stage: %w", spec.Stage, err)
		}
	}

	result := mockResult(datasets)
	result.GeneratedAt = e.now()

	slog.Info("Analysis complete",
		"datasets", len(datasets),
		"total_records", result.SummaryStats.TotalRecords)

	return result, nil
}

// runStage reports progress every tick until the stage duration has elapsed.
// The last report is always exactly 1.
func (e *MockEngine) runStage(ctx context.Context, spec StageSpec, progress ProgressFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	progress(spec.Stage, 0)
	if spec.Duration <= 0 {
		progress(spec.Stage, 1)
		return nil
	}

	start := time.Now()
	ticker := time.NewTicker(e.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			fraction := float64(time.Since(start)) / float64(spec.Duration)
			if fraction >= 1 {
				progress(spec.Stage, 1)
				return nil
			}
			progress(spec.Stage, fraction)
		}
	}
}

// TotalRecords sums the record counts of datasets.
func TotalRecords(datasets []model.Dataset) int {
	total := 0
	for _, d := range datasets {
		total += d.RecordCount
	}
	return total
}

// CombinedDateRange describes the span of the analyzed datasets: a single
// dataset's own range, otherwise a file count.
func CombinedDateRange(datasets []model.Dataset) string {
	if len(datasets) == 1 {
		return datasets[0].DateRange
	}
	return fmt.Sprintf("Multiple datasets spanning %d files", len(datasets))
}

func mockResult(datasets []model.Dataset) *Result {
	ids := make([]string, len(datasets))
	for i, d := range datasets {
		ids[i] = d.ID
	}

	return &Result{
		SummaryStats: SummaryStats{
			DateRange:             CombinedDateRange(datasets),
			TotalRecords:          TotalRecords(datasets),
			AvgGlucose:            "142 mg/dL",
			TimeInRange:           "68%",
			TimeAboveRange:        "28%",
			TimeBelowRange:        "4%",
			TotalInsulinDelivered: "487.3 units",
			AvgDailyInsulin:       "16.2 units/day",
		},
		Insights: []string{
			"Your time in range of 68% is approaching the recommended target of 70%. Focus on reducing post-meal glucose spikes.",
			"Most high glucose events occur between 2-4 PM. Consider adjusting your lunch bolus timing or carb counting.",
			"Your overnight glucose control is excellent with 89% time in range during sleep hours.",
			"Basal insulin appears well-tuned with minimal adjustments needed by the pump's algorithm.",
			"Consider increasing pre-bolus time for larger meals to improve post-meal glucose control.",
		},
		Recommendations: []string{
			"Increase meal bolus by 0.5-1 units for lunches containing >45g carbs",
			"Try pre-bolusing 15-20 minutes before large meals",
			"Monitor stress levels during afternoon hours as they may contribute to glucose spikes",
			"Continue current exercise routine as it's positively impacting overnight glucose stability",
		},
		DatasetIDs: ids,
	}
}
