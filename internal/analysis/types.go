package analysis

import (
	"time"
)

// Stage identifies one step of the analysis pipeline.
type Stage string

// Pipeline stages, in execution order.
const (
	StagePreparation  Stage = "preparation"
	StageAIProcessing Stage = "ai_processing"
	StageParsing      Stage = "parsing"
)

// Label returns the display name of the stage.
func (s Stage) Label() string {
	switch s {
	case StagePreparation:
		return "Data Preparation"
	case StageAIProcessing:
		return "AI Processing"
	case StageParsing:
		return "Results Parsing"
	default:
		return string(s)
	}
}

// ActiveStatus returns the status text shown while the stage runs.
func (s Stage) ActiveStatus() string {
	if s == StageAIProcessing {
		return "Analyzing..."
	}
	return "Processing..."
}

// StageSpec pairs a stage with how long it takes.
type StageSpec struct {
	Stage    Stage
	Duration time.Duration
}

// DefaultStages returns the pipeline with its demo timings.
func DefaultStages() []StageSpec {
	return []StageSpec{
		{Stage: StagePreparation, Duration: 2 * time.Second},
		{Stage: StageAIProcessing, Duration: 3 * time.Second},
		{Stage: StageParsing, Duration: 1 * time.Second},
	}
}

// ProgressFunc receives the completed fraction, 0 to 1, of the running stage.
type ProgressFunc func(stage Stage, fraction float64)

// SummaryStats holds the headline numbers of an analysis.
type SummaryStats struct {
	DateRange             string `json:"dateRange"             yaml:"dateRange"`
	TotalRecords          int    `json:"totalRecords"          yaml:"totalRecords"`
	AvgGlucose            string `json:"avgGlucose"            yaml:"avgGlucose"`
	TimeInRange           string `json:"timeInRange"           yaml:"timeInRange"`
	TimeAboveRange        string `json:"timeAboveRange"        yaml:"timeAboveRange"`
	TimeBelowRange        string `json:"timeBelowRange"        yaml:"timeBelowRange"`
	TotalInsulinDelivered string `json:"totalInsulinDelivered" yaml:"totalInsulinDelivered"`
	AvgDailyInsulin       string `json:"avgDailyInsulin"       yaml:"avgDailyInsulin"`
}

// Result is the output of an analysis run.
type Result struct {
	GeneratedAt     time.Time    `json:"generatedAt"     yaml:"generatedAt"`
	SummaryStats    SummaryStats `json:"summaryStats"    yaml:"summaryStats"`
	Insights        []string     `json:"aiInsights"      yaml:"aiInsights"`
	Recommendations []string     `json:"recommendations" yaml:"recommendations"`
	DatasetIDs      []string     `json:"datasetIds"      yaml:"datasetIds"`
}
