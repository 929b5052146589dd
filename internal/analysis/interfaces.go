package analysis

import (
	"context"

	"github.com/Veraticus/tandem-analyzer/internal/model"
)

// Engine analyzes a set of datasets. progress may be nil.
type Engine interface {
	Analyze(ctx context.Context, datasets []model.Dataset, progress ProgressFunc) (*Result, error)
}

// ResultFormatter formats analysis results for display.
type ResultFormatter interface {
	FormatResult(result *Result) string
}
