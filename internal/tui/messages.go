package tui

import (
	"context"
	"sync"

	"github.com/Veraticus/tandem-analyzer/internal/analysis"
	"github.com/Veraticus/tandem-analyzer/internal/model"
)

// datasetsChangedMsg carries the collection after a store change.
type datasetsChangedMsg struct {
	datasets []model.Dataset
}

// progressMsg reports pipeline progress for one stage.
type progressMsg struct {
	stage    analysis.Stage
	fraction float64
}

// analysisDoneMsg ends an analysis run.
type analysisDoneMsg struct {
	err    error
	result *analysis.Result
}

// noticeMsg shows a one-line message in the status bar.
type noticeMsg struct {
	text  string
	level noticeLevel
}

type noticeLevel int

const (
	noticeInfo noticeLevel = iota
	noticeSuccess
	noticeWarning
	noticeError
)

// snapshotFeed hands the newest dataset snapshot to the UI loop. Pushes
// never block; a reader that falls behind only sees the latest snapshot.
type snapshotFeed struct {
	ready  chan struct{}
	latest []model.Dataset
	mu     sync.Mutex
}

func newSnapshotFeed() *snapshotFeed {
	return &snapshotFeed{ready: make(chan struct{}, 1)}
}

func (f *snapshotFeed) push(datasets []model.Dataset) {
	f.mu.Lock()
	f.latest = datasets
	f.mu.Unlock()

	select {
	case f.ready <- struct{}{}:
	default:
	}
}

// next blocks until a snapshot is pushed or ctx is done.
func (f *snapshotFeed) next(ctx context.Context) ([]model.Dataset, bool) {
	select {
	case <-ctx.Done():
		return nil, false
	case <-f.ready:
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest, true
}
