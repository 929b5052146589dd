package tui

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/tandem-analyzer/internal/model"
)

func TestSnapshotFeed_KeepsLatest(t *testing.T) {
	feed := newSnapshotFeed()
	feed.push([]model.Dataset{{ID: "one"}})
	feed.push([]model.Dataset{{ID: "one"}, {ID: "two"}})

	got, ok := feed.next(context.Background())
	require.True(t, ok)
	assert.Len(t, got, 2)
}

func TestSnapshotFeed_NextHonorsContext(t *testing.T) {
	feed := newSnapshotFeed()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	got, ok := feed.next(ctx)
	assert.False(t, ok)
	assert.Nil(t, got)
}
