package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageProgress_StartsBarPerLabel(t *testing.T) {
	var buf bytes.Buffer
	p := NewStageProgress(&buf)

	p.Report("Preparing data...", 0)
	p.Report("Preparing data...", 0.5)
	first := p.bar
	require.NotNil(t, first)

	p.Report("Processing with AI...", 0.25)
	assert.NotSame(t, first, p.bar)
	assert.True(t, first.IsFinished())
	assert.Equal(t, "Processing with AI...", p.label)

	p.Finish()
	assert.Nil(t, p.bar)
	assert.Contains(t, buf.String(), "Preparing data...")
	assert.Contains(t, buf.String(), "Processing with AI...")
}

func TestStageProgress_ClampsFraction(t *testing.T) {
	var buf bytes.Buffer
	p := NewStageProgress(&buf)

	p.Report("Parsing results...", -1)
	require.NotNil(t, p.bar)
	assert.InDelta(t, 0.0, p.bar.State().CurrentPercent, 0.001)

	p.Report("Parsing results...", 1.7)
	assert.InDelta(t, 1.0, p.bar.State().CurrentPercent, 0.001)
}

func TestStageProgress_FinishWithoutBar(t *testing.T) {
	p := NewStageProgress(&bytes.Buffer{})
	assert.NotPanics(t, p.Finish)
}
