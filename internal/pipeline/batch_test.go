package pipeline

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/chronoscan/internal/model"
	"github.com/nao1215/chronoscan/internal/report"
)

// TestProcessBatch tests that every target is scanned and reports keep input order.
func TestProcessBatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fetcher := &stubFetcher{urls: map[string][]string{
		"a.com": {"http://a.com/.env"},
		"b.com": {"http://b.com/"},
	}}
	store := &memoryStore{}

	factory := func() *Pipeline {
		return NewScanPipeline(ScanSettings{
			Fetcher:   fetcher,
			Store:     store,
			Format:    report.FormatText,
			OutputDir: dir,
		})
	}

	bp := NewBatchProcessor(factory, WithConcurrency(2))
	reports, err := bp.ProcessBatch(context.Background(), []string{"https://a.com/x", "b.com", "c.com"})
	require.NoError(t, err)
	require.Len(t, reports, 3)

	assert.Equal(t, "a.com", reports[0].Target)
	assert.Equal(t, model.OutcomeFindings, reports[0].Outcome)
	assert.Equal(t, model.OutcomeNoFindings, reports[1].Outcome)
	assert.Equal(t, model.OutcomeNoData, reports[2].Outcome)

	calls := append([]string(nil), fetcher.calls...)
	sort.Strings(calls)
	assert.Equal(t, []string{"a.com", "b.com", "c.com"}, calls)
	assert.Len(t, store.runs, 3)
	assert.FileExists(t, reports[0].ReportPath)
}

// TestProcessBatchCancelled tests that a cancelled batch reports the error.
func TestProcessBatchCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bp := NewBatchProcessor(func() *Pipeline {
		return NewScanPipeline(ScanSettings{Fetcher: &stubFetcher{}})
	})

	_, err := bp.ProcessBatch(ctx, []string{"a.com", "b.com"})
	assert.ErrorIs(t, err, context.Canceled)
}

// TestWithConcurrency tests that non-positive limits are ignored.
func TestWithConcurrency(t *testing.T) {
	t.Parallel()

	bp := NewBatchProcessor(nil, WithConcurrency(0))
	assert.Equal(t, 4, bp.concurrency)

	bp = NewBatchProcessor(nil, WithConcurrency(8))
	assert.Equal(t, 8, bp.concurrency)
}
