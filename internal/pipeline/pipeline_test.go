package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/chronoscan/internal/model"
)

// recordStep records its execution order and returns a fixed error.
type recordStep struct {
	name  string
	err   error
	order *[]string
}

func (s *recordStep) Name() string { return s.name }

func (s *recordStep) Do(_ context.Context, _ *model.ScanReport) error {
	*s.order = append(*s.order, s.name)
	return s.err
}

// TestPipelineExecute tests step ordering, halting and error handling.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")

	tests := []struct {
		name            string
		errs            []error
		continueOnError bool
		wantOrder       []string
		wantErr         error
	}{
		{
			name:      "all steps run",
			errs:      []error{nil, nil, nil},
			wantOrder: []string{"a", "b", "c", "final"},
		},
		{
			name:      "halt skips remaining steps but runs final",
			errs:      []error{nil, ErrHalt, nil},
			wantOrder: []string{"a", "b", "final"},
		},
		{
			name:      "error stops pipeline and runs final",
			errs:      []error{errBoom, nil, nil},
			wantOrder: []string{"a", "final"},
			wantErr:   errBoom,
		},
		{
			name:            "continue on error",
			errs:            []error{errBoom, nil, nil},
			continueOnError: true,
			wantOrder:       []string{"a", "b", "c", "final"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var order []string
			p := New(WithContinueOnError(tt.continueOnError))
			for i, name := range []string{"a", "b", "c"} {
				p.AddStep(&recordStep{name: name, err: tt.errs[i], order: &order})
			}
			p.AddFinalStep(&recordStep{name: "final", order: &order})

			report := model.NewScanReport("example.com")
			err := p.Execute(context.Background(), report)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.wantErr.Error(), report.Error)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantOrder, order)
			assert.Equal(t, tt.wantOrder, report.PerformedSteps)
		})
	}
}

// TestPipelineCancelled tests that a cancelled context runs nothing.
func TestPipelineCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var order []string
	p := New()
	p.AddStep(&recordStep{name: "a", order: &order})
	p.AddFinalStep(&recordStep{name: "final", order: &order})

	err := p.Execute(ctx, model.NewScanReport("example.com"))
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, order)
}

// TestPipelineStepNames tests step introspection.
func TestPipelineStepNames(t *testing.T) {
	t.Parallel()

	var order []string
	p := New()
	p.AddSteps(&recordStep{name: "a", order: &order}, &recordStep{name: "b", order: &order})
	p.AddFinalStep(&recordStep{name: "z", order: &order})

	assert.Equal(t, 3, p.StepCount())
	assert.Equal(t, []string{"a", "b", "z"}, p.StepNames())
}
