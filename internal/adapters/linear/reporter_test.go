package linear_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/shade/internal/adapters/linear"
	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/zerr"
)

func compileFailure() error {
	err := zerr.With(zerr.Wrap(domain.ErrCompileFailed, "compiler exited with status 2"), "exit_code", 2)
	err = zerr.With(err, "output", "ERROR: c.comp:3: 'foo' : undeclared identifier\nERROR: 1 compilation errors.")
	return zerr.With(err, "source", "c.comp")
}

func TestReporter_Run(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var stdout, stderr bytes.Buffer
	r := linear.NewReporter(&stdout, &stderr)

	results := []domain.ItemResult{
		{
			Directive: domain.Directive{
				Source: "geometry/a.vert", Output: "geometry/a.vert.spv",
				Decision: domain.DecisionRebuild, Reason: domain.ReasonSourceNewer,
			},
			Status:   domain.StatusCompiled,
			Duration: 42*time.Millisecond + 300*time.Microsecond,
		},
		{
			Directive: domain.Directive{
				Source: "lighting/b.frag", Output: "lighting/b.frag.spv",
				Decision: domain.DecisionSkip, Reason: domain.ReasonUpToDate,
			},
			Status: domain.StatusUpToDate,
		},
		{
			Directive: domain.Directive{
				Source: "c.comp", Output: "c.comp.spv",
				Decision: domain.DecisionRebuild, Reason: domain.ReasonOutputMissing,
			},
			Status:   domain.StatusFailed,
			Err:      compileFailure(),
			Duration: 5 * time.Millisecond,
		},
	}

	summary := &domain.Summary{}
	r.OnStart(len(results), false)
	for _, res := range results {
		summary.Add(res)
		r.OnItem(res)
	}
	r.OnFinish(summary)

	g := goldie.New(t)
	g.Assert(t, "run_stdout", stdout.Bytes())
	g.Assert(t, "run_stderr", stderr.Bytes())
}

func TestReporter_Forced(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var stdout, stderr bytes.Buffer
	r := linear.NewReporter(&stdout, &stderr)

	r.OnStart(2, true)

	assert.Equal(t, "Checking 2 shader(s) (forced)\n", stderr.String())
	assert.Empty(t, stdout.String())
}

func TestReporter_NoSources(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var stdout, stderr bytes.Buffer
	r := linear.NewReporter(&stdout, &stderr)

	r.OnStart(0, false)
	r.OnFinish(&domain.Summary{})

	assert.Equal(t, "No shader sources found\n", stderr.String())
	assert.Empty(t, stdout.String())
}

func TestReporter_FailureWithoutCompilerOutput(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var stdout, stderr bytes.Buffer
	r := linear.NewReporter(&stdout, &stderr)

	r.OnItem(domain.ItemResult{
		Directive: domain.Directive{Source: "gone.frag", Output: "gone.frag.spv"},
		Status:    domain.StatusFailed,
		Err:       zerr.With(zerr.Wrap(domain.ErrSourceNotFound, "file does not exist"), "path", "gone.frag"),
	})

	assert.Equal(t, "[gone.frag] ✗ failed: file does not exist: source not found\n", stderr.String())
}
