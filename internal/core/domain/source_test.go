package domain_test

import (
	"testing"
	"time"

	"go.trai.ch/shade/internal/core/domain"
)

func TestNeedsRebuild(t *testing.T) {
	t50 := time.Unix(50, 0)
	t100 := time.Unix(100, 0)

	tests := []struct {
		name       string
		source     domain.Stamp
		output     domain.Stamp
		force      bool
		want       bool
		wantReason domain.Reason
	}{
		{"output missing", domain.Present(t100), domain.Absent(), false, true, domain.ReasonOutputMissing},
		{"output missing forced", domain.Present(t100), domain.Absent(), true, true, domain.ReasonForced},
		{"source newer", domain.Present(t100), domain.Present(t50), false, true, domain.ReasonSourceNewer},
		{"source older", domain.Present(t50), domain.Present(t100), false, false, domain.ReasonUpToDate},
		{"equal timestamps", domain.Present(t50), domain.Present(t50), false, false, domain.ReasonUpToDate},
		{"equal timestamps forced", domain.Present(t50), domain.Present(t50), true, true, domain.ReasonForced},
		{"source older forced", domain.Present(t50), domain.Present(t100), true, true, domain.ReasonForced},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := domain.NeedsRebuild(tt.source, tt.output, tt.force)
			if got != tt.want {
				t.Errorf("NeedsRebuild() = %v, want %v", got, tt.want)
			}
			if reason != tt.wantReason {
				t.Errorf("NeedsRebuild() reason = %q, want %q", reason, tt.wantReason)
			}
		})
	}
}

func TestNeedsRebuild_OneNanosecondNewer(t *testing.T) {
	base := time.Unix(1000, 0)
	got, _ := domain.NeedsRebuild(domain.Present(base.Add(time.Nanosecond)), domain.Present(base), false)
	if !got {
		t.Error("expected a strictly newer source to be stale")
	}
}

func TestDeriveOutputPath(t *testing.T) {
	if got := domain.DeriveOutputPath("geometry/a.vert", ".spv"); got != "geometry/a.vert.spv" {
		t.Errorf("unexpected output path %q", got)
	}

	// Same input, same output.
	first := domain.DeriveOutputPath("lighting/b.frag", ".spv")
	second := domain.DeriveOutputPath("lighting/b.frag", ".spv")
	if first != second {
		t.Errorf("expected deterministic output, got %q and %q", first, second)
	}

	// Same file name in different directories must not collide.
	a := domain.DeriveOutputPath("geometry/shared.vert", ".spv")
	b := domain.DeriveOutputPath("lighting/shared.vert", ".spv")
	if a == b {
		t.Errorf("outputs collide: %q", a)
	}
}

func TestIsSource(t *testing.T) {
	excludes := []string{".h", ".inc"}

	tests := []struct {
		name string
		want bool
	}{
		{"a.vert", true},
		{"b.frag", true},
		{"c.comp", true},
		{"lighting.geom", true},
		{"landscape.tesc", true},
		{"a.vert.spv", false},
		{"common.h", false},
		{"noise.inc", false},
		{"README", true},
		{"dir/a.vert", true},
		{"dir/a.vert.spv", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := domain.IsSource(tt.name, ".spv", excludes); got != tt.want {
				t.Errorf("IsSource(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestDecision_String(t *testing.T) {
	if domain.DecisionRebuild.String() != "rebuild" {
		t.Errorf("unexpected %q", domain.DecisionRebuild.String())
	}
	if domain.DecisionSkip.String() != "skip" {
		t.Errorf("unexpected %q", domain.DecisionSkip.String())
	}
}
