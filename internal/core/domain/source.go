package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// Decision is the per-item outcome of the staleness check.
type Decision uint8

const (
	// DecisionSkip means the output is up to date.
	DecisionSkip Decision = iota
	// DecisionRebuild means the source must be compiled.
	DecisionRebuild
)

func (d Decision) String() string {
	if d == DecisionRebuild {
		return "rebuild"
	}
	return "skip"
}

// Reason explains why a rebuild decision was made.
type Reason string

const (
	ReasonForced        Reason = "forced"
	ReasonOutputMissing Reason = "output missing"
	ReasonSourceNewer   Reason = "source newer than output"
	ReasonUpToDate      Reason = "up to date"
)

// Stamp is a file's modification time, or its absence.
type Stamp struct {
	ModTime time.Time
	Exists  bool
}

// Present returns a Stamp for an existing file.
func Present(t time.Time) Stamp {
	return Stamp{ModTime: t, Exists: true}
}

// Absent returns a Stamp for a file that does not exist.
func Absent() Stamp {
	return Stamp{}
}

// Directive pairs a source with its output and the decision taken for it.
type Directive struct {
	Source   string
	Output   string
	Decision Decision
	Reason   Reason
}

// DeriveOutputPath names the compiled output of source.
func DeriveOutputPath(source, suffix string) string {
	return source + suffix
}

// IsSource reports whether a file name is a compilable shader source.
// Names ending in the output suffix or any exclude suffix are rejected.
func IsSource(name, outputSuffix string, excludeSuffixes []string) bool {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		return false
	}
	if outputSuffix != "" && strings.HasSuffix(base, outputSuffix) {
		return false
	}
	for _, suffix := range excludeSuffixes {
		if suffix != "" && strings.HasSuffix(base, suffix) {
			return false
		}
	}
	return true
}

// NeedsRebuild decides whether source must be recompiled into output.
// Equal timestamps count as up to date.
func NeedsRebuild(source, output Stamp, force bool) (bool, Reason) {
	switch {
	case force:
		return true, ReasonForced
	case !output.Exists:
		return true, ReasonOutputMissing
	case source.ModTime.After(output.ModTime):
		return true, ReasonSourceNewer
	default:
		return false, ReasonUpToDate
	}
}
