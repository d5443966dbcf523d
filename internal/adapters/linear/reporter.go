// Package linear provides a synchronous, line-oriented build reporter.
package linear

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/shade/internal/ui/output"
	"go.trai.ch/shade/internal/ui/style"
	"go.trai.ch/zerr"
)

// Reporter implements ports.Reporter with one status line per item.
// Successful items go to stdout, failures and run-level messages to stderr.
type Reporter struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	mu sync.Mutex
}

// NewReporter creates a new Reporter. Nil writers default to the process streams.
func NewReporter(stdout, stderr io.Writer) *Reporter {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Reporter{
		stdout: stdout,
		stderr: stderr,
		output: output.New(stderr),
	}
}

// OnStart prints how many sources were discovered.
func (r *Reporter) OnStart(total int, force bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if total == 0 {
		_, _ = fmt.Fprintln(r.stderr, r.faint("No shader sources found"))
		return
	}

	msg := fmt.Sprintf("Checking %d shader(s)", total)
	if force {
		msg += " (forced)"
	}
	_, _ = fmt.Fprintln(r.stderr, r.faint(msg))
}

// OnItem prints the status line of a processed item.
func (r *Reporter) OnItem(result domain.ItemResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prefix := r.faint(fmt.Sprintf("[%s]", result.Directive.Source))

	switch result.Status {
	case domain.StatusUpToDate:
		_, _ = fmt.Fprintf(r.stdout, "%s %s\n", prefix, r.faint(string(domain.StatusUpToDate)))
	case domain.StatusCompiled:
		symbol := r.color(style.Check, style.Green)
		_, _ = fmt.Fprintf(r.stdout, "%s %s %s (%s, %s)\n",
			prefix, symbol, domain.StatusCompiled, result.Directive.Reason, formatDuration(result.Duration))
	case domain.StatusFailed:
		symbol := r.color(style.Cross, style.Red)
		_, _ = fmt.Fprintf(r.stderr, "%s %s %s: %v\n", prefix, symbol, domain.StatusFailed, result.Err)
		for _, line := range compilerOutput(result.Err) {
			_, _ = fmt.Fprintf(r.stderr, "    %s\n", line)
		}
	}
}

// OnFinish prints the summary line.
func (r *Reporter) OnFinish(summary *domain.Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if summary == nil || summary.Total() == 0 {
		return
	}

	compiled := summary.Count(domain.StatusCompiled)
	upToDate := summary.Count(domain.StatusUpToDate)
	failed := summary.Count(domain.StatusFailed)

	failedText := fmt.Sprintf("%d failed", failed)
	if failed > 0 {
		failedText = r.color(failedText, style.Red)
	}

	_, _ = fmt.Fprintf(r.stderr, "%s %d compiled, %d up to date, %s\n",
		r.color(style.Dot, style.Iris), compiled, upToDate, failedText)
}

func (r *Reporter) faint(s string) string {
	return r.output.String(s).Faint().String()
}

func (r *Reporter) color(s string, c lipgloss.Color) string {
	return r.output.String(s).Foreground(r.output.Color(string(c))).String()
}

// compilerOutput returns the captured compiler output attached to err, line by line.
func compilerOutput(err error) []string {
	var zErr *zerr.Error
	if !errors.As(err, &zErr) {
		return nil
	}
	text, ok := zErr.Metadata()["output"].(string)
	if !ok || text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return d.String()
	}
	return d.Round(time.Millisecond).String()
}
