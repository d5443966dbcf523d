// Package compiler provides the adapter that runs the external shader compiler.
package compiler

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/shade/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// VerboseFlag asks the compiler for SPIR-V output with verbose reporting.
	VerboseFlag = "-V"
	// DebugFlag asks the compiler to embed debug information.
	DebugFlag = "-g"
	// OutputFlag precedes the output path.
	OutputFlag = "-o"
)

var _ ports.Compiler = (*Compiler)(nil)

// Compiler implements ports.Compiler using os/exec.
type Compiler struct {
	logger  ports.Logger
	environ func() []string
}

// New creates a new Compiler.
func New(logger ports.Logger) *Compiler {
	return &Compiler{
		logger:  logger,
		environ: os.Environ,
	}
}

// Args returns the compiler arguments for one source:
// verbose flag, debug flag, extra args, source, output flag, output.
func Args(tool domain.Toolchain, source, output string) []string {
	args := make([]string, 0, 5+len(tool.ExtraArgs))
	args = append(args, VerboseFlag, DebugFlag)
	args = append(args, tool.ExtraArgs...)
	return append(args, source, OutputFlag, output)
}

// Compile runs the compiler for source and waits for it to exit.
// Compiler output is captured and attached to the returned error on failure.
// Warning lines of a successful run are forwarded to the logger.
func (c *Compiler) Compile(ctx context.Context, tool domain.Toolchain, source, output string) error {
	if tool.Path == "" {
		return zerr.Wrap(domain.ErrCompileFailed, "no compiler configured")
	}

	env := resolveEnvironment(c.environ(), tool.Env)

	executable := tool.Path
	if !strings.ContainsRune(tool.Path, filepath.Separator) && !strings.ContainsRune(tool.Path, '/') {
		lp, err := lookPath(tool.Path, env)
		if err != nil {
			return zerr.With(zerr.Wrap(domain.ErrCompileFailed, "compiler not found"), "compiler", tool.Path)
		}
		executable = lp
	}

	cmd := exec.CommandContext(ctx, executable, Args(tool, source, output)...) //nolint:gosec // configured compiler

	// Keep the name the compiler was configured with in Args[0].
	cmd.Args[0] = tool.Path
	cmd.Env = env

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}

		msg := fmt.Sprintf("compiler exited with status %d", exitCode)
		if exitCode == -1 {
			msg = "compiler did not run to completion: " + err.Error()
		}

		failure := zerr.With(zerr.Wrap(domain.ErrCompileFailed, msg), "exit_code", exitCode)
		if text := strings.TrimSpace(out.String()); text != "" {
			failure = zerr.With(failure, "output", text)
		}
		return zerr.With(failure, "source", source)
	}

	c.forwardWarnings(source, out.Bytes())
	return nil
}

func (c *Compiler) forwardWarnings(source string, out []byte) {
	if c.logger == nil {
		return
	}
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "WARNING") {
			c.logger.Warn(source + ": " + line)
		}
	}
}

// resolveEnvironment overlays the configured variables on the process environment.
func resolveEnvironment(sysEnv []string, extra map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(extra))
	order := make([]string, 0, len(sysEnv)+len(extra))

	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, seen := envMap[k]; !seen {
			order = append(order, k)
		}
		envMap[k] = v
	}

	for k, v := range extra {
		if _, seen := envMap[k]; !seen {
			order = append(order, k)
		}
		envMap[k] = v
	}

	result := make([]string, 0, len(order))
	for _, k := range order {
		result = append(result, k+"="+envMap[k])
	}
	return result
}

// lookPath searches for an executable in the PATH of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
