// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/shade/internal/core/domain"
)

// Compiler defines the interface for invoking the external shader compiler.
//
//go:generate go run go.uber.org/mock/mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks
type Compiler interface {
	// Compile compiles source into output using the given toolchain.
	//
	// It writes or overwrites output. A non-zero exit or a missing executable
	// is reported as domain.ErrCompileFailed.
	Compile(ctx context.Context, tool domain.Toolchain, source, output string) error
}
