package domain

import "time"

// BuildRecord describes an output produced by a successful compile.
type BuildRecord struct {
	Source     string    `json:"source,omitzero"`
	Output     string    `json:"output,omitzero"`
	OutputHash string    `json:"output_hash,omitzero"`
	Compiler   string    `json:"compiler,omitzero"`
	CompiledAt time.Time `json:"compiled_at,omitzero"`
}
