package ports

import "time"

// FileSystem defines the filesystem operations the runner depends on.
//
//go:generate go run go.uber.org/mock/mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// ListFiles returns the regular files directly inside dir, in lexical order.
	// A missing dir is reported as domain.ErrSourceNotFound.
	ListFiles(dir string) ([]string, error)

	// ModTime returns the modification time of path.
	// A missing path is reported as domain.ErrSourceNotFound.
	ModTime(path string) (time.Time, error)

	// Remove deletes the file at path.
	Remove(path string) error
}
