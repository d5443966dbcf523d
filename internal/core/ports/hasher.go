package ports

// Hasher defines the interface for fingerprinting files.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// HashFile returns a content fingerprint of the file at path.
	HashFile(path string) (string, error)
}
