package ports

import "go.trai.ch/shade/internal/core/domain"

// Reporter is the abstraction for user-facing build status output.
//
//go:generate go run go.uber.org/mock/mockgen -source=reporter.go -destination=mocks/mock_reporter.go -package=mocks
type Reporter interface {
	// OnStart is called once discovery has produced the item list.
	OnStart(total int, force bool)

	// OnItem is called after each item has been decided and, if needed, compiled.
	OnItem(result domain.ItemResult)

	// OnFinish is called after the last item.
	OnFinish(summary *domain.Summary)
}
