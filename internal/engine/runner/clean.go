package runner

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/shade/internal/core/ports"
	"go.trai.ch/zerr"
)

// CleanResult lists the outputs removed and kept by Clean.
type CleanResult struct {
	Removed []string
	Kept    []string
}

// Clean removes the outputs of the discovered sources that were produced by a
// recorded build and have not changed since. With cfg.Force every existing output
// is removed.
func (r *Runner) Clean(ctx context.Context, cfg *domain.Config, store ports.BuildRecordStore) (*CleanResult, error) {
	sources, err := r.Discover(cfg)
	if err != nil {
		return nil, err
	}

	result := &CleanResult{}
	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			return result, zerr.Wrap(err, "clean interrupted")
		}

		output := domain.DeriveOutputPath(source, cfg.OutputSuffix)

		if _, err := r.fs.ModTime(output); err != nil {
			if errors.Is(err, domain.ErrSourceNotFound) {
				// Nothing to remove; drop a dangling record.
				if err := store.Delete(output); err != nil {
					return result, err
				}
				continue
			}
			return result, err
		}

		if !cfg.Force {
			owned, err := r.owned(store, output)
			if err != nil {
				return result, err
			}
			if !owned {
				result.Kept = append(result.Kept, output)
				continue
			}
		}

		if err := r.fs.Remove(output); err != nil {
			return result, err
		}
		if err := store.Delete(output); err != nil {
			return result, err
		}
		result.Removed = append(result.Removed, output)
	}

	return result, nil
}

// owned reports whether output still matches the fingerprint recorded when it was compiled.
func (r *Runner) owned(store ports.BuildRecordStore, output string) (bool, error) {
	record, err := store.Get(output)
	if err != nil {
		return false, err
	}
	if record == nil {
		r.logger.Warn(fmt.Sprintf("keeping %s: no build record", output))
		return false, nil
	}

	hash, err := r.hasher.HashFile(output)
	if err != nil {
		return false, err
	}
	if hash != record.OutputHash {
		r.logger.Warn(fmt.Sprintf("keeping %s: modified since it was compiled", output))
		return false, nil
	}
	return true, nil
}
