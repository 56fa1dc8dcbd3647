package port

import "context"

type WeightStore interface {
	// EnsureLocal returns local paths for the given weight URLs in order,
	// downloading any file that is not yet cached. Repeated calls for
	// already-cached files perform no network access.
	EnsureLocal(ctx context.Context, urls []string) ([]string, error)
}
