// Package batch splits bulk fetches into polite chunks. Suite preparation
// steps (seeding search terms, fetching many catalog pages) use it to stay
// below the demo site's request-size and request-rate tolerances.
package batch

import (
	"context"
	"fmt"
	"time"
)

// Options bounds one chunked fetch
type Options struct {
	// MaxItems caps how many items go into one chunk. Required, > 0.
	MaxItems int
	// MaxTotalLength caps the summed string length of a chunk. 0 disables it.
	MaxTotalLength int
	// Delay is the pause between consecutive chunks. 0 disables it.
	Delay time.Duration
}

// Fetch splits items into chunks within the given limits and runs fetchFunc
// per chunk, merging the results in order. The first fetch error aborts the
// remaining chunks.
func Fetch[T any](
	ctx context.Context,
	items []string,
	opts Options,
	fetchFunc func(context.Context, []string) ([]T, error),
) ([]T, error) {
	if len(items) == 0 || opts.MaxItems <= 0 {
		return make([]T, 0), nil
	}

	var results []T
	isFirst := true

	for start := 0; start < len(items); {
		end := start
		currentLength := 0

		// Fit as many items as possible within both limits
		for end < len(items) && (end-start) < opts.MaxItems {
			itemLength := len(items[end])
			if opts.MaxTotalLength > 0 && currentLength+itemLength > opts.MaxTotalLength {
				break
			}
			currentLength += itemLength
			end++
		}

		// Take at least one item so oversized items still go out alone
		if end == start {
			end = start + 1
		}

		chunk := items[start:end]
		start = end

		if opts.Delay > 0 && !isFirst {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(opts.Delay):
			}
		}
		isFirst = false

		chunkResult, err := fetchFunc(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch chunk: %w", err)
		}

		results = append(results, chunkResult...)
	}

	return results, nil
}
