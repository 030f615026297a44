// Package dedupe tracks distinct keys for counting and report deduplication.
package dedupe

type options struct {
	capacity int
}

// Option applies a configuration option to a Deduper.
type Option func(*options)

// WithCapacity pre-sizes the set for the expected number of keys.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}
