package repository

// IndexOption applies a configuration option to the RankIndex.
type IndexOption func(*indexConfig)

type indexConfig struct {
	capacityHint int
}

// WithCapacityHint pre-sizes the index for the expected entity count.
func WithCapacityHint(n int) IndexOption {
	return func(c *indexConfig) {
		if n > 0 {
			c.capacityHint = n
		}
	}
}
