package dedupe

// Option applies a configuration option to the memory guard.
type Option func(*memoryGuard)

// WithMaxSize bounds the number of keys kept in memory. Once full, the
// oldest key is evicted to make room. Non-positive means unbounded.
func WithMaxSize(n int) Option {
	return func(g *memoryGuard) {
		g.maxSize = n
	}
}
