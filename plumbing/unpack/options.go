package unpack

const (
	// DefaultWorkers is the number of entries patched concurrently unless
	// WithWorkers says otherwise.
	DefaultWorkers = 1
	// DefaultCacheSize is the number of reconstructed bases kept in memory
	// unless WithCacheSize says otherwise.
	DefaultCacheSize = 64
)

// Option configures an Unpacker.
type Option func(*Unpacker)

// WithWorkers sets how many entries may be patched at the same time.
// Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(u *Unpacker) {
		if n > 0 {
			u.workers = n
		}
	}
}

// WithCacheSize sets how many objects are kept in the base cache. Zero
// disables the limit; negative values are ignored.
func WithCacheSize(n int) Option {
	return func(u *Unpacker) {
		if n >= 0 {
			u.cacheSize = n
		}
	}
}
