// Package cache provides the compile-once cache behind the pixel and
// sampler function caches.
//
// # Cache[K, V]
//
// Keys are comparable fingerprints; values are whatever the compile
// function produces. A key compiles at most once, even when many
// goroutines ask for it at the same time:
//
//	funcs := cache.New[pixel.PixelFuncID, pixel.Func]()
//	fn, err := funcs.GetOrCompile(id, func() (pixel.Func, error) {
//		return pixel.Compile(id, opts)
//	})
//
// Compile errors are cached too. A fingerprint that cannot be compiled
// fails fast on every later draw instead of recompiling.
//
// # Thread Safety
//
// Cache is safe for concurrent use. Lookups of existing entries take a
// read lock only. It must not be copied after creation (it contains a
// mutex).
package cache
