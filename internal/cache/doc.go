// Package cache provides a bounded, thread-safe LRU cache.
//
// The analysis keeps finished isovists here, keyed by the quantized
// viewpoint, so repeated runs over the same obstacles skip the ray casting:
//
//	c := cache.New[key, isovist.Polygon](4096)
//	c.Put(k, poly)
//	poly, ok := c.Get(k)
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
