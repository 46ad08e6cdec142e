// Package contentcache is the typed caching layer for derived content
// values. It maps each kind of derived value to a namespace with its own
// TTL, performs cache-aside reads backed by the metrics engine, and clears
// a user's derived entries after content mutations.
//
// Namespaces and TTLs:
//
//	content      1h   generation results, keyed by request parameters
//	stats        30m  per-user counters
//	analytics    30m  per-user, per-date-range aggregates
//	performance  1h   per-user scored recent content
//
// The stats, analytics, and performance namespaces are user-scoped and
// cleared by InvalidateUser. The content namespace is shared across users
// and only ever expires by TTL; reusing a slightly stale generation result
// is the cache's explicit trade-off against provider cost.
//
// Derived values are recomputable, so every cache failure degrades to a
// recomputation rather than an error. Only metrics-engine failures, which
// mean the underlying store could not be read, propagate to callers.
package contentcache
