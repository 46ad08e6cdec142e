// Package cache provides the caching primitives shared by the content
// caching layer: key derivation, store and codec interfaces, and the
// read-through service contract.
//
// # Overview
//
// The package exports four main interfaces and their default implementations:
//
//   - KeyCodec: derives fixed-length, deterministic cache keys from a
//     namespace and a parameter set
//   - KeySerializer: builds the canonical serialization the codec hashes
//   - Store: get/set/delete/clear over a key/value cache with per-entry TTL
//   - Codec: payload serialization shared by all store implementations
//
// # Key Derivation Strategy
//
// The default key codec serializes parameters with a reflection walk that is
// deterministic across runs: map entries are sorted, struct fields keep their
// declared order, and timestamps are canonicalized to UTC RFC 3339 so two
// logically identical date ranges always hash identically. The serialization
// is digested with xxhash and prefixed with the cleartext namespace:
//
//	codec := cache.NewKeyCodec()
//	key := codec.DeriveKey("analytics:u:42", rangeParams)
//	// "analytics:u:42:9f86d081884c7d65"
//
// Keeping the namespace (and any user scope embedded in it) in cleartext is
// what allows Store.Clear to invalidate by substring; the digest keeps the
// key length fixed regardless of parameter size.
//
// Keys are a performance cache concern, not a security boundary. The codec
// does not defend against adversarial collisions.
//
// # Miss Semantics
//
// Store.Get returns ErrNotFound for absent keys, expired entries, and
// backend failures alike. Business logic above the store never distinguishes
// "the cache is down" from "the value was not cached"; both are a miss.
//
// # See Also
//
// Package contentcache composes these primitives into the namespaced domain
// cache with invalidation-on-mutation. The internal cacheinfra package holds
// the fallback store, the redis adapter, and the degrading gateway.
package cache
