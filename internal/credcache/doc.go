// Package credcache provides the shared credential cache for all vendor
// integrations.
//
// Every vendor historically reimplemented the same pattern: check an
// expiry timestamp in a JSON file, call the vendor's token endpoint when
// stale, write the new token back. This package centralizes that pattern
// behind two small interfaces:
//
//   - [Source] wraps one vendor's refresh call for one credential profile.
//   - [Store] persists tokens (file, memory, or environment backed).
//
// [Cache.Get] is the single entry point: a fresh cached token is returned
// without any network traffic; a stale or missing one triggers exactly one
// refresh, which is written back before being returned. Tokens are treated
// as stale a configurable skew before their actual expiry (default five
// minutes) so a token never dies mid-request.
//
// The cache is safe for concurrent use within one process. Concurrent CLI
// invocations may each refresh independently; the file store's atomic
// writes mean the last one wins and no entry is ever corrupt.
package credcache
