// Package cache provides a two-level byte cache for synthesized narration:
// an in-memory LRU in front of a compressed on-disk store. Keys are
// content hashes, so identical narration requests never hit the vendor
// twice.
package cache
