package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Key derives a cache key from arbitrary request bytes.
func Key(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Cache layers a memory LRU over a disk store. Disk hits are promoted into
// memory.
type Cache struct {
	memory *MemoryCache
	disk   *DiskCache
}

// New builds a two-level cache at basePath. memoryCapacity and
// diskCapacity are byte limits for the respective levels.
func New(basePath string, memoryCapacity, diskCapacity int64) (*Cache, error) {
	disk, err := NewDiskCache(basePath, diskCapacity)
	if err != nil {
		return nil, err
	}
	return &Cache{
		memory: NewMemoryCache(memoryCapacity),
		disk:   disk,
	}, nil
}

// Get checks memory first, then disk.
func (c *Cache) Get(key string) ([]byte, bool) {
	if data, ok := c.memory.Get(key); ok {
		return data, true
	}
	data, ok := c.disk.Get(key)
	if !ok {
		return nil, false
	}
	_ = c.memory.Put(key, data)
	return data, true
}

// Put stores into both levels. A value too large for one level still lands
// in the other.
func (c *Cache) Put(key string, value []byte) error {
	memErr := c.memory.Put(key, value)
	diskErr := c.disk.Put(key, value)
	if diskErr != nil {
		return diskErr
	}
	return memErr
}

// Close releases disk-level resources.
func (c *Cache) Close() {
	c.disk.Close()
}
