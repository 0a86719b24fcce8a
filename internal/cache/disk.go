package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// DiskCache is a persistent byte cache. Entries are zstd-compressed files
// named by their key; eviction drops the oldest files first when the cache
// grows past capacity.
type DiskCache struct {
	basePath string
	capacity int64
	size     int64

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	mu sync.Mutex
}

// NewDiskCache opens (or creates) a disk cache rooted at basePath.
func NewDiskCache(basePath string, capacity int64) (*DiskCache, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	dc := &DiskCache{
		basePath: basePath,
		capacity: capacity,
		encoder:  encoder,
		decoder:  decoder,
	}
	dc.size = dc.scanSize()
	return dc, nil
}

// Get reads and decompresses the entry for key, if present.
func (dc *DiskCache) Get(key string) ([]byte, bool) {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	compressed, err := os.ReadFile(dc.entryPath(key))
	if err != nil {
		return nil, false
	}
	data, err := dc.decoder.DecodeAll(compressed, nil)
	if err != nil {
		// Corrupted entry, drop it.
		_ = os.Remove(dc.entryPath(key))
		return nil, false
	}
	return data, true
}

// Put compresses and stores value under key, evicting old entries if the
// cache would overflow. Writes go through a temp file and rename.
func (dc *DiskCache) Put(key string, value []byte) error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	compressed := dc.encoder.EncodeAll(value, nil)
	if int64(len(compressed)) > dc.capacity {
		return ErrItemTooLarge
	}

	path := dc.entryPath(key)
	if prev, err := os.Stat(path); err == nil {
		dc.size -= prev.Size()
	}

	tmp, err := os.CreateTemp(dc.basePath, "entry-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to commit cache entry: %w", err)
	}

	dc.size += int64(len(compressed))
	dc.evictLocked()
	return nil
}

func (dc *DiskCache) entryPath(key string) string {
	return filepath.Join(dc.basePath, key+".zst")
}

func (dc *DiskCache) scanSize() int64 {
	var total int64
	entries, err := os.ReadDir(dc.basePath)
	if err != nil {
		return 0
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".zst" {
			continue
		}
		if info, err := e.Info(); err == nil {
			total += info.Size()
		}
	}
	return total
}

// evictLocked removes oldest entries until the cache fits its capacity.
func (dc *DiskCache) evictLocked() {
	if dc.size <= dc.capacity {
		return
	}

	entries, err := os.ReadDir(dc.basePath)
	if err != nil {
		return
	}
	type candidate struct {
		path string
		size int64
		mod  int64
	}
	var candidates []candidate
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".zst" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{
			path: filepath.Join(dc.basePath, e.Name()),
			size: info.Size(),
			mod:  info.ModTime().UnixNano(),
		})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].mod < candidates[j].mod })

	for _, c := range candidates {
		if dc.size <= dc.capacity {
			break
		}
		if err := os.Remove(c.path); err == nil {
			dc.size -= c.size
		}
	}
}

// Size reports the on-disk byte total of cache entries.
func (dc *DiskCache) Size() int64 {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	return dc.size
}

// Close releases the compression codecs.
func (dc *DiskCache) Close() {
	dc.encoder.Close()
	dc.decoder.Close()
}
