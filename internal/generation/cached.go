package generation

import (
	"context"
	"encoding/json"

	"github.com/charmbracelet/log"

	"storystudio/internal/cache"
	"storystudio/internal/narration"
)

// CachedService fronts a Service with a narration cache. Identical
// narration requests are served from cache instead of being re-billed at
// the vendor. Text and image generation pass through uncached, their
// outputs are not deterministic enough to reuse.
type CachedService struct {
	Service
	cache *cache.Cache
}

// NewCachedService wraps svc with c.
func NewCachedService(svc Service, c *cache.Cache) *CachedService {
	return &CachedService{Service: svc, cache: c}
}

func (s *CachedService) GenerateNarration(ctx context.Context, req narration.Request) (string, error) {
	keyBytes, err := json.Marshal(req)
	if err != nil {
		return s.Service.GenerateNarration(ctx, req)
	}
	key := cache.Key(keyBytes)

	if data, ok := s.cache.Get(key); ok {
		log.Debug("narration cache hit", "key", key[:12])
		return string(data), nil
	}

	audio, err := s.Service.GenerateNarration(ctx, req)
	if err != nil {
		return "", err
	}
	if err := s.cache.Put(key, []byte(audio)); err != nil {
		log.Warn("narration cache write failed", "err", err)
	}
	return audio, nil
}
