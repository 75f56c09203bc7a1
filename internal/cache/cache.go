package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// AnalysisCache memoizes model analyses. Optional: a nil cache in the
// services disables it.
type AnalysisCache interface {
	Get(ctx context.Context, key string) (analysis string, hit bool, err error)
	Set(ctx context.Context, key, analysis string, ttl time.Duration) error
}

// Key derives a stable cache key from the domain, the target language,
// and the raw image bytes.
func Key(domain, language string, image []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0})
	h.Write([]byte(language))
	h.Write([]byte{0})
	h.Write(image)
	return "analysis:" + hex.EncodeToString(h.Sum(nil))
}
