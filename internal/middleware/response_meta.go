package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const responseMetaKey = "response_meta"

type responseMeta struct {
	start  time.Time
	values map[string]interface{}
}

// WithResponseMeta starts collecting envelope metadata for the request.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(responseMetaKey, &responseMeta{start: time.Now(), values: map[string]interface{}{}})
		c.Next()
	}
}

// SetMeta records a metadata entry. It is a no-op when WithResponseMeta is not installed.
func SetMeta(c *gin.Context, key string, value interface{}) {
	if meta := metaFrom(c); meta != nil {
		meta.values[key] = value
	}
}

// SetCacheHit records whether the payload was served from cache.
func SetCacheHit(c *gin.Context, hit bool) {
	SetMeta(c, "cache_hit", hit)
}

// ResponseMeta snapshots the collected metadata stamped with the elapsed processing time.
func ResponseMeta(c *gin.Context) map[string]interface{} {
	meta := metaFrom(c)
	if meta == nil {
		return nil
	}
	out := make(map[string]interface{}, len(meta.values)+1)
	for k, v := range meta.values {
		out[k] = v
	}
	out["processing_time_ms"] = time.Since(meta.start).Milliseconds()
	return out
}

func metaFrom(c *gin.Context) *responseMeta {
	if c == nil {
		return nil
	}
	value, ok := c.Get(responseMetaKey)
	if !ok {
		return nil
	}
	meta, _ := value.(*responseMeta)
	return meta
}
