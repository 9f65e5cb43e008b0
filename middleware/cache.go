// SPDX-License-Identifier: MIT

package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-strut/strut/cache"
	"github.com/go-strut/strut/log"
)

// cachedResponse is the serialized form a cached response takes in the
// backing store.
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// ResponseCache returns a middleware that caches successful GET
// responses in the given store for ttl. Cache state is reported via the
// X-Cache header (HIT or MISS). Only 200 responses are stored.
func ResponseCache(store cache.Cache, ttl time.Duration) func(http.Handler) http.Handler {
	logger := log.WithComponent("response-cache")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := "resp:" + r.URL.RequestURI()

			if data, ok := store.Get(key); ok {
				var cached cachedResponse
				err := json.Unmarshal(data, &cached)
				if err == nil {
					if cached.ContentType != "" {
						w.Header().Set("Content-Type", cached.ContentType)
					}
					w.Header().Set("X-Cache", "HIT")
					w.WriteHeader(cached.Status)
					_, _ = w.Write(cached.Body)
					return
				}
				logger.Warn().Err(err).Str("key", key).Msg("dropping undecodable cache entry")
				store.Delete(key)
			}

			rec := newRecordingWriter(w)
			rec.Header().Set("X-Cache", "MISS")

			next.ServeHTTP(rec, r)

			if rec.statusCode != http.StatusOK {
				return
			}
			data, err := json.Marshal(cachedResponse{
				Status:      rec.statusCode,
				ContentType: rec.Header().Get("Content-Type"),
				Body:        rec.body,
			})
			if err != nil {
				logger.Warn().Err(err).Str("key", key).Msg("cache entry marshal failed")
				return
			}
			store.Set(key, data, ttl)
		})
	}
}

// recordingWriter buffers a copy of the response body alongside the
// pass-through write, so the response can be cached after serving.
type recordingWriter struct {
	*statusWriter
	body []byte
}

func newRecordingWriter(w http.ResponseWriter) *recordingWriter {
	return &recordingWriter{statusWriter: newStatusWriter(w)}
}

func (rw *recordingWriter) Write(b []byte) (int, error) {
	n, err := rw.statusWriter.Write(b)
	rw.body = append(rw.body, b[:n]...)
	return n, err
}
