package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hrmlabs/hrm-backend-go/internal/handler/http/response"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/jwt"
	"github.com/redis/go-redis/v9"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	ReplayedHeader    = "Idempotent-Replayed"

	idempotencyLockTTL = 30 * time.Second
)

type storedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// responseRecorder tees the response so it can be stored after the handler returns.
type responseRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func idempotencyKey(orgID, userID, path, key string) string {
	return fmt.Sprintf("idempotency:%s:%s:%s:%s", orgID, userID, path, key)
}

// Idempotency replays the stored response of a POST that already succeeded with the same
// Idempotency-Key, and rejects a duplicate that arrives while the first is still running.
// A nil client disables it. Redis failures let the request through.
func Idempotency(rdb redis.Cmdable, ttl time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		if rdb == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyHeader)
			if key == "" || r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := jwt.ClaimsFromContext(r.Context())
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			cacheKey := idempotencyKey(claims.OrganizationID, claims.UserID, r.URL.Path, key)
			lockKey := cacheKey + ":lock"

			cached, err := rdb.Get(ctx, cacheKey).Bytes()
			switch {
			case err == nil:
				var stored storedResponse
				if err := json.Unmarshal(cached, &stored); err == nil {
					w.Header().Set("Content-Type", "application/json")
					w.Header().Set(ReplayedHeader, "true")
					w.WriteHeader(stored.Status)
					_, _ = w.Write(stored.Body)
					return
				}
				logger.Warn("discarding unreadable idempotent response", slog.String("key", cacheKey))
			case !errors.Is(err, redis.Nil):
				logger.Warn("idempotency lookup failed", slog.Any("error", err))
				next.ServeHTTP(w, r)
				return
			}

			acquired, err := rdb.SetNX(ctx, lockKey, "1", idempotencyLockTTL).Result()
			if err != nil {
				logger.Warn("idempotency lock failed", slog.Any("error", err))
				next.ServeHTTP(w, r)
				return
			}
			if !acquired {
				response.Conflict(w, "A request with this Idempotency-Key is still being processed")
				return
			}

			rec := &responseRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			// Only successes are stored. A rejected run can be retried with the same key once the
			// organization's setup is fixed.
			if rec.status >= http.StatusOK && rec.status < http.StatusMultipleChoices {
				payload, err := json.Marshal(storedResponse{Status: rec.status, Body: rec.body.Bytes()})
				if err == nil {
					err = rdb.Set(ctx, cacheKey, payload, ttl).Err()
				}
				if err != nil {
					logger.Warn("failed to store idempotent response", slog.Any("error", err))
				}
			}
			if err := rdb.Del(ctx, lockKey).Err(); err != nil {
				logger.Warn("failed to release idempotency lock", slog.Any("error", err))
			}
		})
	}
}
