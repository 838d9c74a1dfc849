package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"shop-api/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// fixed window counter; the expiry is set by the request that opens the window
var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit allows max requests per client IP per window for the routes it
// wraps. A nil client disables the limit and Redis errors let the request through.
func RateLimit(rdb *redis.Client, scope string, max int, window time.Duration, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rdb == nil || max <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "ratelimit:" + scope + ":" + clientIP(r)

			count, err := rateLimitScript.Run(r.Context(), rdb, []string{key}, window.Milliseconds()).Int()
			if err != nil {
				logger.Warn("Rate limiter unavailable", zap.Error(err), zap.String("scope", scope))
				next.ServeHTTP(w, r)
				return
			}

			if count > max {
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				logger.Warn("Rate limit exceeded",
					zap.String("scope", scope),
					zap.String("ip", clientIP(r)),
					zap.Int("count", count),
				)
				utils.ResponseTooManyRequests(w, "Too many requests, please try again later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
