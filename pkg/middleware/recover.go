package middleware

import (
	"net/http"
	"runtime/debug"
	"strings"

	"shop-api/pkg/utils"

	"go.uber.org/zap"
)

// Recover middleware. In debug mode the stack trace is returned in errors.
func Recover(logger *zap.Logger, debugMode bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					logger.Error("PANIC recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
						zap.Stack("stack"),
					)

					var detail any
					if debugMode {
						detail = strings.Split(strings.TrimSpace(string(debug.Stack())), "\n")
					}
					utils.ResponseJSON(w, http.StatusInternalServerError, false, "Internal server error", nil, detail)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
