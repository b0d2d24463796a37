package middleware

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"
)

// MessageInternalError is the generic body for unexpected failures
const MessageInternalError = "Erro interno no servidor"

// Recovery turns handler panics into a logged 500
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error("panic while handling request",
					zap.Any("panic", rec),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("request_id", GetRequestID(r.Context())),
					zap.ByteString("stack", debug.Stack()),
				)
				writeMessage(w, http.StatusInternalServerError, MessageInternalError)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
