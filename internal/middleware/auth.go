package middleware

import (
	"crypto/subtle"
	"net/http"

	"go.uber.org/zap"

	"dconn.dev/portfolio-api/internal/metrics"
)

// PasswordHeader carries the shared secret on protected routes
const PasswordHeader = "x-api-password"

// MessageInvalidPassword is returned with 403 when the header secret is wrong or absent
const MessageInvalidPassword = "Acesso negado. Senha inválida."

// SecretMatches reports whether got equals want. An empty want never matches.
func SecretMatches(got, want string) bool {
	if got == "" || want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// Auth rejects requests whose x-api-password header does not equal secret
func Auth(secret string, logger *zap.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !SecretMatches(r.Header.Get(PasswordHeader), secret) {
				m.AuthFailure("header")
				logger.Warn("rejected request with invalid password",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("request_id", GetRequestID(r.Context())),
				)
				writeMessage(w, http.StatusForbidden, MessageInvalidPassword)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
