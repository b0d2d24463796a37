// Package middleware holds the HTTP middleware shared by every route.
package middleware

import (
	"net/http"

	"dconn.dev/portfolio-api/internal/models"
)

// writeMessage writes a {"message": ...} JSON body
func writeMessage(w http.ResponseWriter, status int, message string) {
	body, err := models.Marshal(map[string]string{"message": message})
	if err != nil {
		http.Error(w, message, status)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}
