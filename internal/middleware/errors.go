package middleware

import (
	"encoding/json"
	"net/http"
)

// writeError writes the API's JSON error envelope. Middleware cannot import
// the handler package, so the shape is repeated here.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]map[string]string{
		"error": {"code": code, "message": message},
	})
}
