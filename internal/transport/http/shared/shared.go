// Package shared holds the JSON response helpers every handler uses, so the
// error envelope and status mapping live in exactly one place.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "bestbosses/pkg/domain-errors"
)

// WriteJSON writes a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError translates a domain error into the JSON error envelope.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	WriteJSON(w, dErrors.ToHTTPStatus(code), map[string]string{
		"error": string(code),
	})
}

// WriteErrorWith writes the error envelope with extra payload fields, used
// by the directory denial to carry the sample preview alongside the code.
func WriteErrorWith(w http.ResponseWriter, err error, extra map[string]any) {
	code := dErrors.CodeOf(err)
	body := map[string]any{"error": string(code)}
	for k, v := range extra {
		body[k] = v
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), body)
}
