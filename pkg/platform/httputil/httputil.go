// Package httputil provides the shared JSON response envelope for handlers.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "adonix/pkg/domain-errors"
)

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error to its HTTP status and error envelope.
// Internal errors never expose their description to the client, and
// InvalidParams keeps the bare {"error":"InvalidParams"} body public clients expect.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	body := map[string]string{"error": string(code)}

	var de *dErrors.Error
	if code != dErrors.CodeInternal && code != dErrors.CodeInvalidParams &&
		errors.As(err, &de) && de.Message != "" {
		body["error_description"] = de.Message
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), body)
}
