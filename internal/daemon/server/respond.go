package server

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
)

// writeJSON encodes v before touching the response, so an encoding failure
// becomes a clean 500 instead of a truncated 200.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("[http] write response: %v", err)
	}
	return nil
}

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	_ = writeJSON(w, status, errorBody{Error: msg})
}

func writeErrorDetails(w http.ResponseWriter, status int, msg, details string) {
	_ = writeJSON(w, status, errorBody{Error: msg, Details: details})
}
