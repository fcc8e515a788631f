package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/sammcj/hfscout/huggingface"
)

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error      string           `json:"error"`
	Kind       huggingface.Kind `json:"kind"`
	Title      string           `json:"title,omitempty"`
	Suggestion string           `json:"suggestion,omitempty"`
}

// statusForKind maps an error kind to the HTTP status it is reported with
func statusForKind(kind huggingface.Kind) int {
	switch kind {
	case huggingface.KindNotFound:
		return http.StatusNotFound
	case huggingface.KindValidation:
		return http.StatusBadRequest
	case huggingface.KindNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError classifies err and writes it with the matching status
func writeError(w http.ResponseWriter, err error) {
	info := huggingface.ClassifyError(err)
	writeJSON(w, statusForKind(info.Kind), ErrorResponse{
		Error:      info.Message,
		Kind:       info.Kind,
		Title:      info.Title,
		Suggestion: info.Suggestion,
	})
}

// writeJSONError writes a validation failure that did not come from the registry
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg, Kind: huggingface.KindValidation})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
