package helpers

import (
	"encoding/json"
	"net/http"
)

// APIResponse is the standardized envelope for all API responses.
// Success reports whether the request did what it asked; Message is a
// human-readable summary shown by the frontend.
// swagger:model APIResponse
type APIResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    any             `json:"data,omitempty"`
	Meta    *PaginationMeta `json:"meta,omitempty"`
}

// WriteJSONSuccess sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with success true and the given message and data.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{Success: true, Message: message, Data: data})
}

// WriteJSONPaginated writes a success envelope that also carries pagination meta.
func WriteJSONPaginated(w http.ResponseWriter, statusCode int, message string, data any, meta PaginationMeta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{Success: true, Message: message, Data: data, Meta: &meta})
}

// WriteJSONError sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with success false and the given message.
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{Success: false, Message: message})
}
