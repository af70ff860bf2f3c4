// internal/dto/response.go
package dto

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope every customer endpoint answers with.
// Data is nil, and serialized as null, whenever Success is false.
type Response[T any] struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
	Data    *T     `json:"data"`
}

func Ok[T any](message string, data *T) Response[T] {
	return Response[T]{Message: message, Success: true, Data: data}
}

func Fail[T any](message string) Response[T] {
	return Response[T]{Message: message, Success: false}
}

// Write encodes the envelope as the body of a response with the given status.
func (r Response[T]) Write(w http.ResponseWriter, status int) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(r)
}
