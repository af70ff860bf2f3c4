// internal/handler/system_handler.go
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/unclebandit/customer-service/internal/logs"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// SystemHandler serves operational endpoints.
type SystemHandler struct {
	DB Pinger
}

func NewSystemHandler(db Pinger) *SystemHandler {
	return &SystemHandler{DB: db}
}

// Health reports 200 when the store answers a ping, 503 otherwise.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, code := "ok", http.StatusOK
	if err := h.DB.PingContext(ctx); err != nil {
		logs.FromContext(r.Context()).WithError(err).Warn("health check failed")
		status, code = "unavailable", http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}

// OpenAPI serves the API description.
func (h *SystemHandler) OpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(openAPIDoc)
}

var customerSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id":      map[string]any{"type": "integer", "readOnly": true},
		"name":    map[string]any{"type": "string", "nullable": true},
		"address": map[string]any{"type": "string", "nullable": true},
		"salary":  map[string]any{"type": "number", "format": "double", "nullable": true},
	},
}

var envelopeSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"message": map[string]any{"type": "string"},
		"success": map[string]any{"type": "boolean"},
		"data":    map[string]any{"$ref": "#/components/schemas/Customer", "nullable": true},
	},
}

func envelopeResponse(description string) map[string]any {
	return map[string]any{
		"description": description,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/CustomerResponse"},
			},
		},
	}
}

var openAPIDoc = map[string]any{
	"openapi": "3.0.1",
	"info": map[string]any{
		"title":       "REST Customer Management System",
		"description": "A RESTful API for managing customer information.",
		"version":     "1.0.0",
	},
	"tags": []any{
		map[string]any{"name": "Customer Controller", "description": "To manage customer details"},
	},
	"paths": map[string]any{
		"/customer/add-customer": map[string]any{
			"post": map[string]any{
				"tags":        []string{"Customer Controller"},
				"operationId": "addCustomer",
				"requestBody": map[string]any{
					"content": map[string]any{
						"application/json": map[string]any{
							"schema": map[string]any{"$ref": "#/components/schemas/Customer"},
						},
					},
				},
				"responses": map[string]any{
					"201": envelopeResponse("Customer Added Successfully"),
					"400": envelopeResponse("Customer data is required"),
					"500": envelopeResponse("Failed to save customer"),
				},
			},
		},
	},
	"components": map[string]any{
		"schemas": map[string]any{
			"Customer":         customerSchema,
			"CustomerResponse": envelopeSchema,
		},
	},
}
