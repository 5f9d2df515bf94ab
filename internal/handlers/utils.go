package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rcastellanos/InvoiceRAG/internal/adapter"
	"github.com/rcastellanos/InvoiceRAG/pkg/logger_i"
)

var logRH *logger_i.Logger

func handlerLog() *logger_i.Logger {
	if logRH == nil {
		logRH = logger_i.NewLogger("handlers")
	}
	return logRH
}

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		handlerLog().Error("Error encoding response: %v", err)
	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, detail string, errorMessage string) {
	if detail != "" {
		errorMessage = errorMessage + " (" + detail + ")"
	}
	writeJsonResponse(w, httpCode, adapter.ErrorMessage(errorMessage))
}

func validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		handlerLog().Warn("context error", "error", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		handlerLog().Warn("context cancelled")
		return false
	default:
		return true

	}
}
