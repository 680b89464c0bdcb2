// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/ocms-menu/internal/menu"
)

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]any{
		"success": false,
		"error":   message,
	})
}

// writeJSONSuccess writes a JSON success response.
func writeJSONSuccess(w http.ResponseWriter, data map[string]any) {
	if data == nil {
		data = make(map[string]any)
	}
	data["success"] = true
	writeJSON(w, http.StatusOK, data)
}

// menuErrorStatus maps a menu failure to an HTTP status.
func menuErrorStatus(err error) int {
	switch {
	case errors.Is(err, menu.ErrItemNotFound),
		errors.Is(err, menu.ErrRootNodeNotFound),
		errors.Is(err, menu.ErrPrecondition):
		return http.StatusNotFound
	case errors.Is(err, menu.ErrConfiguration):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeMenuError logs server-side failures and writes a JSON error response.
func writeMenuError(w http.ResponseWriter, logger *slog.Logger, err error, args ...any) {
	status := menuErrorStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("menu request failed", append(args, "error", err)...)
		writeJSONError(w, status, "Internal Server Error")
		return
	}
	writeJSONError(w, status, err.Error())
}
