package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/rook-computer/framekit/internal/loop"
	"github.com/rook-computer/framekit/internal/window"
)

// maxRateHz bounds requested rates; anything faster starves the loop.
const maxRateHz = 1000

const maxBodyBytes = 4 << 10

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type ratesRequest struct {
	UpdateHz float64 `json:"update_hz"`
	DrawHz   float64 `json:"draw_hz"`
}

func apiV1RouterWithDeps(deps APIV1Deps) http.Handler {
	deps = deps.withDefaults()
	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) { handleStatus(w, r, deps) })
	mux.HandleFunc("/views", func(w http.ResponseWriter, r *http.Request) { handleViews(w, r, deps) })
	mux.HandleFunc("/views/", func(w http.ResponseWriter, r *http.Request) { handleViews(w, r, deps) })
	mux.HandleFunc("/rates", func(w http.ResponseWriter, r *http.Request) { handleRates(w, r, deps) })
	mux.HandleFunc("/frame.png", func(w http.ResponseWriter, r *http.Request) { handleFrame(w, r, deps) })
	return mux
}

func handleStatus(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, deps.Status.Snapshot())
}

func handleViews(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	// GET /views -> registered names and the current one
	// POST /views/{name} -> show that view
	name := strings.Trim(strings.TrimPrefix(r.URL.Path, "/views"), "/")
	if name == "" {
		if r.Method != http.MethodGet {
			writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
			return
		}
		writeJSON(w, http.StatusOK, deps.Views.Snapshot())
		return
	}
	if strings.Contains(name, "/") {
		writeAPIError(w, http.StatusNotFound, "not_found", "not found")
		return
	}
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if !deps.Views.Has(name) {
		writeAPIError(w, http.StatusNotFound, "view_not_found", "view not found")
		return
	}

	if err := deps.Switcher.SwitchView(r.Context(), name); err != nil {
		switch {
		case errors.Is(err, window.ErrClosed), errors.Is(err, loop.ErrStopped):
			writeAPIError(w, http.StatusServiceUnavailable, "window_closed", err.Error())
		case errors.Is(err, window.ErrPolicyConflict):
			writeAPIError(w, http.StatusConflict, "policy_conflict", err.Error())
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			writeAPIError(w, http.StatusGatewayTimeout, "timeout", err.Error())
		default:
			writeAPIError(w, http.StatusInternalServerError, "switch_failed", err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func handleRates(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	var req ratesRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	if err := validateRate("update_hz", req.UpdateHz); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_rate", err.Error())
		return
	}
	if err := validateRate("draw_hz", req.DrawHz); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_rate", err.Error())
		return
	}
	if req.UpdateHz == 0 && req.DrawHz == 0 {
		writeAPIError(w, http.StatusBadRequest, "invalid_rate", "update_hz or draw_hz is required")
		return
	}

	// Applied by the loop on its next heartbeat.
	deps.Rates.Set(req.UpdateHz, req.DrawHz)
	writeJSON(w, http.StatusAccepted, okResponse{OK: true})
}

func validateRate(field string, hz float64) error {
	if math.IsNaN(hz) || hz < 0 || hz > maxRateHz {
		return &window.ConfigError{Field: field, Value: hz, Err: errRateRange}
	}
	return nil
}

var errRateRange = errors.New("must be between 0 and " + strconv.Itoa(maxRateHz))

func handleFrame(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	data, err := deps.Frames.FramePNG(r.Context())
	if err != nil {
		writeAPIError(w, http.StatusServiceUnavailable, "frame_unavailable", err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
