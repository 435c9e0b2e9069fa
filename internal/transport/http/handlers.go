package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"shortlink/internal/domain"
	"shortlink/internal/service"
)

// response is the JSON envelope used by all API endpoints
type response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	LongURL string `json:"longUrl,omitempty"`
}

// healthResponse is the payload returned by GET /health
type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Handler holds the HTTP handlers for the URL shortener
type Handler struct {
	shortener service.URLShortener
}

// NewHandler creates a new HTTP handler
func NewHandler(shortener service.URLShortener) *Handler {
	return &Handler{shortener: shortener}
}

// Shorten handles POST /api/url/shorten
func (h *Handler) Shorten(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req domain.ShortenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[ERROR] Invalid JSON in shorten request: %v", err)
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.LongURL == "" {
		writeError(w, http.StatusBadRequest, "Please provide a URL to shorten")
		return
	}

	record, err := h.shortener.Create(r.Context(), req.LongURL)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidURL) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[ERROR] Failed to create short URL for '%s': %v", req.LongURL, err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusCreated, response{Success: true, Data: record})
}

// ListURLs handles GET /api/url/all
func (h *Handler) ListURLs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	records, err := h.shortener.List(r.Context())
	if err != nil {
		log.Printf("[ERROR] Failed to list URLs: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if records == nil {
		records = []*domain.URLRecord{}
	}

	writeJSON(w, http.StatusOK, response{Success: true, Data: records})
}

// Analytics handles GET /api/url/analytics/{code}
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	code := strings.TrimPrefix(r.URL.Path, "/api/url/analytics/")
	if code == "" || strings.Contains(code, "/") {
		writeError(w, http.StatusBadRequest, "URL code is required")
		return
	}

	record, err := h.shortener.Analytics(r.Context(), code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "URL not found")
			return
		}
		log.Printf("[ERROR] Failed to get analytics for code '%s': %v", code, err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, response{Success: true, Data: record})
}

// DeleteURL handles DELETE /api/url/{code}
func (h *Handler) DeleteURL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	code := strings.TrimPrefix(r.URL.Path, "/api/url/")
	if code == "" || strings.Contains(code, "/") {
		writeError(w, http.StatusBadRequest, "URL code is required")
		return
	}

	if err := h.shortener.Delete(r.Context(), code); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "URL not found")
			return
		}
		log.Printf("[ERROR] Failed to delete URL with code '%s': %v", code, err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, response{Success: true, Message: "URL deleted successfully"})
}

// Redirect handles GET /{code}. Browser requests get a 302; requests that
// accept JSON get the long URL in the body so frontend callers can follow it
// themselves.
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimPrefix(r.URL.Path, "/")
	if code == "" || strings.Contains(code, "/") {
		http.NotFound(w, r)
		return
	}

	longURL, err := h.shortener.Resolve(r.Context(), code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "URL not found")
			return
		}
		log.Printf("[ERROR] Failed to resolve code '%s': %v", code, err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if acceptsJSON(r) {
		writeJSON(w, http.StatusOK, response{Success: true, LongURL: longURL})
		return
	}

	http.Redirect(w, r, longURL, http.StatusFound)
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// acceptsJSON reports whether the caller wants the long URL as JSON instead
// of a 302 redirect
func acceptsJSON(r *http.Request) bool {
	if r.Header.Get("X-Requested-With") == "XMLHttpRequest" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[ERROR] Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, response{Success: false, Message: message})
}
