package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shortlink/internal/domain"
	"shortlink/internal/service/mocks"
)

func testRecord(code string) *domain.URLRecord {
	now := time.Now().UTC()
	return &domain.URLRecord{
		Code:      code,
		LongURL:   "https://example.com",
		ShortURL:  "http://sho.rt/" + code,
		Clicks:    3,
		CreatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
	}
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func TestShorten(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		body       string
		setupMocks func(*mocks.URLShortener)
		wantStatus int
		wantOK     bool
	}{
		{
			name:   "created",
			method: http.MethodPost,
			body:   `{"longUrl":"https://example.com"}`,
			setupMocks: func(s *mocks.URLShortener) {
				s.On("Create", mock.Anything, "https://example.com").Return(testRecord("abc1234"), nil)
			},
			wantStatus: http.StatusCreated,
			wantOK:     true,
		},
		{
			name:       "method not allowed",
			method:     http.MethodGet,
			setupMocks: func(s *mocks.URLShortener) {},
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "invalid JSON",
			method:     http.MethodPost,
			body:       `{`,
			setupMocks: func(s *mocks.URLShortener) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty URL",
			method:     http.MethodPost,
			body:       `{"longUrl":""}`,
			setupMocks: func(s *mocks.URLShortener) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "invalid URL",
			method: http.MethodPost,
			body:   `{"longUrl":"not-a-url"}`,
			setupMocks: func(s *mocks.URLShortener) {
				s.On("Create", mock.Anything, "not-a-url").Return(nil, domain.ErrInvalidURL)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "server error",
			method: http.MethodPost,
			body:   `{"longUrl":"https://example.com"}`,
			setupMocks: func(s *mocks.URLShortener) {
				s.On("Create", mock.Anything, "https://example.com").Return(nil, assert.AnError)
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shortener := &mocks.URLShortener{}
			tt.setupMocks(shortener)

			handler := NewHandler(shortener)
			req := httptest.NewRequest(tt.method, "/api/url/shorten", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			handler.Shorten(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			payload := decodeResponse(t, rec)
			assert.Equal(t, tt.wantOK, payload["success"])
			shortener.AssertExpectations(t)
		})
	}
}

func TestRedirectBrowser(t *testing.T) {
	shortener := &mocks.URLShortener{}
	shortener.On("Resolve", mock.Anything, "abc1234").Return("https://example.com", nil)

	handler := NewHandler(shortener)
	req := httptest.NewRequest(http.MethodGet, "/abc1234", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()

	handler.Redirect(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://example.com", rec.Header().Get("Location"))
}

func TestRedirectJSON(t *testing.T) {
	shortener := &mocks.URLShortener{}
	shortener.On("Resolve", mock.Anything, "abc1234").Return("https://example.com", nil)

	handler := NewHandler(shortener)
	req := httptest.NewRequest(http.MethodGet, "/abc1234", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()

	handler.Redirect(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	payload := decodeResponse(t, rec)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "https://example.com", payload["longUrl"])
}

func TestRedirectXHR(t *testing.T) {
	shortener := &mocks.URLShortener{}
	shortener.On("Resolve", mock.Anything, "abc1234").Return("https://example.com", nil)

	handler := NewHandler(shortener)
	req := httptest.NewRequest(http.MethodGet, "/abc1234", nil)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	rec := httptest.NewRecorder()

	handler.Redirect(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	payload := decodeResponse(t, rec)
	assert.Equal(t, "https://example.com", payload["longUrl"])
}

func TestRedirectNotFound(t *testing.T) {
	shortener := &mocks.URLShortener{}
	shortener.On("Resolve", mock.Anything, "missing").Return("", domain.ErrNotFound)

	handler := NewHandler(shortener)
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rec := httptest.NewRecorder()

	handler.Redirect(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	payload := decodeResponse(t, rec)
	assert.Equal(t, false, payload["success"])
}

func TestRedirectServerError(t *testing.T) {
	shortener := &mocks.URLShortener{}
	shortener.On("Resolve", mock.Anything, "abc1234").Return("", assert.AnError)

	handler := NewHandler(shortener)
	req := httptest.NewRequest(http.MethodGet, "/abc1234", nil)
	rec := httptest.NewRecorder()

	handler.Redirect(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// Internal detail never leaks to the redirect caller
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}

func TestAnalytics(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		shortener := &mocks.URLShortener{}
		shortener.On("Analytics", mock.Anything, "abc1234").Return(testRecord("abc1234"), nil)

		handler := NewHandler(shortener)
		req := httptest.NewRequest(http.MethodGet, "/api/url/analytics/abc1234", nil)
		rec := httptest.NewRecorder()

		handler.Analytics(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		payload := decodeResponse(t, rec)
		data := payload["data"].(map[string]any)
		assert.Equal(t, "abc1234", data["code"])
		assert.Equal(t, float64(3), data["clicks"])
		assert.Equal(t, "http://sho.rt/abc1234", data["shortUrl"])
	})

	t.Run("not found", func(t *testing.T) {
		shortener := &mocks.URLShortener{}
		shortener.On("Analytics", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

		handler := NewHandler(shortener)
		req := httptest.NewRequest(http.MethodGet, "/api/url/analytics/missing", nil)
		rec := httptest.NewRecorder()

		handler.Analytics(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing code", func(t *testing.T) {
		shortener := &mocks.URLShortener{}

		handler := NewHandler(shortener)
		req := httptest.NewRequest(http.MethodGet, "/api/url/analytics/", nil)
		rec := httptest.NewRecorder()

		handler.Analytics(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeleteURL(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		shortener := &mocks.URLShortener{}
		shortener.On("Delete", mock.Anything, "abc1234").Return(nil)

		handler := NewHandler(shortener)
		req := httptest.NewRequest(http.MethodDelete, "/api/url/abc1234", nil)
		rec := httptest.NewRecorder()

		handler.DeleteURL(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		payload := decodeResponse(t, rec)
		assert.Equal(t, true, payload["success"])
	})

	t.Run("not found", func(t *testing.T) {
		shortener := &mocks.URLShortener{}
		shortener.On("Delete", mock.Anything, "missing").Return(domain.ErrNotFound)

		handler := NewHandler(shortener)
		req := httptest.NewRequest(http.MethodDelete, "/api/url/missing", nil)
		rec := httptest.NewRecorder()

		handler.DeleteURL(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListURLs(t *testing.T) {
	t.Run("with records", func(t *testing.T) {
		shortener := &mocks.URLShortener{}
		shortener.On("List", mock.Anything).
			Return([]*domain.URLRecord{testRecord("abc1234"), testRecord("def5678")}, nil)

		handler := NewHandler(shortener)
		req := httptest.NewRequest(http.MethodGet, "/api/url/all", nil)
		rec := httptest.NewRecorder()

		handler.ListURLs(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		payload := decodeResponse(t, rec)
		assert.Len(t, payload["data"], 2)
	})

	t.Run("empty list is a JSON array", func(t *testing.T) {
		shortener := &mocks.URLShortener{}
		shortener.On("List", mock.Anything).Return([]*domain.URLRecord(nil), nil)

		handler := NewHandler(shortener)
		req := httptest.NewRequest(http.MethodGet, "/api/url/all", nil)
		rec := httptest.NewRecorder()

		handler.ListURLs(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"data":[]`)
	})
}

func TestHealth(t *testing.T) {
	handler := NewHandler(&mocks.URLShortener{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	handler.Health(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var payload healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "ok", payload.Status)

	_, err := time.Parse(time.RFC3339, payload.Timestamp)
	assert.NoError(t, err)
}

func TestServerRouting(t *testing.T) {
	shortener := &mocks.URLShortener{}
	shortener.On("Resolve", mock.Anything, "abc1234").Return("https://example.com", nil)
	shortener.On("Analytics", mock.Anything, "abc1234").Return(testRecord("abc1234"), nil)
	shortener.On("List", mock.Anything).Return([]*domain.URLRecord{}, nil)
	shortener.On("Delete", mock.Anything, "abc1234").Return(nil)
	shortener.On("Create", mock.Anything, "https://example.com").Return(testRecord("abc1234"), nil)

	server := NewServer(shortener, "0", false)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"shorten", http.MethodPost, "/api/url/shorten", `{"longUrl":"https://example.com"}`, http.StatusCreated},
		{"list", http.MethodGet, "/api/url/all", "", http.StatusOK},
		{"analytics", http.MethodGet, "/api/url/analytics/abc1234", "", http.StatusOK},
		{"delete", http.MethodDelete, "/api/url/abc1234", "", http.StatusOK},
		{"redirect", http.MethodGet, "/abc1234", "", http.StatusFound},
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK},
		{"root", http.MethodGet, "/", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			rec := httptest.NewRecorder()

			server.server.Handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
