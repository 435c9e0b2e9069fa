package client

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortlink/internal/domain"
)

// captureOutput captures stdout for testing print statements
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)

	origStdout := os.Stdout
	os.Stdout = w

	outputChan := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		outputChan <- buf.String()
	}()

	fn()

	w.Close()
	os.Stdout = origStdout

	output := <-outputChan
	r.Close()

	return output
}

func TestNewCommands(t *testing.T) {
	client := NewClient("http://localhost:8080")
	commands := NewCommands(client)

	assert.NotNil(t, commands)
	assert.Equal(t, client, commands.client)
}

func TestCommands_Create(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		expected := sampleRecord("abc1234")

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusCreated, expected, "")
		}))
		defer server.Close()

		commands := NewCommands(NewClient(server.URL))

		output := captureOutput(t, func() {
			err := commands.Create(context.Background(), "https://example.com")
			assert.NoError(t, err)
		})

		assert.Contains(t, output, "Short URL created:")
		assert.Contains(t, output, "abc1234")
		assert.Contains(t, output, "http://sho.rt/abc1234")
		assert.Contains(t, output, "https://example.com")
		assert.Contains(t, output, "Expires At:")
	})

	t.Run("creation error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusBadRequest, nil, "invalid URL")
		}))
		defer server.Close()

		commands := NewCommands(NewClient(server.URL))

		err := commands.Create(context.Background(), "invalid-url")
		assert.Error(t, err)
	})
}

func TestCommands_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		expected := sampleRecord("abc1234")

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusOK, expected, "")
		}))
		defer server.Close()

		commands := NewCommands(NewClient(server.URL))

		output := captureOutput(t, func() {
			err := commands.Get(context.Background(), "abc1234")
			assert.NoError(t, err)
		})

		assert.Contains(t, output, "URL Information:")
		assert.Contains(t, output, "abc1234")
		assert.Contains(t, output, "Clicks: 7")
	})

	t.Run("not found prints a notice instead of failing", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusNotFound, nil, "URL not found")
		}))
		defer server.Close()

		commands := NewCommands(NewClient(server.URL))

		output := captureOutput(t, func() {
			err := commands.Get(context.Background(), "missing")
			assert.NoError(t, err)
		})

		assert.Contains(t, output, "Short code 'missing' not found")
	})
}

func TestCommands_Delete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusOK, nil, "URL deleted successfully")
		}))
		defer server.Close()

		commands := NewCommands(NewClient(server.URL))

		output := captureOutput(t, func() {
			err := commands.Delete(context.Background(), "abc1234")
			assert.NoError(t, err)
		})

		assert.Contains(t, output, "deleted successfully")
	})

	t.Run("not found prints a notice instead of failing", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusNotFound, nil, "URL not found")
		}))
		defer server.Close()

		commands := NewCommands(NewClient(server.URL))

		output := captureOutput(t, func() {
			err := commands.Delete(context.Background(), "missing")
			assert.NoError(t, err)
		})

		assert.Contains(t, output, "Short code 'missing' not found")
	})
}

func TestCommands_List(t *testing.T) {
	t.Run("table output", func(t *testing.T) {
		records := []*domain.URLRecord{sampleRecord("abc1234"), sampleRecord("def5678")}
		records[1].LongURL = "https://example.com/" + string(bytes.Repeat([]byte("x"), 60))

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusOK, records, "")
		}))
		defer server.Close()

		commands := NewCommands(NewClient(server.URL))

		output := captureOutput(t, func() {
			err := commands.List(context.Background())
			assert.NoError(t, err)
		})

		assert.Contains(t, output, "Code")
		assert.Contains(t, output, "abc1234")
		assert.Contains(t, output, "def5678")
		// Long URLs are truncated for the table
		assert.Contains(t, output, "...")
	})

	t.Run("empty list", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusOK, []*domain.URLRecord{}, "")
		}))
		defer server.Close()

		commands := NewCommands(NewClient(server.URL))

		output := captureOutput(t, func() {
			err := commands.List(context.Background())
			assert.NoError(t, err)
		})

		assert.Contains(t, output, "No URLs found")
	})
}
