package response //import "github.com/bookverse/bookverse/http/response"

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResponseHasCommonHeaders(t *testing.T) {
	r, err := http.NewRequest("GET", "/", nil)
	if err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		New(w, r).Write()
	})

	handler.ServeHTTP(w, r)
	resp := w.Result()

	headers := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
	}

	for header, expected := range headers {
		actual := resp.Header.Get(header)
		if actual != expected {
			t.Fatalf(`Unexpected header value, got %q instead of %q`, actual, expected)
		}
	}
}

func TestSuccessEnvelope(t *testing.T) {
	r, _ := http.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	OK(w, r, map[string]string{"hello": "world"})

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Unexpected status code %d", resp.StatusCode)
	}

	var envelope Envelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("Failed to decode envelope: %v", err)
	}
	if !envelope.Success {
		t.Errorf("Expected success envelope")
	}
	if envelope.Message != "" {
		t.Errorf("Unexpected message %q", envelope.Message)
	}
}

func TestErrorEnvelope(t *testing.T) {
	r, _ := http.NewRequest("POST", "/", nil)
	w := httptest.NewRecorder()

	BadRequest(w, r, errors.New("title is required"))

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Unexpected status code %d", resp.StatusCode)
	}

	var envelope Envelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("Failed to decode envelope: %v", err)
	}
	if envelope.Success {
		t.Errorf("Expected failure envelope")
	}
	if envelope.Message != "title is required" {
		t.Errorf("Expected first violation message, got %q", envelope.Message)
	}
}

func TestServerErrorHidesDetails(t *testing.T) {
	r, _ := http.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	ServerError(w, r, errors.New("dial tcp 127.0.0.1: connection refused"))

	var envelope Envelope
	if err := json.NewDecoder(w.Result().Body).Decode(&envelope); err != nil {
		t.Fatalf("Failed to decode envelope: %v", err)
	}
	if envelope.Message != "internal server error" {
		t.Errorf("Internal details leaked: %q", envelope.Message)
	}
}
