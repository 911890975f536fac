package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/bookverse/bookverse/config"
	"github.com/bookverse/bookverse/database"
	"github.com/bookverse/bookverse/http/response"
	"github.com/bookverse/bookverse/storage"
	"github.com/bookverse/bookverse/store"
	"github.com/bookverse/bookverse/worker"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	config.Opts = config.GetDefaultOptions()
	dir := t.TempDir()
	config.Opts.Data = dir
	config.Opts.DSN = filepath.Join(dir, "test.db")

	db, err := database.NewDB()
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	s := store.NewStore(db)
	localStorage := &storage.LocalStorage{Path: filepath.Join(dir, "uploads")}
	pool := worker.NewJanitorPool(s, localStorage, 1)

	router := mux.NewRouter()
	if err := Server(router, NewHandler(s, pool, localStorage)); err != nil {
		t.Fatalf("Failed to set up routes: %v", err)
	}

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, response.Envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var envelope response.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("Failed to decode envelope: %v", err)
	}
	return resp, envelope
}

func registerUser(t *testing.T, ts *httptest.Server, email, name string) string {
	t.Helper()

	resp, envelope := doJSON(t, http.MethodPost, ts.URL+"/api/auth/register", "", map[string]string{
		"email":    email,
		"password": "secret123",
		"name":     name,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Register returned %d: %s", resp.StatusCode, envelope.Message)
	}

	data := envelope.Data.(map[string]any)
	token, _ := data["token"].(string)
	if token == "" {
		t.Fatal("Register did not return a token")
	}
	return token
}

func createBookMultipart(t *testing.T, ts *httptest.Server, token string, fields map[string]string) map[string]any {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatal(err)
		}
	}
	writer.Close()

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/books", &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var envelope response.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Create book returned %d: %s", resp.StatusCode, envelope.Message)
	}
	return envelope.Data.(map[string]any)
}

func TestRegisterLoginReviewFlow(t *testing.T) {
	ts := newTestServer(t)

	authorToken := registerUser(t, ts, "author@example.com", "Author")
	registerUser(t, ts, "reviewer@example.com", "Reviewer")

	// Login works after registration.
	resp, envelope := doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", "", map[string]string{
		"email":    "reviewer@example.com",
		"password": "secret123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Login returned %d: %s", resp.StatusCode, envelope.Message)
	}
	reviewerToken := envelope.Data.(map[string]any)["token"].(string)

	book := createBookMultipart(t, ts, authorToken, map[string]string{
		"title":       "The Go Way",
		"author":      "R. Pike",
		"genre":       "Programming",
		"language":    "English",
		"description": "Idioms and interfaces",
		"content":     strings.Repeat("word ", 500),
		"chapters":    `[{"title":"Basics","startPage":1,"endPage":2,"subchapters":[{"title":"Types","page":1}]}]`,
	})
	bookID := int(book["id"].(float64))
	if book["coverImage"].(string) != storage.PlaceholderCover {
		t.Errorf("Expected placeholder cover, got %v", book["coverImage"])
	}
	if book["pageCount"].(float64) != 2 {
		t.Errorf("Expected 2 estimated pages for 500 words, got %v", book["pageCount"])
	}

	resp, envelope = doJSON(t, http.MethodPost, ts.URL+"/api/reviews", reviewerToken, map[string]any{
		"bookId":  bookID,
		"rating":  4,
		"comment": "solid read",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Create review returned %d: %s", resp.StatusCode, envelope.Message)
	}

	// Duplicate review is rejected, the original row survives.
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/reviews", reviewerToken, map[string]any{
		"bookId":  bookID,
		"rating":  5,
		"comment": "changed my mind",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Duplicate review returned %d, want 400", resp.StatusCode)
	}

	// The public detail view reflects the aggregated rating.
	resp, envelope = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/books/%d", ts.URL, bookID), "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Get book returned %d", resp.StatusCode)
	}
	detail := envelope.Data.(map[string]any)
	if detail["rating"].(float64) != 4 {
		t.Errorf("Expected rating 4, got %v", detail["rating"])
	}
	if detail["reviewCount"].(float64) != 1 {
		t.Errorf("Expected reviewCount 1, got %v", detail["reviewCount"])
	}
	chapters := detail["chapters"].([]any)
	if len(chapters) != 1 {
		t.Fatalf("Expected 1 chapter, got %d", len(chapters))
	}
}

func TestNonOwnerBookMutationForbidden(t *testing.T) {
	ts := newTestServer(t)

	authorToken := registerUser(t, ts, "author@example.com", "Author")
	strangerToken := registerUser(t, ts, "stranger@example.com", "Stranger")

	book := createBookMultipart(t, ts, authorToken, map[string]string{
		"title":       "Protected",
		"author":      "A. Uthor",
		"genre":       "Essay",
		"language":    "English",
		"description": "Owner-only",
		"content":     "short content",
	})
	bookID := int(book["id"].(float64))

	resp, _ := doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/books/%d", ts.URL, bookID), strangerToken,
		map[string]string{"title": "Hijacked"})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("Non-owner update returned %d, want 403", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/books/%d", ts.URL, bookID), strangerToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("Non-owner delete returned %d, want 403", resp.StatusCode)
	}

	// The book is untouched.
	resp, envelope := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/books/%d", ts.URL, bookID), "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Get book returned %d", resp.StatusCode)
	}
	if envelope.Data.(map[string]any)["title"].(string) != "Protected" {
		t.Error("Book was modified by a non-owner")
	}
}

func TestDuplicateRegisterRejected(t *testing.T) {
	ts := newTestServer(t)

	registerUser(t, ts, "dup@example.com", "First")

	resp, envelope := doJSON(t, http.MethodPost, ts.URL+"/api/auth/register", "", map[string]string{
		"email":    "dup@example.com",
		"password": "secret123",
		"name":     "Second",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Duplicate register returned %d, want 400", resp.StatusCode)
	}
	if envelope.Success {
		t.Error("Expected failure envelope")
	}
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/api/library", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("Anonymous library read returned %d, want 401", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/api/library", "not-a-token", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("Garbage token returned %d, want 401", resp.StatusCode)
	}
}

func TestLibraryFlow(t *testing.T) {
	ts := newTestServer(t)

	token := registerUser(t, ts, "reader@example.com", "Reader")
	book := createBookMultipart(t, ts, token, map[string]string{
		"title":       "Shelf Candidate",
		"author":      "B. Inder",
		"genre":       "Fiction",
		"language":    "English",
		"description": "For the shelf",
		"content":     "some content here",
	})
	bookID := int(book["id"].(float64))

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/library", token, map[string]int{"bookId": bookID})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Add to library returned %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/library", token, map[string]int{"bookId": bookID})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Duplicate add returned %d, want 400", resp.StatusCode)
	}

	// Progress derives the percentage server side.
	resp, envelope := doJSON(t, http.MethodPost, ts.URL+"/api/library/progress", token, map[string]int{
		"bookId":      bookID,
		"currentPage": 50,
		"totalPages":  200,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Upsert progress returned %d: %s", resp.StatusCode, envelope.Message)
	}
	if got := envelope.Data.(map[string]any)["progressPercent"].(float64); got != 25 {
		t.Errorf("Expected 25%% progress, got %v", got)
	}

	resp, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/library/%d", ts.URL, bookID), token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Remove from library returned %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/library/%d", ts.URL, bookID), token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("Second remove returned %d, want 404", resp.StatusCode)
	}
}
