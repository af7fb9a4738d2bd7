package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	"pocketarchive/internal/entity"
)

// TestReader is a fixture user with the reader role.
var TestReader = entity.User{
	ID:    "test-reader-1",
	Name:  "Reader",
	Email: "reader@pocketarchive.local",
	Role:  entity.RoleReader,
}

// TestLibrarian is a fixture user with the librarian role.
var TestLibrarian = entity.User{
	ID:    "test-librarian-1",
	Name:  "Librarian",
	Email: "librarian@pocketarchive.local",
	Role:  entity.RoleLibrarian,
}

// TestBook is a fixture book with one copy out on loan.
var TestBook = entity.Book{
	ID:              "test-book-1",
	Title:           "Test Book Title",
	Author:          "Test Author",
	Genre:           "Fiction",
	Description:     "A test book description",
	ISBN:            "978-0-123456-78-9",
	PublishedYear:   2001,
	TotalCopies:     3,
	AvailableCopies: 2,
}

// NewRequest creates an HTTP request with an optional JSON body.
func NewRequest(method, path string, body any) *http.Request {
	if body == nil {
		return httptest.NewRequest(method, path, nil)
	}
	raw, _ := json.Marshal(body)
	r := httptest.NewRequest(method, path, bytes.NewReader(raw))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// RecordedResponse is a decoded HTTP response for assertions.
type RecordedResponse struct {
	Code   int
	Header http.Header
	Body   map[string]any
}

// Record decodes the recorder's response body as JSON.
func Record(w *httptest.ResponseRecorder) RecordedResponse {
	result := w.Result()
	defer result.Body.Close()

	raw, _ := io.ReadAll(result.Body)
	var body map[string]any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}
	return RecordedResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   body,
	}
}
