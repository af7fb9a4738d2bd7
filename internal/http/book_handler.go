package http

import (
	"encoding/json"
	"net/http"

	"pocketarchive/internal/catalog"
	"pocketarchive/internal/entity"
	"pocketarchive/internal/httpx"
	"pocketarchive/internal/session"
	"pocketarchive/internal/store"
)

type BookHandler struct {
	store store.Store
	gate  *session.Gate
}

func NewBookHandler(st store.Store, gate *session.Gate) *BookHandler {
	return &BookHandler{store: st, gate: gate}
}

// Collection serves /books: GET lists (with search filters), POST creates.
func (h *BookHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Item serves /books/{id}: GET fetches, PATCH updates.
func (h *BookHandler) Item(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(r.URL.Path, "/books/", "")
	if !ok {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPatch:
		h.update(w, r, id)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *BookHandler) list(w http.ResponseWriter, r *http.Request) {
	books, err := h.store.ListBooks(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	q := r.URL.Query().Get("q")
	genre := r.URL.Query().Get("genre")
	httpx.JSONSuccess(w, catalog.Search(books, q, genre))
}

func (h *BookHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	book, err := h.store.GetBook(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httpx.JSONSuccess(w, book)
}

// Genres serves GET /genres: the distinct genres with "all" prepended.
func (h *BookHandler) Genres(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	books, err := h.store.ListBooks(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httpx.JSONSuccess(w, catalog.GenreList(books))
}

type bookPayload struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	Genre           string `json:"genre"`
	Description     string `json:"description"`
	CoverImage      string `json:"coverImage"`
	ISBN            string `json:"isbn"`
	PublishedYear   int    `json:"publishedYear"`
	TotalCopies     int    `json:"totalCopies"`
	AvailableCopies *int   `json:"availableCopies"`
}

func (h *BookHandler) create(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireLibrarian(h.gate, w); !ok {
		return
	}
	var payload bookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_body", "invalid JSON body")
		return
	}
	if payload.Title == "" || payload.Author == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_fields", "title and author are required")
		return
	}
	if payload.TotalCopies < 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_copies", "totalCopies must not be negative")
		return
	}
	available := payload.TotalCopies
	if payload.AvailableCopies != nil {
		available = *payload.AvailableCopies
	}

	book, err := h.store.CreateBook(r.Context(), entityBook(payload, available))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httpx.JSONCreated(w, book)
}

func entityBook(p bookPayload, available int) entity.Book {
	return entity.Book{
		Title:           p.Title,
		Author:          p.Author,
		Genre:           p.Genre,
		Description:     p.Description,
		CoverImage:      p.CoverImage,
		ISBN:            p.ISBN,
		PublishedYear:   p.PublishedYear,
		TotalCopies:     p.TotalCopies,
		AvailableCopies: available,
	}
}

type bookPatchPayload struct {
	Title           *string `json:"title"`
	Author          *string `json:"author"`
	Genre           *string `json:"genre"`
	Description     *string `json:"description"`
	CoverImage      *string `json:"coverImage"`
	ISBN            *string `json:"isbn"`
	PublishedYear   *int    `json:"publishedYear"`
	TotalCopies     *int    `json:"totalCopies"`
	AvailableCopies *int    `json:"availableCopies"`
}

func (h *BookHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := requireLibrarian(h.gate, w); !ok {
		return
	}
	var payload bookPatchPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_body", "invalid JSON body")
		return
	}
	if payload.TotalCopies != nil && *payload.TotalCopies < 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_copies", "totalCopies must not be negative")
		return
	}

	book, err := h.store.UpdateBook(r.Context(), id, store.BookPatch{
		Title:           payload.Title,
		Author:          payload.Author,
		Genre:           payload.Genre,
		Description:     payload.Description,
		CoverImage:      payload.CoverImage,
		ISBN:            payload.ISBN,
		PublishedYear:   payload.PublishedYear,
		TotalCopies:     payload.TotalCopies,
		AvailableCopies: payload.AvailableCopies,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httpx.JSONSuccess(w, book)
}
