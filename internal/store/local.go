package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"pocketarchive/internal/entity"
)

// Blob names are part of the on-disk layout and must not change.
const (
	booksBlob        = "library_books.json"
	usersBlob        = "library_users.json"
	borrowsBlob      = "library_borrows.json"
	reservationsBlob = "library_reservations.json"
)

// Local persists each collection as a JSON array in its own file under a
// data directory. A single mutex serializes access; every write replaces
// the blob atomically (temp file + rename) so a crash never leaves a
// half-written collection behind.
type Local struct {
	dir string
	mu  sync.Mutex
}

func NewLocal(dir string) (*Local, error) {
	if dir == "" {
		dir = "data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	l := &Local{dir: dir}

	// First-ever use: books seed from the built-in catalog, the other
	// collections start empty.
	if err := initBlob(l.path(booksBlob), seedCatalog); err != nil {
		return nil, err
	}
	if err := initBlob(l.path(usersBlob), []entity.User{}); err != nil {
		return nil, err
	}
	if err := initBlob(l.path(borrowsBlob), []entity.Borrow{}); err != nil {
		return nil, err
	}
	if err := initBlob(l.path(reservationsBlob), []entity.Reservation{}); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Local) path(name string) string {
	return filepath.Join(l.dir, name)
}

func (l *Local) Ping(ctx context.Context) error {
	if _, err := os.Stat(l.dir); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (l *Local) Close() {}

func initBlob[T any](path string, initial []T) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("%w: stat %s: %v", ErrUnavailable, path, err)
	}
	return writeBlob(path, initial)
}

func readBlob[T any](path string) ([]T, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnavailable, filepath.Base(path), err)
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrUnavailable, filepath.Base(path), err)
	}
	return out, nil
}

func writeBlob[T any](path string, records []T) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrUnavailable, filepath.Base(path), err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: write %s: %v", ErrUnavailable, filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: close %s: %v", ErrUnavailable, filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: replace %s: %v", ErrUnavailable, filepath.Base(path), err)
	}
	return nil
}

func newID() string {
	return uuid.NewString()
}

// ---- books ----

func (l *Local) ListBooks(ctx context.Context) ([]entity.Book, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return readBlob[entity.Book](l.path(booksBlob))
}

func (l *Local) GetBook(ctx context.Context, id string) (entity.Book, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	books, err := readBlob[entity.Book](l.path(booksBlob))
	if err != nil {
		return entity.Book{}, err
	}
	for _, b := range books {
		if b.ID == id {
			return b, nil
		}
	}
	return entity.Book{}, ErrNotFound
}

func (l *Local) CreateBook(ctx context.Context, b entity.Book) (entity.Book, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	books, err := readBlob[entity.Book](l.path(booksBlob))
	if err != nil {
		return entity.Book{}, err
	}
	if b.ID == "" {
		b.ID = newID()
	}
	clampCopies(&b)
	books = append(books, b)
	if err := writeBlob(l.path(booksBlob), books); err != nil {
		return entity.Book{}, err
	}
	return b, nil
}

func (l *Local) UpdateBook(ctx context.Context, id string, patch BookPatch) (entity.Book, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	books, err := readBlob[entity.Book](l.path(booksBlob))
	if err != nil {
		return entity.Book{}, err
	}
	for i := range books {
		if books[i].ID != id {
			continue
		}
		applyBookPatch(&books[i], patch)
		if err := writeBlob(l.path(booksBlob), books); err != nil {
			return entity.Book{}, err
		}
		return books[i], nil
	}
	return entity.Book{}, ErrNotFound
}

func (l *Local) AdjustBookCopies(ctx context.Context, id string, delta int) (entity.Book, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	books, err := readBlob[entity.Book](l.path(booksBlob))
	if err != nil {
		return entity.Book{}, err
	}
	for i := range books {
		if books[i].ID != id {
			continue
		}
		books[i].AvailableCopies += delta
		clampCopies(&books[i])
		if err := writeBlob(l.path(booksBlob), books); err != nil {
			return entity.Book{}, err
		}
		return books[i], nil
	}
	return entity.Book{}, ErrNotFound
}

func applyBookPatch(b *entity.Book, p BookPatch) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Genre != nil {
		b.Genre = *p.Genre
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.CoverImage != nil {
		b.CoverImage = *p.CoverImage
	}
	if p.ISBN != nil {
		b.ISBN = *p.ISBN
	}
	if p.PublishedYear != nil {
		b.PublishedYear = *p.PublishedYear
	}
	if p.TotalCopies != nil {
		b.TotalCopies = *p.TotalCopies
	}
	if p.AvailableCopies != nil {
		b.AvailableCopies = *p.AvailableCopies
	}
	clampCopies(b)
}

// clampCopies enforces 0 <= availableCopies <= totalCopies on every write.
func clampCopies(b *entity.Book) {
	if b.TotalCopies < 0 {
		b.TotalCopies = 0
	}
	if b.AvailableCopies > b.TotalCopies {
		b.AvailableCopies = b.TotalCopies
	}
	if b.AvailableCopies < 0 {
		b.AvailableCopies = 0
	}
}

// ---- users ----

func (l *Local) ListUsers(ctx context.Context) ([]entity.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return readBlob[entity.User](l.path(usersBlob))
}

func (l *Local) GetUserByEmail(ctx context.Context, email string) (entity.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	users, err := readBlob[entity.User](l.path(usersBlob))
	if err != nil {
		return entity.User{}, err
	}
	for _, u := range users {
		if u.Email == email {
			return u, nil
		}
	}
	return entity.User{}, ErrNotFound
}

func (l *Local) CreateUser(ctx context.Context, u entity.User) (entity.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	users, err := readBlob[entity.User](l.path(usersBlob))
	if err != nil {
		return entity.User{}, err
	}
	for _, existing := range users {
		if existing.Email == u.Email {
			return entity.User{}, fmt.Errorf("%w: email %s", ErrConflict, u.Email)
		}
	}
	if u.ID == "" {
		u.ID = newID()
	}
	users = append(users, u)
	if err := writeBlob(l.path(usersBlob), users); err != nil {
		return entity.User{}, err
	}
	return u, nil
}

// ---- borrows ----

func (l *Local) ListBorrows(ctx context.Context) ([]entity.Borrow, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return readBlob[entity.Borrow](l.path(borrowsBlob))
}

func (l *Local) GetBorrow(ctx context.Context, id string) (entity.Borrow, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	borrows, err := readBlob[entity.Borrow](l.path(borrowsBlob))
	if err != nil {
		return entity.Borrow{}, err
	}
	for _, b := range borrows {
		if b.ID == id {
			return b, nil
		}
	}
	return entity.Borrow{}, ErrNotFound
}

func (l *Local) CreateBorrow(ctx context.Context, b entity.Borrow) (entity.Borrow, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	borrows, err := readBlob[entity.Borrow](l.path(borrowsBlob))
	if err != nil {
		return entity.Borrow{}, err
	}
	if b.ID == "" {
		b.ID = newID()
	}
	borrows = append(borrows, b)
	if err := writeBlob(l.path(borrowsBlob), borrows); err != nil {
		return entity.Borrow{}, err
	}
	return b, nil
}

func (l *Local) UpdateBorrow(ctx context.Context, id string, patch BorrowPatch) (entity.Borrow, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	borrows, err := readBlob[entity.Borrow](l.path(borrowsBlob))
	if err != nil {
		return entity.Borrow{}, err
	}
	for i := range borrows {
		if borrows[i].ID != id {
			continue
		}
		if patch.Status != nil {
			borrows[i].Status = *patch.Status
		}
		if patch.ReturnDate != nil {
			borrows[i].ReturnDate = patch.ReturnDate
		}
		if err := writeBlob(l.path(borrowsBlob), borrows); err != nil {
			return entity.Borrow{}, err
		}
		return borrows[i], nil
	}
	return entity.Borrow{}, ErrNotFound
}

// ---- reservations ----

func (l *Local) ListReservations(ctx context.Context) ([]entity.Reservation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return readBlob[entity.Reservation](l.path(reservationsBlob))
}

func (l *Local) GetReservation(ctx context.Context, id string) (entity.Reservation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	reservations, err := readBlob[entity.Reservation](l.path(reservationsBlob))
	if err != nil {
		return entity.Reservation{}, err
	}
	for _, r := range reservations {
		if r.ID == id {
			return r, nil
		}
	}
	return entity.Reservation{}, ErrNotFound
}

func (l *Local) CreateReservation(ctx context.Context, r entity.Reservation) (entity.Reservation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	reservations, err := readBlob[entity.Reservation](l.path(reservationsBlob))
	if err != nil {
		return entity.Reservation{}, err
	}
	if r.ID == "" {
		r.ID = newID()
	}
	reservations = append(reservations, r)
	if err := writeBlob(l.path(reservationsBlob), reservations); err != nil {
		return entity.Reservation{}, err
	}
	return r, nil
}

func (l *Local) UpdateReservation(ctx context.Context, id string, patch ReservationPatch) (entity.Reservation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	reservations, err := readBlob[entity.Reservation](l.path(reservationsBlob))
	if err != nil {
		return entity.Reservation{}, err
	}
	for i := range reservations {
		if reservations[i].ID != id {
			continue
		}
		if patch.Status != nil {
			reservations[i].Status = *patch.Status
		}
		if err := writeBlob(l.path(reservationsBlob), reservations); err != nil {
			return entity.Reservation{}, err
		}
		return reservations[i], nil
	}
	return entity.Reservation{}, ErrNotFound
}
