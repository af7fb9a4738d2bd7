package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"pocketarchive/internal/entity"
)

const uniqueViolation = "23505"

// Postgres is the remote-relational backend. Columns mirror the entity
// fields 1:1 in snake_case; the session pointer never lives here.
type Postgres struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgres(db *pgxpool.Pool, timeout time.Duration) *Postgres {
	return &Postgres{db: db, timeout: timeout}
}

func (p *Postgres) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, p.timeout)
}

func (p *Postgres) Ping(ctx context.Context) error {
	timeoutCtx, cancel := p.withTimeout(ctx)
	defer cancel()
	if err := p.db.Ping(timeoutCtx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (p *Postgres) Close() {
	p.db.Close()
}

// wrap converts backend failures to the generic store error surface so
// callers never see driver-specific faults.
func wrap(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}

const bookColumns = "id, title, author, genre, description, cover_image, isbn, published_year, total_copies, available_copies"

func scanBook(row pgx.Row) (entity.Book, error) {
	var b entity.Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.Genre, &b.Description,
		&b.CoverImage, &b.ISBN, &b.PublishedYear, &b.TotalCopies, &b.AvailableCopies,
	)
	return b, err
}

func (p *Postgres) ListBooks(ctx context.Context) ([]entity.Book, error) {
	query := fmt.Sprintf("SELECT %s FROM books ORDER BY id", bookColumns)
	timeoutCtx, cancel := p.withTimeout(ctx)
	defer cancel()
	rows, err := p.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, wrap("list books", err)
	}
	defer rows.Close()

	var out []entity.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, wrap("scan book", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list books", err)
	}
	return out, nil
}

func (p *Postgres) GetBook(ctx context.Context, id string) (entity.Book, error) {
	query := fmt.Sprintf("SELECT %s FROM books WHERE id = $1", bookColumns)
	timeoutCtx, cancel := p.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(p.db.QueryRow(timeoutCtx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Book{}, ErrNotFound
		}
		return entity.Book{}, wrap("get book", err)
	}
	return b, nil
}

func (p *Postgres) CreateBook(ctx context.Context, b entity.Book) (entity.Book, error) {
	if b.ID == "" {
		b.ID = newID()
	}
	clampCopies(&b)
	const query = `
		INSERT INTO books (id, title, author, genre, description, cover_image, isbn, published_year, total_copies, available_copies)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	timeoutCtx, cancel := p.withTimeout(ctx)
	defer cancel()
	_, err := p.db.Exec(timeoutCtx, query,
		b.ID, b.Title, b.Author, b.Genre, b.Description,
		b.CoverImage, b.ISBN, b.PublishedYear, b.TotalCopies, b.AvailableCopies,
	)
	if err != nil {
		return entity.Book{}, wrap("create book", err)
	}
	return b, nil
}

// bookPatchClauses renders a BookPatch into SET clauses and their
// arguments. available_copies is assigned exactly once, clamped into
// [0, total_copies] against the patched total, so shrinking the total can
// never strand the counter above it.
func bookPatchClauses(patch BookPatch) ([]string, []any) {
	sets := []string{}
	args := []any{}

	place := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	set := func(col string, v any) {
		sets = append(sets, fmt.Sprintf("%s = %s", col, place(v)))
	}
	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Author != nil {
		set("author", *patch.Author)
	}
	if patch.Genre != nil {
		set("genre", *patch.Genre)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.CoverImage != nil {
		set("cover_image", *patch.CoverImage)
	}
	if patch.ISBN != nil {
		set("isbn", *patch.ISBN)
	}
	if patch.PublishedYear != nil {
		set("published_year", *patch.PublishedYear)
	}

	totalExpr := "total_copies"
	if patch.TotalCopies != nil {
		totalExpr = place(*patch.TotalCopies)
		sets = append(sets, fmt.Sprintf("total_copies = %s", totalExpr))
	}
	if patch.TotalCopies != nil || patch.AvailableCopies != nil {
		availExpr := "available_copies"
		if patch.AvailableCopies != nil {
			availExpr = place(*patch.AvailableCopies)
		}
		sets = append(sets, fmt.Sprintf("available_copies = LEAST(%s, GREATEST(0, %s))", totalExpr, availExpr))
	}
	return sets, args
}

func (p *Postgres) UpdateBook(ctx context.Context, id string, patch BookPatch) (entity.Book, error) {
	sets, args := bookPatchClauses(patch)
	if len(sets) == 0 {
		return p.GetBook(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE books SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), bookColumns,
	)
	timeoutCtx, cancel := p.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(p.db.QueryRow(timeoutCtx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Book{}, ErrNotFound
		}
		return entity.Book{}, wrap("update book", err)
	}
	return b, nil
}

func (p *Postgres) AdjustBookCopies(ctx context.Context, id string, delta int) (entity.Book, error) {
	// Single conditional update: no read-modify-write window, and the
	// counter is clamped into [0, total_copies] in the same statement.
	query := fmt.Sprintf(`
		UPDATE books
		SET available_copies = LEAST(total_copies, GREATEST(0, available_copies + $2))
		WHERE id = $1
		RETURNING %s`, bookColumns)
	timeoutCtx, cancel := p.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(p.db.QueryRow(timeoutCtx, query, id, delta))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Book{}, ErrNotFound
		}
		return entity.Book{}, wrap("adjust book copies", err)
	}
	return b, nil
}

func (p *Postgres) ListUsers(ctx context.Context) ([]entity.User, error) {
	const query = "SELECT id, name, email, role FROM users ORDER BY id"
	timeoutCtx, cancel := p.withTimeout(ctx)
	defer cancel()
	rows, err := p.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, wrap("list users", err)
	}
	defer rows.Close()

	var out []entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role); err != nil {
			return nil, wrap("scan user", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list users", err)
	}
	return out, nil
}

func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (entity.User, error) {
	const query = "SELECT id, name, email, role FROM users WHERE email = $1"
	timeoutCtx, cancel := p.withTimeout(ctx)
	defer cancel()
	var u entity.User
	err := p.db.QueryRow(timeoutCtx, query, email).Scan(&u.ID, &u.Name, &u.Email, &u.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.User{}, ErrNotFound
		}
		return entity.User{}, wrap("get user", err)
	}
	return u, nil
}

func (p *Postgres) CreateUser(ctx context.Context, u entity.User) (entity.User, error) {
	if u.ID == "" {
		u.ID = newID()
	}
	const query = "INSERT INTO users (id, name, email, role) VALUES ($1, $2, $3, $4)"
	timeoutCtx, cancel := p.withTimeout(ctx)
	defer cancel()
	if _, err := p.db.Exec(timeoutCtx, query, u.ID, u.Name, u.Email, u.Role); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return entity.User{}, fmt.Errorf("%w: email %s", ErrConflict, u.Email)
		}
		return entity.User{}, wrap("create user", err)
	}
	return u, nil
}

const borrowColumns = "id, book_id, user_id, borrow_date, due_date, return_date, status"

func scanBorrow(row pgx.Row) (entity.Borrow, error) {
	var b entity.Borrow
	err := row.Scan(&b.ID, &b.BookID, &b.UserID, &b.BorrowDate, &b.DueDate, &b.ReturnDate, &b.Status)
	return b, err
}

func (p *Postgres) ListBorrows(ctx context.Context) ([]entity.Borrow, error) {
	query := fmt.Sprintf("SELECT %s FROM borrows ORDER BY borrow_date", borrowColumns)
	timeoutCtx, cancel := p.withTimeout(ctx)
	defer cancel()
	rows, err := p.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, wrap("list borrows", err)
	}
	defer rows.Close()

	var out []entity.Borrow
	for rows.Next() {
		b, err := scanBorrow(rows)
		if err != nil {
			return nil, wrap("scan borrow", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list borrows", err)
	}
	return out, nil
}

func (p *Postgres) GetBorrow(ctx context.Context, id string) (entity.Borrow, error) {
	query := fmt.Sprintf("SELECT %s FROM borrows WHERE id = $1", borrowColumns)
	timeoutCtx, cancel := p.withTimeout(ctx)
	defer cancel()
	b, err := scanBorrow(p.db.QueryRow(timeoutCtx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Borrow{}, ErrNotFound
		}
		return entity.Borrow{}, wrap("get borrow", err)
	}
	return b, nil
}

func (p *Postgres) CreateBorrow(ctx context.Context, b entity.Borrow) (entity.Borrow, error) {
	if b.ID == "" {
		b.ID = newID()
	}
	const query = `
		INSERT INTO borrows (id, book_id, user_id, borrow_date, due_date, return_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	timeoutCtx, cancel := p.withTimeout(ctx)
	defer cancel()
	_, err := p.db.Exec(timeoutCtx, query,
		b.ID, b.BookID, b.UserID, b.BorrowDate, b.DueDate, b.ReturnDate, b.Status,
	)
	if err != nil {
		return entity.Borrow{}, wrap("create borrow", err)
	}
	return b, nil
}

func (p *Postgres) UpdateBorrow(ctx context.Context, id string, patch BorrowPatch) (entity.Borrow, error) {
	sets := []string{}
	args := []any{}
	argn := 1
	if patch.Status != nil {
		sets = append(sets, fmt.Sprintf("status = $%d", argn))
		args = append(args, *patch.Status)
		argn++
	}
	if patch.ReturnDate != nil {
		sets = append(sets, fmt.Sprintf("return_date = $%d", argn))
		args = append(args, *patch.ReturnDate)
		argn++
	}
	if len(sets) == 0 {
		return p.GetBorrow(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE borrows SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), argn, borrowColumns,
	)
	timeoutCtx, cancel := p.withTimeout(ctx)
	defer cancel()
	b, err := scanBorrow(p.db.QueryRow(timeoutCtx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Borrow{}, ErrNotFound
		}
		return entity.Borrow{}, wrap("update borrow", err)
	}
	return b, nil
}

const reservationColumns = "id, book_id, user_id, reservation_date, status"

func scanReservation(row pgx.Row) (entity.Reservation, error) {
	var r entity.Reservation
	err := row.Scan(&r.ID, &r.BookID, &r.UserID, &r.ReservationDate, &r.Status)
	return r, err
}

func (p *Postgres) ListReservations(ctx context.Context) ([]entity.Reservation, error) {
	query := fmt.Sprintf("SELECT %s FROM reservations ORDER BY reservation_date", reservationColumns)
	timeoutCtx, cancel := p.withTimeout(ctx)
	defer cancel()
	rows, err := p.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, wrap("list reservations", err)
	}
	defer rows.Close()

	var out []entity.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, wrap("scan reservation", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list reservations", err)
	}
	return out, nil
}

func (p *Postgres) GetReservation(ctx context.Context, id string) (entity.Reservation, error) {
	query := fmt.Sprintf("SELECT %s FROM reservations WHERE id = $1", reservationColumns)
	timeoutCtx, cancel := p.withTimeout(ctx)
	defer cancel()
	r, err := scanReservation(p.db.QueryRow(timeoutCtx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Reservation{}, ErrNotFound
		}
		return entity.Reservation{}, wrap("get reservation", err)
	}
	return r, nil
}

func (p *Postgres) CreateReservation(ctx context.Context, r entity.Reservation) (entity.Reservation, error) {
	if r.ID == "" {
		r.ID = newID()
	}
	const query = `
		INSERT INTO reservations (id, book_id, user_id, reservation_date, status)
		VALUES ($1, $2, $3, $4, $5)`
	timeoutCtx, cancel := p.withTimeout(ctx)
	defer cancel()
	_, err := p.db.Exec(timeoutCtx, query, r.ID, r.BookID, r.UserID, r.ReservationDate, r.Status)
	if err != nil {
		return entity.Reservation{}, wrap("create reservation", err)
	}
	return r, nil
}

func (p *Postgres) UpdateReservation(ctx context.Context, id string, patch ReservationPatch) (entity.Reservation, error) {
	if patch.Status == nil {
		return p.GetReservation(ctx, id)
	}
	query := fmt.Sprintf(
		"UPDATE reservations SET status = $1 WHERE id = $2 RETURNING %s",
		reservationColumns,
	)
	timeoutCtx, cancel := p.withTimeout(ctx)
	defer cancel()
	r, err := scanReservation(p.db.QueryRow(timeoutCtx, query, *patch.Status, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Reservation{}, ErrNotFound
		}
		return entity.Reservation{}, wrap("update reservation", err)
	}
	return r, nil
}
