package entity

import "time"

type BorrowStatus string

const (
	BorrowActive   BorrowStatus = "active"
	BorrowReturned BorrowStatus = "returned"
)

// Borrow is a loan of one copy of a book to one user. ReturnDate is nil
// while the loan is active. At most one active Borrow exists per
// (BookID, UserID) pair.
type Borrow struct {
	ID         string       `json:"id"`
	BookID     string       `json:"bookId"`
	UserID     string       `json:"userId"`
	BorrowDate time.Time    `json:"borrowDate"`
	DueDate    time.Time    `json:"dueDate"`
	ReturnDate *time.Time   `json:"returnDate,omitempty"`
	Status     BorrowStatus `json:"status"`
}
