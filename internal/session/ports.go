package session

import (
	"context"

	"pocketarchive/internal/entity"
)

// UserRepository is the slice of the record store the gate needs.
type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (entity.User, error)
	CreateUser(ctx context.Context, u entity.User) (entity.User, error)
}

// Pointer persists the single current-user reference between runs.
// store.SessionFile is the only implementation outside tests.
type Pointer interface {
	Current() (*entity.User, error)
	Save(u *entity.User) error
}
