// Package session tracks which user the client is acting as and gates views
// by role. The gate is a three-state machine: anonymous, reader, librarian.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"pocketarchive/internal/entity"
	"pocketarchive/internal/store"
)

// State of the gate. Reader and librarian mirror the role of the current
// user; anonymous means no one is logged in.
const (
	StateAnonymous = "anonymous"
	StateReader    = string(entity.RoleReader)
	StateLibrarian = string(entity.RoleLibrarian)
)

var (
	// ErrInvalidRole rejects login with a role outside {reader, librarian}.
	ErrInvalidRole = errors.New("invalid role")
	// ErrRoleMismatch means the email belongs to a user whose fixed role
	// differs from the requested one. Roles never change after creation.
	ErrRoleMismatch = errors.New("user role does not match requested role")
	// ErrNoSession means no user is logged in.
	ErrNoSession = errors.New("no active session")
)

// Gate holds the current user in memory and keeps the persisted pointer in
// sync, so a restart resumes straight into the previous state.
type Gate struct {
	users   UserRepository
	pointer Pointer

	mu      sync.Mutex
	current *entity.User
}

// NewGate builds a gate and resumes any persisted session.
func NewGate(users UserRepository, pointer Pointer) (*Gate, error) {
	u, err := pointer.Current()
	if err != nil {
		return nil, fmt.Errorf("resume session: %w", err)
	}
	return &Gate{users: users, pointer: pointer, current: u}, nil
}

// Login transitions to the reader or librarian state. With an email, the
// existing user is looked up and reused; otherwise (or when the email is
// unknown) a user is created with the role fixed at creation. The result is
// persisted as the current user.
func (g *Gate) Login(ctx context.Context, role entity.Role, name, email string) (entity.User, error) {
	if !role.Valid() {
		return entity.User{}, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	var user entity.User
	if email != "" {
		existing, err := g.users.GetUserByEmail(ctx, email)
		switch {
		case err == nil:
			if existing.Role != role {
				return entity.User{}, ErrRoleMismatch
			}
			user = existing
		case errors.Is(err, store.ErrNotFound):
			// fall through to creation below
		default:
			return entity.User{}, fmt.Errorf("login: %w", err)
		}
	}

	if user.ID == "" {
		if name == "" {
			name = defaultName(role)
		}
		if email == "" {
			email = fmt.Sprintf("%s_%s@pocketarchive.local", role, uuid.NewString())
		}
		created, err := g.users.CreateUser(ctx, entity.User{Name: name, Email: email, Role: role})
		if err != nil {
			return entity.User{}, fmt.Errorf("login: %w", err)
		}
		user = created
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.pointer.Save(&user); err != nil {
		return entity.User{}, fmt.Errorf("login: %w", err)
	}
	g.current = &user
	return user, nil
}

// Logout clears the session pointer. The user record itself is kept.
func (g *Gate) Logout() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return ErrNoSession
	}
	if err := g.pointer.Save(nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	g.current = nil
	return nil
}

// Current returns a copy of the logged-in user, or nil when anonymous.
func (g *Gate) Current() *entity.User {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return nil
	}
	u := *g.current
	return &u
}

// State reports the gate's current state.
func (g *Gate) State() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return StateAnonymous
	}
	return string(g.current.Role)
}

func defaultName(role entity.Role) string {
	return strings.ToUpper(string(role[:1])) + string(role[1:])
}
