package vault

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type (
	// User is a registered account. PasswordHash is only populated by
	// lookups that need it for verification and never leaves the package
	// through any other path.
	User struct {
		ID        string
		Username  string
		CreatedAt time.Time

		passwordHash string
	}
)

// Register creates a new user from a username and a raw password. The raw
// password is hashed before it touches the database. A duplicate username
// fails with UsernameTaken, no matter how close the two registrations race:
// the unique constraint makes check-and-insert a single atomic statement.
func (s *Store) Register(ctx context.Context, username, rawPassword string) (User, error) {
	hash, err := HashPassword(rawPassword)
	if err != nil {
		return User{}, fmt.Errorf("unable to hash password, cause %w", err)
	}
	u := User{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}
	_, err = s.db.ExecContext(ctx,
		`insert into users(user_id, username, password_hash, created_at) values (?, ?, ?, ?)`,
		u.ID, u.Username, hash, u.CreatedAt)
	if isUniqueViolation(err) {
		return User{}, UsernameTaken{Username: username}
	} else if err != nil {
		return User{}, fmt.Errorf("unable to register user, cause %w", err)
	}
	return u, nil
}

// FindByUsername loads a user by its exact (case-sensitive) username.
// The returned user carries the password hash for in-package verification.
// A missing user is reported as (User{}, false, nil).
func (s *Store) FindByUsername(ctx context.Context, username string) (User, bool, error) {
	var u User
	err := s.db.QueryRowContext(ctx,
		`select user_id, username, password_hash, created_at from users where username = ?`,
		username).Scan(&u.ID, &u.Username, &u.passwordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, false, nil
	} else if err != nil {
		return User{}, false, fmt.Errorf("unable to lookup user %v, cause %w", username, err)
	}
	return u, true, nil
}

// LookupUsername resolves a user id to its username,
// used when rendering pages for a logged-in user.
func (s *Store) LookupUsername(ctx context.Context, userID string) (string, bool, error) {
	var username string
	err := s.db.QueryRowContext(ctx,
		`select username from users where user_id = ?`, userID).Scan(&username)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	} else if err != nil {
		return "", false, fmt.Errorf("unable to resolve user id, cause %w", err)
	}
	return username, true, nil
}

// VerifyCredentials checks a username/password pair against the store.
// An unknown username and a wrong password are indistinguishable to the
// caller, both come back as (User{}, false, nil).
func (s *Store) VerifyCredentials(ctx context.Context, username, rawPassword string) (User, bool, error) {
	u, found, err := s.FindByUsername(ctx, username)
	if err != nil {
		return User{}, false, err
	}
	if !found || !VerifyPassword(rawPassword, u.passwordHash) {
		return User{}, false, nil
	}
	u.passwordHash = ""
	return u, true, nil
}
