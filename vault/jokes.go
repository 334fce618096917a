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
	// Joke is a shared text item. OwnerID is stamped once at creation time
	// from the session of the user submitting it and never changes.
	Joke struct {
		ID        string
		OwnerID   string
		Name      string
		Content   string
		CreatedAt time.Time
	}

	// JokeRef is the id/name pair used by listings.
	JokeRef struct {
		ID   string
		Name string
	}
)

// CreateJoke stores a new joke owned by ownerID.
func (s *Store) CreateJoke(ctx context.Context, ownerID, name, content string) (Joke, error) {
	j := Joke{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      name,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`insert into jokes(joke_id, owner_id, name, content, created_at) values (?, ?, ?, ?, ?)`,
		j.ID, j.OwnerID, j.Name, j.Content, j.CreatedAt)
	if err != nil {
		return Joke{}, fmt.Errorf("unable to store joke, cause %w", err)
	}
	return j, nil
}

// Joke loads a single joke by id.
func (s *Store) Joke(ctx context.Context, id string) (Joke, error) {
	var j Joke
	err := s.db.QueryRowContext(ctx,
		`select joke_id, owner_id, name, content, created_at from jokes where joke_id = ?`,
		id).Scan(&j.ID, &j.OwnerID, &j.Name, &j.Content, &j.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Joke{}, JokeNotFound{ID: id}
	} else if err != nil {
		return Joke{}, fmt.Errorf("unable to load joke %v, cause %w", id, err)
	}
	return j, nil
}

// RandomJoke picks one joke uniformly at random. The boolean is false
// when the store has no jokes at all.
func (s *Store) RandomJoke(ctx context.Context) (Joke, bool, error) {
	var j Joke
	err := s.db.QueryRowContext(ctx,
		`select joke_id, owner_id, name, content, created_at from jokes order by random() limit 1`).
		Scan(&j.ID, &j.OwnerID, &j.Name, &j.Content, &j.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Joke{}, false, nil
	} else if err != nil {
		return Joke{}, false, fmt.Errorf("unable to pick a random joke, cause %w", err)
	}
	return j, true, nil
}

// ListJokes returns the most recent jokes, newest first.
func (s *Store) ListJokes(ctx context.Context, limit int) ([]JokeRef, error) {
	rows, err := s.db.QueryContext(ctx,
		`select joke_id, name from jokes order by created_at desc limit ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("unable to list jokes, cause %w", err)
	}
	defer rows.Close()
	var out []JokeRef
	for rows.Next() {
		var ref JokeRef
		err = rows.Scan(&ref.ID, &ref.Name)
		if err != nil {
			return nil, fmt.Errorf("unable to list jokes, cause %w", err)
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

// DeleteJoke removes a joke by id. It does not check ownership,
// callers gate the call with CanMutate first.
func (s *Store) DeleteJoke(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from jokes where joke_id = ?`, id)
	if err != nil {
		return fmt.Errorf("unable to delete joke %v, cause %w", id, err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return JokeNotFound{ID: id}
	}
	return nil
}
