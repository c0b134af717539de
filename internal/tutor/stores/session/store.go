// Package session implements the session continuity store: the persisted
// per-user pointer to the problem a student is currently mid-solving.
//
// The pointer is independent of the mistake archive. A problem can be "the
// last session" without being archived, and vice versa; the two are not
// reconciled.
package session

import (
	"context"
	"fmt"

	"github.com/verlato/mathtutor/internal/tutor/models"
	"github.com/verlato/mathtutor/internal/tutor/repositories/kv"
)

const lastSessionKeyPrefix = "session/last/"

// Store manages per-user "last active problem" pointers.
type Store struct {
	repo kv.Repository
}

// NewStore constructs a session continuity store over the given repository.
func NewStore(repo kv.Repository) *Store {
	return &Store{repo: repo}
}

func lastSessionKey(userID string) string {
	return lastSessionKeyPrefix + userID
}

// SaveLastSession overwrites the user's session pointer wholesale, chat
// history included. A nil problem deletes the pointer instead.
func (s *Store) SaveLastSession(ctx context.Context, userID string, problem *models.Problem) error {
	key := lastSessionKey(userID)
	if problem == nil {
		return s.repo.Delete(ctx, key)
	}
	if err := kv.SetJSON(ctx, s.repo, key, problem); err != nil {
		return fmt.Errorf("save last session: %w", err)
	}
	return nil
}

// GetLastSession returns the user's session pointer, or nil when absent.
func (s *Store) GetLastSession(ctx context.Context, userID string) (*models.Problem, error) {
	var problem models.Problem
	found, err := kv.GetJSON(ctx, s.repo, lastSessionKey(userID), &problem)
	if err != nil {
		return nil, fmt.Errorf("load last session: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &problem, nil
}
