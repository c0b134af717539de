// Package mistakes implements the per-user mistake archive store.
//
// The store's contract is deliberately trivial: reads return the archived
// sequence as-is, and writes replace a user's archive wholesale. Ordering
// and dedup policy belong to the orchestrator, which holds the authoritative
// in-memory sequence.
package mistakes

import (
	"context"
	"fmt"

	"github.com/verlato/mathtutor/internal/tutor/models"
	"github.com/verlato/mathtutor/internal/tutor/repositories/kv"
)

const mistakesKey = "mistakes"

// userArchive is one persisted per-user record: at most one per user id.
type userArchive struct {
	UserID   string           `json:"userId"`
	Problems []models.Problem `json:"problems"`
}

// Store manages per-user saved-problem collections.
type Store struct {
	repo kv.Repository
}

// NewStore constructs a mistake archive store over the given repository.
func NewStore(repo kv.Repository) *Store {
	return &Store{repo: repo}
}

func (s *Store) load(ctx context.Context) ([]userArchive, error) {
	var archives []userArchive
	if _, err := kv.GetJSON(ctx, s.repo, mistakesKey, &archives); err != nil {
		return nil, fmt.Errorf("load mistake archives: %w", err)
	}
	return archives, nil
}

// GetMistakes returns the user's archived problems, most recently added
// first. A user with no archive gets an empty sequence, never an error.
func (s *Store) GetMistakes(ctx context.Context, userID string) ([]models.Problem, error) {
	archives, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range archives {
		if a.UserID == userID {
			return a.Problems, nil
		}
	}
	return []models.Problem{}, nil
}

// SaveMistakes replaces the user's archive with the given sequence. The
// archive record is created lazily on first save and only ever emptied,
// never removed.
func (s *Store) SaveMistakes(ctx context.Context, userID string, problems []models.Problem) error {
	archives, err := s.load(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range archives {
		if archives[i].UserID == userID {
			archives[i].Problems = problems
			replaced = true
			break
		}
	}
	if !replaced {
		archives = append(archives, userArchive{UserID: userID, Problems: problems})
	}

	if err := kv.SetJSON(ctx, s.repo, mistakesKey, archives); err != nil {
		return fmt.Errorf("save mistake archives: %w", err)
	}
	return nil
}
