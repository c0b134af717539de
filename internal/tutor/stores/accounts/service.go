// Package accounts implements the credential store: the user roster,
// password verification, and the persisted current-session identity.
//
// Contract:
//   - Bootstrap: idempotently seed the designated coach and test accounts.
//   - Login/Logout/CurrentUser: session identity lifecycle.
//   - UpdatePassword/ResetPasswordToUsername: credential rotation.
//   - RegisterBatch/ListStudents: roster management for the coach.
//
// The roster is persisted wholesale under a single key; every mutation is a
// full read-modify-write against a freshly loaded snapshot.
package accounts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/verlato/mathtutor/internal/logging"
	"github.com/verlato/mathtutor/internal/shared"
	"github.com/verlato/mathtutor/internal/tutor/models"
	"github.com/verlato/mathtutor/internal/tutor/repositories/kv"
)

const (
	rosterKey         = "roster"
	currentSessionKey = "session/current"
)

// Designated bootstrap accounts.
const (
	CoachUsername       = "coach"
	CoachName           = "Coach"
	TestStudentUsername = "test"
	TestStudentName     = "Test Student"
)

// RosterEntry is one validated row of a batch registration.
type RosterEntry struct {
	Name     string
	Username string
}

// Service is the credential store. It exclusively owns User records; other
// stores must not mutate the roster.
type Service struct {
	repo kv.Repository
	log  logging.Logger

	// now is a test seam for the login clock.
	now func() time.Time
}

// NewService constructs a credential store over the given repository.
func NewService(repo kv.Repository, log logging.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

func (s *Service) loadRoster(ctx context.Context) ([]models.User, error) {
	var roster []models.User
	if _, err := kv.GetJSON(ctx, s.repo, rosterKey, &roster); err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	return roster, nil
}

func (s *Service) saveRoster(ctx context.Context, roster []models.User) error {
	if err := kv.SetJSON(ctx, s.repo, rosterKey, roster); err != nil {
		return fmt.Errorf("save roster: %w", err)
	}
	return nil
}

// Bootstrap ensures the designated coach and test-student accounts exist.
// Existing accounts with matching usernames are never overwritten, so the
// call is safe on every process start.
func (s *Service) Bootstrap(ctx context.Context) error {
	roster, err := s.loadRoster(ctx)
	if err != nil {
		return err
	}

	present := make(map[string]bool, len(roster))
	for _, u := range roster {
		present[u.Username] = true
	}

	changed := false
	if !present[CoachUsername] {
		roster = append(roster, models.User{
			ID:           uuid.NewString(),
			Username:     CoachUsername,
			Name:         CoachName,
			PasswordHash: shared.DigestHex(CoachUsername),
			Role:         models.RoleCoach,
		})
		changed = true
	}
	if !present[TestStudentUsername] {
		roster = append(roster, models.User{
			ID:           uuid.NewString(),
			Username:     TestStudentUsername,
			Name:         TestStudentName,
			PasswordHash: shared.DigestHex(TestStudentUsername),
			Role:         models.RoleStudent,
		})
		changed = true
	}

	if !changed {
		return nil
	}

	if err := s.saveRoster(ctx, roster); err != nil {
		return err
	}
	s.log.Info(ctx, "seeded bootstrap accounts", "roster_size", len(roster))
	return nil
}

// Login verifies the password digest for username, refreshes the record's
// login bookkeeping, persists it, and establishes the user as the current
// session identity. The returned previousLogin is the LastLogin value from
// before this call, for caller display.
//
// Digest comparison is exact-match on the stored hash, not constant-time; a
// single-user client store accepts that weakness.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, *time.Time, error) {
	roster, err := s.loadRoster(ctx)
	if err != nil {
		return nil, nil, err
	}

	idx := -1
	for i := range roster {
		if roster[i].Username == username {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, nil, shared.ErrorNotFound
	}

	if roster[idx].PasswordHash != shared.DigestHex(password) {
		return nil, nil, shared.ErrorInvalidCredential
	}

	previousLogin := roster[idx].LastLogin

	now := s.now()
	roster[idx].LastLogin = &now
	roster[idx].LoginCount++

	if err := s.saveRoster(ctx, roster); err != nil {
		return nil, nil, err
	}

	user := roster[idx]
	if err := kv.SetJSON(ctx, s.repo, currentSessionKey, user); err != nil {
		return nil, nil, fmt.Errorf("save current session: %w", err)
	}

	s.log.Info(ctx, "login", "username", username, "login_count", user.LoginCount)
	return &user, previousLogin, nil
}

// Logout clears the current-session identity. The roster is untouched.
func (s *Service) Logout(ctx context.Context) error {
	return s.repo.Delete(ctx, currentSessionKey)
}

// CurrentUser returns the persisted session identity, or (nil, nil) when no
// one is logged in.
func (s *Service) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	found, err := kv.GetJSON(ctx, s.repo, currentSessionKey, &user)
	if err != nil {
		return nil, fmt.Errorf("load current session: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &user, nil
}

// UpdatePassword rehashes the user's password, clears the first-login flag,
// persists the roster, and refreshes the session identity when it refers to
// the same user.
func (s *Service) UpdatePassword(ctx context.Context, userID, newPassword string) (*models.User, error) {
	roster, err := s.loadRoster(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range roster {
		if roster[i].ID == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, shared.ErrorNotFound
	}

	roster[idx].PasswordHash = shared.DigestHex(newPassword)
	roster[idx].IsFirstLogin = false

	if err := s.saveRoster(ctx, roster); err != nil {
		return nil, err
	}

	user := roster[idx]

	current, err := s.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if current != nil && current.ID == userID {
		if err := kv.SetJSON(ctx, s.repo, currentSessionKey, user); err != nil {
			return nil, fmt.Errorf("refresh current session: %w", err)
		}
	}

	return &user, nil
}

// ResetPasswordToUsername sets the user's password digest to the digest of
// their username (a known, low-entropy reset value) and forces the
// first-login flag, routing the next login into mandatory rotation.
func (s *Service) ResetPasswordToUsername(ctx context.Context, userID string) error {
	roster, err := s.loadRoster(ctx)
	if err != nil {
		return err
	}

	for i := range roster {
		if roster[i].ID == userID {
			roster[i].PasswordHash = shared.DigestHex(roster[i].Username)
			roster[i].IsFirstLogin = true
			return s.saveRoster(ctx, roster)
		}
	}
	return shared.ErrorNotFound
}

// RegisterBatch inserts one student account per entry, with a fresh id,
// password = username, and the first-login flag set. Entries whose username
// collides with the roster snapshot taken at call start, or with an earlier
// entry of the same batch, are silently dropped. Returns the number of
// accounts actually inserted.
func (s *Service) RegisterBatch(ctx context.Context, entries []RosterEntry) (int, error) {
	roster, err := s.loadRoster(ctx)
	if err != nil {
		return 0, err
	}

	taken := make(map[string]bool, len(roster))
	for _, u := range roster {
		taken[u.Username] = true
	}

	inserted := 0
	for _, e := range entries {
		if e.Username == "" || taken[e.Username] {
			continue
		}
		roster = append(roster, models.User{
			ID:           uuid.NewString(),
			Username:     e.Username,
			Name:         e.Name,
			PasswordHash: shared.DigestHex(e.Username),
			Role:         models.RoleStudent,
			IsFirstLogin: true,
		})
		taken[e.Username] = true
		inserted++
	}

	if inserted == 0 {
		return 0, nil
	}

	if err := s.saveRoster(ctx, roster); err != nil {
		return 0, err
	}

	s.log.Info(ctx, "batch registration", "requested", len(entries), "inserted", inserted)
	return inserted, nil
}

// ListStudents returns all student accounts in store order.
func (s *Service) ListStudents(ctx context.Context) ([]models.User, error) {
	roster, err := s.loadRoster(ctx)
	if err != nil {
		return nil, err
	}

	students := make([]models.User, 0, len(roster))
	for _, u := range roster {
		if u.Role == models.RoleStudent {
			students = append(students, u)
		}
	}
	return students, nil
}
