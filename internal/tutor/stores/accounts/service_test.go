package accounts

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verlato/mathtutor/internal/logging"
	"github.com/verlato/mathtutor/internal/shared"
	"github.com/verlato/mathtutor/internal/tutor/models"
	"github.com/verlato/mathtutor/internal/tutor/repositories/kv"

	_ "modernc.org/sqlite"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE kvstore (
  key TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	require.NoError(t, err)

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewService(kv.NewSQLiteRepository(db), log)
}

func TestBootstrap_SeedsOnceAndIsIdempotent(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	require.NoError(t, s.Bootstrap(ctx))
	require.NoError(t, s.Bootstrap(ctx))

	roster, err := s.loadRoster(ctx)
	require.NoError(t, err)
	require.Len(t, roster, 2)

	assert.Equal(t, CoachName, roster[0].Name)
	assert.Equal(t, models.RoleCoach, roster[0].Role)
	assert.Equal(t, TestStudentUsername, roster[1].Username)
	assert.Equal(t, models.RoleStudent, roster[1].Role)
	assert.False(t, roster[1].IsFirstLogin)
}

func TestBootstrap_NeverOverwritesExistingAccount(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()
	require.NoError(t, s.Bootstrap(ctx))

	user, _, err := s.Login(ctx, TestStudentUsername, TestStudentUsername)
	require.NoError(t, err)
	_, err = s.UpdatePassword(ctx, user.ID, "different")
	require.NoError(t, err)

	require.NoError(t, s.Bootstrap(ctx))

	// the rotated credential survives later bootstraps
	_, _, err = s.Login(ctx, TestStudentUsername, "different")
	require.NoError(t, err)
}

func TestLogin_UpdatesBookkeepingAndSession(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()
	require.NoError(t, s.Bootstrap(ctx))

	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(48 * time.Hour)

	s.now = func() time.Time { return first }
	user, previous, err := s.Login(ctx, TestStudentUsername, TestStudentUsername)
	require.NoError(t, err)
	assert.Nil(t, previous, "first login has no previous login")
	assert.Equal(t, 1, user.LoginCount)
	require.NotNil(t, user.LastLogin)
	assert.Equal(t, first, *user.LastLogin)

	current, err := s.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, user.ID, current.ID)
	assert.Equal(t, 1, current.LoginCount)

	s.now = func() time.Time { return second }
	user, previous, err = s.Login(ctx, TestStudentUsername, TestStudentUsername)
	require.NoError(t, err)
	require.NotNil(t, previous, "second login sees the first login moment")
	assert.Equal(t, first, *previous)
	assert.Equal(t, 2, user.LoginCount)
	assert.Equal(t, second, *user.LastLogin)
}

func TestLogin_Failures(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()
	require.NoError(t, s.Bootstrap(ctx))

	_, _, err := s.Login(ctx, "nobody", "pw")
	assert.ErrorIs(t, err, shared.ErrorNotFound)

	_, _, err = s.Login(ctx, TestStudentUsername, "wrong")
	assert.ErrorIs(t, err, shared.ErrorInvalidCredential)

	// failed logins never establish a session
	current, err := s.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestLogout_ClearsSessionOnly(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()
	require.NoError(t, s.Bootstrap(ctx))

	_, _, err := s.Login(ctx, TestStudentUsername, TestStudentUsername)
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx))

	current, err := s.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)

	// roster untouched
	_, _, err = s.Login(ctx, TestStudentUsername, TestStudentUsername)
	require.NoError(t, err)
}

func TestUpdatePassword_RefreshesSessionForSameUser(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()
	require.NoError(t, s.Bootstrap(ctx))

	user, _, err := s.Login(ctx, TestStudentUsername, TestStudentUsername)
	require.NoError(t, err)

	updated, err := s.UpdatePassword(ctx, user.ID, "newsecret")
	require.NoError(t, err)
	assert.False(t, updated.IsFirstLogin)
	assert.Equal(t, shared.DigestHex("newsecret"), updated.PasswordHash)

	current, err := s.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, updated.PasswordHash, current.PasswordHash)

	_, err = s.UpdatePassword(ctx, "no-such-id", "x")
	assert.ErrorIs(t, err, shared.ErrorNotFound)
}

func TestResetPasswordToUsername_ForcesRotation(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()
	require.NoError(t, s.Bootstrap(ctx))

	user, _, err := s.Login(ctx, TestStudentUsername, TestStudentUsername)
	require.NoError(t, err)
	_, err = s.UpdatePassword(ctx, user.ID, "rotated")
	require.NoError(t, err)

	require.NoError(t, s.ResetPasswordToUsername(ctx, user.ID))

	reset, _, err := s.Login(ctx, user.Username, user.Username)
	require.NoError(t, err)
	assert.True(t, reset.IsFirstLogin)

	assert.ErrorIs(t, s.ResetPasswordToUsername(ctx, "no-such-id"), shared.ErrorNotFound)
}

func TestRegisterBatch_DropsDuplicates(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()
	require.NoError(t, s.Bootstrap(ctx))

	inserted, err := s.RegisterBatch(ctx, []RosterEntry{
		{Name: "A", Username: "a"},
		{Name: "B", Username: "b"},
		{Name: "A again", Username: "a"},            // duplicate within the batch
		{Name: "Test clone", Username: "test"},      // collides with bootstrap account
		{Name: "No username", Username: ""},         // malformed, dropped
	})
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	students, err := s.ListStudents(ctx)
	require.NoError(t, err)

	usernames := make(map[string]int)
	for _, st := range students {
		usernames[st.Username]++
	}
	for name, n := range usernames {
		assert.Equal(t, 1, n, "username %q must be unique", name)
	}

	// fresh students carry the initial credential contract
	for _, st := range students {
		if st.Username == "a" {
			assert.True(t, st.IsFirstLogin)
			assert.Equal(t, shared.DigestHex("a"), st.PasswordHash)
			assert.Equal(t, models.RoleStudent, st.Role)
			assert.NotEmpty(t, st.ID)
		}
	}

	// batch-registered account logs in with username as password
	user, _, err := s.Login(ctx, "a", "a")
	require.NoError(t, err)
	assert.True(t, user.IsFirstLogin)
}

func TestListStudents_ExcludesCoach(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()
	require.NoError(t, s.Bootstrap(ctx))

	students, err := s.ListStudents(ctx)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, TestStudentUsername, students[0].Username)
}
