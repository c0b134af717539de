// Package flow implements the navigation state machine that sequences the
// credential store, the mistake archive, the session continuity store, and
// the AI collaborator into the full application flow.
//
// The machine owns no persisted state: it holds the currently loaded
// in-memory copies and re-synchronizes them into the stores on every change.
// All store failures surface to the caller as errors to render; none of them
// are retried and none are fatal. Every path returns control to an
// interactive state.
package flow

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/verlato/mathtutor/internal/logging"
	"github.com/verlato/mathtutor/internal/shared"
	"github.com/verlato/mathtutor/internal/tutor/models"
	"github.com/verlato/mathtutor/internal/tutor/progress"
	"github.com/verlato/mathtutor/internal/tutor/provider"
	"github.com/verlato/mathtutor/internal/tutor/stores/accounts"
	"github.com/verlato/mathtutor/internal/tutor/stores/mistakes"
	"github.com/verlato/mathtutor/internal/tutor/stores/session"
)

// Screen names one navigation state.
type Screen string

const (
	ScreenLogin           Screen = "login"
	ScreenChangePassword  Screen = "change_password"
	ScreenCoachDashboard  Screen = "coach_dashboard"
	ScreenCoachAnalytics  Screen = "coach_analytics"
	ScreenTopicSelection  Screen = "topic_selection"
	ScreenMistakeNotebook Screen = "mistake_notebook"
	ScreenProblemActive   Screen = "problem_active"
)

// State is the machine's in-memory view. Everything here is role-scoped and
// discarded on logout.
type State struct {
	Screen           Screen
	User             *models.User
	Mistakes         []models.Problem
	Current          *models.Problem
	SelectedStudent  *models.User
	StudentMistakes  []models.Problem
	ShowAchievements bool

	// PreviousLogin is the login moment before the current one, captured at
	// interactive login for display. Nil on first login and on silent resume.
	PreviousLogin *time.Time
}

// Machine drives navigation over the stores and the collaborator.
type Machine struct {
	accounts *accounts.Service
	mistakes *mistakes.Store
	sessions *session.Store
	provider provider.Client
	log      logging.Logger

	state State

	// test seams: random-topic resolution and archive timestamps.
	randIntn func(n int) int
	now      func() time.Time
}

// NewMachine builds a machine in the Login state.
func NewMachine(acc *accounts.Service, arch *mistakes.Store, sess *session.Store, prov provider.Client, log logging.Logger) *Machine {
	return &Machine{
		accounts: acc,
		mistakes: arch,
		sessions: sess,
		provider: prov,
		log:      log,
		state:    State{Screen: ScreenLogin},
		randIntn: rand.Intn,
		now:      time.Now,
	}
}

// State returns the current in-memory view.
func (m *Machine) State() State {
	return m.state
}

// Screen returns the current navigation state.
func (m *Machine) Screen() Screen {
	return m.state.Screen
}

// SubmitLogin authenticates and dispatches. A first login defers role
// dispatch into mandatory password rotation. The achievements overlay is
// armed exactly when the store supplied a defined previous-login value,
// which only an explicit interactive login does.
func (m *Machine) SubmitLogin(ctx context.Context, username, password string) error {
	user, previousLogin, err := m.accounts.Login(ctx, username, password)
	if err != nil {
		return err
	}

	m.state.User = user
	m.state.PreviousLogin = previousLogin
	m.state.ShowAchievements = previousLogin != nil

	if user.IsFirstLogin {
		// The overlay derives from the archive, so it must be loaded even
		// though role dispatch is deferred into password rotation.
		if user.Role == models.RoleStudent {
			saved, err := m.mistakes.GetMistakes(ctx, user.ID)
			if err != nil {
				return err
			}
			m.state.Mistakes = saved
		}
		m.state.Screen = ScreenChangePassword
		return nil
	}
	return m.enterRole(ctx)
}

// Resume restores the persisted session identity at process start. It
// reports whether a session was found. The achievements overlay is never
// shown on a silent resume.
func (m *Machine) Resume(ctx context.Context) (bool, error) {
	user, err := m.accounts.CurrentUser(ctx)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}

	m.state.User = user
	m.state.ShowAchievements = false

	if user.IsFirstLogin {
		m.state.Screen = ScreenChangePassword
		return true, nil
	}
	if err := m.enterRole(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// enterRole moves into the role-appropriate entry state. For students the
// archive is loaded and, when a session pointer exists, it takes priority
// over topic selection.
func (m *Machine) enterRole(ctx context.Context) error {
	if m.state.User.Role == models.RoleCoach {
		m.state.Screen = ScreenCoachDashboard
		return nil
	}

	saved, err := m.mistakes.GetMistakes(ctx, m.state.User.ID)
	if err != nil {
		return err
	}
	m.state.Mistakes = saved

	current, err := m.sessions.GetLastSession(ctx, m.state.User.ID)
	if err != nil {
		return err
	}
	if current != nil {
		m.state.Current = current
		m.state.Screen = ScreenProblemActive
		return nil
	}

	m.state.Screen = ScreenTopicSelection
	return nil
}

// SubmitPasswordChange validates and applies the rotated credential, then
// dispatches to the role-appropriate entry state.
func (m *Machine) SubmitPasswordChange(ctx context.Context, newPassword, confirm string) error {
	if m.state.Screen != ScreenChangePassword {
		return nil
	}
	if len(newPassword) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", shared.ErrorValidation)
	}
	if newPassword != confirm {
		return fmt.Errorf("%w: passwords do not match", shared.ErrorValidation)
	}

	user, err := m.accounts.UpdatePassword(ctx, m.state.User.ID, newPassword)
	if err != nil {
		return err
	}
	m.state.User = user
	return m.enterRole(ctx)
}

// Logout returns to Login from any state and discards all in-memory
// role-scoped data.
func (m *Machine) Logout(ctx context.Context) error {
	if err := m.accounts.Logout(ctx); err != nil {
		return err
	}
	m.state = State{Screen: ScreenLogin}
	return nil
}

// Achievements derives the progression overlay contents from the loaded
// archive and the stored login count.
func (m *Machine) Achievements() progress.Summary {
	if m.state.User == nil {
		return progress.Compute(0, 1, 0)
	}
	return progress.FromArchive(m.state.Mistakes, m.state.User.LoginCount)
}

// DismissAchievements hides the overlay until the next interactive login.
func (m *Machine) DismissAchievements() {
	m.state.ShowAchievements = false
}
