package flow

import (
	"context"
	"strings"

	"github.com/verlato/mathtutor/internal/shared"
	"github.com/verlato/mathtutor/internal/tutor/models"
)

// givingUpKeywords trigger the auto-save of the active problem when they
// appear anywhere in the student's free-text input.
var givingUpKeywords = []string{
	"give up",
	"i quit",
	"no idea",
	"don't know",
	"dont know",
	"too hard",
}

func containsGivingUp(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range givingUpKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// SelectTopic resolves the chosen topic (a "random" pick resolves, at
// selection time, to a uniformly chosen concrete topic), asks the
// collaborator for a problem, persists the session pointer, and enters the
// problem-solving flow. A collaborator failure is reported and leaves the
// machine in topic selection with no partial state change.
func (m *Machine) SelectTopic(ctx context.Context, topic models.Topic) error {
	if m.state.Screen != ScreenTopicSelection {
		return nil
	}

	resolved := topic
	if topic == models.TopicRandom {
		concrete := models.ConcreteTopics()
		resolved = concrete[m.randIntn(len(concrete))]
	}

	problem, err := m.provider.GenerateProblem(ctx, resolved)
	if err != nil {
		m.log.Warn(ctx, "problem generation failed", "topic", resolved, "error", err)
		return err
	}

	if err := m.sessions.SaveLastSession(ctx, m.state.User.ID, problem); err != nil {
		return err
	}

	m.state.Current = problem
	m.state.Screen = ScreenProblemActive
	return nil
}

// SendChat appends the student's turn to the active conversation, lets the
// collaborator reply, and re-synchronizes both the session pointer and the
// archived copy of the same problem id, if one exists. Free-text input
// containing a giving-up keyword archives the problem first (idempotent).
func (m *Machine) SendChat(ctx context.Context, text string, attachment *models.Attachment) error {
	if m.state.Screen != ScreenProblemActive || m.state.Current == nil {
		return nil
	}

	if containsGivingUp(text) {
		if err := m.archiveCurrent(ctx); err != nil {
			return err
		}
	}

	// The collaborator sees the history as it was before this turn; the
	// new input travels separately.
	history := make([]models.Message, len(m.state.Current.ChatHistory))
	copy(history, m.state.Current.ChatHistory)

	m.state.Current.ChatHistory = append(m.state.Current.ChatHistory,
		models.NewMessage(models.SenderUser, text, attachment))

	reply, err := m.provider.Evaluate(ctx, m.state.Current, history, attachment, text)
	if err != nil {
		return err
	}
	m.state.Current.ChatHistory = append(m.state.Current.ChatHistory,
		models.NewMessage(models.SenderAssistant, reply, nil))

	if err := m.syncArchivedCopy(ctx); err != nil {
		return err
	}
	return m.sessions.SaveLastSession(ctx, m.state.User.ID, m.state.Current)
}

// syncArchivedCopy propagates the active problem's conversation into its
// archived copy if and only if that id is already present in the archive,
// so archived problems carry their full conversation forward.
func (m *Machine) syncArchivedCopy(ctx context.Context) error {
	for i := range m.state.Mistakes {
		if m.state.Mistakes[i].ID == m.state.Current.ID {
			archivedAt := m.state.Mistakes[i].Timestamp
			m.state.Mistakes[i] = *m.state.Current
			m.state.Mistakes[i].Timestamp = archivedAt
			return m.mistakes.SaveMistakes(ctx, m.state.User.ID, m.state.Mistakes)
		}
	}
	return nil
}

// archiveCurrent inserts the active problem into the archive with a
// timestamp. Already-archived problems are left alone, which makes repeated
// auto-save triggers for the same problem idempotent.
func (m *Machine) archiveCurrent(ctx context.Context) error {
	if m.state.User.Role != models.RoleStudent || m.state.Current == nil {
		return nil
	}
	for _, p := range m.state.Mistakes {
		if p.ID == m.state.Current.ID {
			return nil
		}
	}

	now := m.now()
	archived := *m.state.Current
	archived.Timestamp = &now

	// Most recently added first.
	m.state.Mistakes = append([]models.Problem{archived}, m.state.Mistakes...)
	return m.mistakes.SaveMistakes(ctx, m.state.User.ID, m.state.Mistakes)
}

// ToggleArchive flips the active problem's archive membership. It is a
// no-op for non-student roles. The in-memory archive is the single source
// of truth and is re-synced to storage on every change.
func (m *Machine) ToggleArchive(ctx context.Context) error {
	if m.state.User == nil || m.state.User.Role != models.RoleStudent || m.state.Current == nil {
		return nil
	}

	for i, p := range m.state.Mistakes {
		if p.ID == m.state.Current.ID {
			m.state.Mistakes = append(m.state.Mistakes[:i], m.state.Mistakes[i+1:]...)
			return m.mistakes.SaveMistakes(ctx, m.state.User.ID, m.state.Mistakes)
		}
	}
	return m.archiveCurrent(ctx)
}

// IsCurrentArchived reports whether the active problem is in the archive.
func (m *Machine) IsCurrentArchived() bool {
	if m.state.Current == nil {
		return false
	}
	for _, p := range m.state.Mistakes {
		if p.ID == m.state.Current.ID {
			return true
		}
	}
	return false
}

// Back leaves the current secondary state. Leaving the problem-solving flow
// this way explicitly clears the session pointer rather than leaving it
// stale; every other exit path overwrites instead.
func (m *Machine) Back(ctx context.Context) error {
	switch m.state.Screen {
	case ScreenProblemActive:
		if err := m.sessions.SaveLastSession(ctx, m.state.User.ID, nil); err != nil {
			return err
		}
		m.state.Current = nil
		m.state.Screen = ScreenTopicSelection
	case ScreenMistakeNotebook:
		m.state.Screen = ScreenTopicSelection
	case ScreenCoachAnalytics:
		m.state.SelectedStudent = nil
		m.state.StudentMistakes = nil
		m.state.Screen = ScreenCoachDashboard
	}
	return nil
}

// OpenNotebook shows the student's archived problems.
func (m *Machine) OpenNotebook() {
	if m.state.Screen == ScreenTopicSelection {
		m.state.Screen = ScreenMistakeNotebook
	}
}

// OpenArchived resumes an archived problem as the active one, overwriting
// the session pointer.
func (m *Machine) OpenArchived(ctx context.Context, problemID string) error {
	if m.state.Screen != ScreenMistakeNotebook {
		return nil
	}
	for _, p := range m.state.Mistakes {
		if p.ID == problemID {
			current := p
			if err := m.sessions.SaveLastSession(ctx, m.state.User.ID, &current); err != nil {
				return err
			}
			m.state.Current = &current
			m.state.Screen = ScreenProblemActive
			return nil
		}
	}
	return shared.ErrorNotFound
}
