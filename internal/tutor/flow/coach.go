package flow

import (
	"context"
	"io"

	"github.com/verlato/mathtutor/internal/shared"
	"github.com/verlato/mathtutor/internal/tutor/models"
	"github.com/verlato/mathtutor/internal/tutor/roster"
)

func (m *Machine) isCoach() bool {
	return m.state.User != nil && m.state.User.Role == models.RoleCoach
}

// Students returns the roster of student accounts for the dashboard.
func (m *Machine) Students(ctx context.Context) ([]models.User, error) {
	return m.accounts.ListStudents(ctx)
}

// ImportRoster parses tabular records and batch-registers the valid rows.
// Returns the number of accounts inserted and the number of rows rejected
// during parsing; duplicate usernames are dropped by the credential store.
func (m *Machine) ImportRoster(ctx context.Context, r io.Reader) (inserted, rejected int, err error) {
	if !m.isCoach() {
		return 0, 0, nil
	}

	entries, rejected, err := roster.ParseRoster(r)
	if err != nil {
		return 0, 0, err
	}

	inserted, err = m.accounts.RegisterBatch(ctx, entries)
	if err != nil {
		return 0, rejected, err
	}
	return inserted, rejected, nil
}

// ResetStudentPassword resets a student's password to their username and
// forces credential rotation at their next login.
func (m *Machine) ResetStudentPassword(ctx context.Context, studentID string) error {
	if !m.isCoach() {
		return nil
	}
	return m.accounts.ResetPasswordToUsername(ctx, studentID)
}

// OpenAnalytics moves from the dashboard into the analytics view for one
// student, loading their archive.
func (m *Machine) OpenAnalytics(ctx context.Context, studentID string) error {
	if m.state.Screen != ScreenCoachDashboard {
		return nil
	}

	students, err := m.accounts.ListStudents(ctx)
	if err != nil {
		return err
	}

	for i := range students {
		if students[i].ID == studentID {
			saved, err := m.mistakes.GetMistakes(ctx, studentID)
			if err != nil {
				return err
			}
			m.state.SelectedStudent = &students[i]
			m.state.StudentMistakes = saved
			m.state.Screen = ScreenCoachAnalytics
			return nil
		}
	}
	return shared.ErrorNotFound
}

// StudentReport asks the collaborator for a study-plan summary of the
// selected student's archive. An empty archive yields the fixed no-data
// text without a provider call.
func (m *Machine) StudentReport(ctx context.Context) (string, error) {
	if m.state.Screen != ScreenCoachAnalytics {
		return "", nil
	}
	return m.provider.Summarize(ctx, m.state.StudentMistakes)
}

// ExportRosterCSV renders the student roster as CSV.
func (m *Machine) ExportRosterCSV(ctx context.Context) ([]byte, error) {
	if !m.isCoach() {
		return nil, nil
	}
	students, err := m.accounts.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	return roster.RenderCSV(roster.StudentsDataset(students))
}

// ExportStudentReportPDF renders the selected student's archive as a PDF
// report.
func (m *Machine) ExportStudentReportPDF(ctx context.Context) ([]byte, error) {
	if m.state.Screen != ScreenCoachAnalytics || m.state.SelectedStudent == nil {
		return nil, nil
	}
	title := "Mistake report - " + m.state.SelectedStudent.Name
	return roster.RenderPDF(roster.MistakesDataset(m.state.StudentMistakes), title)
}
