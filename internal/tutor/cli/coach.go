package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/verlato/mathtutor/internal/tutor/models"
)

func (a *App) dashboardScreen(ctx context.Context) bool {
	students, err := a.machine.Students(ctx)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return false
	}

	fmt.Printf("Students (%d):\n", len(students))
	for i, s := range students {
		lastLogin := "never"
		if s.LastLogin != nil {
			lastLogin = s.LastLogin.Format("2006-01-02 15:04")
		}
		fmt.Printf("  %d. %s (%s), %d logins, last %s\n", i+1, s.Name, s.Username, s.LoginCount, lastLogin)
	}

	line, err := getSimpleText(a.reader, "'view <n>', 'import <csv>', 'export <csv>', 'reset <n>', 'logout' or 'exit'")
	if err != nil {
		return true
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "view":
		if s, ok := pickStudent(students, fields); ok {
			if err := a.machine.OpenAnalytics(ctx, s.ID); err != nil {
				fmt.Printf("error: %v\n", err)
			}
		}

	case "import":
		if len(fields) != 2 {
			fmt.Println("Usage: import <path-to-csv>")
			return false
		}
		f, err := os.Open(fields[1])
		if err != nil {
			fmt.Printf("Could not open roster file: %v\n", err)
			return false
		}
		defer f.Close()
		inserted, rejected, err := a.machine.ImportRoster(ctx, f)
		if err != nil {
			fmt.Printf("Import failed: %v\n", err)
			return false
		}
		fmt.Printf("Registered %d students (%d rows rejected).\n", inserted, rejected)

	case "export":
		if len(fields) != 2 {
			fmt.Println("Usage: export <path-to-csv>")
			return false
		}
		data, err := a.machine.ExportRosterCSV(ctx)
		if err != nil {
			fmt.Printf("Export failed: %v\n", err)
			return false
		}
		if err := os.WriteFile(fields[1], data, 0o644); err != nil {
			fmt.Printf("Could not write %s: %v\n", fields[1], err)
			return false
		}
		fmt.Printf("Roster written to %s\n", fields[1])

	case "reset":
		if s, ok := pickStudent(students, fields); ok {
			if err := a.machine.ResetStudentPassword(ctx, s.ID); err != nil {
				fmt.Printf("error: %v\n", err)
				return false
			}
			fmt.Printf("Password for %s reset to their username.\n", s.Username)
		}

	case "logout":
		a.logout(ctx)

	case "exit", "quit":
		return true

	default:
		fmt.Println("Unknown command:", fields[0])
	}
	return false
}

func pickStudent(students []models.User, fields []string) (models.User, bool) {
	if len(fields) != 2 {
		fmt.Printf("Usage: %s <n>\n", fields[0])
		return models.User{}, false
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 1 || n > len(students) {
		fmt.Println("No such student:", fields[1])
		return models.User{}, false
	}
	return students[n-1], true
}

func (a *App) analyticsScreen(ctx context.Context) bool {
	state := a.machine.State()
	fmt.Printf("%s: %d archived mistakes\n", state.SelectedStudent.Name, len(state.StudentMistakes))
	for i, p := range state.StudentMistakes {
		fmt.Printf("  %d. [%s] %s\n", i+1, p.Topic, p.Difficulty)
	}

	line, err := getSimpleText(a.reader, "'report', 'pdf <path>', 'back', 'logout' or 'exit'")
	if err != nil {
		return true
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "report":
		report, err := a.machine.StudentReport(ctx)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return false
		}
		fmt.Println(report)

	case "pdf":
		if len(fields) != 2 {
			fmt.Println("Usage: pdf <path>")
			return false
		}
		data, err := a.machine.ExportStudentReportPDF(ctx)
		if err != nil {
			fmt.Printf("Export failed: %v\n", err)
			return false
		}
		if err := os.WriteFile(fields[1], data, 0o644); err != nil {
			fmt.Printf("Could not write %s: %v\n", fields[1], err)
			return false
		}
		fmt.Printf("Report written to %s\n", fields[1])

	case "back":
		_ = a.machine.Back(ctx)

	case "logout":
		a.logout(ctx)

	case "exit", "quit":
		return true

	default:
		fmt.Println("Unknown command:", fields[0])
	}
	return false
}
