package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/verlato/mathtutor/internal/tutor/models"
)

func (a *App) topicScreen(ctx context.Context) bool {
	fmt.Println("Pick a topic:")
	for i, topic := range models.Topics {
		fmt.Printf("  %d. %s\n", i+1, topic)
	}

	line, err := getSimpleText(a.reader, "Topic number, 'notebook', 'logout' or 'exit'")
	if err != nil {
		return true
	}

	switch line {
	case "":
		return false
	case "help":
		fmt.Println("Commands: <topic number>, notebook, logout, exit")
		return false
	case "notebook":
		a.machine.OpenNotebook()
		return false
	case "logout":
		a.logout(ctx)
		return false
	case "exit", "quit":
		return true
	}

	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(models.Topics) {
		fmt.Println("Unknown command:", line)
		return false
	}

	fmt.Println("Generating a problem...")
	if err := a.machine.SelectTopic(ctx, models.Topics[n-1]); err != nil {
		fmt.Printf("Could not generate a problem: %v\n", err)
	}
	return false
}

func (a *App) problemScreen(ctx context.Context) bool {
	current := a.machine.State().Current

	marker := ""
	if a.machine.IsCurrentArchived() {
		marker = " [saved]"
	}
	fmt.Printf("\n[%s]%s %s\n", current.Topic, marker, current.Content)

	line, err := getSimpleText(a.reader, "Your attempt, or /save /solution /explain /attach <path> /back /logout /exit")
	if err != nil {
		return true
	}
	if line == "" {
		return false
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case "/back":
		if err := a.machine.Back(ctx); err != nil {
			fmt.Printf("error: %v\n", err)
		}
		return false

	case "/save":
		if err := a.machine.ToggleArchive(ctx); err != nil {
			fmt.Printf("error: %v\n", err)
		} else if a.machine.IsCurrentArchived() {
			fmt.Println("Saved to your mistake notebook.")
		} else {
			fmt.Println("Removed from your mistake notebook.")
		}
		return false

	case "/solution":
		fmt.Println(current.StandardSolution)
		return false

	case "/explain":
		fmt.Println(current.FeynmanExplanation)
		return false

	case "/attach":
		if len(fields) < 2 {
			fmt.Println("Usage: /attach <path> [message]")
			return false
		}
		attachment, err := loadAttachment(fields[1])
		if err != nil {
			fmt.Printf("Could not read attachment: %v\n", err)
			return false
		}
		text := strings.Join(fields[2:], " ")
		a.sendChat(ctx, text, attachment)
		return false

	case "/logout":
		a.logout(ctx)
		return false

	case "/exit", "/quit":
		return true
	}

	a.sendChat(ctx, line, nil)
	return false
}

func (a *App) sendChat(ctx context.Context, text string, attachment *models.Attachment) {
	if err := a.machine.SendChat(ctx, text, attachment); err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	history := a.machine.State().Current.ChatHistory
	if len(history) > 0 {
		last := history[len(history)-1]
		if last.Sender == models.SenderAssistant {
			fmt.Println(last.Text)
		}
	}
}

func (a *App) notebookScreen(ctx context.Context) bool {
	saved := a.machine.State().Mistakes
	if len(saved) == 0 {
		fmt.Println("Your mistake notebook is empty.")
	}
	for i, p := range saved {
		archived := ""
		if p.Timestamp != nil {
			archived = p.Timestamp.Format("2006-01-02")
		}
		content := p.Content
		// Cut on rune boundaries so multi-byte problem text stays valid.
		if runes := []rune(content); len(runes) > 60 {
			content = string(runes[:57]) + "..."
		}
		fmt.Printf("  %d. [%s] %s %s\n", i+1, p.Topic, archived, content)
	}

	line, err := getSimpleText(a.reader, "'open <n>', 'back', 'logout' or 'exit'")
	if err != nil {
		return true
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "back":
		_ = a.machine.Back(ctx)
	case "open":
		if len(fields) != 2 {
			fmt.Println("Usage: open <n>")
			return false
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 || n > len(saved) {
			fmt.Println("No such entry:", fields[1])
			return false
		}
		if err := a.machine.OpenArchived(ctx, saved[n-1].ID); err != nil {
			fmt.Printf("error: %v\n", err)
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

func (a *App) logout(ctx context.Context) {
	if err := a.machine.Logout(ctx); err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Println("Logged out.")
}
