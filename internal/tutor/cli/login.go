package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) loginScreen(ctx context.Context) bool {
	username, err := getSimpleText(a.reader, "Username ('exit' to quit)")
	if err != nil {
		return true
	}
	switch username {
	case "":
		return false
	case "exit", "quit":
		return true
	}

	password, err := getPassword("Password")
	if err != nil {
		return true
	}

	if err := a.machine.SubmitLogin(ctx, username, password); err != nil {
		fmt.Printf("Login failed: %v\n", err)
		return false
	}

	state := a.machine.State()
	fmt.Printf("Welcome, %s!\n", state.User.Name)
	if state.PreviousLogin != nil {
		fmt.Printf("Last login: %s\n", state.PreviousLogin.Format("2006-01-02 15:04"))
	}
	a.maybeShowAchievements()
	return false
}

func (a *App) changePasswordScreen(ctx context.Context) bool {
	fmt.Println("First login: please choose a new password.")

	newPassword, err := getPassword("New password")
	if err != nil {
		return true
	}
	confirm, err := getPassword("Confirm password")
	if err != nil {
		return true
	}

	if err := a.machine.SubmitPasswordChange(ctx, newPassword, confirm); err != nil {
		fmt.Printf("Password not changed: %v\n", err)
		return false
	}

	fmt.Println("Password updated.")
	a.maybeShowAchievements()
	return false
}

// maybeShowAchievements renders the progression overlay once after an
// explicit interactive login.
func (a *App) maybeShowAchievements() {
	state := a.machine.State()
	if !state.ShowAchievements || state.User == nil {
		return
	}
	defer a.machine.DismissAchievements()

	summary := a.machine.Achievements()
	fmt.Printf("Level %d (%d%% to the next level)\n", summary.Level, summary.ProgressPercent)

	var unlocked []string
	for _, b := range summary.Badges {
		if b.Unlocked {
			unlocked = append(unlocked, b.Name)
		}
	}
	if len(unlocked) > 0 {
		fmt.Printf("Badges: %s\n", strings.Join(unlocked, ", "))
	}
}
