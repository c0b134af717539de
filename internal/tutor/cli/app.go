// Package cli is the interactive terminal front end. It renders the current
// navigation state and translates user input into machine transitions; all
// flow decisions live in the flow package.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/verlato/mathtutor/internal/logging"
	"github.com/verlato/mathtutor/internal/tutor/config"
	"github.com/verlato/mathtutor/internal/tutor/flow"
	"github.com/verlato/mathtutor/internal/tutor/provider"
	"github.com/verlato/mathtutor/internal/tutor/repositories/kv"
	"github.com/verlato/mathtutor/internal/tutor/storage"
	"github.com/verlato/mathtutor/internal/tutor/stores/accounts"
	"github.com/verlato/mathtutor/internal/tutor/stores/mistakes"
	"github.com/verlato/mathtutor/internal/tutor/stores/session"

	_ "modernc.org/sqlite"
)

// App owns the wired stores, the flow machine, and the input reader.
type App struct {
	config  *config.Config
	machine *flow.Machine
	db      *sql.DB
	log     logging.Logger
	reader  *bufio.Reader
}

// NewApp opens the local database, migrates it, seeds the bootstrap
// accounts, and wires the stores into a fresh flow machine.
func NewApp(c *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	db, err := storage.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	repo := kv.NewSQLiteRepository(db)

	acc := accounts.NewService(repo, log)
	if err := acc.Bootstrap(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap accounts: %w", err)
	}

	prov := provider.NewResilient(
		provider.NewHTTPClient(c.ProviderEndpointAddr, c.ProviderModel, c.RequestTimeout),
		log,
	)

	machine := flow.NewMachine(acc, mistakes.NewStore(repo), session.NewStore(repo), prov, log)

	return &App{
		config:  c,
		machine: machine,
		db:      db,
		log:     log,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

// Close releases the database handle.
func (a *App) Close() error {
	return a.db.Close()
}

// Run resumes any persisted session and then loops, rendering one screen
// per iteration, until the user exits.
func (a *App) Run(ctx context.Context) error {
	fmt.Println("Welcome to MathTutor (type 'help' on any screen)")

	resumed, err := a.machine.Resume(ctx)
	if err != nil {
		return fmt.Errorf("resume session: %w", err)
	}
	if resumed {
		user := a.machine.State().User
		fmt.Printf("Resumed session for %s\n", user.Name)
	}

	for {
		var quit bool
		switch a.machine.Screen() {
		case flow.ScreenLogin:
			quit = a.loginScreen(ctx)
		case flow.ScreenChangePassword:
			quit = a.changePasswordScreen(ctx)
		case flow.ScreenTopicSelection:
			quit = a.topicScreen(ctx)
		case flow.ScreenProblemActive:
			quit = a.problemScreen(ctx)
		case flow.ScreenMistakeNotebook:
			quit = a.notebookScreen(ctx)
		case flow.ScreenCoachDashboard:
			quit = a.dashboardScreen(ctx)
		case flow.ScreenCoachAnalytics:
			quit = a.analyticsScreen(ctx)
		default:
			return fmt.Errorf("unknown screen %q", a.machine.Screen())
		}
		if quit {
			fmt.Println("Bye!")
			return nil
		}
	}
}
