package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	jsonrepo "github.com/shubhampopalghat/userbot/internal/adapters/repo/json"
	menurender "github.com/shubhampopalghat/userbot/internal/adapters/render/menu"
	"github.com/shubhampopalghat/userbot/internal/domain"
)

// menuLoop is the top-level interactive REPL. A SIGINT at the prompt exits
// the program after closing every session; a SIGINT while the bot is
// listening only stops the listening loop and falls back to the menu.
type menuLoop struct {
	app *app
	out *os.File

	mu           sync.Mutex
	activeCancel context.CancelFunc
}

func runMenu(cmd *cobra.Command, app *app) error {
	loop := &menuLoop{app: app, out: os.Stdout}
	return loop.run(cmd.Context())
}

func (m *menuLoop) run(ctx context.Context) error {
	defer m.app.pool.CloseAll(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go m.handleSignals(sigCh)

	if watcher, err := jsonrepo.NewWatcher(m.app.repo.Path(), m.onRegistryChange, m.app.log); err != nil {
		m.app.log.Warn().Err(err).Msg("registry watcher unavailable")
	} else if err := watcher.Start(); err != nil {
		m.app.log.Warn().Err(err).Msg("registry watcher unavailable")
	} else {
		defer watcher.Stop()
	}

	m.restoreSessions(ctx)

	for {
		fmt.Fprintln(m.out)
		fmt.Fprintln(m.out, menurender.Render(m.renderOptions()))

		choice, err := m.app.prompter.Line("\nEnter your choice (1-5): ")
		if err != nil {
			// stdin closed: behave like exit.
			return nil
		}

		if done := m.dispatch(ctx, choice); done {
			fmt.Fprintln(m.out, "👋 Goodbye!")
			return nil
		}
	}
}

// dispatch runs one menu action. Action errors are logged, never fatal to
// the loop.
func (m *menuLoop) dispatch(ctx context.Context, choice string) (exit bool) {
	var err error
	switch choice {
	case "1":
		err = m.addAccount(ctx)
	case "2":
		err = m.selectAccount()
	case "3":
		err = m.activate(ctx)
	case "4":
		m.showStatus()
	case "5":
		return true
	default:
		fmt.Fprintln(m.out, "❌ Invalid choice! Please select 1-5.")
	}

	if err != nil {
		m.app.log.Error().Err(err).Str("choice", choice).Msg("menu action failed")
	}

	return false
}

func (m *menuLoop) restoreSessions(ctx context.Context) {
	records, err := m.app.repo.Load(ctx)
	if err != nil || len(records) == 0 {
		return
	}

	restored, err := runRestoreSpinner(ctx, os.Stderr, func(ctx context.Context) []domain.AccountName {
		return m.app.pool.RestoreAll(ctx, records, m.app.opener)
	})
	if err != nil {
		// Spinner trouble is cosmetic; restore directly.
		restored = m.app.pool.RestoreAll(ctx, records, m.app.opener)
	}

	fmt.Fprintf(m.out, "✅ Restored %d of %d account sessions\n", len(restored), len(records))
}

func (m *menuLoop) addAccount(ctx context.Context) error {
	fmt.Fprintln(m.out, "\n--- ADD NEW ACCOUNT ---")
	fmt.Fprintln(m.out, "Get API credentials from https://my.telegram.org/apps")

	name, err := m.app.onboarding.AddAccount(ctx)
	if err != nil {
		fmt.Fprintln(m.out, "❌ Failed to add account!")
		return err
	}

	fmt.Fprintf(m.out, "✅ Account %s added successfully!\n", name)
	return nil
}

func (m *menuLoop) selectAccount() error {
	names := m.app.pool.Names()
	if len(names) == 0 {
		fmt.Fprintln(m.out, "❌ No accounts logged in! Please add an account first.")
		return nil
	}

	fmt.Fprintln(m.out, "\n--- SELECT ACCOUNT ---")
	fmt.Fprintln(m.out, menurender.RenderAccounts(m.accountLines()))

	raw, err := m.app.prompter.Line(fmt.Sprintf("\nSelect account (1-%d): ", len(names)))
	if err != nil {
		return err
	}

	choice, err := strconv.Atoi(raw)
	if err != nil || choice < 1 || choice > len(names) {
		fmt.Fprintln(m.out, "❌ Invalid choice!")
		return nil
	}

	selected := names[choice-1]
	if err := m.app.pool.Select(selected); err != nil {
		return err
	}

	fmt.Fprintf(m.out, "✅ Switched to %s\n", selected)
	return nil
}

func (m *menuLoop) activate(ctx context.Context) error {
	entry, ok := m.app.pool.Active()
	if !ok {
		fmt.Fprintln(m.out, "❌ No account selected! Please add and select an account first.")
		return nil
	}

	authorized, err := entry.Client.IsAuthorized(ctx)
	if err != nil || !authorized {
		fmt.Fprintln(m.out, "❌ Current account not authorized! Please select a valid account.")
		return err
	}

	fmt.Fprintln(m.out, "✅ Userbot activated! Listening for commands...")
	fmt.Fprintln(m.out, "\nAvailable commands:")
	fmt.Fprintln(m.out, "- /Aban : Ban all group members")
	fmt.Fprintln(m.out, "- #NexoUnion : Delete service messages")
	fmt.Fprintln(m.out, "- .a : Show active status")
	fmt.Fprintln(m.out, "- .join [links] : Join groups")
	fmt.Fprintln(m.out, "- .left [links] : Leave groups")
	fmt.Fprintln(m.out, "\nPress Ctrl+C to stop the bot")

	runCtx, cancel := context.WithCancel(ctx)
	m.setActiveCancel(cancel)
	defer m.setActiveCancel(nil)
	defer cancel()

	if err := m.app.dispatcher.Activate(runCtx, entry); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("listening loop: %w", err)
	}

	fmt.Fprintln(m.out, "\n🛑 Bot stopped")
	return nil
}

func (m *menuLoop) showStatus() {
	fmt.Fprintln(m.out, "\n--- ACCOUNT STATUS ---")
	fmt.Fprintln(m.out, menurender.RenderAccounts(m.accountLines()))
}

func (m *menuLoop) renderOptions() menurender.Options {
	return menurender.Options{
		Accounts: m.accountLines(),
		Active:   string(m.app.pool.ActiveName()),
	}
}

func (m *menuLoop) accountLines() []menurender.AccountLine {
	names := m.app.pool.Names()
	active := m.app.pool.ActiveName()

	lines := make([]menurender.AccountLine, 0, len(names))
	for _, name := range names {
		entry, err := m.app.pool.Get(name)
		if err != nil {
			continue
		}
		lines = append(lines, menurender.AccountLine{
			Name:        string(name),
			Phone:       entry.Phone,
			DisplayName: entry.DisplayName,
			Active:      name == active,
		})
	}

	return lines
}

func (m *menuLoop) onRegistryChange() {
	records, err := m.app.repo.Load(context.Background())
	if err != nil {
		return
	}
	m.app.log.Info().Int("accounts", len(records)).Msg("registry reloaded")
}

func (m *menuLoop) setActiveCancel(cancel context.CancelFunc) {
	m.mu.Lock()
	m.activeCancel = cancel
	m.mu.Unlock()
}

func (m *menuLoop) handleSignals(sigCh <-chan os.Signal) {
	for range sigCh {
		m.mu.Lock()
		cancel := m.activeCancel
		m.mu.Unlock()

		if cancel != nil {
			cancel()
			continue
		}

		fmt.Fprintln(m.out, "\n👋 Goodbye!")
		m.app.pool.CloseAll(context.Background())
		os.Exit(0)
	}
}
