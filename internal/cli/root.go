// Package cli is the shoplist command-line client. Every command drives one
// page controller against the API and prints the result with lipgloss.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/shoplist/internal/config"
	"github.com/dukerupert/shoplist/internal/logging"
	"github.com/dukerupert/shoplist/internal/notify"
	"github.com/dukerupert/shoplist/internal/page"
	"github.com/dukerupert/shoplist/internal/remote"
)

type App struct {
	ConfigFile string

	cfg      *config.Config
	deps     page.Deps
	notify   *notify.Channel
	notified bool
	out      io.Writer
	errOut   io.Writer

	// backend replaces the remote API when set; tests use it.
	backend *page.Backend
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{})
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "shoplist",
		Short:         "Shopping lists, items and categories from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Everything on the weekly list, grouped by category
  shoplist lists show <list-id>

  # Add a new item filed under Dairy (created if missing)
  shoplist items add --name Milk --price 2.50 --category Dairy

  # Tick a line off
  shoplist lists toggle <list-id> <line-id>
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup(cmd)
	}

	cmd.PersistentFlags().StringVar(&app.ConfigFile, "config", "", "config file (default .env in the working directory)")
	cmd.PersistentFlags().String("base-url", "", "API base URL")
	cmd.PersistentFlags().String("token", "", "API token")
	cmd.PersistentFlags().Duration("timeout", 0, "request timeout")
	cmd.PersistentFlags().String("log-level", "", "debug, info, warn or error")
	cmd.PersistentFlags().String("log-format", "", "text or json")

	cmd.AddCommand(newListsCmd(app))
	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newCategoriesCmd(app))
	cmd.AddCommand(newTodosCmd(app))
	cmd.AddCommand(newIconsCmd(app))
	return cmd
}

// Execute runs the root command and returns the process exit code. Failures
// already shown as a notification are not printed a second time.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := &App{}
	cmd := newRootCmd(app)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !app.notified {
			fmt.Fprintln(stderr, styleError.Render("Error: "+err.Error()))
		}
		return 1
	}
	return 0
}

func (app *App) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(app.ConfigFile, cmd.Flags())
	if err != nil {
		return err
	}
	app.cfg = cfg
	app.out = cmd.OutOrStdout()
	app.errOut = cmd.ErrOrStderr()

	logger := logging.New(app.errOut, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	app.notify = notify.New(notify.DefaultTTL)
	app.notify.OnChange(app.showMessage)

	backend := app.backend
	if backend == nil {
		client := remote.NewClient(remote.Config{
			BaseURL: cfg.BaseURL,
			Token:   cfg.Token,
			Timeout: cfg.Timeout,
			Logger:  logger.With("component", "remote"),
		})
		b := page.FromAPI(remote.NewAPI(client))
		backend = &b
	}
	app.deps = page.Deps{Backend: *backend, Notify: app.notify, Logger: logger}
	return nil
}

// showMessage prints a notification as it appears. Expiry is irrelevant for a
// one-shot command.
func (app *App) showMessage(msg notify.Message, visible bool) {
	if !visible {
		return
	}
	app.notified = true
	if msg.Kind == notify.Error {
		fmt.Fprintln(app.errOut, styleError.Render(msg.Text))
		return
	}
	fmt.Fprintln(app.errOut, styleSuccess.Render(msg.Text))
}

// ctx bounds a command by the configured timeout.
func (app *App) ctx(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	timeout := app.cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	// Commands may issue several calls in sequence.
	return context.WithTimeout(cmd.Context(), 4*timeout)
}
