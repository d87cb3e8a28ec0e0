// Package cli implements the sevactl commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sevadhara/console/internal/catalog"
	"github.com/sevadhara/console/internal/export"
	"github.com/sevadhara/console/internal/notify"
	"github.com/sevadhara/console/internal/profile"
	"github.com/sevadhara/console/internal/upstream"
	"github.com/sevadhara/console/report"
)

// App carries the I/O and collaborators the commands share. Tests replace
// Prompt and the writers.
type App struct {
	Out         io.Writer
	Err         io.Writer
	ProfilePath string
	Prompt      func(label string, secret bool) (string, error)
	HTTPClient  *http.Client
	Now         func() time.Time
}

// NewApp returns an App bound to the terminal.
func NewApp() *App {
	return &App{Out: os.Stdout, Err: os.Stderr, Prompt: terminalPrompt, Now: time.Now}
}

// NewRootCommand assembles the command tree.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "sevactl",
		Short: "Command line access to the Sevadhara temple and dairy records",
		Long: `sevactl signs in to the Sevadhara API once and then exports screens,
builds the buyer outstanding report and sends WhatsApp reminders without
opening the web console.`,
		SilenceUsage: true,
	}
	root.SetOut(app.Out)
	root.SetErr(app.Err)
	root.PersistentFlags().StringVar(&app.ProfilePath, "profile", app.ProfilePath, "profile file (default ~/.sevactl.yml)")

	root.AddCommand(
		newLoginCommand(app),
		newEntitiesCommand(app),
		newExportCommand(app),
		newOutstandingCommand(app),
		newRemindCommand(app),
		newQueueCommand(app),
	)
	return root
}

// Execute runs sevactl with os.Args. Ctrl-C cancels in-flight requests.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand(NewApp()).ExecuteContext(ctx)
}

func (a *App) profilePath() (string, error) {
	if a.ProfilePath != "" {
		return a.ProfilePath, nil
	}
	return profile.DefaultPath()
}

func (a *App) loadProfile() (*profile.Profile, string, error) {
	path, err := a.profilePath()
	if err != nil {
		return nil, "", err
	}
	p, err := profile.Load(path)
	if err != nil {
		return nil, "", err
	}
	return p, path, nil
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// session is a logged-in profile with the screens built on top of it.
type session struct {
	profile  *profile.Profile
	api      *upstream.Client
	catalog  *catalog.Catalog
	exporter *export.Exporter
}

func (a *App) openSession() (*session, error) {
	p, _, err := a.loadProfile()
	if err != nil {
		return nil, err
	}
	if err := p.RequireToken(); err != nil {
		return nil, err
	}
	api := upstream.NewClient(p.BaseURL,
		upstream.WithHTTPClient(a.HTTPClient),
		upstream.WithTokenSource(upstream.ChainTokens(upstream.ContextTokens(), upstream.StaticToken(p.Token))),
	)
	var pdf export.PDFRenderer
	if p.GotenbergURL != "" {
		pdf = report.NewClient(p.GotenbergURL)
	}
	logger := slog.New(slog.NewTextHandler(a.Err, &slog.HandlerOptions{Level: slog.LevelWarn}))
	cat, err := catalog.New(catalog.Deps{
		Logger:     logger,
		API:        api,
		PDF:        pdf,
		Dispatcher: notify.NewDispatcher(notify.NewClient(api), nil, logger),
		OrgName:    p.OrgName,
	})
	if err != nil {
		return nil, err
	}
	exporter, err := export.NewExporter(pdf)
	if err != nil {
		return nil, err
	}
	exporter.WithNow(a.now)
	return &session{profile: p, api: api, catalog: cat, exporter: exporter}, nil
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.Out, format, args...)
}
