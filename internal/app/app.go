// Package app provides the application context for adfctl.
// It allows dependency injection for testing.
package app

import (
	"github.com/firefly-engineering/adfctl/internal/audit"
	"github.com/firefly-engineering/adfctl/internal/config"
	"github.com/firefly-engineering/adfctl/internal/diskctl"
	"github.com/firefly-engineering/adfctl/internal/images"
	"github.com/firefly-engineering/adfctl/internal/profile"
	"github.com/firefly-engineering/adfctl/internal/system"
)

// App holds the application dependencies
type App struct {
	// Settings holds the loaded settings
	Settings *config.Settings

	// Client talks to the disk control service
	Client *diskctl.Client

	// Executor runs external tools such as xdftool
	Executor system.CommandExecutor

	// Audit is the activity journal
	Audit *audit.Logger
}

// Option is a function that configures the App
type Option func(*App)

// WithSettings sets custom settings
func WithSettings(s *config.Settings) Option {
	return func(a *App) {
		a.Settings = s
	}
}

// WithClient sets a custom control client
func WithClient(c *diskctl.Client) Option {
	return func(a *App) {
		a.Client = c
	}
}

// WithExecutor sets a custom command executor
func WithExecutor(e system.CommandExecutor) Option {
	return func(a *App) {
		a.Executor = e
	}
}

// WithAudit sets a custom activity journal
func WithAudit(l *audit.Logger) Option {
	return func(a *App) {
		a.Audit = l
	}
}

// New creates a new App with the given options.
// Dependencies not provided are derived from the settings.
func New(opts ...Option) *App {
	app := &App{}

	for _, opt := range opts {
		opt(app)
	}

	if app.Settings == nil {
		app.Settings = config.Default()
	}
	if app.Client == nil {
		app.Client = diskctl.NewClient(app.Settings.Endpoint())
	}
	if app.Executor == nil {
		app.Executor = system.DefaultExecutor()
	}
	if app.Audit == nil {
		app.Audit = audit.NewLogger(app.Settings.StateDir)
	}

	return app
}

// Creator returns the blank image creator.
func (a *App) Creator() *images.Creator {
	return images.NewCreator(a.Executor, a.Settings.Xdftool)
}

// Profiles returns the profile store.
func (a *App) Profiles() *profile.Store {
	return profile.NewStore(a.Settings.ConfigDir, a.Settings.ConfigFile, a.Settings.FileOptions())
}

// Default is the default application instance
var Default = New()

// SetDefault sets the default application instance
func SetDefault(app *App) {
	Default = app
}

// ResetDefault resets to the default application instance
func ResetDefault() {
	Default = New()
}
