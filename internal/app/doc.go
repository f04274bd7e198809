// Package app provides the application context for adfctl.
//
// This package manages application-wide dependencies using the functional
// options pattern, enabling easy testing through dependency injection.
// The CLI and the web API share the operations defined here, so both record
// the same journal events and report the same errors.
//
// # App Context
//
// The App struct holds core dependencies:
//
//	type App struct {
//	    Settings *config.Settings       // Loaded settings
//	    Client   *diskctl.Client        // Disk control service
//	    Executor system.CommandExecutor // xdftool runner
//	    Audit    *audit.Logger          // Activity journal
//	}
//
// # Creating an App
//
// Use New with functional options:
//
//	// Production usage
//	a := app.New(app.WithSettings(settings))
//
//	// Testing with custom dependencies
//	a := app.New(
//	    app.WithSettings(testSettings),
//	    app.WithExecutor(system.NewMockExecutor()),
//	)
//
// # Available Options
//
//	WithSettings(settings)  // Loaded settings
//	WithClient(client)      // Custom control client
//	WithExecutor(executor)  // Custom command executor
//	WithAudit(logger)       // Custom activity journal
package app
