// Package logging provides logging utilities for adfctl.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings:
//
//	logging.Debug("patched config", "path", path, "changed", keys)
//	logging.Warn("status unavailable", "address", ep.Address())
//
// # User Output
//
// User-facing messages are formatted with status indicators:
//
//	logging.UserInfo("Inserting %s...", name)
//	logging.UserSuccess("Inserted into DF%d", unit)
//	logging.UserWarning("DF%d is occupied, using DF%d", want, got)
//	logging.UserError("Failed to patch config: %v", err)
//
// Output destinations:
//   - UserInfo, UserSuccess: stdout
//   - UserWarning, UserError: stderr
//
// User output can be redirected with SetUserOutput, which the CLI points at
// the command's writers.
//
// # Status Indicators
//
// User functions prepend status indicators, colored with lipgloss on a
// terminal:
//   - ℹ (info)
//   - ✓ (success)
//   - ⚠ (warning)
//   - ✗ (error)
package logging
