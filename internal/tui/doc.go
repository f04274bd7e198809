// Package tui provides terminal user interface components for adfctl.
//
// This package uses the Bubble Tea framework for the interactive image
// picker "adfctl insert" opens when no image is named.
//
// # Image Picker
//
// The picker lists the image directory grouped by top-level folder:
//
//	result, err := tui.RunPicker(entries, status)
//	switch result.Action {
//	case tui.ActionInsert:
//	    // Insert result.Entry, writable if result.Writable
//	case tui.ActionQuit:
//	    // Exit
//	}
//
// # Picker Features
//
//   - Images grouped by folder, loose images under "root"
//   - Keyboard navigation (j/k or arrows), headers auto-skipped
//   - Mounted images are marked with their drive unit
//   - Quick actions: Enter (insert), w (insert writable), q (quit)
//
// SimplePicker renders the same grouping as plain text for "adfctl list".
//
// # Dependencies
//
// Uses the Charm libraries:
//   - github.com/charmbracelet/bubbletea - TUI framework
//   - github.com/charmbracelet/bubbles - UI components
//   - github.com/charmbracelet/lipgloss - Styling
package tui
