package cmd

import (
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/firefly-engineering/adfctl/internal/app"
	"github.com/firefly-engineering/adfctl/internal/errors"
)

// getApp returns the application instance for the current run.
func getApp() *app.App {
	return app.Default
}

// isInteractive reports whether both stdin and stdout are terminals.
var isInteractive = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// parseUnit parses a drive unit argument such as "1" or "DF1".
func parseUnit(arg string) (int, error) {
	s := strings.TrimSpace(arg)
	if len(s) > 2 && strings.EqualFold(s[:2], "df") {
		s = s[2:]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.ValidationError("invalid unit: " + arg)
	}
	return n, nil
}
