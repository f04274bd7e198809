package health

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/firefly-engineering/adfctl/internal/audit"
	"github.com/firefly-engineering/adfctl/internal/config"
	"github.com/firefly-engineering/adfctl/internal/diskctl"
	"github.com/firefly-engineering/adfctl/internal/images"
	"github.com/firefly-engineering/adfctl/internal/system"
)

// CheckOptions holds the dependencies a check probes.
type CheckOptions struct {
	Settings *config.Settings
	Client   *diskctl.Client
	Executor system.CommandExecutor
	// Audit is optional; without it LastActivity stays empty.
	Audit *audit.Logger
}

// Status is the overall health of a setup.
type Status string

const (
	StatusHealthy     Status = "healthy"
	StatusDegraded    Status = "degraded"
	StatusUnreachable Status = "unreachable"
)

// CheckResult contains the results of health checks
type CheckResult struct {
	Control          string   `json:"control"`
	ControlReachable bool     `json:"control_reachable"`
	UnitsOccupied    int      `json:"units_occupied"`
	Xdftool          string   `json:"xdftool,omitempty"`
	ConfigFile       string   `json:"config_file"`
	ConfigWritable   bool     `json:"config_writable"`
	ImageDir         string   `json:"image_dir"`
	ImageCount       int      `json:"image_count"`
	LastActivity     string   `json:"last_activity,omitempty"`
	Problems         []string `json:"problems,omitempty"`
}

// Status summarizes the result.
func (r *CheckResult) Status() Status {
	switch {
	case !r.ControlReachable:
		return StatusUnreachable
	case len(r.Problems) > 0:
		return StatusDegraded
	}
	return StatusHealthy
}

// Check performs all health checks. Individual failures are recorded as
// problems; Check itself does not fail.
func Check(ctx context.Context, opts CheckOptions) *CheckResult {
	s := opts.Settings
	result := &CheckResult{
		Control:    opts.Client.Endpoint.Address(),
		ConfigFile: s.ConfigFile,
		ImageDir:   s.ImageDir,
	}

	if st, ok := opts.Client.Status(ctx); ok {
		result.ControlReachable = true
		result.UnitsOccupied = len(st.Occupied())
	} else {
		result.problem("control service at %s not reachable", result.Control)
	}

	if path, err := images.NewCreator(opts.Executor, s.Xdftool).Path(); err != nil {
		result.problem("xdftool: %v", err)
	} else {
		result.Xdftool = path
	}

	result.ConfigWritable = CheckWritable(s.ConfigFile)
	if !result.ConfigWritable {
		result.problem("config file %s is not writable", s.ConfigFile)
	}

	if entries, err := images.List(s.ImageDir); err != nil {
		result.problem("image directory: %v", err)
	} else {
		result.ImageCount = len(entries)
		if _, err := os.Stat(s.ImageDir); err != nil {
			result.problem("image directory %s does not exist", s.ImageDir)
		}
	}

	if opts.Audit != nil {
		result.LastActivity = LastActivity(opts.Audit)
	}

	return result
}

func (r *CheckResult) problem(format string, args ...any) {
	r.Problems = append(r.Problems, fmt.Sprintf(format, args...))
}

// CheckWritable reports whether path is an existing file that can be
// opened for writing.
func CheckWritable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

// LastActivity returns how long ago the newest journal event was
// recorded, or "" when the journal is empty.
func LastActivity(l *audit.Logger) string {
	events, err := l.Tail(1)
	if err != nil || len(events) == 0 {
		return ""
	}
	return formatDuration(time.Since(events[0].Timestamp)) + " ago"
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	} else if d < 24*time.Hour {
		hours := int(d.Hours())
		mins := int(d.Minutes()) % 60
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	return fmt.Sprintf("%dd %dh", days, hours)
}
