// Package config loads adfctl's settings.
//
// # Settings File
//
// Settings are read from a TOML file, by default
// $XDG_CONFIG_HOME/adfctl/config.toml (or ~/.config/adfctl/config.toml).
// ADFCTL_CONFIG names a different file. Every field is optional:
//
//	image_dir    = "~/Amiga/adf"
//	config_file  = "~/pistorm64/default.cfg"
//	config_dir   = "~/pistorm64"
//	lock_timeout = "5s"
//
//	[control]
//	host    = "127.0.0.1"
//	port    = 23890
//	timeout = "2s"
//
//	[emulator]
//	a314_conf = "~/pistorm64/src/a314/files_pi/a314d.conf"
//
// # Precedence
//
// Command-line flags > environment > file > defaults. The environment
// variables are ADFCTL_HOST, ADFCTL_PORT, ADFCTL_IMAGE_DIR and
// ADFCTL_CONFIG_FILE.
//
// # Validation
//
// Load validates the result; invalid settings fail with an
// errors.ExitConfigError error.
package config
