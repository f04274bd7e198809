// Package profile manages emulator config profiles.
//
// A profile is a .cfg file in the profile directory. One of them may be
// copied onto the active config file the emulator reads at start-up:
//
//	store := profile.NewStore(settings.ConfigDir, settings.ConfigFile, settings.FileOptions())
//	store.Create("a1200.cfg", "default.cfg")
//	store.Activate(ctx, "a1200.cfg")
//
// Profile names are bare file names. Anything containing a path separator
// or not ending in ".cfg" is rejected.
package profile
