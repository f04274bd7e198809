// Package emucfg reads and patches the emulator's runtime config file.
//
// Parse turns config text into a State. Patch is the inverse: it edits
// existing text so that it matches a desired State while keeping the
// file's layout. Lines are only commented, uncommented or rewritten in
// place; nothing is deleted or reordered, and unrelated lines are left
// byte for byte. Missing directives that the desired State enables are
// appended in a fixed order.
//
// After Patch, every directive has at most one active line:
//
//	text := emucfg.Patch(old, desired, fb)
//	emucfg.Patch(text, desired, fb) == text // always
//
// PatchFile wraps Patch with the file boundary: it fails with
// errors.FileNotFound for a missing file, serializes writers with a lock
// file, and replaces the file atomically.
//
// Two policies are fixed: A314 is always enabled, and its daemon config
// path is filled from Fallbacks when empty.
package emucfg
