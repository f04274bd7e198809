// Package errors provides typed errors with exit codes for adfctl.
//
// # Error Types
//
// AdfError is the base error type that wraps an error with an exit code:
//
//	type AdfError struct {
//	    Code    int    // Exit code
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	}
//
// # Exit Codes
//
//	ExitSuccess           = 0  // Success
//	ExitGeneralError      = 1  // General/unknown errors
//	ExitFileNotFound      = 2  // Config file, image or profile does not exist
//	ExitPathConflict      = 3  // Destination already exists
//	ExitToolUnavailable   = 4  // xdftool is not installed
//	ExitConnectionFailure = 5  // Control socket unreachable or timed out
//	ExitConfigError       = 6  // Settings file error
//	ExitNoFreeUnit        = 7  // All four drive units are occupied
//	ExitValidation        = 8  // Bad user input
//
// # Error Constructors
//
//	errors.FileNotFound("/home/pi/pistorm64/default.cfg")
//	errors.PathConflict("blank.adf")
//	errors.ConnectionFailure("error: connection refused")
//	errors.NoFreeUnit()
//
// Control socket failures are plain strings at the protocol layer (see
// package diskctl); ConnectionFailure lifts them into an error at the
// command boundary.
//
// # Extracting Exit Codes
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
//
// HTTPStatus performs the same mapping for the web API.
package errors
