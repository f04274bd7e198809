// Package diskctl is a client for the disk control service's text protocol.
//
// The protocol is one command per TCP connection: the client writes a
// single line, and the service replies and closes the connection.
//
//	status              -> {"units": [{"unit": 0, "present": true, ...}]}
//	insert <unit> [-rw] <path>
//	eject <unit>
//
// Send reports transport failures as strings starting with "error:" rather
// than as Go errors, so that callers handle service errors and transport
// errors through the same path:
//
//	resp := diskctl.Send(ctx, ep, "eject 0")
//	if diskctl.IsError(resp) {
//	    ...
//	}
//
// Reading stops when the service closes the connection, or when a single
// read waits longer than Endpoint.Timeout. A service that keeps the
// connection open therefore costs one timeout per call.
//
// Status, unit selection and insert are separate round trips. Two callers
// can pick the same free unit; the control service decides which insert
// wins.
package diskctl
