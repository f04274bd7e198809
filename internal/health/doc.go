// Package health checks that an adfctl setup is usable.
//
// A check probes the disk control service, the xdftool command, the
// active emulator config and the image directory, and reports what it
// found together with a list of problems.
//
// # Health Status
//
// The overall state is represented by Status:
//
//	StatusHealthy     - Control service reachable, no problems
//	StatusDegraded    - Control service reachable, other problems found
//	StatusUnreachable - Control service not reachable
//
// # Usage
//
//	result := health.Check(ctx, health.CheckOptions{
//	    Settings: s,
//	    Client:   client,
//	    Executor: exec,
//	    Audit:    journal,
//	})
//	fmt.Println(result.Status(), result.Problems)
package health
