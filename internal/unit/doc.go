// Package unit selects the floppy drive unit (DF0..DF3) an image is
// inserted into.
//
// # Allocation Strategy
//
// Units are allocated first-fit from the live status reported by the
// control service. A caller's preferred unit is honored when it is free:
//
//	st, _ := client.Status(ctx)
//	n, ok := unit.Pick(&preferred, st)
//	if !ok {
//	    return errors.NoFreeUnit()
//	}
//
// When the status is unavailable, Pick trusts the caller and returns the
// preferred unit or unit 0.
//
// Status, Pick and the following insert are separate steps, so two
// concurrent callers may pick the same unit. Pick does not guard against
// that.
package unit
