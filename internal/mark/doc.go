// Package mark provides named timestamps and the duration measurement built on them.
//
// A [Registry] records instants keyed by name. Timestamps are milliseconds since the
// registry clock's origin, which stands in for navigation start:
//
//	reg := mark.NewRegistry(mark.NewClock())
//	reg.SetMark("checkout_start")
//	// ... work ...
//	reg.SetMark("checkout_end")
//	value := mark.Measure(reg, "checkout") // end - start
//
// # Fallback
//
// [Measure] returns the end mark's own timestamp when no start mark exists. The
// resulting value is an absolute timing, not a duration. Callers reporting it should
// document that the unit changes in this case.
package mark
