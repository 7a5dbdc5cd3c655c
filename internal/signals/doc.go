// Package signals contains the metric producers started by a webvitals session.
//
// Every producer implements [Initializer]. It receives an [Env] holding the shared
// store, the reporter, the page host and the session options, and calls Env.Report
// once a value is available. Producers that depend on the page being loaded declare
// [PhaseAfterLoad] and are started behind the page's load barrier.
//
// A producer whose source never yields (no frames, no timeline entries) simply never
// reports. That is absence, not an error.
//
// Producers shipped with the package:
//
//	name                      phase       source
//	device-cpu-count          immediate   runtime
//	device-memory             immediate   runtime memory stats (MiB)
//	cumulative-layout-shift   immediate   layout-shift entries, final on hide/unload
//	resource-flow             immediate   resource entries (bytes), final on hide/unload
//	navigation-timing         after load  clock at load
//	first-paint               after load  paint entries
//	first-contentful-paint    after load  paint entries
//	first-input-delay         after load  first-input entries
//	largest-contentful-paint  after load  largest paint entries, final on input/hide
//	fps                       after load  page frames over LogFpsCount windows
package signals
