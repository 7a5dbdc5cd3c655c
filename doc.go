// Package webvitals collects page performance signals for one session and reports
// them to a backend.
//
// A WebVitals value owns a metric store, a mark registry and a lifecycle Page. Each
// metric is passed to the configured report callback as soon as it is known
// (immediate mode), or kept in the store and sent as one JSON payload to the report
// URI when the page is hidden or torn down (buffered mode). Application code adds its
// own timings with SetStartMark and SetEndMark.
package webvitals
