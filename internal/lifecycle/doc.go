// Package lifecycle models the page host that metric collection runs inside.
//
// A [Page] exposes the signals the collection pipeline reacts to:
//   - [Trigger]: a registerable, cancellable listener list. Each occurrence invokes
//     every listener at most once. Once-triggers accept a single occurrence.
//   - [Visibility]: a hidden-state detector that fires its Hidden trigger on every
//     visible to hidden transition.
//   - [Barrier]: the after-load gate. Waiters run on a later scheduler turn once it
//     is released.
//   - [EventBus]: named custom events that host code can subscribe to.
//   - [Timeline]: performance entries (paint, layout-shift, input, resource) with
//     buffered replay for late observers.
//
// The host application drives the page:
//
//	page := lifecycle.NewPage(schedule.NewAsync())
//	page.Loaded()
//	page.Hide()  // fires Visibility.Hidden
//	page.Close() // fires BeforeUnload then Unload
package lifecycle
