package lifecycle

import "github.com/torosent/webvitals/internal/schedule"

// Page aggregates the lifecycle signals of one page session.
type Page struct {
	BeforeUnload *Trigger
	Unload       *Trigger
	Visibility   *Visibility
	Load         *Barrier
	Events       *EventBus
	Frames       *Trigger
	Timeline     *Timeline
}

// NewPage returns a visible, not yet loaded page. Deferred work runs on sched.
func NewPage(sched schedule.Scheduler) *Page {
	if sched == nil {
		sched = schedule.NewAsync()
	}
	return &Page{
		BeforeUnload: NewOnceTrigger("beforeunload"),
		Unload:       NewOnceTrigger("unload"),
		Visibility:   NewVisibility(),
		Load:         NewBarrier(sched),
		Events:       NewEventBus(),
		Frames:       NewTrigger("frame"),
		Timeline:     NewTimeline(),
	}
}

// Loaded releases the after-load barrier.
func (p *Page) Loaded() {
	p.Load.Release()
}

// Hide moves the page to the hidden state.
func (p *Page) Hide() {
	p.Visibility.Set(StateHidden)
}

// Show moves the page to the visible state.
func (p *Page) Show() {
	p.Visibility.Set(StateVisible)
}

// Frame signals that a frame was rendered.
func (p *Page) Frame() {
	p.Frames.Fire()
}

// Close tears the page down, firing BeforeUnload and then Unload. It reports whether
// this call performed the teardown.
func (p *Page) Close() bool {
	before := p.BeforeUnload.Fire()
	unload := p.Unload.Fire()
	return before || unload
}

// Closed reports whether the page has been unloaded.
func (p *Page) Closed() bool {
	return p.Unload.Fired() > 0
}
