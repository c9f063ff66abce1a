package render

import "time"

const (
	// DefaultBatchSize is how many items one batch paints.
	DefaultBatchSize = 12
	// ScrollThrottle bounds how often scroll positions are evaluated.
	ScrollThrottle = 200 * time.Millisecond
	// BottomThreshold is how close to the document bottom, in pixels, the
	// viewport must be before the next batch is appended.
	BottomThreshold = 1000
)

// Batch is a half-open range [Start, End) of the visible subset.
type Batch struct {
	Start int
	End   int
}

// Len returns the number of items in b.
func (b Batch) Len() int { return b.End - b.Start }

// Viewport is a scroll position sample.
type Viewport struct {
	InnerHeight    float64
	ScrollY        float64
	DocumentHeight float64
}

// NearBottom reports whether the viewport is within BottomThreshold of the
// document's end.
func (v Viewport) NearBottom() bool {
	return v.InnerHeight+v.ScrollY >= v.DocumentHeight-BottomThreshold
}

// Pager splits a visible subset into batches. The first batch is painted
// immediately; the rest are appended as scroll samples come near the bottom.
// Batches only ever append.
type Pager struct {
	total    int
	size     int
	next     int
	throttle time.Duration
	last     time.Time
	sampled  bool
}

// NewPager creates a pager over total items. size <= 0 uses DefaultBatchSize.
func NewPager(total, size int) *Pager {
	if size <= 0 {
		size = DefaultBatchSize
	}
	return &Pager{total: total, size: size, throttle: ScrollThrottle}
}

// Scrollable reports whether more than one batch exists, i.e. whether
// scroll-driven loading is active at all.
func (p *Pager) Scrollable() bool { return p.total > p.size }

// Done reports whether every item has been handed out.
func (p *Pager) Done() bool { return p.next >= p.total }

// Rendered returns how many items have been handed out.
func (p *Pager) Rendered() int { return p.next }

// Begin restarts the pager over a new visible subset of total items and
// returns the first batch.
func (p *Pager) Begin(total int) (Batch, bool) {
	p.total = total
	p.next = 0
	p.sampled = false
	return p.Next()
}

// Next hands out the next batch regardless of scroll position.
func (p *Pager) Next() (Batch, bool) {
	if p.Done() {
		return Batch{}, false
	}
	b := Batch{Start: p.next, End: min(p.next+p.size, p.total)}
	p.next = b.End
	return b, true
}

// OnScroll evaluates a scroll sample taken at now. Samples arriving within
// the throttle window of the last evaluated one are dropped.
func (p *Pager) OnScroll(now time.Time, v Viewport) (Batch, bool) {
	if !p.Scrollable() || p.Done() {
		return Batch{}, false
	}
	if p.sampled && now.Sub(p.last) < p.throttle {
		return Batch{}, false
	}
	p.sampled = true
	p.last = now
	if !v.NearBottom() {
		return Batch{}, false
	}
	return p.Next()
}
