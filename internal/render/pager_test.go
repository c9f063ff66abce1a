package render

import (
	"testing"
	"time"
)

var bottom = Viewport{InnerHeight: 800, ScrollY: 4000, DocumentHeight: 5000}

func TestPager_ThirtyItemsThreeBatches(t *testing.T) {
	p := NewPager(30, 12)
	var sizes []int
	now := time.Unix(0, 0)
	first, ok := p.Next()
	if !ok {
		t.Fatal("expected a first batch")
	}
	sizes = append(sizes, first.Len())
	for i := 0; i < 10; i++ {
		now = now.Add(250 * time.Millisecond)
		if b, ok := p.OnScroll(now, bottom); ok {
			sizes = append(sizes, b.Len())
		}
	}
	if len(sizes) != 3 || sizes[0] != 12 || sizes[1] != 12 || sizes[2] != 6 {
		t.Errorf("batches = %v, want [12 12 6]", sizes)
	}
	if !p.Done() || p.Rendered() != 30 {
		t.Errorf("rendered = %d, done = %v", p.Rendered(), p.Done())
	}
}

func TestPager_NoScrollLoadingForSingleBatch(t *testing.T) {
	for _, n := range []int{0, 5, 12} {
		p := NewPager(n, 12)
		p.Next()
		if p.Scrollable() {
			t.Errorf("n=%d should not be scrollable", n)
		}
		if _, ok := p.OnScroll(time.Now(), bottom); ok {
			t.Errorf("n=%d: scroll appended a batch", n)
		}
	}
}

func TestPager_Throttle(t *testing.T) {
	p := NewPager(40, 12)
	p.Next()
	now := time.Unix(100, 0)
	if _, ok := p.OnScroll(now, bottom); !ok {
		t.Fatal("first sample near the bottom should append")
	}
	if _, ok := p.OnScroll(now.Add(199*time.Millisecond), bottom); ok {
		t.Error("sample inside the throttle window should be dropped")
	}
	if _, ok := p.OnScroll(now.Add(200*time.Millisecond), bottom); !ok {
		t.Error("sample after the throttle window should append")
	}
}

func TestPager_FarFromBottom(t *testing.T) {
	p := NewPager(40, 12)
	p.Next()
	far := Viewport{InnerHeight: 800, ScrollY: 0, DocumentHeight: 5000}
	if _, ok := p.OnScroll(time.Now(), far); ok {
		t.Error("should not append when far from the bottom")
	}
}

func TestViewport_NearBottomBoundary(t *testing.T) {
	v := Viewport{InnerHeight: 1000, ScrollY: 3000, DocumentHeight: 5000}
	if !v.NearBottom() {
		t.Error("exactly 1000px from the bottom should count as near")
	}
	v.ScrollY = 2999
	if v.NearBottom() {
		t.Error("1001px from the bottom should not count as near")
	}
}

func TestPager_DefaultSize(t *testing.T) {
	p := NewPager(13, 0)
	b, _ := p.Next()
	if b.Len() != DefaultBatchSize {
		t.Errorf("first batch = %d, want %d", b.Len(), DefaultBatchSize)
	}
}

func TestPager_BeginRestarts(t *testing.T) {
	p := NewPager(30, 12)
	p.Next()
	p.Next()
	b, ok := p.Begin(5)
	if !ok || b.Start != 0 || b.End != 5 {
		t.Fatalf("Begin(5) = %+v, %v", b, ok)
	}
	if !p.Done() {
		t.Error("five items fit in one batch")
	}
	if _, ok := p.Begin(0); ok {
		t.Error("Begin(0) should yield no batch")
	}
}

// An empty or failed render must stop scroll paging of the previous subset.
func TestPager_BeginZeroStopsPaging(t *testing.T) {
	p := NewPager(0, 12)
	p.Begin(30)
	p.Begin(0)
	if _, ok := p.OnScroll(time.Unix(10, 0), bottom); ok {
		t.Error("scroll after an empty render yielded a batch")
	}
	if _, ok := p.Next(); ok {
		t.Error("Next after an empty render yielded a batch")
	}
}
