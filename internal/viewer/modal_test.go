package viewer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/starford/shashin/internal/apperr"
	"github.com/starford/shashin/internal/catalog"
	"github.com/starford/shashin/internal/models"
)

func testCatalog(n int) *catalog.Catalog {
	records := make([]models.Record, n)
	for i := range records {
		records[i] = models.Record{
			Src:   fmt.Sprintf("data/images/%d.jpg", i),
			Title: fmt.Sprintf("Photo %d", i+1),
		}
	}
	return catalog.New(records, "test")
}

func TestModal_InitiallyClosed(t *testing.T) {
	m := New(testCatalog(3))
	if m.IsOpen() {
		t.Fatal("modal should start closed")
	}
	if f := m.Frame(); f.ScrollLocked || f.State != Closed {
		t.Errorf("frame = %+v", f)
	}
}

func TestModal_OpenFirstDisablesPrev(t *testing.T) {
	m := New(testCatalog(3))
	f, err := m.Open(0)
	if err != nil {
		t.Fatal(err)
	}
	if !f.PrevDisabled || f.NextDisabled {
		t.Errorf("prev/next disabled = %v/%v, want true/false", f.PrevDisabled, f.NextDisabled)
	}
	if !f.ScrollLocked {
		t.Error("open modal should lock scrolling")
	}
	if f.Src != "data/images/0.jpg" || f.Title != "Photo 1" || f.Alt != "Photo 1" {
		t.Errorf("frame = %+v", f)
	}
}

func TestModal_NextAtLastIsNoop(t *testing.T) {
	m := New(testCatalog(3))
	f, _ := m.Open(2)
	if !f.NextDisabled || f.PrevDisabled {
		t.Errorf("prev/next disabled = %v/%v, want false/true", f.PrevDisabled, f.NextDisabled)
	}
	f, changed := m.Next()
	if changed || f.Index != 2 {
		t.Errorf("Next at last: changed=%v index=%d", changed, f.Index)
	}
}

func TestModal_PrevAtFirstIsNoop(t *testing.T) {
	m := New(testCatalog(3))
	m.Open(0)
	if f, changed := m.Prev(); changed || f.Index != 0 {
		t.Errorf("Prev at first: changed=%v index=%d", changed, f.Index)
	}
}

func TestModal_Navigation(t *testing.T) {
	m := New(testCatalog(3))
	m.Open(0)
	f, ok := m.Next()
	if !ok || f.Index != 1 || f.PrevDisabled || f.NextDisabled {
		t.Errorf("after Next: %+v", f)
	}
	f, ok = m.Prev()
	if !ok || f.Index != 0 {
		t.Errorf("after Prev: %+v", f)
	}
}

func TestModal_OpenOutOfRange(t *testing.T) {
	m := New(testCatalog(2))
	for _, i := range []int{-1, 2} {
		_, err := m.Open(i)
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("Open(%d) err = %v, want ErrNotFound", i, err)
		}
	}
	if m.IsOpen() {
		t.Error("failed open should leave the modal closed")
	}
}

func TestModal_KeysIgnoredWhileClosed(t *testing.T) {
	m := New(testCatalog(3))
	for _, k := range []string{KeyEscape, KeyArrowLeft, KeyArrowRight} {
		if _, changed := m.Key(k); changed {
			t.Errorf("key %s changed a closed modal", k)
		}
	}
}

func TestModal_Keys(t *testing.T) {
	m := New(testCatalog(3))
	m.Open(1)
	if f, _ := m.Key(KeyArrowRight); f.Index != 2 {
		t.Errorf("ArrowRight -> %d, want 2", f.Index)
	}
	if f, _ := m.Key(KeyArrowLeft); f.Index != 1 {
		t.Errorf("ArrowLeft -> %d, want 1", f.Index)
	}
	if _, changed := m.Key("Enter"); changed {
		t.Error("unbound key should not change the modal")
	}
	f, changed := m.Key(KeyEscape)
	if !changed || f.State != Closed || f.ScrollLocked {
		t.Errorf("Escape -> %+v", f)
	}
}

func TestModal_BackgroundClick(t *testing.T) {
	m := New(testCatalog(3))
	m.Open(1)
	if _, changed := m.BackgroundClick(true); changed || !m.IsOpen() {
		t.Error("click on content should not close")
	}
	if _, changed := m.BackgroundClick(false); !changed || m.IsOpen() {
		t.Error("click on background should close")
	}
}

func TestModal_ImageFailed(t *testing.T) {
	m := New(testCatalog(3))
	m.Open(0)
	if _, changed := m.ImageFailed("data/images/9.jpg"); changed {
		t.Error("stale src should be ignored")
	}
	f, changed := m.ImageFailed("data/images/0.jpg")
	if !changed || !f.LoadFailed {
		t.Errorf("ImageFailed -> %+v", f)
	}
	if f, _ := m.Next(); f.LoadFailed {
		t.Error("navigating should clear the failure note")
	}
}

func TestModal_SetSourceCloses(t *testing.T) {
	m := New(testCatalog(3))
	m.Open(1)
	m.SetSource(testCatalog(1))
	if m.IsOpen() {
		t.Error("replacing the catalog should close the modal")
	}
}
