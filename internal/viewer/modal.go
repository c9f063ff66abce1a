// Package viewer is the full-size photo modal: a two-state machine that
// navigates the Catalog by index.
package viewer

import (
	"fmt"

	"github.com/starford/shashin/internal/apperr"
	"github.com/starford/shashin/internal/models"
)

// Source resolves records by Catalog index. *catalog.Catalog satisfies it.
type Source interface {
	Len() int
	At(i int) (models.Record, bool)
}

// State is the modal's open/closed state.
type State int

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// Key names handled by Modal.Key.
const (
	KeyEscape     = "Escape"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
)

// Frame is what an adapter paints for the modal.
type Frame struct {
	State        State  `json:"-"`
	Index        int    `json:"index"`
	Src          string `json:"src"`
	Alt          string `json:"alt"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Subject      string `json:"subject"`
	PrevDisabled bool   `json:"prev_disabled"`
	NextDisabled bool   `json:"next_disabled"`
	// ScrollLocked is true while the outer page must not scroll.
	ScrollLocked bool `json:"-"`
	LoadFailed   bool `json:"load_failed"`
}

// FrameAt builds the open frame for index i of src without any modal state.
func FrameAt(src Source, i int) (Frame, error) {
	r, ok := src.At(i)
	if !ok {
		return Frame{}, fmt.Errorf("photo %d: %w", i, apperr.ErrNotFound)
	}
	return Frame{
		State:        Open,
		Index:        i,
		Src:          r.Src,
		Alt:          r.Title,
		Title:        r.Title,
		Description:  r.Description,
		Subject:      r.Subject,
		PrevDisabled: i == 0,
		NextDisabled: i == src.Len()-1,
		ScrollLocked: true,
	}, nil
}

// Modal is not safe for concurrent use.
type Modal struct {
	src   Source
	frame Frame
}

// New creates a closed modal over src.
func New(src Source) *Modal {
	return &Modal{src: src, frame: Frame{Index: -1}}
}

// SetSource replaces the catalog and closes the modal.
func (m *Modal) SetSource(src Source) Frame {
	m.src = src
	return m.Close()
}

// Frame returns the current frame.
func (m *Modal) Frame() Frame { return m.frame }

// IsOpen reports whether the modal is open.
func (m *Modal) IsOpen() bool { return m.frame.State == Open }

// Open shows the record at Catalog index i. An index outside the catalog
// leaves the modal unchanged.
func (m *Modal) Open(i int) (Frame, error) {
	f, err := FrameAt(m.src, i)
	if err != nil {
		return m.frame, err
	}
	m.frame = f
	return f, nil
}

// Close hides the modal and releases the scroll lock.
func (m *Modal) Close() Frame {
	m.frame = Frame{State: Closed, Index: -1}
	return m.frame
}

// Prev moves to the previous record. It reports false when nothing changed.
func (m *Modal) Prev() (Frame, bool) {
	return m.step(-1)
}

// Next moves to the next record. It reports false when nothing changed.
func (m *Modal) Next() (Frame, bool) {
	return m.step(1)
}

func (m *Modal) step(d int) (Frame, bool) {
	if !m.IsOpen() {
		return m.frame, false
	}
	f, err := FrameAt(m.src, m.frame.Index+d)
	if err != nil {
		return m.frame, false
	}
	m.frame = f
	return f, true
}

// Key handles a keyboard event. Keys are ignored while closed.
func (m *Modal) Key(name string) (Frame, bool) {
	if !m.IsOpen() {
		return m.frame, false
	}
	switch name {
	case KeyEscape:
		return m.Close(), true
	case KeyArrowLeft:
		return m.Prev()
	case KeyArrowRight:
		return m.Next()
	}
	return m.frame, false
}

// BackgroundClick closes the modal unless the click landed on its content.
func (m *Modal) BackgroundClick(onContent bool) (Frame, bool) {
	if !m.IsOpen() || onContent {
		return m.frame, false
	}
	return m.Close(), true
}

// ImageFailed marks the current frame's image as failed. A src that is no
// longer shown is ignored.
func (m *Modal) ImageFailed(src string) (Frame, bool) {
	if !m.IsOpen() || src != m.frame.Src || m.frame.LoadFailed {
		return m.frame, false
	}
	m.frame.LoadFailed = true
	return m.frame, true
}
