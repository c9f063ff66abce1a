//go:build js && wasm

package main

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"syscall/js"
	"time"

	"github.com/starford/shashin/internal/apperr"
	"github.com/starford/shashin/internal/catalog"
	"github.com/starford/shashin/internal/gallery"
	"github.com/starford/shashin/internal/lazyload"
	"github.com/starford/shashin/internal/render"
	"github.com/starford/shashin/internal/storage"
	"github.com/starford/shashin/internal/viewer"
)

// app owns the page. Every handler takes mu: JS callbacks and the reload
// goroutine both mutate the same state.
type app struct {
	mu     sync.Mutex
	logger *slog.Logger
	cfg    pageConfig
	src    storage.Provider

	doc      js.Value
	body     js.Value
	search   js.Value
	status   js.Value
	tags     js.Value
	grid     js.Value
	modalEl  js.Value
	content  js.Value
	modalImg js.Value
	caption  js.Value
	prev     js.Value
	next     js.Value
	observer js.Value

	renderer *render.Renderer
	ctrl     *gallery.Controller
	pager    *render.Pager
	lazy     *lazyload.Coordinator
	modal    *viewer.Modal
	hits     []catalog.Hit

	// funcs keeps callbacks alive for the page lifetime.
	funcs []js.Func
}

func newApp(doc js.Value, cfg pageConfig, logger *slog.Logger) *app {
	byID := func(id string) js.Value { return doc.Call("getElementById", id) }
	return &app{
		logger:   logger,
		cfg:      cfg,
		doc:      doc,
		body:     doc.Get("body"),
		search:   byID(render.IDSearchInput),
		status:   byID(render.IDStatus),
		tags:     byID(render.IDFilterTags),
		grid:     byID(render.IDGallery),
		modalEl:  byID(render.IDModal),
		content:  byID(render.IDModalContent),
		modalImg: byID(render.IDModalImage),
		caption:  byID(render.IDModalCaption),
		prev:     byID(render.IDPrevButton),
		next:     byID(render.IDNextButton),
		renderer: render.New(),
		pager:    render.NewPager(0, cfg.BatchSize),
		lazy:     lazyload.New(),
		modal:    viewer.New(nil),
	}
}

func (a *app) on(target js.Value, event string, capture bool, fn func(ev js.Value)) {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		a.mu.Lock()
		defer a.mu.Unlock()
		fn(args[0])
		return nil
	})
	a.funcs = append(a.funcs, f)
	target.Call("addEventListener", event, f, capture)
}

// bind attaches every listener. Handlers are no-ops until a catalog loads.
func (a *app) bind() {
	opts := map[string]any{
		"rootMargin": lazyload.RootMargin,
		"threshold":  lazyload.Threshold,
	}
	intersect := js.FuncOf(func(_ js.Value, args []js.Value) any {
		a.mu.Lock()
		defer a.mu.Unlock()
		entries := args[0]
		for i := 0; i < entries.Length(); i++ {
			e := entries.Index(i)
			id, ok := itemIndex(e.Get("target"))
			if !ok {
				continue
			}
			a.apply(a.lazy.Intersect(id, e.Get("isIntersecting").Bool()))
		}
		return nil
	})
	a.funcs = append(a.funcs, intersect)
	a.observer = js.Global().Get("IntersectionObserver").New(intersect, opts)

	// load and error do not bubble; listen in the capture phase.
	a.on(a.grid, "load", true, func(ev js.Value) {
		if id, src, ok := a.imageEvent(ev); ok {
			a.apply(a.lazy.Loaded(id, src))
		}
	})
	a.on(a.grid, "error", true, func(ev js.Value) {
		if id, src, ok := a.imageEvent(ev); ok {
			a.apply(a.lazy.Failed(id, src))
		}
	})

	a.on(a.grid, "click", false, func(ev js.Value) {
		item := ev.Get("target").Call("closest", "."+render.ClassItem)
		id, ok := itemIndex(item)
		if !ok || a.ctrl == nil {
			return
		}
		if f, err := a.modal.Open(id); err == nil {
			a.paintModal(f)
		}
	})

	a.on(js.Global(), "scroll", false, func(js.Value) {
		win := js.Global()
		v := render.Viewport{
			InnerHeight:    win.Get("innerHeight").Float(),
			ScrollY:        win.Get("scrollY").Float(),
			DocumentHeight: a.doc.Get("documentElement").Get("scrollHeight").Float(),
		}
		if b, ok := a.pager.OnScroll(time.Now(), v); ok {
			a.appendBatch(b)
		}
	})

	a.on(a.search, "input", false, func(js.Value) { a.runSearch() })
	a.on(a.search, "keydown", false, func(ev js.Value) {
		if ev.Get("key").String() == "Enter" {
			ev.Call("preventDefault")
			a.runSearch()
		}
	})
	a.on(a.doc.Call("getElementById", render.IDSearchButton), "click", false, func(js.Value) { a.runSearch() })
	a.on(a.doc.Call("getElementById", render.IDClearButton), "click", false, func(js.Value) {
		if a.ctrl == nil {
			return
		}
		a.search.Set("value", "")
		a.show(a.ctrl.Clear())
	})
	a.on(a.tags, "click", false, func(ev js.Value) {
		btn := ev.Get("target").Call("closest", "."+render.ClassTag)
		if btn.IsNull() || a.ctrl == nil {
			return
		}
		v := a.ctrl.ToggleTag(btn.Call("getAttribute", "data-tag").String())
		a.search.Set("value", v.Query)
		a.show(v)
	})

	a.on(a.prev, "click", false, func(js.Value) {
		if f, ok := a.modal.Prev(); ok {
			a.paintModal(f)
		}
	})
	a.on(a.next, "click", false, func(js.Value) {
		if f, ok := a.modal.Next(); ok {
			a.paintModal(f)
		}
	})
	a.on(a.doc.Call("getElementById", render.IDCloseButton), "click", false, func(js.Value) {
		a.paintModal(a.modal.Close())
	})
	a.on(a.modalEl, "click", false, func(ev js.Value) {
		onContent := a.content.Call("contains", ev.Get("target")).Bool()
		if f, ok := a.modal.BackgroundClick(onContent); ok {
			a.paintModal(f)
		}
	})
	a.on(a.doc, "keydown", false, func(ev js.Value) {
		if f, ok := a.modal.Key(ev.Get("key").String()); ok {
			ev.Call("preventDefault")
			a.paintModal(f)
		}
	})
	a.on(a.modalImg, "error", false, func(js.Value) {
		if f, ok := a.modal.ImageFailed(a.modalImg.Call("getAttribute", "src").String()); ok {
			a.paintModal(f)
		}
	})
}

// load fetches the manifest and shows the first view, or the error panel.
func (a *app) load(ctx context.Context) {
	c, err := catalog.Load(ctx, a.src, a.cfg.loadOptions(a.logger))

	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.logger.Error("web: load manifest", slog.String("path", a.cfg.ManifestPath), slog.Any("error", err))
		a.showError(err)
		return
	}
	a.logger.Info("web: catalog loaded", slog.Int("photos", c.Len()), slog.String("encoding", c.Encoding))

	if a.ctrl == nil {
		a.ctrl = gallery.NewController(c, a.cfg.TagSeparator)
	} else {
		a.ctrl.SetCatalog(c)
	}
	a.paintModal(a.modal.SetSource(c))
	a.search.Set("value", "")
	a.show(a.ctrl.Search(""))
}

// subscribe reloads the catalog whenever the server announces a new one.
func (a *app) subscribe(path string) {
	es := js.Global().Get("EventSource").New(path)
	f := js.FuncOf(func(js.Value, []js.Value) any {
		// Fetching blocks on the event loop; leave the callback first.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
			defer cancel()
			a.load(ctx)
		}()
		return nil
	})
	a.funcs = append(a.funcs, f)
	es.Call("addEventListener", "catalog.reloaded", f)
}

func (a *app) runSearch() {
	if a.ctrl == nil {
		return
	}
	a.show(a.ctrl.Search(a.search.Get("value").String()))
}

func (a *app) show(v gallery.View) {
	a.status.Set("textContent", v.Status)
	if html, err := a.renderer.Tags(v.Tags); err == nil {
		a.tags.Set("innerHTML", html)
	}
	a.renderGrid(v.Hits)
}

// resetGrid empties the grid and drops the previous render's items, so a
// later scroll cannot append batches from it.
func (a *app) resetGrid() {
	a.lazy.Reset()
	a.observer.Call("disconnect")
	a.hits = nil
	a.pager.Begin(0)
	a.grid.Set("innerHTML", "")
}

// renderGrid replaces the grid with the first batch of hits.
func (a *app) renderGrid(hits []catalog.Hit) {
	a.resetGrid()
	if len(hits) == 0 {
		if html, err := a.renderer.Empty(); err == nil {
			a.grid.Set("innerHTML", html)
		}
		return
	}
	a.hits = hits
	if b, ok := a.pager.Begin(len(hits)); ok {
		a.appendBatch(b)
	}
}

func (a *app) appendBatch(b render.Batch) {
	html, err := a.renderer.Items(a.hits, b)
	if err != nil {
		a.logger.Error("web: render items", slog.Any("error", err))
		return
	}
	a.grid.Call("insertAdjacentHTML", "beforeend", html)
	for _, h := range a.hits[b.Start:b.End] {
		el := a.item(h.Index)
		if el.IsNull() {
			continue
		}
		a.lazy.Observe(lazyload.Item{ID: h.Index, Thumb: h.Record.Thumbnail, Full: h.Record.Src})
		a.observer.Call("observe", el)
	}
}

func (a *app) item(id int) js.Value {
	return a.grid.Call("querySelector", `.`+render.ClassItem+`[data-index="`+strconv.Itoa(id)+`"]`)
}

// apply performs lazy-load actions against the grid.
func (a *app) apply(actions []lazyload.Action) {
	for _, act := range actions {
		if act.Kind == lazyload.Preload {
			js.Global().Get("Image").New().Set("src", act.Src)
			continue
		}
		el := a.item(act.ID)
		if el.IsNull() {
			continue
		}
		img := el.Call("querySelector", "img")
		switch act.Kind {
		case lazyload.AssignSource:
			if !img.IsNull() {
				img.Call("setAttribute", "src", act.Src)
			}
		case lazyload.MarkVisible:
			el.Get("classList").Call("add", render.ClassVisible)
		case lazyload.Unobserve:
			a.observer.Call("unobserve", el)
		case lazyload.MarkLoaded:
			if !img.IsNull() {
				img.Get("classList").Call("add", render.ClassLoaded)
			}
		case lazyload.MarkFallback:
			if !img.IsNull() {
				img.Get("classList").Call("add", render.ClassFallback)
			}
		case lazyload.ShowPlaceholder:
			if html, err := a.renderer.Placeholder(); err == nil && !img.IsNull() {
				img.Set("outerHTML", html)
			}
		}
	}
}

// imageEvent resolves a load or error event on a grid image.
func (a *app) imageEvent(ev js.Value) (int, string, bool) {
	img := ev.Get("target")
	if img.Get("tagName").String() != "IMG" {
		return 0, "", false
	}
	id, ok := itemIndex(img.Call("closest", "."+render.ClassItem))
	if !ok {
		return 0, "", false
	}
	src := img.Call("getAttribute", "src")
	if src.IsNull() {
		return 0, "", false
	}
	return id, src.String(), true
}

func (a *app) paintModal(f viewer.Frame) {
	if f.State == viewer.Closed {
		a.modalEl.Get("classList").Call("remove", render.ClassModalOpen)
		a.body.Get("classList").Call("remove", render.ClassScrollLock)
		a.modalImg.Call("removeAttribute", "src")
		return
	}
	if cur := a.modalImg.Call("getAttribute", "src"); cur.IsNull() || cur.String() != f.Src {
		a.modalImg.Call("setAttribute", "src", f.Src)
	}
	a.modalImg.Set("alt", f.Alt)
	if html, err := a.renderer.Caption(f); err == nil {
		a.caption.Set("innerHTML", html)
	}
	a.prev.Set("disabled", f.PrevDisabled)
	a.next.Set("disabled", f.NextDisabled)
	a.modalEl.Get("classList").Call("add", render.ClassModalOpen)
	if f.ScrollLocked {
		a.body.Get("classList").Call("add", render.ClassScrollLock)
	}
}

func (a *app) showError(err error) {
	msg := "Failed to load the photo manifest."
	if errors.Is(err, apperr.ErrEmptyCatalog) {
		msg = "No valid photo records were found in the manifest."
	}
	a.status.Set("textContent", msg)
	a.resetGrid()
	if html, rerr := a.renderer.Error(msg, a.cfg.ManifestPath); rerr == nil {
		a.grid.Set("innerHTML", html)
	}
}

func itemIndex(el js.Value) (int, bool) {
	if el.IsNull() || el.IsUndefined() {
		return 0, false
	}
	v := el.Call("getAttribute", "data-index")
	if v.IsNull() {
		return 0, false
	}
	n, err := strconv.Atoi(v.String())
	return n, err == nil
}
