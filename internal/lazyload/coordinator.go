// Package lazyload decides when grid images get their sources. Browser
// adapters feed it intersection and load events and apply the actions it
// returns; it never touches the DOM itself.
package lazyload

// Intersection observer settings for grid items.
const (
	RootMargin = "50px"
	Threshold  = 0.1
)

// Kind is the type of an Action.
type Kind int

const (
	// AssignSource sets the visible image's source to Src.
	AssignSource Kind = iota
	// MarkVisible starts the item's reveal transition.
	MarkVisible
	// Unobserve stops intersection reports for the item.
	Unobserve
	// MarkLoaded flags the image as loaded.
	MarkLoaded
	// Preload fetches Src in the background, outside the document.
	Preload
	// MarkFallback flags the image as showing the full-size asset in place
	// of its thumbnail.
	MarkFallback
	// ShowPlaceholder replaces the item's image with the failure placeholder.
	ShowPlaceholder
)

var kindNames = [...]string{
	AssignSource:    "assign_source",
	MarkVisible:     "mark_visible",
	Unobserve:       "unobserve",
	MarkLoaded:      "mark_loaded",
	Preload:         "preload",
	MarkFallback:    "mark_fallback",
	ShowPlaceholder: "show_placeholder",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Action is one DOM change for the item ID.
type Action struct {
	Kind Kind
	ID   int
	Src  string
}

// Item is a rendered grid item. ID is its Catalog index.
type Item struct {
	ID    int
	Thumb string
	Full  string
}

type phase int

const (
	pending phase = iota
	waiting // thumbnail requested by another item
	thumbLoading
	fallbackLoading
	loaded
	failed
)

type entry struct {
	item    Item
	phase   phase
	current string
}

// Coordinator tracks the items of one render. It is not safe for concurrent
// use.
type Coordinator struct {
	gen       int
	items     map[int]*entry
	requested map[string]int // thumbnail -> requesting item
	waiters   map[string][]int
	preloaded map[string]struct{}
}

// New returns an empty coordinator.
func New() *Coordinator {
	c := &Coordinator{preloaded: make(map[string]struct{})}
	c.Reset()
	return c
}

// Reset forgets every item and requested thumbnail and starts a new render
// generation, which it returns. Completions for earlier items become no-ops.
func (c *Coordinator) Reset() int {
	c.gen++
	c.items = make(map[int]*entry)
	c.requested = make(map[string]int)
	c.waiters = make(map[string][]int)
	return c.gen
}

// Generation returns the current render generation.
func (c *Coordinator) Generation() int { return c.gen }

// Observe registers an item whose image has no source yet.
func (c *Coordinator) Observe(it Item) {
	c.items[it.ID] = &entry{item: it}
}

// Observed returns the number of registered items.
func (c *Coordinator) Observed() int { return len(c.items) }

// Requested reports whether thumb has been assigned in this generation.
func (c *Coordinator) Requested(thumb string) bool {
	_, ok := c.requested[thumb]
	return ok
}

// Intersect handles an intersection report. Only the first report of an
// item entering the viewport does anything.
func (c *Coordinator) Intersect(id int, intersecting bool) []Action {
	e, ok := c.items[id]
	if !ok || !intersecting || e.phase != pending {
		return nil
	}
	thumb := e.item.Thumb
	if owner, dup := c.requested[thumb]; dup && owner != id {
		e.phase = waiting
		c.waiters[thumb] = append(c.waiters[thumb], id)
		return []Action{{Kind: Unobserve, ID: id}}
	}
	c.requested[thumb] = id
	e.phase = thumbLoading
	e.current = thumb
	return []Action{
		{Kind: AssignSource, ID: id, Src: thumb},
		{Kind: MarkVisible, ID: id},
		{Kind: Unobserve, ID: id},
	}
}

// Loaded handles a successful image load of src for item id.
func (c *Coordinator) Loaded(id int, src string) []Action {
	e := c.live(id, src)
	if e == nil {
		return nil
	}
	prev := e.phase
	e.phase = loaded
	acts := []Action{{Kind: MarkLoaded, ID: id}}
	if prev == thumbLoading {
		if full := e.item.Full; full != "" && full != src {
			if _, warm := c.preloaded[full]; !warm {
				c.preloaded[full] = struct{}{}
				acts = append(acts, Action{Kind: Preload, ID: id, Src: full})
			}
		}
		acts = append(acts, c.release(src)...)
	}
	return acts
}

// Failed handles a failed image load of src for item id. A failed thumbnail
// falls back to the full-size image; a failed fallback is terminal.
func (c *Coordinator) Failed(id int, src string) []Action {
	e := c.live(id, src)
	if e == nil {
		return nil
	}
	if e.phase == fallbackLoading {
		e.phase = failed
		return []Action{{Kind: ShowPlaceholder, ID: id}}
	}
	e.phase = fallbackLoading
	e.current = e.item.Full
	acts := []Action{
		{Kind: AssignSource, ID: id, Src: e.item.Full},
		{Kind: MarkFallback, ID: id},
	}
	return append(acts, c.failWaiters(src)...)
}

// live returns the entry for id if src is the load it is waiting on.
func (c *Coordinator) live(id int, src string) *entry {
	e, ok := c.items[id]
	if !ok || e.current != src {
		return nil
	}
	if e.phase != thumbLoading && e.phase != fallbackLoading {
		return nil
	}
	return e
}

// release hands a loaded thumbnail to items that share it.
func (c *Coordinator) release(thumb string) []Action {
	var acts []Action
	for _, id := range c.waiters[thumb] {
		e := c.items[id]
		e.phase = loaded
		e.current = thumb
		acts = append(acts,
			Action{Kind: AssignSource, ID: id, Src: thumb},
			Action{Kind: MarkVisible, ID: id},
			Action{Kind: MarkLoaded, ID: id},
		)
	}
	delete(c.waiters, thumb)
	return acts
}

// failWaiters moves items sharing a failed thumbnail to their fallback.
func (c *Coordinator) failWaiters(thumb string) []Action {
	var acts []Action
	for _, id := range c.waiters[thumb] {
		e := c.items[id]
		e.phase = fallbackLoading
		e.current = e.item.Full
		acts = append(acts,
			Action{Kind: AssignSource, ID: id, Src: e.item.Full},
			Action{Kind: MarkVisible, ID: id},
			Action{Kind: MarkFallback, ID: id},
		)
	}
	delete(c.waiters, thumb)
	return acts
}
