package planner

import "slices"

// RecencyCapacity is how many recent picks the selector tries to avoid.
const RecencyCapacity = 5

// RecencyWindow is a bounded FIFO of recently picked dish names, shared by
// every meal type. Pushing past capacity evicts the oldest name.
type RecencyWindow struct {
	names    []string
	capacity int
}

func NewRecencyWindow(capacity int) *RecencyWindow {
	if capacity < 1 {
		capacity = 1
	}
	return &RecencyWindow{names: make([]string, 0, capacity), capacity: capacity}
}

// Push appends name, evicting the oldest entry when the window is full.
// A name already present is pushed again.
func (w *RecencyWindow) Push(name string) {
	w.names = append(w.names, name)
	if len(w.names) > w.capacity {
		w.names = slices.Delete(w.names, 0, len(w.names)-w.capacity)
	}
}

func (w *RecencyWindow) Contains(name string) bool {
	return slices.Contains(w.names, name)
}

// Names returns the window oldest first.
func (w *RecencyWindow) Names() []string {
	return slices.Clone(w.names)
}

func (w *RecencyWindow) Len() int {
	return len(w.names)
}

func (w *RecencyWindow) Reset() {
	w.names = w.names[:0]
}

// SelectionHistory is the append-only, deduplicated list of every dish name
// ever picked. It is persisted but never consulted when picking.
type SelectionHistory struct {
	names []string
	seen  map[string]struct{}
}

func NewSelectionHistory(names []string) *SelectionHistory {
	h := &SelectionHistory{seen: make(map[string]struct{}, len(names))}
	for _, n := range names {
		h.Add(n)
	}
	return h
}

// Add records name and reports whether it was new.
func (h *SelectionHistory) Add(name string) bool {
	if _, ok := h.seen[name]; ok {
		return false
	}
	h.seen[name] = struct{}{}
	h.names = append(h.names, name)
	return true
}

func (h *SelectionHistory) Has(name string) bool {
	_, ok := h.seen[name]
	return ok
}

// Names returns the history in first-picked order.
func (h *SelectionHistory) Names() []string {
	if h.names == nil {
		return []string{}
	}
	return slices.Clone(h.names)
}

func (h *SelectionHistory) Reset() {
	h.names = nil
	h.seen = make(map[string]struct{})
}
