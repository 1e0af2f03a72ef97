package planner

import (
	"errors"
	"math/rand/v2"
	"slices"

	"menu-planner/internal/kvstore"
	"menu-planner/internal/logger"
	"menu-planner/internal/menu"
)

// SelectionHistoryKey is where the list of every picked name is persisted.
const SelectionHistoryKey = "today-food-history"

// DishSource supplies the dishes of one catalog group.
type DishSource interface {
	Group(t menu.MealType) []menu.Dish
}

// Selector draws random dishes from the catalog while steering away from
// the names in its RecencyWindow.
type Selector struct {
	dishes  DishSource
	recent  *RecencyWindow
	history *SelectionHistory
	kv      kvstore.KV
	rng     *rand.Rand
	log     *logger.Logger
}

// NewSelector creates a Selector and loads the persisted SelectionHistory.
// The recency window always starts empty.
func NewSelector(dishes DishSource, kv kvstore.KV, rng *rand.Rand, log *logger.Logger) *Selector {
	s := &Selector{
		dishes: dishes,
		recent: NewRecencyWindow(RecencyCapacity),
		kv:     kv,
		rng:    rng,
		log:    log.With("component", "selector"),
	}

	var names []string
	if err := kvstore.GetJSON(kv, SelectionHistoryKey, &names); err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		s.log.Warn("Persisted selection history is malformed, starting empty", "error", err)
		names = nil
	}
	s.history = NewSelectionHistory(names)
	return s
}

// Pick returns up to count distinct dishes from the group for t. Dishes whose
// names are in the recency window are only drawn once every other remaining
// dish has been used, so the call always yields min(count, len(group)) dishes.
func (s *Selector) Pick(t menu.MealType, count int) []menu.Dish {
	group := s.dishes.Group(t)
	if len(group) == 0 || count <= 0 {
		return []menu.Dish{}
	}

	target := min(count, len(group))
	remaining := slices.Clone(group)
	picked := make([]menu.Dish, 0, target)

	for len(picked) < target && len(remaining) > 0 {
		fresh := make([]int, 0, len(remaining))
		for i, d := range remaining {
			if !s.recent.Contains(d.Name) {
				fresh = append(fresh, i)
			}
		}

		var idx int
		if len(fresh) > 0 {
			idx = fresh[s.rng.IntN(len(fresh))]
		} else {
			idx = s.rng.IntN(len(remaining))
		}

		choice := remaining[idx]
		remaining = slices.DeleteFunc(remaining, func(d menu.Dish) bool { return d.Name == choice.Name })
		picked = append(picked, choice.Clone())
	}

	for _, d := range picked {
		s.recent.Push(d.Name)
		if s.history.Add(d.Name) {
			s.saveHistory()
		}
	}
	return picked
}

// Reset empties the recency window and the selection history and drops the
// persisted history.
func (s *Selector) Reset() {
	s.recent.Reset()
	s.history.Reset()
	s.kv.Remove(SelectionHistoryKey)
}

// RecentNames returns the recency window oldest first.
func (s *Selector) RecentNames() []string {
	return s.recent.Names()
}

// HistoryNames returns every name picked so far.
func (s *Selector) HistoryNames() []string {
	return s.history.Names()
}

func (s *Selector) saveHistory() {
	if err := kvstore.SetJSON(s.kv, SelectionHistoryKey, s.history.Names()); err != nil {
		s.log.Error("Failed to persist selection history", "error", err)
	}
}
