package shopping

import (
	"strings"

	"menu-planner/internal/menu"
	"menu-planner/internal/planner"
)

// FromPlan lists the materials of every planned dish in the order they first
// appear, breakfast through dinner. Repeats are counted, not listed twice.
func FromPlan(plan planner.Plan) []Item {
	items := []Item{}
	index := make(map[string]int)

	for _, t := range menu.PlannedMeals {
		for _, d := range plan.Meal(t) {
			for _, m := range d.Materials {
				m = strings.TrimSpace(m)
				if m == "" {
					continue
				}
				if i, ok := index[m]; ok {
					items[i].Count++
					continue
				}
				index[m] = len(items)
				items = append(items, Item{Material: m, Count: 1})
			}
		}
	}
	return items
}
