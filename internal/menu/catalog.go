package menu

import (
	"encoding/json"
	"slices"
	"sort"
)

// Catalog maps a meal type to its ordered dishes.
// Names are unique within a group but may repeat across groups.
type Catalog map[MealType][]Dish

// Clone returns a deep copy of c.
func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	for t, dishes := range c {
		group := make([]Dish, len(dishes))
		for i, d := range dishes {
			group[i] = d.Clone()
		}
		out[t] = group
	}
	return out
}

// Types lists the catalog's meal types: planned meals first in their usual
// order, then any extra groups alphabetically. Lookups that scan the whole
// catalog use this order.
func (c Catalog) Types() []MealType {
	types := make([]MealType, 0, len(c))
	for _, t := range PlannedMeals {
		if _, ok := c[t]; ok {
			types = append(types, t)
		}
	}
	var extra []MealType
	for t := range c {
		if !t.IsPlanned() {
			extra = append(extra, t)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(types, extra...)
}

// Has reports whether t is a key of the catalog.
func (c Catalog) Has(t MealType) bool {
	_, ok := c[t]
	return ok
}

// Contains reports whether the group for t already holds a dish named name.
func (c Catalog) Contains(t MealType, name string) bool {
	return slices.ContainsFunc(c[t], func(d Dish) bool { return d.Name == name })
}

// Find returns the first dish named name, scanning groups in Types order.
func (c Catalog) Find(name string) (Dish, bool) {
	for _, t := range c.Types() {
		for _, d := range c[t] {
			if d.Name == name {
				return d, true
			}
		}
	}
	return Dish{}, false
}

// DecodeCatalog parses a persisted catalog. The result is valid only when the
// JSON is an object that holds a non-null "breakfast" group and every group
// decodes as a dish list.
func DecodeCatalog(raw string) (Catalog, bool) {
	var groups map[MealType]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &groups); err != nil {
		return nil, false
	}
	breakfast, ok := groups[Breakfast]
	if !ok || string(breakfast) == "null" {
		return nil, false
	}

	catalog := make(Catalog, len(groups))
	for t, data := range groups {
		var dishes []Dish
		if err := json.Unmarshal(data, &dishes); err != nil {
			return nil, false
		}
		catalog[t] = dishes
	}
	return catalog, true
}
